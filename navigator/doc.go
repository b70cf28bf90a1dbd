// Package navigator drives a wizard through its steps.
//
// A [Controller] is a state machine over the states 1..N plus a terminal
// submitted state. Advancing validates the current step first; retreating
// never validates. Advancing from the last step, or from a customer info
// step configured to skip the invoice, hands off to the submitter instead
// of moving forward.
package navigator
