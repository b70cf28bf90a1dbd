// Package submission assembles and sends order payloads.
//
// An [Assembler] turns the form state of one wizard into an
// [order.Submission]. A service handler registered in the service registry
// may shape the specifications and line items itself; otherwise a generic
// item is built from the form fields. Every attachment that ends up in the
// payload, whether in design_files or nested in specifications, is passed
// through attachment normalization so no entry without a resolvable
// reference is sent.
//
// Submit serializes the picked files, builds the payload and sends it
// through the configured middleware chain. Only one submission per wizard
// may be in flight; a concurrent call returns orderflow.ErrSubmissionInFlight.
package submission
