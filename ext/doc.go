// Package ext defines the extension system for orderflow.
//
// Extensions are notified of wizard lifecycle events and can react to
// them by recording metrics or writing audit logs. Each lifecycle hook is
// a separate interface so extensions opt in only to the events they care
// about.
//
// # Implementing an Extension
//
//	type MyExtension struct{}
//
//	func (e *MyExtension) Name() string { return "my-extension" }
//
//	func (e *MyExtension) OnOrderSubmitted(ctx context.Context, w ext.Wizard, res *order.Result, elapsed time.Duration) error {
//	    log.Printf("order %s placed from %s in %s", res.Order.OrderNumber, w.ID, elapsed)
//	    return nil
//	}
//
// # Wizard Lifecycle Hooks
//
//   - [WizardOpened]: a new session started
//   - [WizardResumed]: a cached snapshot was restored
//   - [WizardClosed]: the wizard was closed
//   - [StepAdvanced] and [StepRetreated]: navigation moved
//   - [ValidationFailed]: advancing was blocked
//
// # Other Hooks
//
//   - [SchemaFallback]: default or stale steps were loaded
//   - [CachePurged]: a snapshot was discarded
//   - [OrderSubmitted] and [SubmissionFailed]: the create-order outcome
//   - [Shutdown]: the engine is shutting down
//
// The [Registry] fans out each event to all registered extensions that
// implement the corresponding hook interface.
package ext
