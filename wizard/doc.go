// Package wizard wires the orderflow subsystems together and exposes the
// order wizard itself.
//
// An [Engine] is built once from an orderflow handle. It owns the step
// schema loader, the step dispatcher, the service handler registry, the
// resume manager and its sweeper, the order submission pipeline and the
// extension registry. [Engine.Open] returns a [Wizard]: one state machine
// per opened order form.
//
// # Building an Engine
//
//	of, err := orderflow.New(
//	    orderflow.WithBaseURL("https://api.example.com"),
//	    orderflow.WithStore(redisStore),
//	)
//
//	eng, err := wizard.Build(of,
//	    wizard.WithService(clothingHandler, "clothing", "7"),
//	    wizard.WithExtension(audithook.New(recorder)),
//	)
//	_ = eng.Start(ctx)
//	defer eng.Stop(ctx)
//
// # Driving a Wizard
//
//	w, err := eng.Open(ctx, schema.Service{ID: "7", Name: "Hoodies"})
//	set, err := w.Render(ctx)            // fields of the current step
//	w.Form().SetQuantity(3)
//	outcome, err := w.Advance(ctx)      // validate, then move or submit
//
// Open restores a cached snapshot before returning when the reopen signal
// names the same service, so the first Render already shows the resumed
// step. Leaving the wizard to pick a delivery location goes through
// [Wizard.LeaveForLocationPick], which saves the snapshot and sets the
// reopen signal.
package wizard
