// Package orderflow provides a workflow-driven order wizard engine. A remote
// configuration ("workflow") describes, per service, the ordered steps a
// customer walks through; orderflow interprets that schema, gates
// progression with per-step validation, persists and restores form state
// around external detours, and assembles the final order payload with
// de-duplicated attachments.
//
// orderflow is a library, not a service. Import it, configure a cache
// store and the order API base URL, and open wizards through the wizard
// package.
//
// # Quick Start
//
//	of, err := orderflow.New(
//	    orderflow.WithBaseURL("https://api.example.com"),
//	    orderflow.WithStore(memory.New()),
//	)
//	eng, err := wizard.Build(of, wizard.WithRemote(client.New(of.Config().BaseURL)))
//	wz, err := eng.Open(ctx, schema.Service{ID: "12", Name: "Flex printing"}, resume.Signal{})
//
// # Architecture
//
// Each component (schema, form, render, navigator, resume, attachment,
// submission) lives in its own package and depends only on the packages
// below it. The wizard package sits on top and wires a single wizard
// instance together.
//
// All entity IDs use TypeID: type-prefixed, K-sortable, UUIDv7-based
// identifiers.
package orderflow
