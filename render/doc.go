// Package render maps a workflow step to the field set presented for it.
//
// A [Dispatcher] first offers the step to the service handler registered
// for the current service. When there is none, or the handler declines by
// returning a nil set, the generic builder for the step type runs. Generic
// builders read only the config keys of their own type and tolerate any of
// them being absent or oddly encoded; coercion happens once in
// [schema.Step.Typed].
package render
