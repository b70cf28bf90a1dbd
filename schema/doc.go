// Package schema defines the workflow step model: the ordered list of
// steps a service's order wizard walks through, each tagged with a step
// type and carrying an open-ended configuration map.
//
// Configuration arrives from a remote collaborator with arbitrary keys and
// mixed boolean encodings. [Step.Typed] decodes it once into a per-type
// struct, so the rest of the engine never inspects raw maps. [Truthy] is
// the single boolean coercion.
//
// # Loading
//
// [Loader.Load] fetches a service's steps, falls back to [DefaultSteps]
// when the remote list is empty or unavailable, provisions known service
// families whose step count is off, and drops the step types a family
// cannot use before renumbering the survivors 1..N.
package schema
