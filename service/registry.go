package service

import (
	"strings"
	"sync"

	"github.com/wael7705/khawam-pro-sub000/schema"
)

type entry struct {
	handler   Handler
	renderer  StepRenderer
	validator StepValidator
	preparer  SubmissionPreparer
}

// Registry maps service identifiers to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]*entry)}
}

// Register adds h under each key. Keys are matched case-insensitively
// against the service id and then the service name. A later registration
// for the same key replaces the earlier one.
func (r *Registry) Register(h Handler, keys ...string) {
	e := &entry{handler: h}
	if v, ok := h.(StepRenderer); ok {
		e.renderer = v
	}
	if v, ok := h.(StepValidator); ok {
		e.validator = v
	}
	if v, ok := h.(SubmissionPreparer); ok {
		e.preparer = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		if k = normalize(k); k != "" {
			r.handlers[k] = e
		}
	}
}

func (r *Registry) lookup(svc schema.Service) *entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.handlers[normalize(svc.ID)]; ok && svc.ID != "" {
		return e
	}
	if e, ok := r.handlers[normalize(svc.Name)]; ok && svc.Name != "" {
		return e
	}
	return nil
}

// Handler returns the handler registered for svc.
func (r *Registry) Handler(svc schema.Service) (Handler, bool) {
	if e := r.lookup(svc); e != nil {
		return e.handler, true
	}
	return nil, false
}

// Renderer returns the step renderer registered for svc.
func (r *Registry) Renderer(svc schema.Service) (StepRenderer, bool) {
	if e := r.lookup(svc); e != nil && e.renderer != nil {
		return e.renderer, true
	}
	return nil, false
}

// Validator returns the step validator registered for svc.
func (r *Registry) Validator(svc schema.Service) (StepValidator, bool) {
	if e := r.lookup(svc); e != nil && e.validator != nil {
		return e.validator, true
	}
	return nil, false
}

// Preparer returns the submission preparer registered for svc.
func (r *Registry) Preparer(svc schema.Service) (SubmissionPreparer, bool) {
	if e := r.lookup(svc); e != nil && e.preparer != nil {
		return e.preparer, true
	}
	return nil, false
}

func normalize(k string) string { return strings.ToLower(strings.TrimSpace(k)) }
