package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/attachment"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/id"
	"github.com/wael7705/khawam-pro-sub000/middleware"
	"github.com/wael7705/khawam-pro-sub000/order"
	"github.com/wael7705/khawam-pro-sub000/schema"
	"github.com/wael7705/khawam-pro-sub000/service"
)

// AttachmentKeys are the specification keys whose values are normalized as
// attachment lists.
var AttachmentKeys = []string{"files", "attachments", "uploaded_files", "documents", "images"}

// OrderCreator sends an assembled order. *client.Client implements it.
type OrderCreator interface {
	CreateOrder(ctx context.Context, sub *order.Submission) (*order.Result, error)
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithRegistry sets the service handler registry consulted for
// service-specific payload shapes.
func WithRegistry(r *service.Registry) Option {
	return func(a *Assembler) { a.registry = r }
}

// WithCodec sets the attachment codec. Sharing one codec across a wizard
// keeps file_keys stable between renders and submission.
func WithCodec(c *attachment.Codec) Option {
	return func(a *Assembler) { a.codec = c }
}

// WithMiddleware sets the middleware chain wrapped around CreateOrder.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(a *Assembler) { a.mws = mws }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// Assembler builds and submits orders.
type Assembler struct {
	creator  OrderCreator
	registry *service.Registry
	codec    *attachment.Codec
	mws      []middleware.Middleware
	logger   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewAssembler creates an Assembler sending through creator.
func NewAssembler(creator OrderCreator, opts ...Option) *Assembler {
	a := &Assembler{
		creator:  creator,
		logger:   slog.Default(),
		inFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.codec == nil {
		a.codec = attachment.NewCodec(attachment.WithLogger(a.logger))
	}
	return a
}

// Codec returns the attachment codec used for serialization.
func (a *Assembler) Codec() *attachment.Codec { return a.codec }

// Build assembles the submission for svc from the form state and the
// already-serialized attachments.
func (a *Assembler) Build(ctx context.Context, svc schema.Service, st *form.Store, files []attachment.Attachment) (*order.Submission, error) {
	fields := st.Fields()

	var items []order.Item
	if p, ok := a.registry.Preparer(svc); ok {
		prepared, err := p.PrepareSubmission(ctx, svc, st, files)
		if err != nil {
			return nil, fmt.Errorf("orderflow/submission: prepare %s: %w", svc.Key(), err)
		}
		if prepared != nil {
			items = prepared.Items
			if len(items) == 0 {
				specs := prepared.Specifications
				if specs == nil {
					specs = Specifications(fields, len(files))
				}
				items = []order.Item{newItem(svc, fields, specs, files)}
			}
		}
	}
	if items == nil {
		items = []order.Item{newItem(svc, fields, Specifications(fields, len(files)), files)}
	}

	// Tagged files first so partial entries can merge by location.
	bases := append(slices.Clone(files), a.codec.Bases()...)
	for i := range items {
		items[i].DesignFiles = a.normalizeList(toEntries(items[i].DesignFiles), bases)
		items[i].Specifications = a.normalizeSpecs(items[i].Specifications, bases)
		if _, ok := items[i].Specifications["files_count"]; ok {
			items[i].Specifications["files_count"] = len(items[i].DesignFiles)
		}
		if items[i].ServiceName == "" {
			items[i].ServiceName = svc.Name
		}
		if items[i].ServiceID == "" {
			items[i].ServiceID = svc.ID
		}
	}

	return &order.Submission{
		Customer: order.Customer{
			Name:     fields.Customer.Name,
			Phone:    fields.Customer.Phone,
			WhatsApp: fields.Customer.WhatsApp,
			ShopName: fields.Customer.ShopName,
		},
		Delivery: order.Delivery{
			Type:      string(fields.Delivery.Type),
			Address:   fields.Delivery.Address,
			Latitude:  fields.Delivery.Latitude,
			Longitude: fields.Delivery.Longitude,
			Notes:     fields.Delivery.Notes,
		},
		Items: items,
		Notes: fields.Notes,
	}, nil
}

// Serialize encodes every file held by the store, tagged with its role.
func (a *Assembler) Serialize(ctx context.Context, st *form.Store) ([]attachment.Attachment, error) {
	placed := st.Files()
	items := make([]attachment.Item, len(placed))
	for i, p := range placed {
		items[i] = attachment.Item{File: p.File, Tags: p.Tags()}
	}
	return a.codec.SerializeAll(ctx, items)
}

// Submit serializes, builds and sends the order of wizard wid. A call made
// while another submission of the same wizard is pending returns
// orderflow.ErrSubmissionInFlight without sending anything.
func (a *Assembler) Submit(ctx context.Context, wid id.WizardID, svc schema.Service, st *form.Store) (*order.Result, error) {
	key := wid.String()
	if !a.acquire(key) {
		return nil, orderflow.ErrSubmissionInFlight
	}
	defer a.release(key)

	files, err := a.Serialize(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("orderflow/submission: %w: %w", orderflow.ErrSubmissionFailed, err)
	}
	sub, err := a.Build(ctx, svc, st, files)
	if err != nil {
		return nil, fmt.Errorf("orderflow/submission: %w: %w", orderflow.ErrSubmissionFailed, err)
	}
	sub.WizardID = wid

	var res *order.Result
	send := func(ctx context.Context) error {
		if a.creator == nil {
			return errors.New("no order creator configured")
		}
		r, err := a.creator.CreateOrder(ctx, sub)
		if err != nil {
			return err
		}
		if r == nil {
			return errors.New("empty create-order response")
		}
		if !r.Success {
			return errors.New("order was not accepted")
		}
		res = r
		return nil
	}
	if err := middleware.Chain(a.mws...)(ctx, sub, send); err != nil {
		return nil, fmt.Errorf("orderflow/submission: %w: %w", orderflow.ErrSubmissionFailed, err)
	}

	a.logger.Info("order placed",
		slog.String("wizard_id", key),
		slog.String("service", svc.Key()),
		slog.String("order_id", res.Order.ID),
		slog.String("order_number", res.Order.OrderNumber),
	)
	return res, nil
}

// InFlight reports whether a submission of wizard wid is pending.
func (a *Assembler) InFlight(wid id.WizardID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.inFlight[wid.String()]
	return ok
}

func (a *Assembler) acquire(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, busy := a.inFlight[key]; busy {
		return false
	}
	a.inFlight[key] = struct{}{}
	return true
}

func (a *Assembler) release(key string) {
	a.mu.Lock()
	delete(a.inFlight, key)
	a.mu.Unlock()
}

func (a *Assembler) normalizeSpecs(specs map[string]any, bases []attachment.Attachment) map[string]any {
	if specs == nil {
		return map[string]any{}
	}
	for _, k := range AttachmentKeys {
		v, ok := specs[k]
		if !ok || v == nil {
			continue
		}
		specs[k] = a.normalizeList(asEntries(v), bases)
	}
	return specs
}

func (a *Assembler) normalizeList(entries []any, bases []attachment.Attachment) []attachment.Attachment {
	return attachment.NormalizeAll(entries, bases, a.logger)
}

func newItem(svc schema.Service, f form.Fields, specs map[string]any, files []attachment.Attachment) order.Item {
	return order.Item{
		ServiceID:      svc.ID,
		ServiceName:    svc.Name,
		Quantity:       max(f.Quantity, 1),
		Specifications: specs,
		DesignFiles:    files,
	}
}

func toEntries(files []attachment.Attachment) []any {
	out := make([]any, len(files))
	for i, f := range files {
		out[i] = f
	}
	return out
}

// asEntries flattens the shapes handlers put under attachment keys into a
// list of normalizable entries.
func asEntries(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []attachment.Attachment:
		return toEntries(t)
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = maps.Clone(m)
		}
		return out
	default:
		return []any{t}
	}
}
