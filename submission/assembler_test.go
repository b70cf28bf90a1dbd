package submission_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/attachment"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/id"
	"github.com/wael7705/khawam-pro-sub000/middleware"
	"github.com/wael7705/khawam-pro-sub000/order"
	"github.com/wael7705/khawam-pro-sub000/schema"
	"github.com/wael7705/khawam-pro-sub000/service"
	"github.com/wael7705/khawam-pro-sub000/submission"
)

type fakeCreator struct {
	mu    sync.Mutex
	subs  []*order.Submission
	err   error
	block chan struct{}
}

func (f *fakeCreator) CreateOrder(_ context.Context, sub *order.Submission) (*order.Result, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.subs = append(f.subs, sub)
	return &order.Result{Success: true, Order: order.Placed{ID: "42", OrderNumber: "ORD-42"}}, nil
}

func (f *fakeCreator) sent() []*order.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs
}

func testFile(name string) *attachment.MemFile {
	return &attachment.MemFile{
		FileName: name,
		Data:     []byte("%PDF-1.4 design"),
		Modified: time.UnixMilli(1700000000000),
		MIME:     "application/pdf",
	}
}

func scenarioStore(f attachment.File) *form.Store {
	st := form.NewStore()
	st.SetQuantity(3)
	st.AddFile(f, "", "")
	st.SetDimensions("10", "20")
	st.AddColor("#ff0000")
	st.AddColor("#00ff00")
	st.SetCustomer(form.Customer{Name: "Omar", Phone: "0911111111"})
	st.SetDeliveryType(form.DeliverySelf)
	return st
}

func TestSubmit_EndToEnd(t *testing.T) {
	t.Parallel()

	creator := &fakeCreator{}
	a := submission.NewAssembler(creator)
	file := testFile("poster.pdf")
	svc := schema.Service{ID: "7", Name: "Posters"}

	res, err := a.Submit(context.Background(), id.NewWizardID(), svc, scenarioStore(file))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Order.OrderNumber != "ORD-42" {
		t.Fatalf("order number = %q", res.Order.OrderNumber)
	}

	subs := creator.sent()
	if len(subs) != 1 {
		t.Fatalf("sent %d submissions, want 1", len(subs))
	}
	sub := subs[0]
	if sub.Customer.Name != "Omar" || sub.Customer.Phone != "0911111111" || sub.Delivery.Type != "self" {
		t.Errorf("customer/delivery = %+v %+v", sub.Customer, sub.Delivery)
	}
	if len(sub.Items) != 1 {
		t.Fatalf("items = %d", len(sub.Items))
	}
	item := sub.Items[0]
	specs := item.Specifications

	if specs["quantity"] != 3 {
		t.Errorf("quantity = %v", specs["quantity"])
	}
	dims, ok := specs["dimensions"].(map[string]any)
	if !ok || dims["width"] != "10" || dims["height"] != "20" {
		t.Errorf("dimensions = %v", specs["dimensions"])
	}
	colors, ok := specs["colors"].([]string)
	if !ok || len(colors) != 2 {
		t.Errorf("colors = %v", specs["colors"])
	}
	if specs["files_count"] != 1 {
		t.Errorf("files_count = %v", specs["files_count"])
	}

	if len(item.DesignFiles) != 1 {
		t.Fatalf("design_files = %d", len(item.DesignFiles))
	}
	want := attachment.SignatureOf(file).Key()
	if item.DesignFiles[0].FileKey != want {
		t.Errorf("file_key = %q, want %q", item.DesignFiles[0].FileKey, want)
	}
	if item.DesignFiles[0].Source != attachment.SourceUploaded {
		t.Errorf("source = %q", item.DesignFiles[0].Source)
	}
}

type clothingHandler struct {
	items bool
}

func (clothingHandler) Name() string { return "clothing" }

func (h clothingHandler) PrepareSubmission(_ context.Context, svc schema.Service, _ *form.Store, files []attachment.Attachment) (*service.Prepared, error) {
	specs := map[string]any{
		"placements": []string{"front"},
		"images": []any{
			map[string]any{"location": "front"},
			"",
			"logo.png",
		},
	}
	p := &service.Prepared{Specifications: specs}
	if h.items {
		p.Items = []order.Item{{Quantity: 2, Specifications: specs, DesignFiles: files}}
	}
	return p, nil
}

func TestBuild_HandlerSpecifications(t *testing.T) {
	t.Parallel()

	reg := service.NewRegistry()
	reg.Register(clothingHandler{}, "hoodies")
	a := submission.NewAssembler(&fakeCreator{}, submission.WithRegistry(reg))
	svc := schema.Service{Name: "Hoodies"}

	st := form.NewStore()
	st.AddFile(testFile("front.png"), "front", attachment.SourceClothing)

	ctx := context.Background()
	files, err := a.Serialize(ctx, st)
	if err != nil {
		t.Fatal(err)
	}
	sub, err := a.Build(ctx, svc, st, files)
	if err != nil {
		t.Fatal(err)
	}

	item := sub.Items[0]
	if item.ServiceName != "Hoodies" || item.Quantity != 1 {
		t.Errorf("item = %+v", item)
	}
	if _, ok := item.Specifications["quantity"]; ok {
		t.Error("handler specifications were merged with the generic shape")
	}

	images, ok := item.Specifications["images"].([]attachment.Attachment)
	if !ok {
		t.Fatalf("images = %T", item.Specifications["images"])
	}
	if len(images) != 2 {
		t.Fatalf("images = %+v, want 2 (empty entry dropped)", images)
	}
	if images[0].FileKey != files[0].FileKey || images[0].URL != files[0].URL {
		t.Errorf("partial entry not merged with base: %+v", images[0])
	}
	if images[1].URL != attachment.UploadPrefix+"logo.png" {
		t.Errorf("bare filename url = %q", images[1].URL)
	}
	for _, att := range sub.Items[0].DesignFiles {
		if !att.Resolvable() {
			t.Errorf("unresolvable design file %+v", att)
		}
	}
}

func TestBuild_HandlerItems(t *testing.T) {
	t.Parallel()

	reg := service.NewRegistry()
	reg.Register(clothingHandler{items: true}, "hoodies")
	a := submission.NewAssembler(&fakeCreator{}, submission.WithRegistry(reg))

	sub, err := a.Build(context.Background(), schema.Service{ID: "9", Name: "Hoodies"}, form.NewStore(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Items) != 1 || sub.Items[0].Quantity != 2 {
		t.Fatalf("items = %+v", sub.Items)
	}
	if sub.Items[0].ServiceID != "9" || sub.Items[0].ServiceName != "Hoodies" {
		t.Errorf("service fields not filled: %+v", sub.Items[0])
	}
}

func TestSubmit_InFlightGuard(t *testing.T) {
	t.Parallel()

	creator := &fakeCreator{block: make(chan struct{})}
	a := submission.NewAssembler(creator)
	wid := id.NewWizardID()
	svc := schema.Service{Name: "Posters"}

	done := make(chan error, 1)
	go func() {
		_, err := a.Submit(context.Background(), wid, svc, form.NewStore())
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !a.InFlight(wid) {
		if time.Now().After(deadline) {
			t.Fatal("first submission never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := a.Submit(context.Background(), wid, svc, form.NewStore()); !errors.Is(err, orderflow.ErrSubmissionInFlight) {
		t.Fatalf("second Submit err = %v, want ErrSubmissionInFlight", err)
	}

	close(creator.block)
	if err := <-done; err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if n := len(creator.sent()); n != 1 {
		t.Fatalf("sent %d, want 1", n)
	}
	if a.InFlight(wid) {
		t.Error("guard not released")
	}
}

func TestSubmit_FailureWrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("status 500")
	var seen bool
	mw := func(ctx context.Context, _ *order.Submission, next middleware.Handler) error {
		seen = true
		return next(ctx)
	}
	a := submission.NewAssembler(&fakeCreator{err: cause}, submission.WithMiddleware(mw))

	_, err := a.Submit(context.Background(), id.NewWizardID(), schema.Service{Name: "x"}, form.NewStore())
	if !errors.Is(err, orderflow.ErrSubmissionFailed) || !errors.Is(err, cause) {
		t.Fatalf("err = %v", err)
	}
	if !seen {
		t.Error("middleware not invoked")
	}
	if orderflow.Kind(err) != "submission_failed" {
		t.Errorf("kind = %q", orderflow.Kind(err))
	}
}

func TestSpecifications_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields form.Fields
		files  int
		want   map[string]any
		absent []string
	}{
		{
			name:   "minimal",
			fields: form.Fields{Quantity: 0},
			want:   map[string]any{"quantity": 1},
			absent: []string{"dimensions", "colors", "files_count", "pages", "lamination"},
		},
		{
			name: "print options",
			fields: form.Fields{
				Quantity: 2,
				Pages:    12,
				Print:    form.PrintOptions{PaperSize: "A4", PrintColor: "bw", Lamination: true},
			},
			files: 3,
			want: map[string]any{
				"quantity": 2, "pages": 12, "paper_size": "A4",
				"print_color": "bw", "lamination": true, "files_count": 3,
			},
		},
		{
			name: "extra does not override",
			fields: form.Fields{
				Quantity: 4,
				Extra:    map[string]any{"quantity": 99, "fabric": "cotton"},
			},
			want: map[string]any{"quantity": 4, "fabric": "cotton"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := submission.Specifications(tt.fields, tt.files)
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %v, want %v", k, got[k], v)
				}
			}
			for _, k := range tt.absent {
				if _, ok := got[k]; ok {
					t.Errorf("%s present: %v", k, got[k])
				}
			}
		})
	}
}

func TestSubmit_SameFileInTwoRoles(t *testing.T) {
	t.Parallel()

	creator := &fakeCreator{}
	a := submission.NewAssembler(creator)
	file := testFile("logo.pdf")
	st := form.NewStore()
	st.AddFile(file, "", attachment.SourcePrimary)
	st.AddFile(file, "", attachment.SourceClothing)

	if _, err := a.Submit(context.Background(), id.NewWizardID(), schema.Service{Name: "Posters"}, st); err != nil {
		t.Fatal(err)
	}
	item := creator.sent()[0].Items[0]
	if len(item.DesignFiles) != 2 {
		t.Fatalf("design_files = %+v", item.DesignFiles)
	}
	if item.DesignFiles[0].FileKey != item.DesignFiles[1].FileKey {
		t.Error("roles do not share one encoded file")
	}
	if item.DesignFiles[0].Source != attachment.SourcePrimary || item.DesignFiles[1].Source != attachment.SourceClothing {
		t.Errorf("sources = %q, %q", item.DesignFiles[0].Source, item.DesignFiles[1].Source)
	}
	if item.Specifications["files_count"] != 2 {
		t.Errorf("files_count = %v", item.Specifications["files_count"])
	}
}

type creatorFunc func(context.Context, *order.Submission) (*order.Result, error)

func (f creatorFunc) CreateOrder(ctx context.Context, sub *order.Submission) (*order.Result, error) {
	return f(ctx, sub)
}

func TestSubmit_NilResult(t *testing.T) {
	t.Parallel()

	empty := creatorFunc(func(context.Context, *order.Submission) (*order.Result, error) { return nil, nil })
	a := submission.NewAssembler(empty)

	_, err := a.Submit(context.Background(), id.NewWizardID(), schema.Service{Name: "x"}, form.NewStore())
	if !errors.Is(err, orderflow.ErrSubmissionFailed) {
		t.Fatalf("err = %v", err)
	}
}
