package attachment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wael7705/khawam-pro-sub000/attachment"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingFile records how many times its content was opened.
type countingFile struct {
	attachment.MemFile
	opens atomic.Int32
}

func (c *countingFile) Open() (io.ReadCloser, error) {
	c.opens.Add(1)
	time.Sleep(5 * time.Millisecond)
	return c.MemFile.Open()
}

type failingFile struct{ attachment.MemFile }

func (failingFile) Open() (io.ReadCloser, error) { return nil, errors.New("read denied") }

var modTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newMem(name, data string) *attachment.MemFile {
	return &attachment.MemFile{FileName: name, Data: []byte(data), Modified: modTime}
}

func TestSignatureKey(t *testing.T) {
	t.Parallel()
	f := newMem("logo.png", "abc")
	sig := attachment.SignatureOf(f)
	want := "logo.png-3-" + "1772359200000"
	if got := sig.Key(); got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestSerialize_DataURI(t *testing.T) {
	t.Parallel()
	c := attachment.NewCodec(attachment.WithLogger(testLogger()))
	f := newMem("note.txt", "hi")
	f.MIME = "text/plain"
	a, err := c.Serialize(context.Background(), f)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !strings.HasPrefix(a.URL, "data:text/plain;base64,") {
		t.Errorf("URL = %q, want text/plain data URI", a.URL)
	}
	if !strings.HasSuffix(a.URL, ";base64,aGk=") {
		t.Errorf("URL = %q, want base64 payload aGk=", a.URL)
	}
	if a.SizeInBytes != 2 {
		t.Errorf("SizeInBytes = %d, want 2", a.SizeInBytes)
	}
	if a.Filename != "note.txt" {
		t.Errorf("Filename = %q", a.Filename)
	}
}

func TestSerialize_DedupeIdempotence(t *testing.T) {
	t.Parallel()
	c := attachment.NewCodec(attachment.WithLogger(testLogger()))
	ctx := context.Background()
	f := &countingFile{MemFile: *newMem("design.pdf", "%PDF-1.4")}

	front, err := c.Serialize(ctx, f, attachment.WithLocation("front"), attachment.WithSource(attachment.SourceClothing))
	if err != nil {
		t.Fatalf("first Serialize: %v", err)
	}
	// Same signature through a different handle.
	same := &countingFile{MemFile: *newMem("design.pdf", "%PDF-1.4")}
	back, err := c.Serialize(ctx, same, attachment.WithLocation("back"))
	if err != nil {
		t.Fatalf("second Serialize: %v", err)
	}

	if front.FileKey != back.FileKey {
		t.Errorf("file keys differ: %q vs %q", front.FileKey, back.FileKey)
	}
	if front.URL != back.URL {
		t.Error("urls differ for the same file")
	}
	if front.Location != "front" || back.Location != "back" {
		t.Errorf("locations = %q, %q", front.Location, back.Location)
	}
	if front.Source != attachment.SourceClothing || back.Source != "" {
		t.Errorf("sources = %q, %q", front.Source, back.Source)
	}
	if f.opens.Load()+same.opens.Load() != 1 {
		t.Errorf("expected one encode, got %d", f.opens.Load()+same.opens.Load())
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if base, ok := c.Lookup(front.FileKey); !ok || base.Location != "" {
		t.Error("registered base should be untagged")
	}
}

func TestSerialize_ConcurrentSameSignatureEncodesOnce(t *testing.T) {
	t.Parallel()
	c := attachment.NewCodec(attachment.WithLogger(testLogger()))
	f := &countingFile{MemFile: *newMem("poster.png", strings.Repeat("x", 4096))}

	var wg sync.WaitGroup
	keys := make([]string, 16)
	for i := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := c.Serialize(context.Background(), f)
			if err != nil {
				t.Errorf("Serialize: %v", err)
				return
			}
			keys[i] = a.FileKey
		}()
	}
	wg.Wait()

	if n := f.opens.Load(); n != 1 {
		t.Errorf("opens = %d, want 1", n)
	}
	for _, k := range keys {
		if k != keys[0] {
			t.Fatalf("keys differ: %q vs %q", k, keys[0])
		}
	}
}

func TestSerializeAll_PreservesOrder(t *testing.T) {
	t.Parallel()
	c := attachment.NewCodec(attachment.WithLogger(testLogger()), attachment.WithConcurrency(2))
	items := []attachment.Item{
		{File: newMem("a.png", "a")},
		{File: newMem("b.png", "bb"), Tags: []attachment.Tag{attachment.WithLocation("sleeve")}},
		{File: newMem("a.png", "a"), Tags: []attachment.Tag{attachment.WithLocation("back")}},
	}
	out, err := c.SerializeAll(context.Background(), items)
	if err != nil {
		t.Fatalf("SerializeAll: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[0].Filename != "a.png" || out[1].Filename != "b.png" || out[2].Filename != "a.png" {
		t.Errorf("order not preserved: %+v", out)
	}
	if out[1].Location != "sleeve" || out[2].Location != "back" {
		t.Errorf("tags not applied: %q %q", out[1].Location, out[2].Location)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if len(c.Bases()) != 2 {
		t.Errorf("Bases() = %d, want 2", len(c.Bases()))
	}
}

func TestSerialize_OpenError(t *testing.T) {
	t.Parallel()
	c := attachment.NewCodec(attachment.WithLogger(testLogger()))
	_, err := c.Serialize(context.Background(), &failingFile{*newMem("x.pdf", "1")})
	if err == nil {
		t.Fatal("expected error")
	}
	if c.Len() != 0 {
		t.Error("failed encode must not be registered")
	}
}

func TestSerialize_CanceledContext(t *testing.T) {
	t.Parallel()
	c := attachment.NewCodec(attachment.WithLogger(testLogger()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Serialize(ctx, newMem("x.pdf", "1")); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()
	c := attachment.NewCodec(attachment.WithLogger(testLogger()))
	if _, err := c.Serialize(context.Background(), newMem("x.pdf", "1")); err != nil {
		t.Fatal(err)
	}
	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Len() after Reset = %d", c.Len())
	}
}
