package attachment

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) { c.logger = l }
}

// WithConcurrency caps the number of files SerializeAll encodes at once.
func WithConcurrency(n int) Option {
	return func(c *Codec) { c.concurrency = n }
}

// Codec serializes files into attachments. Each distinct signature is
// encoded once; concurrent requests for the same signature share one
// encode. It is safe for concurrent use.
type Codec struct {
	mu    sync.RWMutex
	seen  map[string]Attachment // file_key → untagged base
	order []string
	group singleflight.Group

	concurrency int
	logger      *slog.Logger
}

// NewCodec creates a Codec with an empty dedupe table.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		seen:        make(map[string]Attachment),
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Serialize returns the attachment for f. A file whose signature was
// already serialized is not re-encoded; the cached attachment is returned
// with the requested tags applied.
func (c *Codec) Serialize(ctx context.Context, f File, tags ...Tag) (Attachment, error) {
	key := SignatureOf(f).Key()
	if base, ok := c.Lookup(key); ok {
		return base.tagged(tags), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if base, ok := c.Lookup(key); ok {
			return base, nil
		}
		base, encErr := encode(ctx, f, key)
		if encErr != nil {
			return Attachment{}, encErr
		}
		c.mu.Lock()
		if _, exists := c.seen[key]; !exists {
			c.seen[key] = base
			c.order = append(c.order, key)
		}
		c.mu.Unlock()
		c.logger.Debug("attachment encoded",
			slog.String("file_key", key),
			slog.Int64("size", base.SizeInBytes),
		)
		return base, nil
	})
	if err != nil {
		return Attachment{}, fmt.Errorf("orderflow/attachment: serialize %q: %w", f.Name(), err)
	}
	return v.(Attachment).tagged(tags), nil
}

// Item is one file plus the tags to apply to its attachment.
type Item struct {
	File File
	Tags []Tag
}

// SerializeAll serializes items concurrently and returns attachments in
// input order.
func (c *Codec) SerializeAll(ctx context.Context, items []Item) ([]Attachment, error) {
	out := make([]Attachment, len(items))
	g, gctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}
	for i, it := range items {
		g.Go(func() error {
			a, err := c.Serialize(gctx, it.File, it.Tags...)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Lookup returns the untagged attachment registered for a file_key.
func (c *Codec) Lookup(key string) (Attachment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.seen[key]
	return a, ok
}

// Bases returns every serialized attachment in registration order.
func (c *Codec) Bases() []Attachment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Attachment, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.seen[k])
	}
	return out
}

// Len returns the number of distinct files encoded so far.
func (c *Codec) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.seen)
}

// Reset clears the dedupe table.
func (c *Codec) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = make(map[string]Attachment)
	c.order = nil
}

func encode(ctx context.Context, f File, key string) (Attachment, error) {
	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}
	rc, err := f.Open()
	if err != nil {
		return Attachment{}, err
	}
	defer rc.Close()

	mimeType := contentType(f.Name(), f.ContentType())
	var sb strings.Builder
	sb.WriteString("data:")
	sb.WriteString(mimeType)
	sb.WriteString(";base64,")
	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	n, err := io.Copy(enc, rc)
	if err != nil {
		return Attachment{}, err
	}
	if err := enc.Close(); err != nil {
		return Attachment{}, err
	}

	return Attachment{
		FileKey:     key,
		Filename:    f.Name(),
		URL:         sb.String(),
		MimeType:    mimeType,
		SizeInBytes: n,
	}, nil
}
