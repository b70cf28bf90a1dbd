package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/wael7705/khawam-pro-sub000/attachment"
	"github.com/wael7705/khawam-pro-sub000/order"
	"github.com/wael7705/khawam-pro-sub000/schema"
)

var (
	_ schema.Source       = (*Client)(nil)
	_ attachment.Analyzer = (*Client)(nil)
)

// wireStep accepts step_config either as an object or as a JSON-encoded
// string.
type wireStep struct {
	Number      int             `json:"step_number"`
	Type        schema.Type     `json:"step_type"`
	Name        string          `json:"step_name"`
	Description string          `json:"step_description"`
	Config      json.RawMessage `json:"step_config"`
}

func (w wireStep) step() (schema.Step, error) {
	s := schema.Step{Number: w.Number, Type: w.Type, Name: w.Name, Description: w.Description}
	raw := bytes.TrimSpace(w.Config)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return s, nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return s, err
		}
		if strings.TrimSpace(inner) == "" {
			return s, nil
		}
		raw = []byte(inner)
	}
	if err := json.Unmarshal(raw, &s.Config); err != nil {
		return s, fmt.Errorf("step %d config: %w", w.Number, err)
	}
	return s, nil
}

// GetWorkflow fetches the workflow steps of a service.
func (c *Client) GetWorkflow(ctx context.Context, serviceID string) ([]schema.Step, error) {
	var resp struct {
		Steps []wireStep `json:"steps"`
	}
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/workflows/service/" + url.PathEscape(serviceID),
		idempotent: true,
		operation:  "get workflow",
	}, &resp)
	if err != nil {
		return nil, err
	}
	steps := make([]schema.Step, 0, len(resp.Steps))
	for _, w := range resp.Steps {
		s, err := w.step()
		if err != nil {
			return nil, fmt.Errorf("orderflow/client: get workflow: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// ProvisionWorkflow asks the backend to (re)create the workflow of a
// service family. It is never retried.
func (c *Client) ProvisionWorkflow(ctx context.Context, family string) (bool, error) {
	var resp struct {
		Success bool `json:"success"`
	}
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/workflows/provision/" + url.PathEscape(family),
		operation: "provision workflow",
	}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

// AnalyzeFiles uploads files for page counting and returns the total.
func (c *Client) AnalyzeFiles(ctx context.Context, files []attachment.File) (int, error) {
	var resp struct {
		TotalPages int `json:"total_pages"`
	}
	err := c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/files/analyze",
		body:       multipartFiles(files),
		idempotent: true,
		operation:  "analyze files",
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.TotalPages, nil
}

func multipartFiles(files []attachment.File) func() (io.Reader, string, error) {
	return func() (io.Reader, string, error) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for _, f := range files {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.Name()))
			ct := f.ContentType()
			if ct == "" {
				ct = "application/octet-stream"
			}
			h.Set("Content-Type", ct)
			part, err := mw.CreatePart(h)
			if err != nil {
				return nil, "", err
			}
			rc, err := f.Open()
			if err != nil {
				return nil, "", fmt.Errorf("open %s: %w", f.Name(), err)
			}
			_, err = io.Copy(part, rc)
			rc.Close()
			if err != nil {
				return nil, "", fmt.Errorf("read %s: %w", f.Name(), err)
			}
		}
		if err := mw.Close(); err != nil {
			return nil, "", err
		}
		return &buf, mw.FormDataContentType(), nil
	}
}

// flexString decodes a JSON string or number into a string.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(b)
	return nil
}

// CreateOrder submits an order. It is never retried so a slow backend
// cannot produce duplicate orders.
func (c *Client) CreateOrder(ctx context.Context, sub *order.Submission) (*order.Result, error) {
	var resp struct {
		Success bool `json:"success"`
		Order   struct {
			ID          flexString `json:"id"`
			OrderNumber flexString `json:"order_number"`
		} `json:"order"`
	}
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/orders",
		body:      jsonBody(sub),
		operation: "create order",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &order.Result{
		Success: resp.Success,
		Order:   order.Placed{ID: string(resp.Order.ID), OrderNumber: string(resp.Order.OrderNumber)},
	}, nil
}
