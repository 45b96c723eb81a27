// Package netx has the small HTTP helpers shared by the API client and the
// share stores.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id so server logs can be matched to
// client logs.
const RequestIDHeader = "X-Request-Id"

// maxBody bounds how much of a response is read into memory.
const maxBody = 4 << 20

// Response is a fully read HTTP response.
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	RequestID string
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// DoJSON sends method to url with body encoded as JSON (nil sends no body)
// and reads the whole response. Only transport failures are returned as
// errors; any HTTP status is a valid Response.
func DoJSON(ctx context.Context, c *http.Client, method, url string, body any) (*Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: b, RequestID: id}, nil
}

// UploadToPresignedURL PUTs data to a presigned object URL.
func UploadToPresignedURL(ctx context.Context, c *http.Client, url, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
