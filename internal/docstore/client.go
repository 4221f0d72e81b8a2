// Package docstore talks to the external document store that owns
// document sources and their processed revisions.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client communicates with the document store HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RetryableError marks a store failure worth retrying (throttling or
// server-side trouble).
type RetryableError struct {
	Status int
	Err    error
}

func (e *RetryableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("docstore: retryable (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("docstore: retryable (status %d)", e.Status)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// Document is a stored document source.
type Document struct {
	ID       string `json:"doc_id"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	Revision int    `json:"revision"`
}

// RevisionRequest is the body for PUT /documents/{id}/revisions.
type RevisionRequest struct {
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
	Report  any    `json:"report,omitempty"`
}

// GetDocument retrieves a document source by ID. Returns nil (no
// error) when the document does not exist.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("get document: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("get document "+id, resp)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// PutRevision stores a new processed revision of a document.
func (c *Client) PutRevision(ctx context.Context, id string, rev RevisionRequest) error {
	body, err := json.Marshal(rev)
	if err != nil {
		return fmt.Errorf("marshal revision: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/documents/"+url.PathEscape(id)+"/revisions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("put revision: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusErr("put revision "+id, resp)
	}
	return nil
}

// DocumentInfo is one entry from a document listing.
type DocumentInfo struct {
	ID       string `json:"doc_id"`
	Name     string `json:"name"`
	Revision int    `json:"revision"`
}

// ListDocuments enumerates stored documents.
func (c *Client) ListDocuments(ctx context.Context, limit int) ([]DocumentInfo, error) {
	u := c.baseURL + "/documents"
	if limit > 0 {
		u += "?limit=" + url.QueryEscape(fmt.Sprintf("%d", limit))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("list documents", resp)
	}

	var result struct {
		Documents []DocumentInfo `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return result.Documents, nil
}

// statusErr turns a non-success response into an error, wrapping
// throttling and server-side statuses as retryable.
func statusErr(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err := fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(body))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{Status: resp.StatusCode, Err: err}
	}
	return err
}

// Close releases any resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
