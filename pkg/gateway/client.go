// Package gateway provides the HTTP client the conversation store uses to
// reach the prompt gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/docdesk/docdesk/pkg/domain"
	"github.com/docdesk/docdesk/pkg/workspace"
)

// Client talks to the prompt gateway over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// Verify interface compliance.
var _ workspace.Gateway = (*Client)(nil)

// New creates a client for the gateway at baseURL (e.g. http://localhost:3001).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

type askRequest struct {
	Documents []domain.DocumentRef `json:"documents"`
	Question  string               `json:"question"`
	History   []domain.Turn        `json:"history"`
	DeptType  string               `json:"deptType"`
}

type askResponse struct {
	Text string `json:"text"`
}

type suggestRequest struct {
	Documents []domain.DocumentRef `json:"documents"`
	DeptType  string               `json:"deptType"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Ask relays a grounded question and returns the model's reply text.
func (c *Client) Ask(ctx context.Context, docs []domain.DocumentRef, question string, history []domain.Turn, dept domain.DepartmentType) (string, error) {
	var out askResponse
	err := c.post(ctx, "/api/ask", askRequest{
		Documents: docs,
		Question:  question,
		History:   history,
		DeptType:  string(dept),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

// Suggest returns candidate follow-up questions for the document set.
func (c *Client) Suggest(ctx context.Context, docs []domain.DocumentRef, dept domain.DepartmentType) ([]string, error) {
	var out suggestResponse
	err := c.post(ctx, "/api/suggest", suggestRequest{
		Documents: docs,
		DeptType:  string(dept),
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		// The gateway returns structured {error} payloads; surface them.
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return fmt.Errorf("gateway error (%d): %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("gateway error (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return json.Unmarshal(data, out)
}
