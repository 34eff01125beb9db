package apper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

// ErrNotFound is returned by Get when the API has no record for the id.
var ErrNotFound = entity.ErrNotFound

// CallObserver is told about every remote call; used for metrics.
type CallObserver func(table, op string, duration time.Duration, err error)

type Client struct {
	baseURL   string
	projectID string
	publicKey string
	http      *http.Client
	observe   CallObserver
}

func NewClient(baseURL, projectID, publicKey string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		projectID: projectID,
		publicKey: publicKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// WithObserver installs a hook called after each request.
func (c *Client) WithObserver(fn CallObserver) *Client {
	c.observe = fn
	return c
}

// Fetch runs a filtered query and decodes the data array into out.
func (c *Client) Fetch(ctx context.Context, table string, q Query, out any) error {
	env, err := c.do(ctx, table, "fetch", http.MethodPost, c.recordsURL(table)+"/query", q)
	if err != nil {
		return err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("apper fetch %s: decode: %w", table, err)
	}
	return nil
}

// Get loads one record by id.
func (c *Client) Get(ctx context.Context, table string, id int64, fields []string, out any) error {
	url := c.recordsURL(table) + "/" + strconv.FormatInt(id, 10)
	if len(fields) > 0 {
		url += "?fields=" + strings.Join(fields, ",")
	}
	env, err := c.do(ctx, table, "get", http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrNotFound
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("apper get %s: decode: %w", table, err)
	}
	return nil
}

// Create sends records and returns the per-record results.
func (c *Client) Create(ctx context.Context, table string, records []map[string]any) ([]Result, error) {
	env, err := c.do(ctx, table, "create", http.MethodPost, c.recordsURL(table), recordsRequest{Records: records})
	if err != nil {
		return nil, err
	}
	return env.Results, nil
}

// Update sends partial records; each must carry its "Id".
func (c *Client) Update(ctx context.Context, table string, records []map[string]any) ([]Result, error) {
	env, err := c.do(ctx, table, "update", http.MethodPut, c.recordsURL(table), recordsRequest{Records: records})
	if err != nil {
		return nil, err
	}
	return env.Results, nil
}

// Delete removes records by id.
func (c *Client) Delete(ctx context.Context, table string, ids []int64) ([]Result, error) {
	env, err := c.do(ctx, table, "delete", http.MethodDelete, c.recordsURL(table), deleteRequest{RecordIDs: ids})
	if err != nil {
		return nil, err
	}
	return env.Results, nil
}

func (c *Client) recordsURL(table string) string {
	return fmt.Sprintf("%s/tables/%s/records", c.baseURL, table)
}

func (c *Client) do(ctx context.Context, table, op, method, url string, body any) (env *envelope, err error) {
	start := time.Now()
	defer func() {
		if c.observe != nil {
			c.observe(table, op, time.Since(start), err)
		}
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("apper %s %s: marshal: %w", op, table, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apper %s %s: %w", op, table, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apper %s %s: read body: %w", op, table, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Table: table, Op: op, StatusCode: resp.StatusCode}
		var failed envelope
		if json.Unmarshal(raw, &failed) == nil && failed.Message != "" {
			apiErr.Message = failed.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return nil, apiErr
	}

	env = &envelope{}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("apper %s %s: decode envelope: %w", op, table, err)
	}
	if !env.Success {
		return nil, &APIError{Table: table, Op: op, Message: env.Message}
	}
	return env, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Apper-Project-Id", c.projectID)
	req.Header.Set("X-Apper-Public-Key", c.publicKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "leadboard/1.0")
}
