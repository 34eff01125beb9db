package apper

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection is a typed view over one table of the record API.
type Collection[T any] struct {
	client *Client
	table  string
	fields []string
	order  []OrderBy
}

func NewCollection[T any](client *Client, table string, fields []string, order ...OrderBy) *Collection[T] {
	return &Collection[T]{client: client, table: table, fields: fields, order: order}
}

func (col *Collection[T]) Table() string { return col.table }

// Query fetches the records matching where, falling back to the default order.
func (col *Collection[T]) Query(ctx context.Context, where []Where, order []OrderBy) ([]T, error) {
	if order == nil {
		order = col.order
	}
	var records []T
	err := col.client.Fetch(ctx, col.table, Query{Fields: col.fields, Where: where, OrderBy: order}, &records)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (col *Collection[T]) List(ctx context.Context) ([]T, error) {
	return col.Query(ctx, nil, nil)
}

func (col *Collection[T]) Get(ctx context.Context, id int64) (*T, error) {
	var record T
	if err := col.client.Get(ctx, col.table, id, col.fields, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts one record. The id and unset fields are not sent.
func (col *Collection[T]) Create(ctx context.Context, record *T) (*T, error) {
	payload, err := toRecord(record)
	if err != nil {
		return nil, fmt.Errorf("apper create %s: %w", col.table, err)
	}
	delete(payload, "Id")

	results, err := col.client.Create(ctx, col.table, []map[string]any{payload})
	if err != nil {
		return nil, err
	}
	return col.first("create", results)
}

// Update applies a partial update and returns the server's copy of the record.
func (col *Collection[T]) Update(ctx context.Context, id int64, patch map[string]any) (*T, error) {
	payload := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		payload[k] = v
	}
	payload["Id"] = id

	results, err := col.client.Update(ctx, col.table, []map[string]any{payload})
	if err != nil {
		return nil, err
	}
	return col.first("update", results)
}

func (col *Collection[T]) Delete(ctx context.Context, id int64) error {
	results, err := col.client.Delete(ctx, col.table, []int64{id})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}
	if !results[0].Success {
		return &APIError{Table: col.table, Op: "delete", Message: results[0].Message}
	}
	return nil
}

func (col *Collection[T]) first(op string, results []Result) (*T, error) {
	if len(results) == 0 {
		return nil, &APIError{Table: col.table, Op: op, Message: "empty result set"}
	}
	res := results[0]
	if !res.Success {
		return nil, &APIError{Table: col.table, Op: op, Message: res.Message, Fields: res.Errors}
	}
	var record T
	if len(res.Data) > 0 && string(res.Data) != "null" {
		if err := json.Unmarshal(res.Data, &record); err != nil {
			return nil, fmt.Errorf("apper %s %s: decode: %w", op, col.table, err)
		}
	}
	return &record, nil
}

// toRecord flattens a typed record into the field map the API expects,
// dropping null values.
func toRecord(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	for k, val := range out {
		if val == nil {
			delete(out, k)
		}
	}
	return out, nil
}
