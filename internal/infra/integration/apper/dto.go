package apper

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Collections exposed by the hosted record API.
const (
	TableLead     = "lead"
	TableDeal     = "deal"
	TableSalesRep = "sales_rep"
	TableTeam     = "team"
	TableContact  = "app_contact"
)

// Operators understood by the where clause.
const (
	OpEqualTo              = "EqualTo"
	OpGreaterThanOrEqualTo = "GreaterThanOrEqualTo"
	OpLessThanOrEqualTo    = "LessThanOrEqualTo"
	OpRelativeMatch        = "RelativeMatch"
)

const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

type Where struct {
	FieldName string `json:"FieldName"`
	Operator  string `json:"Operator"`
	Values    []any  `json:"Values"`
}

type OrderBy struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"`
}

type fieldRef struct {
	Field struct {
		Name string `json:"Name"`
	} `json:"field"`
}

type pagingInfo struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Query is the body of a fetch call.
type Query struct {
	Fields  []string
	Where   []Where
	OrderBy []OrderBy
	Limit   int
	Offset  int
}

func (q Query) MarshalJSON() ([]byte, error) {
	body := struct {
		Fields     []fieldRef  `json:"fields"`
		Where      []Where     `json:"where,omitempty"`
		OrderBy    []OrderBy   `json:"orderBy,omitempty"`
		PagingInfo *pagingInfo `json:"pagingInfo,omitempty"`
	}{
		Fields:  projection(q.Fields),
		Where:   q.Where,
		OrderBy: q.OrderBy,
	}
	if q.Limit > 0 {
		body.PagingInfo = &pagingInfo{Limit: q.Limit, Offset: q.Offset}
	}
	return json.Marshal(body)
}

func projection(fields []string) []fieldRef {
	refs := make([]fieldRef, len(fields))
	for i, name := range fields {
		refs[i].Field.Name = name
	}
	return refs
}

type recordsRequest struct {
	Records []map[string]any `json:"records"`
}

type deleteRequest struct {
	RecordIDs []int64 `json:"RecordIds"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Results []Result        `json:"results"`
}

// Result is the per-record outcome of a create, update or delete.
type Result struct {
	ID      int64           `json:"id,omitempty"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  []FieldError    `json:"errors,omitempty"`
}

type FieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}

// APIError is returned when the API answers with a non-2xx status,
// success=false, or a failed per-record result.
type APIError struct {
	Table      string
	Op         string
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "apper %s %s", e.Op, e.Table)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s: %s", f.FieldLabel, f.Message)
	}
	return b.String()
}

// UserMessage is the text shown to the user for this failure: the first
// field error when present, otherwise the API message.
func (e *APIError) UserMessage() string {
	if len(e.Fields) > 0 {
		return e.Fields[0].FieldLabel + ": " + e.Fields[0].Message
	}
	if e.Message != "" {
		return e.Message
	}
	return "request failed"
}
