package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

// CategoryRegistry is the runtime-extensible list of lead categories.
type CategoryRegistry struct {
	mu    sync.RWMutex
	items []string
	notifier
}

func NewCategoryRegistry(sink Notifier, seed ...string) *CategoryRegistry {
	if len(seed) == 0 {
		seed = entity.DefaultCategories
	}
	return &CategoryRegistry{
		items:    append([]string(nil), seed...),
		notifier: notifier{sink: sink},
	}
}

func (r *CategoryRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.items...)
}

type CategoryResult struct {
	Name    string `json:"name"`
	Created bool   `json:"created"`
}

// minFuzzyLen is the shortest name matched against near-duplicates; short
// names like "CRM" and "HRM" are distinct categories.
const minFuzzyLen = 5

// Add registers a new category. A name of at least minFuzzyLen runes within
// one edit of an existing entry (ignoring case) resolves to that entry
// instead of creating a near-duplicate.
func (r *CategoryRegistry) Add(ctx context.Context, name string) (CategoryResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CategoryResult{}, ValidationErrors{{entity.FieldCategory, "Category name is required"}}
	}

	r.mu.Lock()
	lower := strings.ToLower(name)
	for _, existing := range r.items {
		el := strings.ToLower(existing)
		if el == lower {
			r.mu.Unlock()
			return CategoryResult{}, &DomainError{Code: CodeConflict, Message: fmt.Sprintf("Category %q already exists", existing)}
		}
	}
	if utf8.RuneCountInString(lower) >= minFuzzyLen {
		for _, existing := range r.items {
			if utf8.RuneCountInString(existing) < minFuzzyLen {
				continue
			}
			if levenshtein.ComputeDistance(strings.ToLower(existing), lower) <= 1 {
				r.mu.Unlock()
				return CategoryResult{Name: existing}, nil
			}
		}
	}
	r.items = append(r.items, name)
	r.mu.Unlock()

	r.success(ctx, fmt.Sprintf("Category %q created successfully!", name))
	return CategoryResult{Name: name, Created: true}, nil
}
