package usecase

import (
	"context"
)

// Batch runs independent steps one after another. A failing step does not
// stop the batch and nothing is rolled back; the result reports each outcome.
type Batch struct {
	steps []BatchStep
}

type BatchStep struct {
	Name string
	Fn   func(context.Context) error
}

type BatchFailure struct {
	Index int
	Name  string
	Err   error
}

type BatchResult struct {
	Succeeded []int
	Failed    []BatchFailure
}

func (r BatchResult) Total() int { return len(r.Succeeded) + len(r.Failed) }

func NewBatch() *Batch {
	return &Batch{steps: []BatchStep{}}
}

func (b *Batch) Add(name string, fn func(context.Context) error) {
	b.steps = append(b.steps, BatchStep{name, fn})
}

func (b *Batch) Len() int { return len(b.steps) }

// Run executes every step, stopping early only when ctx is cancelled; the
// remaining steps are then reported as failed with the context error.
func (b *Batch) Run(ctx context.Context) BatchResult {
	var res BatchResult
	for i, step := range b.steps {
		if err := ctx.Err(); err != nil {
			res.Failed = append(res.Failed, BatchFailure{i, step.Name, err})
			continue
		}
		if err := step.Fn(ctx); err != nil {
			res.Failed = append(res.Failed, BatchFailure{i, step.Name, err})
			continue
		}
		res.Succeeded = append(res.Succeeded, i)
	}
	return res
}
