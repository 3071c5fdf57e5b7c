// Package reduce reconciles per-worker citation flags through a
// collective element-wise max reduction.
package reduce

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mlandis/reftrack/internal/registry"
)

// ErrLengthMismatch indicates the workers brought flag sequences of
// different lengths to the same reduction, which violates the
// add-records-in-the-same-order contract.
var ErrLengthMismatch = errors.New("reduction length mismatch across workers")

// Reducer performs a blocking collective reduction: every worker in
// the group calls ReduceMax with its local slice, no caller returns
// before all have arrived, and each receives the element-wise maximum
// across the group.
type Reducer interface {
	ReduceMax(ctx context.Context, local []int) ([]int, error)
}

// Sync reconciles the registry's cited flags across the reducer's
// worker group: a reference cited on any worker becomes cited on all
// of them. Every worker must call Sync with an identically populated
// registry.
func Sync(ctx context.Context, reg *registry.Registry, red Reducer) error {
	merged, err := red.ReduceMax(ctx, reg.CitedFlags())
	if err != nil {
		return fmt.Errorf("reconciling cited flags: %w", err)
	}
	return reg.SetCitedFlags(merged)
}

// Group is an in-process Reducer shared by a fixed number of goroutine
// workers. Each reduction round completes once all workers have
// called ReduceMax.
type Group struct {
	size int

	mu  sync.Mutex
	cur *round
}

type round struct {
	inputs [][]int
	done   chan struct{}
	result []int
	err    error
}

// NewGroup returns a reducer group for size workers. Size must be at
// least 1.
func NewGroup(size int) *Group {
	if size < 1 {
		size = 1
	}
	return &Group{size: size}
}

// Size returns the number of workers in the group.
func (g *Group) Size() int { return g.size }

// ReduceMax blocks until all workers in the group have called it for
// the current round, then returns the element-wise maximum of their
// slices. A worker that abandons the call via ctx leaves the round
// incomplete for the others.
func (g *Group) ReduceMax(ctx context.Context, local []int) ([]int, error) {
	g.mu.Lock()
	if g.cur == nil {
		g.cur = &round{done: make(chan struct{})}
	}
	r := g.cur
	r.inputs = append(r.inputs, local)
	if len(r.inputs) == g.size {
		g.cur = nil
		r.finish()
	}
	g.mu.Unlock()

	select {
	case <-r.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if r.err != nil {
		return nil, r.err
	}
	// Each caller gets its own copy of the reduced slice.
	out := make([]int, len(r.result))
	copy(out, r.result)
	return out, nil
}

// finish reduces the collected inputs and releases the waiters.
func (r *round) finish() {
	defer close(r.done)

	want := len(r.inputs[0])
	for _, in := range r.inputs[1:] {
		if len(in) != want {
			r.err = fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, want, len(in))
			return
		}
	}

	r.result = make([]int, want)
	copy(r.result, r.inputs[0])
	for _, in := range r.inputs[1:] {
		for i, v := range in {
			if v > r.result[i] {
				r.result[i] = v
			}
		}
	}
}
