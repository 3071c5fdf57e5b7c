package reduce

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mlandis/reftrack/internal/record"
	"github.com/mlandis/reftrack/internal/registry"
)

func workerRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, title := range []string{"first", "second"} {
		_, err := reg.Add(record.New([]string{
			"AU Smith, J.",
			"TI " + title,
			"PY 2001",
		}), "")
		if err != nil {
			t.Fatalf("Add() error: %v", err)
		}
	}
	return reg
}

func TestGroup_ReduceMax(t *testing.T) {
	group := NewGroup(3)
	inputs := [][]int{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	}

	results := make([][]int, 3)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := group.ReduceMax(context.Background(), inputs[i])
			if err != nil {
				t.Errorf("worker %d: ReduceMax() error: %v", i, err)
				return
			}
			results[i] = out
		}(i)
	}
	wg.Wait()

	want := []int{1, 1, 0}
	for i, out := range results {
		for j := range want {
			if out[j] != want[j] {
				t.Errorf("worker %d result[%d] = %d, want %d", i, j, out[j], want[j])
			}
		}
	}
}

func TestGroup_LengthMismatch(t *testing.T) {
	group := NewGroup(2)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, flags := range [][]int{{1, 0}, {1}} {
		wg.Add(1)
		go func(i int, flags []int) {
			defer wg.Done()
			_, errs[i] = group.ReduceMax(context.Background(), flags)
		}(i, flags)
	}
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, ErrLengthMismatch) {
			t.Errorf("worker %d error = %v, want ErrLengthMismatch", i, err)
		}
	}
}

func TestGroup_ContextCancel(t *testing.T) {
	group := NewGroup(2)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Only one of two workers arrives; the call must not block forever.
	_, err := group.ReduceMax(ctx, []int{1})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("ReduceMax() error = %v, want DeadlineExceeded", err)
	}
}

func TestSync_ThreeWorkers(t *testing.T) {
	group := NewGroup(3)
	regs := []*registry.Registry{
		workerRegistry(t),
		workerRegistry(t),
		workerRegistry(t),
	}

	// Worker 1 cites handle 1, worker 2 cites handle 2, worker 3 neither.
	if err := regs[0].Cite(1); err != nil {
		t.Fatalf("Cite() error: %v", err)
	}
	if err := regs[1].Cite(2); err != nil {
		t.Fatalf("Cite() error: %v", err)
	}

	var wg sync.WaitGroup
	for _, reg := range regs {
		wg.Add(1)
		go func(reg *registry.Registry) {
			defer wg.Done()
			if err := Sync(context.Background(), reg, group); err != nil {
				t.Errorf("Sync() error: %v", err)
			}
		}(reg)
	}
	wg.Wait()

	for i, reg := range regs {
		for h := 1; h <= 2; h++ {
			cited, err := reg.Cited(h)
			if err != nil {
				t.Fatalf("Cited() error: %v", err)
			}
			if !cited {
				t.Errorf("worker %d handle %d not cited after Sync", i+1, h)
			}
		}
	}
}

func TestSync_IndependentRounds(t *testing.T) {
	// Two consecutive reductions through the same group must not mix.
	group := NewGroup(2)

	for round := 0; round < 2; round++ {
		outs := make([][]int, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				local := []int{0, 0}
				local[i] = round + 1
				out, err := group.ReduceMax(context.Background(), local)
				if err != nil {
					t.Errorf("round %d worker %d: %v", round, i, err)
					return
				}
				outs[i] = out
			}(i)
		}
		wg.Wait()

		for i, out := range outs {
			if out[0] != round+1 || out[1] != round+1 {
				t.Errorf("round %d worker %d result = %v", round, i, out)
			}
		}
	}
}
