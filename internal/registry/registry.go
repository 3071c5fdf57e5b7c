// Package registry owns the collection of bibliographic references for
// one program run: it assigns stable integer handles, derives citation
// keys and tracks which references were cited.
package registry

import (
	"errors"
	"fmt"

	"github.com/mlandis/reftrack/internal/citekey"
	"github.com/mlandis/reftrack/internal/record"
)

// DefaultCapacity is the reference ceiling used by New.
const DefaultCapacity = 1024

var (
	// ErrCapacityExceeded indicates the registry is full.
	ErrCapacityExceeded = errors.New("registry capacity exceeded")

	// ErrInvalidHandle indicates a handle outside [1, Count()].
	ErrInvalidHandle = errors.New("invalid reference handle")

	// ErrFlagCount indicates a reconciled flag slice of the wrong length.
	ErrFlagCount = errors.New("cited flag count does not match registry")
)

// Reference is one registered bibliographic entry. Only the cited flag
// is mutable after creation.
type Reference struct {
	rec   record.Record
	doi   string
	key   string
	cited bool
}

// Record returns the reference's tagged record.
func (r Reference) Record() record.Record { return r.rec }

// DOI returns the external identifier, which may be empty.
func (r Reference) DOI() string { return r.doi }

// Key returns the citation key derived at registration.
func (r Reference) Key() string { return r.key }

// Cited reports whether the reference was marked cited.
func (r Reference) Cited() bool { return r.cited }

// Registry is a dense, append-only arena of references indexed by
// 1-based handles. It is not safe for concurrent use; each worker owns
// its own registry.
type Registry struct {
	refs     []Reference
	keys     []string
	capacity int
}

// New returns an empty registry with DefaultCapacity.
func New() *Registry {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity returns an empty registry holding at most capacity
// references. Non-positive capacities fall back to DefaultCapacity.
func NewWithCapacity(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{capacity: capacity}
}

// Capacity returns the reference ceiling.
func (g *Registry) Capacity() int { return g.capacity }

// Count returns the number of registered references. Valid handles are
// 1..Count().
func (g *Registry) Count() int { return len(g.refs) }

// Add registers a record with its external identifier and returns the
// new handle. It fails without storing anything when the registry is
// full or when citation key derivation rejects the record.
func (g *Registry) Add(rec record.Record, doi string) (int, error) {
	if len(g.refs) >= g.capacity {
		return 0, fmt.Errorf("%w (%d references)", ErrCapacityExceeded, g.capacity)
	}

	key, err := citekey.New(rec, g.keys)
	if err != nil {
		return 0, fmt.Errorf("deriving citation key: %w", err)
	}

	g.refs = append(g.refs, Reference{rec: rec, doi: doi, key: key})
	g.keys = append(g.keys, key)
	return len(g.refs), nil
}

// Cite marks the reference as cited. Idempotent.
func (g *Registry) Cite(handle int) error {
	if err := g.check(handle); err != nil {
		return err
	}
	g.refs[handle-1].cited = true
	return nil
}

// CitationKey returns the citation key stored for the handle.
func (g *Registry) CitationKey(handle int) (string, error) {
	if err := g.check(handle); err != nil {
		return "", err
	}
	return g.refs[handle-1].key, nil
}

// Cited reports whether the handle was marked cited.
func (g *Registry) Cited(handle int) (bool, error) {
	if err := g.check(handle); err != nil {
		return false, err
	}
	return g.refs[handle-1].cited, nil
}

// Reference returns a copy of the reference for the handle.
func (g *Registry) Reference(handle int) (Reference, error) {
	if err := g.check(handle); err != nil {
		return Reference{}, err
	}
	return g.refs[handle-1], nil
}

// Lookup returns the handle for a citation key, or 0 when no reference
// carries it.
func (g *Registry) Lookup(key string) int {
	for i, k := range g.keys {
		if k == key {
			return i + 1
		}
	}
	return 0
}

// Clear releases every reference and resets the count to zero. Handles
// are reissued from 1 afterwards.
func (g *Registry) Clear() {
	g.refs = nil
	g.keys = nil
}

// CitedFlags returns the cited flags for handles 1..Count() as a 0/1
// slice, the form consumed by collective reductions.
func (g *Registry) CitedFlags() []int {
	flags := make([]int, len(g.refs))
	for i, ref := range g.refs {
		if ref.cited {
			flags[i] = 1
		}
	}
	return flags
}

// SetCitedFlags overwrites every cited flag with the reconciled 0/1
// values, one per handle.
func (g *Registry) SetCitedFlags(flags []int) error {
	if len(flags) != len(g.refs) {
		return fmt.Errorf("%w: got %d, have %d", ErrFlagCount, len(flags), len(g.refs))
	}
	for i, f := range flags {
		g.refs[i].cited = f != 0
	}
	return nil
}

func (g *Registry) check(handle int) error {
	if handle < 1 || handle > len(g.refs) {
		return fmt.Errorf("%w: %d (have %d)", ErrInvalidHandle, handle, len(g.refs))
	}
	return nil
}
