package parse

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// idPrefix keeps minted identifiers valid even when the source id
// starts with a digit or punctuation.
const idPrefix = "id-"

// Registry is the naming context of one export run. Every parser of the
// run shares it, so identifiers stay unique across all documents that
// end up concatenated in one book.
//
// A repeated identifier is suffixed with -n<K>, K being the number of
// identifiers minted so far in the run. K only grows, so suffixes are
// never reused, but they depend on the order documents are parsed in.
type Registry struct {
	mu     sync.Mutex
	minted map[string]struct{}
	seen   map[string]int
}

// NewRegistry returns an empty naming context.
func NewRegistry() *Registry {
	return &Registry{
		minted: make(map[string]struct{}),
		seen:   make(map[string]int),
	}
}

// Mint returns a run-unique identifier for the source identifier raw.
func (r *Registry) Mint(raw string) string {
	base := idPrefix + strings.Join(strings.Fields(raw), "_")

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seen[raw]++
	id := base
	if _, taken := r.minted[id]; taken {
		for k := len(r.minted); ; k++ {
			id = fmt.Sprintf("%s-n%d", base, k)
			if _, taken := r.minted[id]; !taken {
				break
			}
		}
	}
	r.minted[id] = struct{}{}
	return id
}

// Seen returns how many times raw has been minted in this run.
func (r *Registry) Seen(raw string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[raw]
}

// Len returns the number of identifiers minted in this run.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.minted)
}

// IDs returns a sorted snapshot of every identifier minted so far.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.minted))
	for id := range r.minted {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether id has already been minted.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.minted[id]
	return ok
}

// Reset forgets everything, starting a new run.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.minted = make(map[string]struct{})
	r.seen = make(map[string]int)
}
