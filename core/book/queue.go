package book

import "github.com/gaurav-prasanna/wsexport/core/wiki"

// queue makes sure no page is included twice.
type queue struct {
	visited map[string]bool
}

func newQueue() *queue {
	return &queue{visited: make(map[string]bool)}
}

// Add records title and reports whether it was new.
func (q *queue) Add(title string) bool {
	key := wiki.FoldKey(title)
	if q.visited[key] {
		return false
	}
	q.visited[key] = true
	return true
}

// Visited returns the number of distinct titles seen.
func (q *queue) Visited() int {
	return len(q.visited)
}
