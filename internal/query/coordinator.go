// Package query turns a live query string into ordered result lists.
//
// Input is debounced, so work is bounded to one evaluation per pause in
// typing, and every evaluation carries a generation number: only the result
// belonging to the latest generation is ever delivered, regardless of when
// slower evaluations complete.
package query

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quillnotes/quill/internal/index"
	"github.com/quillnotes/quill/internal/note"
	"github.com/quillnotes/quill/internal/order"
	"github.com/quillnotes/quill/internal/parser"
)

// DefaultDebounce is how long input must pause before evaluation starts.
const DefaultDebounce = 250 * time.Millisecond

// Mode classifies what a query matches against.
type Mode int

const (
	// ModeFilename matches display names only. Queries below two characters
	// stay in this mode, since content search would match nearly everything.
	ModeFilename Mode = iota
	// ModeCombined matches display names or indexed content.
	ModeCombined
	// ModeHashtag matches files containing the exact normalized tag.
	ModeHashtag
)

// Classify derives the query mode. A '#' prefix takes priority over length.
func Classify(q string) Mode {
	query := strings.TrimSpace(q)
	switch {
	case strings.HasPrefix(query, "#"):
		return ModeHashtag
	case len(query) >= 2:
		return ModeCombined
	default:
		return ModeFilename
	}
}

// Result is one ordered answer to a query generation.
type Result struct {
	Generation uint64
	Query      string
	Mode       Mode
	Refs       []note.Ref
}

// Options wires a Coordinator to its collaborators. Snapshot must be
// non-nil; Pinned and SortKey may be nil for unpinned, alphabetical output.
type Options struct {
	Debounce time.Duration
	Snapshot func() *index.Snapshot
	Pinned   func() []string
	SortKey  func() order.SortKey
}

// Coordinator owns the live query string for one corpus view.
type Coordinator struct {
	opts    Options
	results chan Result

	mu        sync.Mutex
	gen       uint64
	published uint64
	timer     *time.Timer
	closed    bool
}

func NewCoordinator(opts Options) *Coordinator {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Coordinator{
		opts:    opts,
		results: make(chan Result, 1),
	}
}

// Results delivers at most the latest generation's result. A newer result
// replaces an unconsumed older one.
func (c *Coordinator) Results() <-chan Result {
	return c.results
}

// SetQuery registers a query text change. The debounce timer restarts and
// the generation advances; any pending timer or in-flight evaluation for an
// older generation is thereby invalidated.
func (c *Coordinator) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.opts.Debounce, func() {
		c.evaluate(gen, q)
	})
}

// Close stops the pending timer; late evaluations become no-ops.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Coordinator) evaluate(gen uint64, q string) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	refs := Evaluate(q, c.opts.Snapshot())

	var pinned []string
	if c.opts.Pinned != nil {
		pinned = c.opts.Pinned()
	}
	key := order.SortAlphabetical
	if c.opts.SortKey != nil {
		key = c.opts.SortKey()
	}
	refs = order.Order(refs, pinned, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	// Generation gate: a slow evaluation must never overwrite a newer
	// generation's result, even when it completes later.
	if c.closed || gen != c.gen || gen < c.published {
		return
	}
	c.published = gen

	select {
	case <-c.results:
	default:
	}
	c.results <- Result{Generation: gen, Query: q, Mode: Classify(q), Refs: refs}
}

// Evaluate answers a query against a snapshot without debounce or ordering;
// results come back sorted by path for determinism.
func Evaluate(q string, snap *index.Snapshot) []note.Ref {
	query := strings.TrimSpace(q)
	mode := Classify(query)

	var refs []note.Ref
	switch mode {
	case ModeHashtag:
		tag := strings.ToLower(strings.TrimPrefix(query, "#"))
		if tag == "" {
			break
		}
		snap.Walk(func(entry index.Entry) {
			for _, t := range parser.ExtractHashtags(entry.Content) {
				if strings.ToLower(t) == tag {
					refs = append(refs, entry.Ref)
					return
				}
			}
		})
	case ModeCombined:
		needle := strings.ToLower(query)
		snap.Walk(func(entry index.Entry) {
			if strings.Contains(strings.ToLower(entry.Ref.DisplayName), needle) ||
				strings.Contains(entry.Content, needle) {
				refs = append(refs, entry.Ref)
			}
		})
	default:
		needle := strings.ToLower(query)
		snap.Walk(func(entry index.Entry) {
			if needle == "" || strings.Contains(strings.ToLower(entry.Ref.DisplayName), needle) {
				refs = append(refs, entry.Ref)
			}
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Path < refs[j].Path
	})
	return refs
}
