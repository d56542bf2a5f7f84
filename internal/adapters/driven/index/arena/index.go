// Package arena provides the exact brute-force vector index. Vectors live in
// one flat float32 arena addressed by slot, with a side mapping from fragment
// ID to slot. This keeps the memory layout cache-friendly for full scans and
// makes deletion a matter of tombstoning slots and compacting periodically.
package arena

import (
	"container/heap"
	"context"
	"math"
	"sync"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// compactionThreshold triggers compaction when dead slots exceed this share
// of the arena.
const compactionThreshold = 0.5

// slotMeta carries the fragment metadata for one arena slot.
type slotMeta struct {
	fragmentID string
	documentID string
	ordinal    int
	text       string
	norm       float64
	dead       bool
}

// Index is an in-memory brute-force cosine similarity index.
//
// Readers (Search) proceed concurrently; writers (Insert, DeleteByDocument)
// take exclusive access only for the structural mutation itself. No external
// call ever happens under the lock, so the critical section is bounded.
type Index struct {
	mu    sync.RWMutex
	dim   int
	data  []float32 // slot s occupies data[s*dim : (s+1)*dim]
	meta  []slotMeta
	slots map[string]int   // fragment ID -> slot
	byDoc map[string][]int // document ID -> slots
	dead  int
}

// New creates an empty index. Dimensionality is established by the first
// successful Insert and enforced for every vector thereafter.
func New() *Index {
	return &Index{
		slots: make(map[string]int),
		byDoc: make(map[string][]int),
	}
}

// Insert adds a batch of entries atomically. If any vector's length
// disagrees with the established dimensionality the whole batch is rejected
// with a *domain.DimensionError and nothing is applied. Entries that reuse
// an existing fragment ID replace the previous vector.
func (x *Index) Insert(_ context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	dim := x.dim
	if dim == 0 {
		dim = len(entries[0].Vector)
	}

	// Validate the whole batch before touching the arena.
	for i := range entries {
		if len(entries[i].Vector) != dim {
			return &domain.DimensionError{Want: dim, Got: len(entries[i].Vector)}
		}
	}

	x.dim = dim

	for i := range entries {
		e := &entries[i]
		if slot, ok := x.slots[e.FragmentID]; ok {
			x.tombstone(slot)
		}

		slot := len(x.meta)
		x.data = append(x.data, e.Vector...)
		x.meta = append(x.meta, slotMeta{
			fragmentID: e.FragmentID,
			documentID: e.DocumentID,
			ordinal:    e.Ordinal,
			text:       e.Text,
			norm:       norm(e.Vector),
		})
		x.slots[e.FragmentID] = slot
		x.byDoc[e.DocumentID] = append(x.byDoc[e.DocumentID], slot)
	}

	x.maybeCompact()
	return nil
}

// DeleteByDocument removes all entries for a document. Atomic with respect
// to concurrent Search; removing an absent document is a no-op.
func (x *Index) DeleteByDocument(_ context.Context, documentID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	slots, ok := x.byDoc[documentID]
	if !ok {
		return nil
	}

	for _, slot := range slots {
		if !x.meta[slot].dead {
			x.tombstone(slot)
		}
	}
	delete(x.byDoc, documentID)

	x.maybeCompact()
	return nil
}

// Search scans all live entries and returns up to k hits ranked by
// descending cosine similarity, ties broken by ascending fragment ID.
func (x *Index) Search(_ context.Context, query []float32, k int, scope []string) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.dim == 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, &domain.DimensionError{Want: x.dim, Got: len(query)}
	}

	queryNorm := norm(query)
	if queryNorm == 0 {
		return nil, nil
	}

	var scoped map[string]struct{}
	if len(scope) > 0 {
		scoped = make(map[string]struct{}, len(scope))
		for _, id := range scope {
			scoped[id] = struct{}{}
		}
	}

	// Bounded min-heap: the root is always the worst candidate kept so far.
	top := &topK{limit: k}
	heap.Init(top)

	for slot := range x.meta {
		m := &x.meta[slot]
		if m.dead || m.norm == 0 {
			continue
		}
		if scoped != nil {
			if _, ok := scoped[m.documentID]; !ok {
				continue
			}
		}

		score := x.dot(slot, query) / (m.norm * queryNorm)
		top.offer(candidate{slot: slot, fragmentID: m.fragmentID, score: score})
	}

	hits := make([]driven.VectorHit, top.Len())
	for i := top.Len() - 1; i >= 0; i-- {
		c := heap.Pop(top).(candidate)
		m := &x.meta[c.slot]
		hits[i] = driven.VectorHit{
			FragmentID: m.fragmentID,
			DocumentID: m.documentID,
			Ordinal:    m.ordinal,
			Text:       m.text,
			Similarity: c.score,
		}
	}

	return hits, nil
}

// Dimensions returns the established vector size, 0 before the first insert.
func (x *Index) Dimensions() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dim
}

// Len returns the number of live entries.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.meta) - x.dead
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// tombstone marks a slot dead. Caller holds the write lock.
func (x *Index) tombstone(slot int) {
	x.meta[slot].dead = true
	delete(x.slots, x.meta[slot].fragmentID)
	x.dead++
}

// maybeCompact rebuilds the arena when tombstones dominate it.
// Caller holds the write lock.
func (x *Index) maybeCompact() {
	if x.dead == 0 || float64(x.dead) < compactionThreshold*float64(len(x.meta)) {
		return
	}

	live := len(x.meta) - x.dead
	data := make([]float32, 0, live*x.dim)
	meta := make([]slotMeta, 0, live)
	slots := make(map[string]int, live)
	byDoc := make(map[string][]int, len(x.byDoc))

	for slot := range x.meta {
		m := x.meta[slot]
		if m.dead {
			continue
		}
		next := len(meta)
		data = append(data, x.data[slot*x.dim:(slot+1)*x.dim]...)
		meta = append(meta, m)
		slots[m.fragmentID] = next
		byDoc[m.documentID] = append(byDoc[m.documentID], next)
	}

	x.data = data
	x.meta = meta
	x.slots = slots
	x.byDoc = byDoc
	x.dead = 0
}

// dot computes the dot product of the stored slot vector and the query.
func (x *Index) dot(slot int, query []float32) float64 {
	base := slot * x.dim
	var sum float64
	for i := 0; i < x.dim; i++ {
		sum += float64(x.data[base+i]) * float64(query[i])
	}
	return sum
}

// norm computes the Euclidean magnitude of a vector.
func norm(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

// candidate is one scored entry during a scan.
type candidate struct {
	slot       int
	fragmentID string
	score      float64
}

// topK is a bounded min-heap of the best k candidates. The worst candidate
// sits at the root: lowest score, or on equal scores the greatest fragment
// ID, so that ties resolve to ascending fragment ID in the final ranking.
type topK struct {
	items []candidate
	limit int
}

func (h *topK) Len() int { return len(h.items) }

func (h *topK) Less(i, j int) bool {
	if h.items[i].score != h.items[j].score {
		return h.items[i].score < h.items[j].score
	}
	return h.items[i].fragmentID > h.items[j].fragmentID
}

func (h *topK) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *topK) Push(v any) { h.items = append(h.items, v.(candidate)) }

func (h *topK) Pop() any {
	last := h.items[len(h.items)-1]
	h.items = h.items[:len(h.items)-1]
	return last
}

// offer adds a candidate, evicting the current worst when full.
func (h *topK) offer(c candidate) {
	if h.Len() < h.limit {
		heap.Push(h, c)
		return
	}
	worst := h.items[0]
	if c.score > worst.score || (c.score == worst.score && c.fragmentID < worst.fragmentID) {
		h.items[0] = c
		heap.Fix(h, 0)
	}
}
