package crud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// memRepo is an in-memory Repo used to exercise the action set end to end.
type memRepo[R domain.Record] struct {
	mu    sync.Mutex
	next  int64
	rows  map[int64]R
	clone func(R) R
	meta  func(R) *domain.Meta

	viewCalls int
	findCalls int

	// afterViews runs once IncrementViews has read the row.
	afterViews func(id int64)
}

func newMemRepo[R domain.Record](clone func(R) R, meta func(R) *domain.Meta) *memRepo[R] {
	return &memRepo[R]{rows: make(map[int64]R), clone: clone, meta: meta}
}

func (r *memRepo[R]) Find(_ context.Context, f domain.ListFilter) ([]R, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++

	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []R
	for _, id := range ids {
		rec := r.rows[id]
		if f.AuthorID != nil {
			author, ok := rec.Owner()
			if !ok || author != *f.AuthorID {
				continue
			}
		}
		out = append(out, r.clone(rec))
	}
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memRepo[R]) GetByID(_ context.Context, id int64) (R, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.rows[id]
	if !ok {
		var zero R
		return zero, domain.ErrNotFound
	}
	return r.clone(rec), nil
}

func (r *memRepo[R]) IncrementViews(_ context.Context, id int64) (R, error) {
	r.mu.Lock()
	r.viewCalls++
	rec, ok := r.rows[id]
	if !ok {
		r.mu.Unlock()
		var zero R
		return zero, domain.ErrNotFound
	}
	r.meta(rec).Views++
	out := r.clone(rec)
	r.mu.Unlock()

	if r.afterViews != nil {
		r.afterViews(id)
	}
	return out, nil
}

func (r *memRepo[R]) Create(_ context.Context, rec R) (R, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	stored := r.clone(rec)
	r.meta(stored).ID = r.next
	r.rows[r.next] = stored
	return r.clone(stored), nil
}

func (r *memRepo[R]) Update(_ context.Context, rec R) (R, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := rec.RecordID()
	if _, ok := r.rows[id]; !ok {
		var zero R
		return zero, domain.ErrNotFound
	}
	r.rows[id] = r.clone(rec)
	return r.clone(rec), nil
}

func (r *memRepo[R]) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo[R]) stored(id int64) (R, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.rows[id]
	if !ok {
		return rec, false
	}
	return r.clone(rec), true
}

// memCache round-trips values through JSON and versions slots per type the
// way the Redis cache does.
type memCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	versions map[domain.EntityType]int
	fail     bool
	hits     int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte), versions: make(map[domain.EntityType]int)}
}

func (c *memCache) Get(_ context.Context, t domain.EntityType, key string, dst any) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return "", false, errors.New("cache down")
	}
	slot := fmt.Sprintf("%s:v%d:%s", t, c.versions[t], key)
	raw, ok := c.entries[slot]
	if !ok {
		return slot, false, nil
	}
	c.hits++
	return slot, true, json.Unmarshal(raw, dst)
}

func (c *memCache) Set(_ context.Context, slot string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("cache down")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[slot] = raw
	return nil
}

// bump moves t to a new version, like a committed change does.
func (c *memCache) bump(t domain.EntityType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[t]++
}

func (c *memCache) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
}

// ---------------------------------------------------------------------------
// Test record inputs
// ---------------------------------------------------------------------------

type contractInput struct {
	Name     string
	Customer string
}

func (in contractInput) Validate() error {
	if in.Name == "" {
		return domain.NewValidationError("name", "required")
	}
	return nil
}

func (in contractInput) Build(author int64) *domain.Contract {
	return &domain.Contract{Author: author, Name: in.Name, Customer: in.Customer}
}

type contractPatch struct {
	Name *string
}

func (p contractPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	return nil
}

func (p contractPatch) Apply(c *domain.Contract) {
	if p.Name != nil {
		c.Name = *p.Name
	}
}

type orgInput struct{ Name string }

func (in orgInput) Validate() error { return nil }

func (in orgInput) Build(int64) *domain.Organization {
	return &domain.Organization{Name: in.Name}
}

type orgPatch struct{ Name string }

func (p orgPatch) Validate() error { return nil }

func (p orgPatch) Apply(o *domain.Organization) { o.Name = p.Name }

func cloneContract(c *domain.Contract) *domain.Contract {
	cp := *c
	return &cp
}

func contractMeta(c *domain.Contract) *domain.Meta { return &c.Meta }

func cloneOrg(o *domain.Organization) *domain.Organization {
	cp := *o
	return &cp
}

func orgMeta(o *domain.Organization) *domain.Meta { return &o.Meta }
