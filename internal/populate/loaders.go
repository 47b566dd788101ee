package populate

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type userSource interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error)
}

type goalSource interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Goal, error)
}

// Sources holds the repositories reference lookups are batched against.
type Sources struct {
	Users userSource
	Goals goalSource
}

// Loaders holds the batching loaders for one request.
type Loaders struct {
	UserByID *dataloader.Loader[int64, *domain.User]
	GoalByID *dataloader.Loader[int64, *domain.Goal]
}

// NewLoaders creates a new set of loaders backed by the given sources.
// Loaders cache results for their whole lifetime, so create them per request.
func NewLoaders(src *Sources) *Loaders {
	return &Loaders{
		UserByID: newLoader(newUsersBatchFn(src.Users)),
		GoalByID: newLoader(newGoalsBatchFn(src.Goals)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[int64, V]) *dataloader.Loader[int64, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[int64, V](wait),
		dataloader.WithBatchCapacity[int64, V](maxBatch),
	)
}

func newUsersBatchFn(src userSource) dataloader.BatchFunc[int64, *domain.User] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[*domain.User] {
		users, err := src.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.User](len(keys), err)
		}

		byID := make(map[int64]*domain.User, len(users))
		for i := range users {
			byID[users[i].ID] = &users[i]
		}
		return mapResults(keys, byID)
	}
}

func newGoalsBatchFn(src goalSource) dataloader.BatchFunc[int64, *domain.Goal] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[*domain.Goal] {
		goals, err := src.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.Goal](len(keys), err)
		}

		byID := make(map[int64]*domain.Goal, len(goals))
		for i := range goals {
			byID[goals[i].ID] = &goals[i]
		}
		return mapResults(keys, byID)
	}
}

// errorResults returns a slice of error results for all keys.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps found values back to key order. Missing keys get the zero value.
func mapResults[V any](keys []int64, found map[int64]V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		results[i] = &dataloader.Result[V]{Data: found[key]}
	}
	return results
}

type contextKey string

const loadersKey contextKey = "populate_loaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext returns the request's Loaders, or nil when none were installed.
func FromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}
