package crud

import (
	"context"
	"sync"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/populate"
)

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct {
			Ctx context.Context
			Fn  func(ctx context.Context) error
		}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Fn  func(ctx context.Context) error
	}{Ctx: ctx, Fn: fn}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, callInfo)
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct {
	Ctx context.Context
	Fn  func(ctx context.Context) error
} {
	mock.lockRunInTx.RLock()
	calls := mock.calls.RunInTx
	mock.lockRunInTx.RUnlock()
	return calls
}

var _ changePublisher = &changePublisherMock{}

type changePublisherMock struct {
	PublishFunc func(ctx context.Context, ev domain.ChangeEvent)

	calls struct {
		Publish []struct {
			Ctx context.Context
			Ev  domain.ChangeEvent
		}
	}
	lockPublish sync.RWMutex
}

func (mock *changePublisherMock) Publish(ctx context.Context, ev domain.ChangeEvent) {
	callInfo := struct {
		Ctx context.Context
		Ev  domain.ChangeEvent
	}{Ctx: ctx, Ev: ev}
	mock.lockPublish.Lock()
	mock.calls.Publish = append(mock.calls.Publish, callInfo)
	mock.lockPublish.Unlock()
	if mock.PublishFunc != nil {
		mock.PublishFunc(ctx, ev)
	}
}

func (mock *changePublisherMock) PublishCalls() []struct {
	Ctx context.Context
	Ev  domain.ChangeEvent
} {
	mock.lockPublish.RLock()
	calls := mock.calls.Publish
	mock.lockPublish.RUnlock()
	return calls
}

var _ populator = &populatorMock{}

type populatorMock struct {
	PopulateFunc func(ctx context.Context, docs []domain.Document, refs populate.Refs) error

	calls struct {
		Populate []struct {
			Docs []domain.Document
			Refs populate.Refs
		}
	}
	lockPopulate sync.RWMutex
}

func (mock *populatorMock) Populate(ctx context.Context, docs []domain.Document, refs populate.Refs) error {
	if mock.PopulateFunc == nil {
		panic("populatorMock.PopulateFunc: method is nil but populator.Populate was just called")
	}
	callInfo := struct {
		Docs []domain.Document
		Refs populate.Refs
	}{Docs: docs, Refs: refs}
	mock.lockPopulate.Lock()
	mock.calls.Populate = append(mock.calls.Populate, callInfo)
	mock.lockPopulate.Unlock()
	return mock.PopulateFunc(ctx, docs, refs)
}

func (mock *populatorMock) PopulateCalls() []struct {
	Docs []domain.Document
	Refs populate.Refs
} {
	mock.lockPopulate.RLock()
	calls := mock.calls.Populate
	mock.lockPopulate.RUnlock()
	return calls
}
