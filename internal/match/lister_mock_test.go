package match

import (
	"context"
	"sync"

	"github.com/erazemk/najdeno/internal/model"
)

var _ ItemLister = &itemListerMock{}

type itemListerMock struct {
	ListActiveFunc func(ctx context.Context, kind model.Kind) ([]model.Item, error)

	calls struct {
		ListActive []struct {
			Kind model.Kind
		}
	}
	lockListActive sync.RWMutex
}

func (mock *itemListerMock) ListActive(ctx context.Context, kind model.Kind) ([]model.Item, error) {
	if mock.ListActiveFunc == nil {
		panic("itemListerMock.ListActiveFunc: method is nil but ItemLister.ListActive was just called")
	}
	mock.lockListActive.Lock()
	mock.calls.ListActive = append(mock.calls.ListActive, struct{ Kind model.Kind }{Kind: kind})
	mock.lockListActive.Unlock()
	return mock.ListActiveFunc(ctx, kind)
}

func (mock *itemListerMock) ListActiveCalls() []struct{ Kind model.Kind } {
	mock.lockListActive.RLock()
	calls := mock.calls.ListActive
	mock.lockListActive.RUnlock()
	return calls
}
