package claim

import (
	"context"
	"sync"

	"github.com/erazemk/najdeno/internal/model"
)

var _ itemRepo = &itemRepoMock{}

type itemRepoMock struct {
	GetFunc       func(ctx context.Context, id string) (*model.Item, error)
	SetStatusFunc func(ctx context.Context, id string, from, to model.Status) error

	calls struct {
		Get []struct {
			ID string
		}
		SetStatus []struct {
			ID       string
			From, To model.Status
		}
	}
	lockGet       sync.RWMutex
	lockSetStatus sync.RWMutex
}

func (mock *itemRepoMock) Get(ctx context.Context, id string) (*model.Item, error) {
	if mock.GetFunc == nil {
		panic("itemRepoMock.GetFunc: method is nil but itemRepo.Get was just called")
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, struct{ ID string }{ID: id})
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, id)
}

func (mock *itemRepoMock) SetStatus(ctx context.Context, id string, from, to model.Status) error {
	if mock.SetStatusFunc == nil {
		panic("itemRepoMock.SetStatusFunc: method is nil but itemRepo.SetStatus was just called")
	}
	callInfo := struct {
		ID       string
		From, To model.Status
	}{ID: id, From: from, To: to}
	mock.lockSetStatus.Lock()
	mock.calls.SetStatus = append(mock.calls.SetStatus, callInfo)
	mock.lockSetStatus.Unlock()
	return mock.SetStatusFunc(ctx, id, from, to)
}

func (mock *itemRepoMock) SetStatusCalls() []struct {
	ID       string
	From, To model.Status
} {
	mock.lockSetStatus.RLock()
	calls := mock.calls.SetStatus
	mock.lockSetStatus.RUnlock()
	return calls
}

var _ claimRepo = &claimRepoMock{}

type claimRepoMock struct {
	CreateFunc         func(ctx context.Context, c model.Claim) (*model.Claim, error)
	GetFunc            func(ctx context.Context, id string) (*model.Claim, error)
	ListPendingFunc    func(ctx context.Context) ([]model.Claim, error)
	ListByClaimantFunc func(ctx context.Context, userID string) ([]model.Claim, error)
	SetStatusFunc      func(ctx context.Context, id string, from, to model.ClaimStatus, note string) error

	calls struct {
		Create    []model.Claim
		SetStatus []struct {
			ID       string
			From, To model.ClaimStatus
			Note     string
		}
	}
	lockCreate    sync.RWMutex
	lockSetStatus sync.RWMutex
}

func (mock *claimRepoMock) Create(ctx context.Context, c model.Claim) (*model.Claim, error) {
	if mock.CreateFunc == nil {
		panic("claimRepoMock.CreateFunc: method is nil but claimRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, c)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, c)
}

func (mock *claimRepoMock) CreateCalls() []model.Claim {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *claimRepoMock) Get(ctx context.Context, id string) (*model.Claim, error) {
	if mock.GetFunc == nil {
		panic("claimRepoMock.GetFunc: method is nil but claimRepo.Get was just called")
	}
	return mock.GetFunc(ctx, id)
}

func (mock *claimRepoMock) ListPending(ctx context.Context) ([]model.Claim, error) {
	if mock.ListPendingFunc == nil {
		panic("claimRepoMock.ListPendingFunc: method is nil but claimRepo.ListPending was just called")
	}
	return mock.ListPendingFunc(ctx)
}

func (mock *claimRepoMock) ListByClaimant(ctx context.Context, userID string) ([]model.Claim, error) {
	if mock.ListByClaimantFunc == nil {
		panic("claimRepoMock.ListByClaimantFunc: method is nil but claimRepo.ListByClaimant was just called")
	}
	return mock.ListByClaimantFunc(ctx, userID)
}

func (mock *claimRepoMock) SetStatus(ctx context.Context, id string, from, to model.ClaimStatus, note string) error {
	if mock.SetStatusFunc == nil {
		panic("claimRepoMock.SetStatusFunc: method is nil but claimRepo.SetStatus was just called")
	}
	callInfo := struct {
		ID       string
		From, To model.ClaimStatus
		Note     string
	}{ID: id, From: from, To: to, Note: note}
	mock.lockSetStatus.Lock()
	mock.calls.SetStatus = append(mock.calls.SetStatus, callInfo)
	mock.lockSetStatus.Unlock()
	return mock.SetStatusFunc(ctx, id, from, to, note)
}

func (mock *claimRepoMock) SetStatusCalls() []struct {
	ID       string
	From, To model.ClaimStatus
	Note     string
} {
	mock.lockSetStatus.RLock()
	calls := mock.calls.SetStatus
	mock.lockSetStatus.RUnlock()
	return calls
}

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetFunc func(ctx context.Context, id string) (*model.User, error)
}

func (mock *userRepoMock) Get(ctx context.Context, id string) (*model.User, error) {
	if mock.GetFunc == nil {
		panic("userRepoMock.GetFunc: method is nil but userRepo.Get was just called")
	}
	return mock.GetFunc(ctx, id)
}
