package session

import (
	"context"
	"sync"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

var _ sessionStore = &sessionStoreMock{}

type sessionStoreMock struct {
	ClearFunc func(ctx context.Context) error
	LoadFunc  func(ctx context.Context) (*domain.PersistedSession, error)
	SaveFunc  func(ctx context.Context, rec *domain.PersistedSession) error

	calls struct {
		Clear []struct {
			Ctx context.Context
		}
		Load []struct {
			Ctx context.Context
		}
		Save []struct {
			Ctx context.Context
			Rec *domain.PersistedSession
		}
	}
	lockClear sync.RWMutex
	lockLoad  sync.RWMutex
	lockSave  sync.RWMutex
}

func (mock *sessionStoreMock) Clear(ctx context.Context) error {
	if mock.ClearFunc == nil {
		panic("sessionStoreMock.ClearFunc: method is nil but sessionStore.Clear was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockClear.Lock()
	mock.calls.Clear = append(mock.calls.Clear, callInfo)
	mock.lockClear.Unlock()
	return mock.ClearFunc(ctx)
}

func (mock *sessionStoreMock) ClearCalls() []struct {
	Ctx context.Context
} {
	mock.lockClear.RLock()
	calls := mock.calls.Clear
	mock.lockClear.RUnlock()
	return calls
}

func (mock *sessionStoreMock) Load(ctx context.Context) (*domain.PersistedSession, error) {
	if mock.LoadFunc == nil {
		panic("sessionStoreMock.LoadFunc: method is nil but sessionStore.Load was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockLoad.Lock()
	mock.calls.Load = append(mock.calls.Load, callInfo)
	mock.lockLoad.Unlock()
	return mock.LoadFunc(ctx)
}

func (mock *sessionStoreMock) LoadCalls() []struct {
	Ctx context.Context
} {
	mock.lockLoad.RLock()
	calls := mock.calls.Load
	mock.lockLoad.RUnlock()
	return calls
}

func (mock *sessionStoreMock) Save(ctx context.Context, rec *domain.PersistedSession) error {
	if mock.SaveFunc == nil {
		panic("sessionStoreMock.SaveFunc: method is nil but sessionStore.Save was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Rec *domain.PersistedSession
	}{Ctx: ctx, Rec: rec}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, callInfo)
	mock.lockSave.Unlock()
	return mock.SaveFunc(ctx, rec)
}

func (mock *sessionStoreMock) SaveCalls() []struct {
	Ctx context.Context
	Rec *domain.PersistedSession
} {
	mock.lockSave.RLock()
	calls := mock.calls.Save
	mock.lockSave.RUnlock()
	return calls
}
