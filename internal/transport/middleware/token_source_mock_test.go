package middleware

import (
	"context"
	"sync"
)

var _ tokenSource = &tokenSourceMock{}

type tokenSourceMock struct {
	AccessTokenFunc    func() string
	RefreshIfStaleFunc func(ctx context.Context, failedToken string) (bool, error)

	calls struct {
		AccessToken    []struct{}
		RefreshIfStale []struct {
			Ctx         context.Context
			FailedToken string
		}
	}
	lockAccessToken    sync.RWMutex
	lockRefreshIfStale sync.RWMutex
}

func (mock *tokenSourceMock) AccessToken() string {
	if mock.AccessTokenFunc == nil {
		panic("tokenSourceMock.AccessTokenFunc: method is nil but tokenSource.AccessToken was just called")
	}
	mock.lockAccessToken.Lock()
	mock.calls.AccessToken = append(mock.calls.AccessToken, struct{}{})
	mock.lockAccessToken.Unlock()
	return mock.AccessTokenFunc()
}

func (mock *tokenSourceMock) AccessTokenCalls() []struct{} {
	mock.lockAccessToken.RLock()
	calls := mock.calls.AccessToken
	mock.lockAccessToken.RUnlock()
	return calls
}

func (mock *tokenSourceMock) RefreshIfStale(ctx context.Context, failedToken string) (bool, error) {
	if mock.RefreshIfStaleFunc == nil {
		panic("tokenSourceMock.RefreshIfStaleFunc: method is nil but tokenSource.RefreshIfStale was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		FailedToken string
	}{Ctx: ctx, FailedToken: failedToken}
	mock.lockRefreshIfStale.Lock()
	mock.calls.RefreshIfStale = append(mock.calls.RefreshIfStale, callInfo)
	mock.lockRefreshIfStale.Unlock()
	return mock.RefreshIfStaleFunc(ctx, failedToken)
}

func (mock *tokenSourceMock) RefreshIfStaleCalls() []struct {
	Ctx         context.Context
	FailedToken string
} {
	mock.lockRefreshIfStale.RLock()
	calls := mock.calls.RefreshIfStale
	mock.lockRefreshIfStale.RUnlock()
	return calls
}
