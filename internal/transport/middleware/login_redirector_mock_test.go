package middleware

import (
	"context"
	"sync"
)

var _ loginRedirector = &loginRedirectorMock{}

type loginRedirectorMock struct {
	RedirectToLoginFunc func(ctx context.Context)

	calls struct {
		RedirectToLogin []struct {
			Ctx context.Context
		}
	}
	lockRedirectToLogin sync.RWMutex
}

func (mock *loginRedirectorMock) RedirectToLogin(ctx context.Context) {
	if mock.RedirectToLoginFunc == nil {
		panic("loginRedirectorMock.RedirectToLoginFunc: method is nil but loginRedirector.RedirectToLogin was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockRedirectToLogin.Lock()
	mock.calls.RedirectToLogin = append(mock.calls.RedirectToLogin, callInfo)
	mock.lockRedirectToLogin.Unlock()
	mock.RedirectToLoginFunc(ctx)
}

func (mock *loginRedirectorMock) RedirectToLoginCalls() []struct {
	Ctx context.Context
} {
	mock.lockRedirectToLogin.RLock()
	calls := mock.calls.RedirectToLogin
	mock.lockRedirectToLogin.RUnlock()
	return calls
}
