package session

import (
	"context"
	"sync"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/adapter/authapi"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

var _ authAPI = &authAPIMock{}

type authAPIMock struct {
	LoginFunc   func(ctx context.Context, username string, password string) (*authapi.TokenPair, error)
	LogoutFunc  func(ctx context.Context, accessToken string) error
	MeFunc      func(ctx context.Context, accessToken string) (*domain.UserProfile, error)
	RefreshFunc func(ctx context.Context, refreshToken string) (*authapi.TokenPair, error)

	calls struct {
		Login []struct {
			Ctx      context.Context
			Username string
			Password string
		}
		Logout []struct {
			Ctx         context.Context
			AccessToken string
		}
		Me []struct {
			Ctx         context.Context
			AccessToken string
		}
		Refresh []struct {
			Ctx          context.Context
			RefreshToken string
		}
	}
	lockLogin   sync.RWMutex
	lockLogout  sync.RWMutex
	lockMe      sync.RWMutex
	lockRefresh sync.RWMutex
}

func (mock *authAPIMock) Login(ctx context.Context, username string, password string) (*authapi.TokenPair, error) {
	if mock.LoginFunc == nil {
		panic("authAPIMock.LoginFunc: method is nil but authAPI.Login was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Username string
		Password string
	}{Ctx: ctx, Username: username, Password: password}
	mock.lockLogin.Lock()
	mock.calls.Login = append(mock.calls.Login, callInfo)
	mock.lockLogin.Unlock()
	return mock.LoginFunc(ctx, username, password)
}

func (mock *authAPIMock) LoginCalls() []struct {
	Ctx      context.Context
	Username string
	Password string
} {
	mock.lockLogin.RLock()
	calls := mock.calls.Login
	mock.lockLogin.RUnlock()
	return calls
}

func (mock *authAPIMock) Logout(ctx context.Context, accessToken string) error {
	if mock.LogoutFunc == nil {
		panic("authAPIMock.LogoutFunc: method is nil but authAPI.Logout was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		AccessToken string
	}{Ctx: ctx, AccessToken: accessToken}
	mock.lockLogout.Lock()
	mock.calls.Logout = append(mock.calls.Logout, callInfo)
	mock.lockLogout.Unlock()
	return mock.LogoutFunc(ctx, accessToken)
}

func (mock *authAPIMock) LogoutCalls() []struct {
	Ctx         context.Context
	AccessToken string
} {
	mock.lockLogout.RLock()
	calls := mock.calls.Logout
	mock.lockLogout.RUnlock()
	return calls
}

func (mock *authAPIMock) Me(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	if mock.MeFunc == nil {
		panic("authAPIMock.MeFunc: method is nil but authAPI.Me was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		AccessToken string
	}{Ctx: ctx, AccessToken: accessToken}
	mock.lockMe.Lock()
	mock.calls.Me = append(mock.calls.Me, callInfo)
	mock.lockMe.Unlock()
	return mock.MeFunc(ctx, accessToken)
}

func (mock *authAPIMock) MeCalls() []struct {
	Ctx         context.Context
	AccessToken string
} {
	mock.lockMe.RLock()
	calls := mock.calls.Me
	mock.lockMe.RUnlock()
	return calls
}

func (mock *authAPIMock) Refresh(ctx context.Context, refreshToken string) (*authapi.TokenPair, error) {
	if mock.RefreshFunc == nil {
		panic("authAPIMock.RefreshFunc: method is nil but authAPI.Refresh was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RefreshToken string
	}{Ctx: ctx, RefreshToken: refreshToken}
	mock.lockRefresh.Lock()
	mock.calls.Refresh = append(mock.calls.Refresh, callInfo)
	mock.lockRefresh.Unlock()
	return mock.RefreshFunc(ctx, refreshToken)
}

func (mock *authAPIMock) RefreshCalls() []struct {
	Ctx          context.Context
	RefreshToken string
} {
	mock.lockRefresh.RLock()
	calls := mock.calls.Refresh
	mock.lockRefresh.RUnlock()
	return calls
}
