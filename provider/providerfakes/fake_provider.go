package providerfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-login-server/principal"
	"github.com/jrsteele09/go-login-server/provider"
)

var _ provider.Provider = (*FakeProvider)(nil)

// FakeProvider is a configurable in-memory Provider for tests.
type FakeProvider struct {
	lock sync.Mutex

	AuthURL       string
	AuthCodeErr   error
	Principal     *principal.Principal
	ExchangeErr   error
	ExchangedCode string
	ExchangeCalls int
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{AuthURL: "https://provider.example/authorize"}
}

func (f *FakeProvider) Name() principal.ProviderType {
	return principal.ProviderGoogle
}

func (f *FakeProvider) AuthCodeURL(_ context.Context, state string) (string, error) {
	if f.AuthCodeErr != nil {
		return "", f.AuthCodeErr
	}
	return f.AuthURL + "?state=" + state, nil
}

func (f *FakeProvider) Exchange(_ context.Context, code string) (*principal.Principal, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.ExchangeCalls++
	f.ExchangedCode = code
	if f.ExchangeErr != nil {
		return nil, f.ExchangeErr
	}
	return f.Principal, nil
}
