package storefakes

import (
	"sync"

	"github.com/neurocarehub/webfront/apiclient"
)

var _ apiclient.CredentialStore = (*FakeCredentialStore)(nil)

// FakeCredentialStore is an in-memory CredentialStore for tests.
type FakeCredentialStore struct {
	lock    sync.RWMutex
	access  string
	refresh string

	ClearCalls int
}

func NewFakeCredentialStore(access, refresh string) *FakeCredentialStore {
	return &FakeCredentialStore{access: access, refresh: refresh}
}

func (s *FakeCredentialStore) AccessToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.access
}

func (s *FakeCredentialStore) RefreshToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.refresh
}

func (s *FakeCredentialStore) SetAccessToken(token string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.access = token
}

func (s *FakeCredentialStore) SetTokens(access, refresh string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.access = access
	s.refresh = refresh
}

func (s *FakeCredentialStore) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.access = ""
	s.refresh = ""
	s.ClearCalls++
}
