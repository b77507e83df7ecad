package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neurocarehub/webfront/apiclient"
	"github.com/neurocarehub/webfront/apiclient/storefakes"
	apperrors "github.com/neurocarehub/webfront/internal/errors"
	"github.com/neurocarehub/webfront/notify"
)

type recordingNotifier struct {
	lock   sync.Mutex
	toasts []notify.Toast
}

func (n *recordingNotifier) Notify(toast notify.Toast) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.toasts = append(n.toasts, toast)
}

func (n *recordingNotifier) all() []notify.Toast {
	n.lock.Lock()
	defer n.lock.Unlock()
	return append([]notify.Toast(nil), n.toasts...)
}

type recordingNavigator struct {
	lock  sync.Mutex
	paths []string
}

func (n *recordingNavigator) To(path string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) all() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return append([]string(nil), n.paths...)
}

type fixture struct {
	client    *apiclient.Client
	store     *storefakes.FakeCredentialStore
	notifier  *recordingNotifier
	navigator *recordingNavigator
}

func newFixture(t *testing.T, baseURL string, store *storefakes.FakeCredentialStore) *fixture {
	t.Helper()

	notifier := &recordingNotifier{}
	navigator := &recordingNavigator{}
	client, err := apiclient.NewClient(apiclient.Config{
		BaseURL:       baseURL,
		Credentials:   store,
		Notifier:      notifier,
		Navigator:     navigator,
		Locale:        func() string { return "tr" },
		DefaultLocale: "tr",
	})
	require.NoError(t, err)

	return &fixture{client: client, store: store, notifier: notifier, navigator: navigator}
}

func TestRequestCarriesBearerAndLocale(t *testing.T) {
	var gotAuth, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotLang = r.Header.Get("Accept-Language")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	f := newFixture(t, server.URL, storefakes.NewFakeCredentialStore("token-1", "refresh-1"))
	require.NoError(t, f.client.Get(context.Background(), "/patients/me", nil))

	require.Equal(t, "Bearer token-1", gotAuth)
	require.Equal(t, "tr", gotLang)
}

func TestRequestWithoutCredentialHasNoAuthorizationHeader(t *testing.T) {
	var gotAuth string
	var present bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	f := newFixture(t, server.URL, storefakes.NewFakeCredentialStore("", ""))
	require.NoError(t, f.client.Get(context.Background(), "/blog/posts", nil))

	require.Empty(t, gotAuth)
	require.False(t, present)
}

func TestUnauthorizedTriggersSingleRefreshAndRetry(t *testing.T) {
	var refreshCalls, dataCalls int32
	var retryAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case apiclient.RouteAuthRefresh:
			atomic.AddInt32(&refreshCalls, 1)
			var body struct {
				Refresh string `json:"refresh"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "refresh-1", body.Refresh)
			json.NewEncoder(w).Encode(map[string]string{"access": "token-2"})
		default:
			atomic.AddInt32(&dataCalls, 1)
			if r.Header.Get("Authorization") != "Bearer token-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			retryAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer server.Close()

	f := newFixture(t, server.URL, storefakes.NewFakeCredentialStore("token-1", "refresh-1"))
	require.NoError(t, f.client.Get(context.Background(), "/patients/me", nil))

	require.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls), "exactly one refresh call")
	require.EqualValues(t, 2, atomic.LoadInt32(&dataCalls), "original request plus exactly one retry")
	require.Equal(t, "Bearer token-2", retryAuth)
	require.Equal(t, "token-2", f.store.AccessToken())
	require.Empty(t, f.navigator.all())
}

func TestFailedRefreshClearsCredentialsAndRedirects(t *testing.T) {
	var dataCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case apiclient.RouteAuthRefresh:
			w.WriteHeader(http.StatusUnauthorized)
		default:
			atomic.AddInt32(&dataCalls, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	f := newFixture(t, server.URL, storefakes.NewFakeCredentialStore("stale", "refresh-1"))
	err := f.client.Get(context.Background(), "/patients/me", nil)

	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrRefreshFailed))
	require.EqualValues(t, 1, atomic.LoadInt32(&dataCalls), "no retry after a failed refresh")
	require.Empty(t, f.store.AccessToken())
	require.Empty(t, f.store.RefreshToken())
	require.Equal(t, []string{"/tr/auth/login"}, f.navigator.all())
}

func TestUnauthorizedWithoutRefreshTokenClearsAndRedirects(t *testing.T) {
	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == apiclient.RouteAuthRefresh {
			atomic.AddInt32(&refreshCalls, 1)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	f := newFixture(t, server.URL, storefakes.NewFakeCredentialStore("stale", ""))
	err := f.client.Get(context.Background(), "/patients/me", nil)

	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrNoRefreshToken))
	require.Zero(t, atomic.LoadInt32(&refreshCalls), "no refresh attempt without a refresh token")
	require.Equal(t, 1, f.store.ClearCalls)
	require.Equal(t, []string{"/tr/auth/login"}, f.navigator.all())
}

func TestRetriedRequestIsNotRetriedAgain(t *testing.T) {
	var refreshCalls, dataCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == apiclient.RouteAuthRefresh {
			atomic.AddInt32(&refreshCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"access": "token-2"})
			return
		}
		// Keep failing even with the fresh token.
		atomic.AddInt32(&dataCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	f := newFixture(t, server.URL, storefakes.NewFakeCredentialStore("token-1", "refresh-1"))
	err := f.client.Get(context.Background(), "/patients/me", nil)

	require.Error(t, err)
	var apiErr *apiclient.APIError
	require.True(t, apperrors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	require.EqualValues(t, 2, atomic.LoadInt32(&dataCalls), "bounded to exactly one retry")
	require.Empty(t, f.notifier.all(), "second 401 is the caller's problem, no toast")
}

func TestConcurrentUnauthorizedRequestsShareOneRefresh(t *testing.T) {
	const workers = 8

	var refreshCalls int32
	arrived := make(chan struct{}, workers)
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case apiclient.RouteAuthRefresh:
			atomic.AddInt32(&refreshCalls, 1)
			time.Sleep(100 * time.Millisecond)
			json.NewEncoder(w).Encode(map[string]string{"access": "token-2"})
		default:
			if r.Header.Get("Authorization") != "Bearer token-2" {
				arrived <- struct{}{}
				<-release
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	f := newFixture(t, server.URL, storefakes.NewFakeCredentialStore("token-1", "refresh-1"))

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.client.Get(context.Background(), "/patients/me", nil)
		}(i)
	}

	// Hold every first attempt at the 401 gate, then release them together
	// so their refreshes overlap.
	for i := 0; i < workers; i++ {
		<-arrived
	}
	close(release)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls), "concurrent refreshes coalesce into one call")
}

func TestErrorNotificationMatrix(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantToasts   int
		wantSeverity notify.Severity
		wantMessage  string
	}{
		{
			name:         "forbidden uses server detail",
			status:       http.StatusForbidden,
			body:         `{"detail":"Doctors only."}`,
			wantToasts:   1,
			wantSeverity: notify.SeverityError,
			wantMessage:  "Doctors only.",
		},
		{
			name:         "forbidden without detail uses fallback",
			status:       http.StatusForbidden,
			body:         `{}`,
			wantToasts:   1,
			wantSeverity: notify.SeverityError,
			wantMessage:  "You are not authorized for this action.",
		},
		{
			name:         "not found",
			status:       http.StatusNotFound,
			body:         `{}`,
			wantToasts:   1,
			wantSeverity: notify.SeverityWarning,
			wantMessage:  "Record not found.",
		},
		{
			name:         "not found with message field",
			status:       http.StatusNotFound,
			body:         `{"message":"No such exercise."}`,
			wantToasts:   1,
			wantSeverity: notify.SeverityWarning,
			wantMessage:  "No such exercise.",
		},
		{
			name:         "rate limited",
			status:       http.StatusTooManyRequests,
			body:         `{}`,
			wantToasts:   1,
			wantSeverity: notify.SeverityWarning,
			wantMessage:  "Too many requests, please wait a moment.",
		},
		{
			name:         "server failure",
			status:       http.StatusBadGateway,
			body:         ``,
			wantToasts:   1,
			wantSeverity: notify.SeverityError,
			wantMessage:  "Server error, please try again.",
		},
		{
			name:       "other 4xx stays silent",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail":"field errors"}`,
			wantToasts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			f := newFixture(t, server.URL, storefakes.NewFakeCredentialStore("token-1", "refresh-1"))
			err := f.client.Get(context.Background(), "/records/42", nil)

			require.Error(t, err)
			var apiErr *apiclient.APIError
			require.True(t, apperrors.As(err, &apiErr), "caller can still branch on the original error")
			require.Equal(t, tt.status, apiErr.Status)

			toasts := f.notifier.all()
			require.Len(t, toasts, tt.wantToasts)
			if tt.wantToasts > 0 {
				require.Equal(t, tt.wantSeverity, toasts[0].Severity)
				require.Equal(t, tt.wantMessage, toasts[0].Message)
			}
		})
	}
}

func TestNetworkFailureEmitsConnectionToast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening

	f := newFixture(t, server.URL, storefakes.NewFakeCredentialStore("token-1", "refresh-1"))
	err := f.client.Get(context.Background(), "/patients/me", nil)

	require.Error(t, err)
	var transportErr *apiclient.TransportError
	require.True(t, apperrors.As(err, &transportErr))

	toasts := f.notifier.all()
	require.Len(t, toasts, 1)
	require.Equal(t, notify.SeverityError, toasts[0].Severity)
	require.Equal(t, "Connection error, please check your network.", toasts[0].Message)
}

func TestLoginStoresIssuedTokenPair(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, apiclient.RouteAuthLogin, r.URL.Path)
		json.NewEncoder(w).Encode(apiclient.Session{
			User:   apiclient.User{ID: "u1", Email: "ada@example.com", Role: "patient"},
			Tokens: apiclient.TokenPair{Access: "a1", Refresh: "r1"},
		})
	}))
	defer server.Close()

	f := newFixture(t, server.URL, storefakes.NewFakeCredentialStore("", ""))
	session, err := f.client.Login(context.Background(), "ada@example.com", "secret")

	require.NoError(t, err)
	require.Equal(t, "patient", session.User.Role)
	require.Equal(t, "a1", f.store.AccessToken())
	require.Equal(t, "r1", f.store.RefreshToken())
}

func TestLogoutClearsEvenWhenBackendFails(t *testing.T) {
	var logoutCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, apiclient.RouteAuthLogout, r.URL.Path)
		atomic.AddInt32(&logoutCalls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := newFixture(t, server.URL, storefakes.NewFakeCredentialStore("a1", "r1"))
	f.client.Logout(context.Background())

	require.EqualValues(t, 1, atomic.LoadInt32(&logoutCalls))
	require.Empty(t, f.store.AccessToken())
	require.Empty(t, f.store.RefreshToken())
	require.Empty(t, f.notifier.all(), "best-effort logout never toasts")
}
