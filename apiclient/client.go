// Package apiclient is the single chokepoint through which the frontend
// talks to the backend REST API. It attaches the bearer credential and
// locale to every outbound call, transparently refreshes an expired
// access token once per request, and surfaces unrecoverable failures to
// both the caller and the notification surface.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/neurocarehub/webfront/internal/errors"
	"github.com/neurocarehub/webfront/notify"
)

// Navigator is the "send the browser somewhere else" side effect,
// injected so the client never touches the response writer directly.
type Navigator interface {
	To(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) To(path string) { f(path) }

// Config wires credentials, notifications, and navigation into a Client.
type Config struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials CredentialStore
	Notifier    notify.Notifier
	Navigator   Navigator
	// Locale supplies the Accept-Language value per call. DefaultLocale
	// is used when Locale is nil or returns an empty string.
	Locale        func() string
	DefaultLocale string
}

// Client performs authenticated JSON calls against the backend API.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	credentials   CredentialStore
	notifier      notify.Notifier
	navigator     Navigator
	locale        func() string
	defaultLocale string

	// Concurrent 401s share a single in-flight refresh call.
	refreshGroup *singleflight.Group
}

// NewClient validates the configuration and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.Credentials == nil {
		return nil, errors.New("apiclient: credential store required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NewCenter() // no subscriber: emitting is a no-op
	}
	navigator := cfg.Navigator
	if navigator == nil {
		navigator = NavigatorFunc(func(string) {})
	}
	defaultLocale := cfg.DefaultLocale
	if defaultLocale == "" {
		defaultLocale = "tr"
	}
	return &Client{
		baseURL:       baseURL,
		httpClient:    httpClient,
		credentials:   cfg.Credentials,
		notifier:      notifier,
		navigator:     navigator,
		locale:        cfg.Locale,
		defaultLocale: defaultLocale,
		refreshGroup:  new(singleflight.Group),
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("apiclient: base URL required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("apiclient: invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("apiclient: base URL must include scheme and host")
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

// Do performs a JSON request against the backend and decodes a 2xx
// response body into out (out may be nil).
//
// On the first 401 for this call the client refreshes the access token
// and re-issues the request exactly once. On a terminal authorization
// failure it clears the credential pair, navigates to the login page for
// the current locale, and still returns the error so the caller can
// short-circuit. All other non-2xx outcomes are classified into at most
// one notification and returned to the caller unchanged.
func (c *Client) Do(ctx context.Context, method, path string, payload, out any) error {
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("apiclient: encode request: %w", err)
		}
		body = encoded
	}

	retried := false
	for {
		resp, err := c.send(ctx, method, path, body)
		if err != nil {
			transportErr := &TransportError{Cause: err}
			c.notifier.Notify(notify.New(notify.SeverityError, "Connection error, please check your network."))
			return transportErr
		}

		if resp.StatusCode == http.StatusUnauthorized && !retried {
			drain(resp)
			retried = true
			if err := c.refreshAccessToken(ctx); err != nil {
				c.credentials.Clear()
				c.navigator.To("/" + c.currentLocale() + "/auth/login")
				return fmt.Errorf("apiclient: %s %s: %w: %w", method, path, apperrors.ErrSessionExpired, err)
			}
			continue // re-issue the original request once with the new token
		}

		if resp.StatusCode >= 400 {
			apiErr := decodeAPIError(resp)
			drain(resp)
			c.notifyAPIError(apiErr)
			return apiErr
		}

		defer drain(resp)
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("apiclient: decode response: %w", err)
		}
		return nil
	}
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON payload.
func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	return c.Do(ctx, http.MethodPost, path, payload, out)
}

// Put issues a PUT request with a JSON payload.
func (c *Client) Put(ctx context.Context, path string, payload, out any) error {
	return c.Do(ctx, http.MethodPut, path, payload, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.currentLocale())
	// The token is read per attempt so a retry picks up the refreshed one.
	if token := c.credentials.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.httpClient.Do(req)
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) currentLocale() string {
	if c.locale != nil {
		if loc := c.locale(); loc != "" {
			return loc
		}
	}
	return c.defaultLocale
}

// notifyAPIError emits exactly one notification for the status classes
// this layer recognizes. Other 4xx responses are the caller's problem.
func (c *Client) notifyAPIError(apiErr *APIError) {
	switch {
	case apiErr.Status == http.StatusForbidden:
		c.notifier.Notify(notify.New(notify.SeverityError, messageOrDefault(apiErr, "You are not authorized for this action.")))
	case apiErr.Status == http.StatusNotFound:
		c.notifier.Notify(notify.New(notify.SeverityWarning, messageOrDefault(apiErr, "Record not found.")))
	case apiErr.Status == http.StatusTooManyRequests:
		c.notifier.Notify(notify.New(notify.SeverityWarning, "Too many requests, please wait a moment."))
	case apiErr.Status >= 500:
		c.notifier.Notify(notify.New(notify.SeverityError, "Server error, please try again."))
	}
}

func messageOrDefault(apiErr *APIError, fallback string) string {
	if msg := apiErr.UserMessage(); msg != "" {
		return msg
	}
	return fallback
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	if err := resp.Body.Close(); err != nil {
		log.Debug().Err(err).Msg("closing response body")
	}
}
