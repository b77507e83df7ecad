package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/neurocarehub/webfront/internal/errors"
)

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
	// Some deployments rotate the refresh token as well.
	Refresh string `json:"refresh,omitempty"`
}

// refreshAccessToken exchanges the refresh credential for a new access
// token and stores it. Concurrent callers are coalesced into a single
// upstream call; all waiters share its outcome. The refresh request goes
// through a dedicated path so it is never itself intercepted.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		refreshToken := c.credentials.RefreshToken()
		if refreshToken == "" {
			return nil, apperrors.ErrNoRefreshToken
		}

		body, err := json.Marshal(refreshRequest{Refresh: refreshToken})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(RouteAuthRefresh), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Language", c.currentLocale())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &TransportError{Cause: err}
		}
		defer drain(resp)

		if resp.StatusCode >= 400 {
			log.Debug().Int("status", resp.StatusCode).Msg("token refresh rejected")
			return nil, apperrors.Wrapf(apperrors.ErrRefreshFailed, "status %d", resp.StatusCode)
		}

		var refreshed refreshResponse
		if err := json.NewDecoder(resp.Body).Decode(&refreshed); err != nil {
			return nil, apperrors.Wrapf(err, "decode refresh response")
		}
		if refreshed.Access == "" {
			return nil, apperrors.ErrRefreshFailed
		}

		if refreshed.Refresh != "" {
			c.credentials.SetTokens(refreshed.Access, refreshed.Refresh)
		} else {
			c.credentials.SetAccessToken(refreshed.Access)
		}
		return nil, nil
	})
	return err
}
