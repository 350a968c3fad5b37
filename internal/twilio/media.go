package twilio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNoCredentials is returned when the account SID or auth token is not
// configured. Credentials are checked per fetch so a missing value is a
// runtime condition, not a startup failure.
var ErrNoCredentials = errors.New("twilio credentials not configured")

// HTTPError is a non-2xx response from the media host.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("media request failed with status %d", e.StatusCode)
}

// Unauthorized reports whether the failure was an authentication rejection.
func (e *HTTPError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// MediaFetcher downloads message attachments from Twilio using basic auth.
type MediaFetcher struct {
	accountSID string
	authToken  string
	client     *http.Client
}

func NewMediaFetcher(accountSID, authToken string, timeout time.Duration) *MediaFetcher {
	return &MediaFetcher{
		accountSID: accountSID,
		authToken:  authToken,
		client:     &http.Client{Timeout: timeout},
	}
}

// Fetch streams the attachment at url. The caller must close the returned
// body. Authentication rejections come back as *HTTPError with Unauthorized
// true so callers can reply with a credential-specific message.
func (f *MediaFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	if f.accountSID == "" || f.authToken == "" {
		return nil, ErrNoCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build media request: %w", err)
	}
	req.SetBasicAuth(f.accountSID, f.authToken)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}
