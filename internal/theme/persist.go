package theme

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"demonlist/internal/telemetry"
)

// HTTPPersister stores the theme with a GET to <SiteURL>/set_theme?theme=<t>.
type HTTPPersister struct {
	SiteURL string
	Client  *http.Client
}

// NewHTTPPersister returns a persister for siteURL whose requests are
// measured and logged.
func NewHTTPPersister(siteURL string, logger *slog.Logger) *HTTPPersister {
	return &HTTPPersister{
		SiteURL: siteURL,
		Client:  telemetry.Client(logger, PersistTimeout),
	}
}

// Persist implements Persister. Any 2xx answer counts as success and its body
// is ignored.
func (p *HTTPPersister) Persist(ctx context.Context, t Theme) error {
	u, err := url.Parse(p.SiteURL)
	if err != nil {
		return fmt.Errorf("parse site url: %w", err)
	}
	u = u.JoinPath("set_theme")
	u.RawQuery = url.Values{"theme": {string(t)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
