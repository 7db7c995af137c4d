package maven

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"golang.org/x/xerrors"
)

// Transport fetches bytes for a URL. The downloader (§4.G) is the only
// caller; producers passed to PomCache.Compute invoke it on a cache miss.
type Transport interface {
	// Get returns (body, found, err): found=false with err=nil means a
	// definitive 404 (mapped by the downloader to Unavailable); a
	// non-nil err is a TransportFailure and is never cached.
	Get(ctx context.Context, url string) (body io.ReadCloser, found bool, err error)
}

// httpTransport wraps a retrying HTTP client per the teacher's own
// configuration (crawler.NewCrawler: client.RetryMax = 10), with one
// sony/gobreaker circuit breaker per repository host so a repository
// suffering repeated TransportFailures trips open for a cooldown window
// instead of being hammered with retries. This is additive resilience
// from SPEC_FULL.md §4.G; it never marks a key Unavailable itself — an
// open breaker surfaces as a TransportFailure error, per §4.D.3's
// transport-failure carve-out.
type httpTransport struct {
	client *retryablehttp.Client

	mu        sync.Mutex
	breakers  map[string]*gobreaker.CircuitBreaker
}

// NewHTTPTransport returns a Transport grounded on crawler.NewCrawler's
// retryablehttp configuration.
func NewHTTPTransport() Transport {
	client := retryablehttp.NewClient()
	client.RetryMax = 10
	client.Logger = nil
	return &httpTransport{
		client:   client,
		breakers: map[string]*gobreaker.CircuitBreaker{},
	}
}

func (t *httpTransport) breakerFor(host string) *gobreaker.CircuitBreaker {
	t.mu.Lock()
	defer t.mu.Unlock()
	if b, ok := t.breakers[host]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
	})
	t.breakers[host] = b
	return b
}

func (t *httpTransport) Get(ctx context.Context, rawURL string) (io.ReadCloser, bool, error) {
	host := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}
	breaker := t.breakerFor(host)

	result, err := breaker.Execute(func() (interface{}, error) {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, xerrors.Errorf("new request %s: %w", rawURL, err)
		}
		resp, err := t.client.Do(req)
		if err != nil {
			return nil, xerrors.Errorf("get %s: %w", rawURL, err)
		}
		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return &getResult{found: false}, nil
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, xerrors.Errorf("get %s: unexpected status %d", rawURL, resp.StatusCode)
		}
		return &getResult{body: resp.Body, found: true}, nil
	})
	if err != nil {
		return nil, false, newError(KindTransportFailure, rawURL, err)
	}
	r := result.(*getResult)
	return r.body, r.found, nil
}

// getResult carries a 404 across gobreaker's interface{} return without
// the typed-nil-in-interface trap a bare io.ReadCloser return would hit.
type getResult struct {
	body  io.ReadCloser
	found bool
}
