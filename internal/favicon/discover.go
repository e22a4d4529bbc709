package favicon

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/metrics"
	"github.com/MrSnakeDoc/goodneighbor/internal/utils"
)

const (
	DefaultTimeout        = 5 * time.Second
	DefaultGoogleEndpoint = "https://www.google.com/s2/favicons"

	maxPageSize = 2 << 20
	userAgent   = "Mozilla/5.0 (compatible; goodneighbor/1.0)"
)

// defaultPaths are tried on the site root when the page declares nothing usable.
var defaultPaths = []string{
	"/favicon.ico",
	"/favicon.png",
	"/apple-touch-icon.png",
	"/apple-touch-icon-precomposed.png",
}

// errRejected marks a response that answered but was not a usable icon.
// It does not count against the circuit breaker.
var errRejected = errors.New("response is not a usable icon")

// Discoverer looks for a favicon using, in order, the page's <link> tags,
// the well-known paths and Google's favicon service.
type Discoverer struct {
	client  *http.Client
	timeout time.Duration
	google  string
	breaker *gobreaker.CircuitBreaker
	logger  logger.Logger
	metrics *metrics.Collector
}

type DiscovererOption func(*Discoverer)

func WithHTTPClient(c *http.Client) DiscovererOption {
	return func(d *Discoverer) { d.client = c }
}

// WithGoogleEndpoint replaces the fallback service URL. An empty endpoint
// disables the fallback.
func WithGoogleEndpoint(endpoint string) DiscovererOption {
	return func(d *Discoverer) { d.google = endpoint }
}

func WithTimeout(timeout time.Duration) DiscovererOption {
	return func(d *Discoverer) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func WithMetrics(c *metrics.Collector) DiscovererOption {
	return func(d *Discoverer) { d.metrics = c }
}

func NewDiscoverer(log logger.Logger, opts ...DiscovererOption) *Discoverer {
	d := &Discoverer{
		client:  &http.Client{},
		timeout: DefaultTimeout,
		google:  DefaultGoogleEndpoint,
		logger:  log.Named("favicon"),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "google-favicon",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			d.logger.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	return d
}

// Discover returns ErrNotFound when every strategy fails.
func (d *Discoverer) Discover(ctx context.Context, pageURL, domain string) (*Result, error) {
	d.logger.Debug("starting favicon discovery",
		logger.String("url", pageURL),
		logger.String("domain", domain))

	if res := d.fromHTML(ctx, pageURL); res != nil {
		d.metrics.FaviconDiscovered("html")
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, p := range defaultPaths {
		res, err := d.fetchIcon(ctx, domain+p)
		if err == nil {
			d.logger.Debug("found favicon at default location", logger.String("url", domain+p))
			d.metrics.FaviconDiscovered("default")
			return res, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if res := d.fromGoogle(ctx, domain); res != nil {
		d.metrics.FaviconDiscovered("google")
		return res, nil
	}

	d.metrics.FaviconDiscovered("none")
	return nil, ErrNotFound
}

func (d *Discoverer) fromHTML(ctx context.Context, pageURL string) *Result {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.get(ctx, pageURL)
	if err != nil {
		d.logger.Debug("failed to fetch page", logger.String("url", pageURL), logger.Error(err))
		return nil
	}
	defer utils.DrainClose(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	candidates, err := iconCandidates(io.LimitReader(resp.Body, maxPageSize), resp.Request.URL)
	if err != nil {
		d.logger.Debug("failed to parse page", logger.String("url", pageURL), logger.Error(err))
		return nil
	}

	for _, c := range candidates {
		if res, err := d.fetchIcon(ctx, c); err == nil {
			d.logger.Debug("found favicon in page", logger.String("url", c))
			return res
		}
	}
	return nil
}

func (d *Discoverer) fromGoogle(ctx context.Context, domain string) *Result {
	if d.google == "" {
		return nil
	}
	u, err := url.Parse(domain)
	if err != nil {
		return nil
	}
	endpoint := d.google + "?" + url.Values{"domain": {u.Hostname()}, "sz": {"64"}}.Encode()

	out, err := d.breaker.Execute(func() (any, error) {
		return d.fetchIcon(ctx, endpoint)
	})
	if err != nil {
		d.logger.Debug("google favicon service failed", logger.String("domain", domain), logger.Error(err))
		return nil
	}
	res := out.(*Result)
	res.Source = GoogleSource
	return res
}

// fetchIcon downloads url and accepts it when it is a 200 image response of
// at most MaxIconSize bytes.
func (d *Discoverer) fetchIcon(ctx context.Context, iconURL string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.get(ctx, iconURL)
	if err != nil {
		return nil, err
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%s: status %d", iconURL, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", errRejected, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxIconSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 || len(body) > MaxIconSize {
		return nil, fmt.Errorf("%w: size %d", errRejected, len(body))
	}

	mediaType := imageType(resp.Header.Get("Content-Type"), body)
	if mediaType == "" {
		return nil, fmt.Errorf("%w: content type %q", errRejected, resp.Header.Get("Content-Type"))
	}

	return &Result{
		DataURL: "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(body),
		Format:  formatOf(mediaType),
		Source:  iconURL,
	}, nil
}

func (d *Discoverer) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	return d.client.Do(req)
}

// imageType returns the image media type of a response, trusting the header
// first and content sniffing second. It returns "" for non-images.
func imageType(header string, body []byte) string {
	if mt, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	if sniffed := http.DetectContentType(body); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	head := bytes.TrimSpace(body[:min(len(body), 512)])
	if bytes.HasPrefix(head, []byte("<svg")) ||
		(bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<svg"))) {
		return "image/svg+xml"
	}
	return ""
}
