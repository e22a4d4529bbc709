package favicon

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/metrics"
)

// discoveryBudget bounds one whole discovery, all strategies included.
const discoveryBudget = 30 * time.Second

// Response is the payload returned to API clients.
type Response struct {
	Success bool    `json:"success"`
	Favicon *string `json:"favicon"`
	Format  *string `json:"format"`
	Source  *string `json:"source"`
	Error   *string `json:"error"`
}

// Sweeper is implemented by caches with entries to expire.
type Sweeper interface {
	Sweep() int
}

// Service answers favicon requests from the cache, discovering on a miss.
// Concurrent misses for one domain share a single discovery.
type Service struct {
	discoverer *Discoverer
	cache      Cache
	group      singleflight.Group
	logger     logger.Logger
	metrics    *metrics.Collector
}

func NewService(d *Discoverer, cache Cache, log logger.Logger, m *metrics.Collector) *Service {
	return &Service{discoverer: d, cache: cache, logger: log.Named("favicon"), metrics: m}
}

// Lookup returns ErrInvalidURL for input that has no usable host. Every
// other outcome, including "not found", is reported inside the Response.
func (s *Service) Lookup(ctx context.Context, rawURL string) (Response, error) {
	page, err := normalize(rawURL)
	if err != nil {
		return Response{}, err
	}
	domain := page.Scheme + "://" + page.Host

	cached, err := s.cache.Get(ctx, domain)
	if err != nil {
		s.logger.Warn("favicon cache lookup failed", logger.String("domain", domain), logger.Error(err))
	}
	if cached != nil {
		s.metrics.FaviconCache(true)
		return found(*cached, cached.Source+" (cached)"), nil
	}
	s.metrics.FaviconCache(false)

	v, err, shared := s.group.Do(domain, func() (any, error) {
		// Detached from the caller: other waiters share this discovery.
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discoveryBudget)
		defer cancel()

		res, err := s.discoverer.Discover(dctx, page.String(), domain)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(dctx, domain, *res); err != nil {
			s.logger.Warn("failed to cache favicon", logger.String("domain", domain), logger.Error(err))
		}
		return res, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Info("no favicon found", logger.String("domain", domain))
			return failed("No favicon found"), nil
		}
		s.logger.Error("favicon discovery failed", logger.String("domain", domain), logger.Error(err))
		return failed("Failed to fetch favicon: " + err.Error()), nil
	}

	res := v.(*Result)
	s.logger.Info("favicon discovered",
		logger.String("domain", domain),
		logger.String("source", res.Source),
		logger.Bool("shared", shared))
	return found(*res, res.Source), nil
}

// Clear drops the cached icon for the domain of rawURL, or every icon when
// rawURL is empty. It returns the normalised domain it cleared.
func (s *Service) Clear(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", s.cache.Clear(ctx, "")
	}
	domain, err := ExtractDomain(rawURL)
	if err != nil {
		return "", err
	}
	return domain, s.cache.Clear(ctx, domain)
}

func (s *Service) Stats(ctx context.Context) Stats {
	return s.cache.Stats(ctx)
}

// Sweep expires cache entries when the cache supports it.
func (s *Service) Sweep() int {
	sw, ok := s.cache.(Sweeper)
	if !ok {
		return 0
	}
	n := sw.Sweep()
	s.metrics.FaviconExpired(n)
	return n
}

func found(r Result, source string) Response {
	return Response{
		Success: true,
		Favicon: &r.DataURL,
		Format:  &r.Format,
		Source:  &source,
	}
}

func failed(msg string) Response {
	return Response{Error: &msg}
}
