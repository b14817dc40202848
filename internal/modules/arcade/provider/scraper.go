package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gocolly/colly/v2"
)

const (
	badgeSelector       = ".profile-badge"
	badgeNameSelector   = ".ql-title-medium.l-mts"
	badgeEarnedSelector = ".ql-body-medium.l-mbs"

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var ErrProfileFetch = errors.New("failed to fetch profile page")

// RawBadge is a badge exactly as it appears on the profile page.
type RawBadge struct {
	Name       string
	EarnedText string
}

type ScraperConfig struct {
	UserAgent       string
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
}

// ProfileScraper extracts badges from public learner profile pages.
type ProfileScraper struct {
	cfg ScraperConfig
}

func NewProfileScraper(cfg ScraperConfig) *ProfileScraper {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}

	return &ProfileScraper{cfg: cfg}
}

// FetchBadges visits profileURL and returns every badge block found, in page
// order. Transport errors and 5xx responses are retried; 4xx are not.
func (s *ProfileScraper) FetchBadges(ctx context.Context, profileURL string) ([]RawBadge, error) {
	var badges []RawBadge

	operation := func() error {
		result, status, err := s.visit(ctx, profileURL)
		if err != nil {
			if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		}
		badges = result
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.cfg.InitialInterval
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, s.cfg.MaxRetries), ctx)

	if err := backoff.Retry(operation, retry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	return badges, nil
}

// visit runs a single fetch with a fresh collector, so retries are not
// rejected as revisits.
func (s *ProfileScraper) visit(ctx context.Context, profileURL string) ([]RawBadge, int, error) {
	c := colly.NewCollector(
		colly.UserAgent(s.cfg.UserAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(s.cfg.Timeout)

	var (
		badges []RawBadge
		status int
	)

	c.OnHTML(badgeSelector, func(e *colly.HTMLElement) {
		badges = append(badges, RawBadge{
			Name:       strings.TrimSpace(e.ChildText(badgeNameSelector)),
			EarnedText: strings.TrimSpace(e.ChildText(badgeEarnedSelector)),
		})
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})
	c.OnError(func(r *colly.Response, _ error) {
		status = r.StatusCode
	})

	if err := c.Visit(profileURL); err != nil {
		return nil, status, err
	}

	return badges, status, nil
}
