package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anoa.com/arcadecalculator/internal/entity"
	"anoa.com/arcadecalculator/internal/modules/arcade/dto"
	"anoa.com/arcadecalculator/internal/modules/arcade/provider"
	"anoa.com/arcadecalculator/pkg/apperror"
	"go.uber.org/zap"
)

const ActionProfileFetch = "profile_fetch"

// BadgeFetcher loads the raw badges shown on a profile page.
type BadgeFetcher interface {
	FetchBadges(ctx context.Context, profileURL string) ([]provider.RawBadge, error)
}

type ArcadeService interface {
	CalculateFromProfile(ctx context.Context, clientID string, query dto.ProfileCalculationQuery) (*CalculationResult, error)
	CalculateFromBadges(ctx context.Context, req dto.BadgeCalculationRequest) (*CalculationResult, error)
	DetermineBadgeType(name string) entity.BadgeCategory
	GetRules() Rules
}

type arcadeService struct {
	calculator *Calculator
	fetcher    BadgeFetcher
	limiter    RateLimiter
	logger     *zap.Logger
}

// NewArcadeService builds the service. A nil limiter disables rate limiting.
func NewArcadeService(calculator *Calculator, fetcher BadgeFetcher, limiter RateLimiter, logger *zap.Logger) ArcadeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewRedisRateLimiter(nil, 0)
	}

	return &arcadeService{
		calculator: calculator,
		fetcher:    fetcher,
		limiter:    limiter,
		logger:     logger,
	}
}

func (s *arcadeService) CalculateFromProfile(ctx context.Context, clientID string, query dto.ProfileCalculationQuery) (*CalculationResult, error) {
	allowed, err := s.limiter.Allow(ctx, clientID, ActionProfileFetch)
	if err != nil {
		// best effort: a redis outage allows the request
		s.logger.Warn("rate limit check failed", zap.Error(err))
	} else if !allowed {
		return nil, apperror.New(http.StatusTooManyRequests, s.rateLimitMessage(ctx, clientID), apperror.ErrRateLimitExceeded)
	}

	raw, err := s.fetcher.FetchBadges(ctx, query.ProfileURL)
	if err != nil {
		return nil, apperror.New(http.StatusBadGateway, "Failed to fetch profile page",
			fmt.Errorf("%w: %w", apperror.ErrUpstream, err))
	}

	badges, dropped := ParseRawBadges(raw, s.calculator.DetermineBadgeType)
	if dropped > 0 {
		s.logger.Info("dropped unreadable badges",
			zap.String("profile_url", query.ProfileURL),
			zap.Int("dropped", dropped),
		)
	}

	result := s.calculator.CalculateArcadePoints(badges, query.Facilitator())

	s.logger.Info("calculated profile points",
		zap.String("profile_url", query.ProfileURL),
		zap.Int("badges", len(badges)),
		zap.Bool("facilitator", query.Facilitator()),
		zap.Float64("points", result.Points),
	)

	return &result, nil
}

func (s *arcadeService) rateLimitMessage(ctx context.Context, clientID string) string {
	ttl, err := s.limiter.TTL(ctx, clientID, ActionProfileFetch)
	if err != nil {
		s.logger.Warn("rate limit ttl lookup failed", zap.String("client_id", clientID), zap.Error(err))
		return "Too many requests, retry later"
	}
	if ttl <= 0 {
		return "Too many requests, retry later"
	}
	return fmt.Sprintf("Too many requests, retry in %s", ttl.Round(time.Second))
}

func (s *arcadeService) CalculateFromBadges(ctx context.Context, req dto.BadgeCalculationRequest) (*CalculationResult, error) {
	badges := make([]entity.Badge, 0, len(req.Badges))
	for i, input := range req.Badges {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, apperror.New(http.StatusBadRequest,
				fmt.Sprintf("badges[%d]: name is required", i), apperror.ErrInvalidInput)
		}

		earned, err := time.Parse(time.RFC3339, strings.TrimSpace(input.EarnedDate))
		if err != nil {
			return nil, apperror.New(http.StatusBadRequest,
				fmt.Sprintf("badges[%d]: earnedDate must be an ISO-8601 timestamp", i),
				fmt.Errorf("%w: %w", apperror.ErrInvalidInput, err))
		}

		badges = append(badges, entity.Badge{
			Name:       name,
			Type:       s.calculator.DetermineBadgeType(name),
			EarnedDate: earned.UTC(),
		})
	}

	result := s.calculator.CalculateArcadePoints(badges, req.IsFacilitator)
	return &result, nil
}

func (s *arcadeService) DetermineBadgeType(name string) entity.BadgeCategory {
	return s.calculator.DetermineBadgeType(name)
}

func (s *arcadeService) GetRules() Rules {
	return s.calculator.Rules()
}
