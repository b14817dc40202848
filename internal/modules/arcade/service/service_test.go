package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"anoa.com/arcadecalculator/internal/entity"
	"anoa.com/arcadecalculator/internal/modules/arcade/dto"
	"anoa.com/arcadecalculator/internal/modules/arcade/provider"
	"anoa.com/arcadecalculator/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeFetcher struct {
	badges []provider.RawBadge
	err    error
	urls   []string
}

func (f *fakeFetcher) FetchBadges(_ context.Context, profileURL string) ([]provider.RawBadge, error) {
	f.urls = append(f.urls, profileURL)
	return f.badges, f.err
}

type fakeLimiter struct {
	allowed  bool
	allowErr error
	ttl      time.Duration
	ttlErr   error
}

func (l *fakeLimiter) Allow(context.Context, string, string) (bool, error) {
	return l.allowed, l.allowErr
}

func (l *fakeLimiter) TTL(context.Context, string, string) (time.Duration, error) {
	return l.ttl, l.ttlErr
}

func sampleRawBadges() []provider.RawBadge {
	return []provider.RawBadge{
		{Name: "Skills Boost Love Beyond", EarnedText: "Earned Jan 15, 2025 EST"},
		{Name: "Skills Boost Trivia Challenge", EarnedText: "Earned Jan 20, 2025 EST"},
		{Name: "Analyze BigQuery Data in Connected Sheets", EarnedText: "Earned Jan 25, 2025 EST"},
		{Name: "Get Started with Cloud Storage", EarnedText: "Earned Jan 30, 2025 EST"},
		{Name: "Broken Badge", EarnedText: "n/a"},
	}
}

func TestArcadeService_CalculateFromProfile(t *testing.T) {
	fetcher := &fakeFetcher{badges: sampleRawBadges()}
	svc := NewArcadeService(newTestCalculator(t), fetcher, nil, nil)

	result, err := svc.CalculateFromProfile(context.Background(), "127.0.0.1", dto.ProfileCalculationQuery{
		ProfileURL: "https://example.com/public_profiles/abc",
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Points)
	assert.Nil(t, result.MilestoneProgress)
	assert.Equal(t, []string{"https://example.com/public_profiles/abc"}, fetcher.urls)

	result, err = svc.CalculateFromProfile(context.Background(), "127.0.0.1", dto.ProfileCalculationQuery{
		ProfileURL:    "https://example.com/public_profiles/abc",
		IsFacilitator: "true",
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Points)
	require.NotNil(t, result.MilestoneProgress)
	assert.Equal(t, 12, result.MilestoneProgress.Tiers[0].Missing[entity.BadgeSkill])
}

func TestArcadeService_CalculateFromProfile_FetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	svc := NewArcadeService(newTestCalculator(t), fetcher, nil, nil)

	_, err := svc.CalculateFromProfile(context.Background(), "127.0.0.1", dto.ProfileCalculationQuery{
		ProfileURL: "https://example.com/p",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrUpstream)
	assert.Equal(t, http.StatusBadGateway, apperror.MapErrorToStatus(err))
}

func TestArcadeService_CalculateFromBadges(t *testing.T) {
	svc := NewArcadeService(newTestCalculator(t), &fakeFetcher{}, nil, nil)

	result, err := svc.CalculateFromBadges(context.Background(), dto.BadgeCalculationRequest{
		Badges: []dto.BadgeInput{
			{Name: "Skills Boost Trivia Challenge", EarnedDate: "2025-01-20T00:00:00.000Z"},
			{Name: "Get Started with Cloud Storage", EarnedDate: "2025-01-30T00:00:00Z"},
		},
		IsFacilitator: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.5, result.Points)
	require.NotNil(t, result.MilestoneProgress)
	assert.Equal(t, 1, result.MilestoneProgress.Counts[entity.BadgeTrivia])
}

func TestArcadeService_CalculateFromBadges_InvalidDate(t *testing.T) {
	svc := NewArcadeService(newTestCalculator(t), &fakeFetcher{}, nil, nil)

	_, err := svc.CalculateFromBadges(context.Background(), dto.BadgeCalculationRequest{
		Badges: []dto.BadgeInput{{Name: "Skills Boost Trivia Challenge", EarnedDate: "last week"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
	assert.Contains(t, apperror.PublicMessage(err, ""), "badges[0]")
}

func TestArcadeService_RulesAndClassification(t *testing.T) {
	svc := NewArcadeService(newTestCalculator(t), &fakeFetcher{}, nil, nil)

	assert.Equal(t, entity.BadgeTrivia, svc.DetermineBadgeType("Skills Boost Trivia Challenge"))
	assert.Equal(t, DefaultRules(), svc.GetRules())
}

func TestCheckAndSetRateLimit_DisabledWithoutRedis(t *testing.T) {
	allowed, err := CheckAndSetRateLimit(context.Background(), nil, "1.2.3.4", ActionProfileFetch, 0)
	require.NoError(t, err)
	assert.True(t, allowed)

	ttl, err := GetRateLimitTTL(context.Background(), nil, "1.2.3.4", ActionProfileFetch)
	require.NoError(t, err)
	assert.Zero(t, ttl)
}

func TestArcadeService_CalculateFromProfile_RateLimited(t *testing.T) {
	fetcher := &fakeFetcher{badges: sampleRawBadges()}
	limiter := &fakeLimiter{allowed: false, ttl: 1500 * time.Millisecond}
	svc := NewArcadeService(newTestCalculator(t), fetcher, limiter, nil)

	_, err := svc.CalculateFromProfile(context.Background(), "127.0.0.1", dto.ProfileCalculationQuery{
		ProfileURL: "https://example.com/p",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
	assert.Equal(t, http.StatusTooManyRequests, apperror.MapErrorToStatus(err))
	assert.Equal(t, "Too many requests, retry in 2s", apperror.PublicMessage(err, ""))
	assert.Empty(t, fetcher.urls)
}

func TestArcadeService_CalculateFromProfile_RateLimitTTLFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	limiter := &fakeLimiter{allowed: false, ttlErr: errors.New("redis: connection pool timeout")}
	svc := NewArcadeService(newTestCalculator(t), &fakeFetcher{}, limiter, zap.New(core))

	_, err := svc.CalculateFromProfile(context.Background(), "127.0.0.1", dto.ProfileCalculationQuery{
		ProfileURL: "https://example.com/p",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, apperror.MapErrorToStatus(err))
	assert.Equal(t, "Too many requests, retry later", apperror.PublicMessage(err, ""))
	assert.Equal(t, 1, logs.FilterMessage("rate limit ttl lookup failed").Len())
}

func TestArcadeService_CalculateFromProfile_RateLimiterDown(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fetcher := &fakeFetcher{badges: sampleRawBadges()}
	limiter := &fakeLimiter{allowErr: errors.New("redis: connection refused")}
	svc := NewArcadeService(newTestCalculator(t), fetcher, limiter, zap.New(core))

	result, err := svc.CalculateFromProfile(context.Background(), "127.0.0.1", dto.ProfileCalculationQuery{
		ProfileURL: "https://example.com/p",
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Points)
	assert.Equal(t, 1, logs.FilterMessage("rate limit check failed").Len())
}

func TestRedisRateLimiter_NilClientAllows(t *testing.T) {
	limiter := NewRedisRateLimiter(nil, time.Minute)

	allowed, err := limiter.Allow(context.Background(), "1.2.3.4", ActionProfileFetch)
	require.NoError(t, err)
	assert.True(t, allowed)

	ttl, err := limiter.TTL(context.Background(), "1.2.3.4", ActionProfileFetch)
	require.NoError(t, err)
	assert.Zero(t, ttl)
}
