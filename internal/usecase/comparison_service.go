package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bespaarwijzer/backend/internal/domain"
)

// Result sources
const (
	SourceComputed = "computed"
	SourceCache    = "cache"
)

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	CacheTTL time.Duration
	Matching MatchConfig
}

// ComparisonService prepares promotional records and runs the cross-retailer
// matcher over them, caching finished responses.
type ComparisonService struct {
	cache           domain.CacheRepository
	feed            domain.FeedClient
	matchingService *MatchingService
	cacheTTL        time.Duration
	logger          zerolog.Logger
	now             func() time.Time
}

// NewComparisonService creates a new comparison service. Both cache and feed
// may be nil: without a cache every request is computed, without a feed only
// caller-supplied records can be compared.
func NewComparisonService(
	cache domain.CacheRepository,
	feed domain.FeedClient,
	config ComparisonServiceConfig,
	logger zerolog.Logger,
) *ComparisonService {
	matchCfg := config.Matching
	if matchCfg.Logger == nil {
		matchCfg.Logger = &logger
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	return &ComparisonService{
		cache:           cache,
		feed:            feed,
		matchingService: NewMatchingService(matchCfg),
		cacheTTL:        cacheTTL,
		logger:          logger.With().Str("component", "comparison_service").Logger(),
		now:             time.Now,
	}
}

// Compare annotates the records and returns the ranked comparisons and
// insights for them.
// Flow: check cache -> resolve mechanisms -> annotate -> match -> cache -> return
func (s *ComparisonService) Compare(ctx context.Context, records []domain.ProductRecord) (*domain.ComparisonResponse, error) {
	if len(records) == 0 {
		return nil, domain.ErrNoProducts
	}

	cacheKey, err := generateCacheKey(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		cached.Source = SourceCache
		return cached, nil
	}

	prepared := s.Annotate(records)

	match, err := s.matchingService.FindComparisons(ctx, prepared)
	if err != nil {
		return nil, err
	}

	response := &domain.ComparisonResponse{
		Comparisons: match.Groups,
		Insights:    BuildInsights(prepared, match.Groups),
		Source:      SourceComputed,
		GeneratedAt: s.now().UTC(),
	}

	if err := s.setInCache(ctx, cacheKey, response); err != nil {
		s.logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache comparison response")
	}

	s.logger.Info().
		Int("products", len(records)).
		Int("comparisons", len(response.Comparisons)).
		Msg("comparison computed")

	return response, nil
}

// CompareFeed loads the current records from the product feed and compares them
func (s *ComparisonService) CompareFeed(ctx context.Context) (*domain.ComparisonResponse, error) {
	if s.feed == nil {
		return nil, domain.ErrFeedNotConfigured
	}

	records, err := s.feed.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedFailure, err)
	}

	return s.Compare(ctx, records)
}

// Annotate returns a copy of the records with missing offer prices resolved
// from their promotional mechanism and every annotation field filled.
func (s *ComparisonService) Annotate(records []domain.ProductRecord) []domain.ProductRecord {
	prepared := make([]domain.ProductRecord, len(records))
	copy(prepared, records)

	for i := range prepared {
		resolveOfferPrice(&prepared[i])
	}
	AnnotateAll(prepared)
	return prepared
}

// resolveOfferPrice derives the offer price from the discount text when a
// retailer only publishes the normal price and the deal.
func resolveOfferPrice(p *domain.ProductRecord) {
	if p.OfferPrice != nil || p.NormalPrice == nil || p.DiscountText == "" {
		return
	}
	price := ResolveMechanism(p.DiscountText, *p.NormalPrice)
	p.OfferPrice = &price
}

// generateCacheKey hashes the input records into a stable cache key.
// Format: "comparisons:{sha256 of the records}"
func generateCacheKey(records []domain.ProductRecord) (string, error) {
	payload, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return "comparisons:" + hex.EncodeToString(sum[:]), nil
}

// getFromCache retrieves a comparison response from cache
func (s *ComparisonService) getFromCache(ctx context.Context, key string) (*domain.ComparisonResponse, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var response domain.ComparisonResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &response, nil
}

// setInCache stores a comparison response in cache
func (s *ComparisonService) setInCache(ctx context.Context, key string, response *domain.ComparisonResponse) error {
	if s.cache == nil {
		return nil
	}

	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
