package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bespaarwijzer/backend/internal/domain"
)

// mockCache is an in-memory domain.CacheRepository that counts calls
type mockCache struct {
	data    map[string][]byte
	gets    int
	sets    int
	lastTTL time.Duration
	setErr  error
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.gets++
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.sets++
	m.lastTTL = ttl
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// mockFeed is a domain.FeedClient returning canned records
type mockFeed struct {
	records []domain.ProductRecord
	err     error
	calls   int
}

func (m *mockFeed) FetchProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	m.calls++
	return m.records, m.err
}

func colaPair() []domain.ProductRecord {
	return []domain.ProductRecord{
		record("ah", "X", "Coca-Cola Zero", "Coca-Cola", "6 x 330 ml", 2.00),
		record("jumbo", "Y", "Coca-Cola Zero", "Coca-Cola", "6 x 330 ml", 1.50),
	}
}

func newTestService(cache domain.CacheRepository, feed domain.FeedClient) *ComparisonService {
	svc := NewComparisonService(cache, feed, ComparisonServiceConfig{CacheTTL: 2 * time.Hour}, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestComparisonService_Compare(t *testing.T) {
	cache := newMockCache()
	svc := newTestService(cache, nil)

	resp, err := svc.Compare(context.Background(), colaPair())

	require.NoError(t, err)
	assert.Equal(t, SourceComputed, resp.Source)
	require.Len(t, resp.Comparisons, 1)
	assert.Equal(t, "Y", resp.Comparisons[0].BestProduct.ID)
	assert.Equal(t, 2, resp.Insights.TotalProducts)
	require.Len(t, resp.Insights.PriceComparisons, 1)
	assert.Equal(t, time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC), resp.GeneratedAt)

	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2*time.Hour, cache.lastTTL)
	for key := range cache.data {
		assert.True(t, strings.HasPrefix(key, "comparisons:"), "unexpected cache key %s", key)
	}
}

func TestComparisonService_CacheHit(t *testing.T) {
	cache := newMockCache()
	svc := newTestService(cache, nil)
	ctx := context.Background()

	_, err := svc.Compare(ctx, colaPair())
	require.NoError(t, err)

	resp, err := svc.Compare(ctx, colaPair())
	require.NoError(t, err)

	assert.Equal(t, SourceCache, resp.Source)
	assert.Equal(t, 1, cache.sets)
	require.Len(t, resp.Comparisons, 1)
	assert.Equal(t, 25, resp.Comparisons[0].SavingsPct)
	assert.True(t, resp.Comparisons[0].BestProduct.TypeTags.Has(TagCans))
}

func TestComparisonService_CacheKeyDependsOnRecords(t *testing.T) {
	a, err := generateCacheKey(colaPair())
	require.NoError(t, err)

	changed := colaPair()
	changed[1].OfferPrice = price(1.40)
	b, err := generateCacheKey(changed)
	require.NoError(t, err)

	again, err := generateCacheKey(colaPair())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, again)
}

func TestComparisonService_CacheFailureIsNotFatal(t *testing.T) {
	cache := newMockCache()
	cache.setErr = domain.ErrCacheUnavailable
	svc := newTestService(cache, nil)

	resp, err := svc.Compare(context.Background(), colaPair())

	require.NoError(t, err)
	assert.Len(t, resp.Comparisons, 1)
}

func TestComparisonService_NilCache(t *testing.T) {
	svc := newTestService(nil, nil)

	resp, err := svc.Compare(context.Background(), colaPair())

	require.NoError(t, err)
	assert.Equal(t, SourceComputed, resp.Source)
}

func TestComparisonService_NoProducts(t *testing.T) {
	svc := newTestService(newMockCache(), nil)

	_, err := svc.Compare(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoProducts)
}

func TestComparisonService_CompareFeed(t *testing.T) {
	t.Run("feed not configured", func(t *testing.T) {
		svc := newTestService(newMockCache(), nil)

		_, err := svc.CompareFeed(context.Background())
		assert.ErrorIs(t, err, domain.ErrFeedNotConfigured)
	})

	t.Run("feed failure", func(t *testing.T) {
		feed := &mockFeed{err: errors.New("connection refused")}
		svc := newTestService(newMockCache(), feed)

		_, err := svc.CompareFeed(context.Background())
		assert.ErrorIs(t, err, domain.ErrFeedFailure)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("compares feed records", func(t *testing.T) {
		feed := &mockFeed{records: colaPair()}
		svc := newTestService(newMockCache(), feed)

		resp, err := svc.CompareFeed(context.Background())
		require.NoError(t, err)
		assert.Len(t, resp.Comparisons, 1)
		assert.Equal(t, 1, feed.calls)
	})

	t.Run("empty feed", func(t *testing.T) {
		svc := newTestService(newMockCache(), &mockFeed{})

		_, err := svc.CompareFeed(context.Background())
		assert.ErrorIs(t, err, domain.ErrNoProducts)
	})
}

func TestComparisonService_Annotate(t *testing.T) {
	svc := newTestService(nil, nil)
	records := []domain.ProductRecord{
		{Retailer: "jumbo", ID: "1", Name: "Coca-Cola Zero", PackageDescription: "6 x 330 ml", NormalPrice: price(4.00), DiscountText: "1+1 gratis"},
		{Retailer: "ah", ID: "2", Name: "Coca-Cola Zero", PackageDescription: "6 x 330 ml", OfferPrice: price(3.00), NormalPrice: price(4.00), DiscountText: "25% korting"},
		{Retailer: "lidl", ID: "3", Name: "Pindakaas"},
	}

	annotated := svc.Annotate(records)

	require.Len(t, annotated, 3)

	// Missing offer resolved from the mechanism
	require.NotNil(t, annotated[0].OfferPrice)
	assert.Equal(t, 2.00, *annotated[0].OfferPrice)
	assert.Equal(t, 1.01, annotated[0].ComparisonPrice)

	// Existing offer is kept
	assert.Equal(t, 3.00, *annotated[1].OfferPrice)

	// No prices at all
	assert.Nil(t, annotated[2].OfferPrice)
	assert.Equal(t, 1, annotated[2].UnitCount)

	// Input untouched
	assert.Nil(t, records[0].OfferPrice)
	assert.Empty(t, records[0].ComparisonUnit)
}
