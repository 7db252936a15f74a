package usecase

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bespaarwijzer/backend/internal/domain"
)

// Matching defaults
const (
	defaultMinSavingsPct     = 10
	defaultMaxResults        = 20
	defaultMinNameSimilarity = 0.5
	defaultMaxVolumeRatio    = 1.5 // drinks may differ by at most 50% in volume
	defaultMaxCountRatio     = 2.0 // multi-packs may differ by at most 2x in count
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinSavingsPct      int
	MaxResults         int
	MinNameSimilarity  float64
	MaxVolumeRatio     float64
	MaxCountRatio      float64
	Workers            int
	EnableDebugLogging bool
	Logger             *zerolog.Logger
}

// MatchingService finds the same product at different retailers and ranks
// the price differences between them.
type MatchingService struct {
	minSavingsPct      int
	maxResults         int
	minNameSimilarity  float64
	maxVolumeRatio     float64
	maxCountRatio      float64
	workers            int
	enableDebugLogging bool
	logger             zerolog.Logger
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	svc := &MatchingService{
		minSavingsPct:      config.MinSavingsPct,
		maxResults:         config.MaxResults,
		minNameSimilarity:  config.MinNameSimilarity,
		maxVolumeRatio:     config.MaxVolumeRatio,
		maxCountRatio:      config.MaxCountRatio,
		workers:            config.Workers,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             zerolog.Nop(),
	}
	if svc.minSavingsPct <= 0 {
		svc.minSavingsPct = defaultMinSavingsPct
	}
	if svc.maxResults <= 0 {
		svc.maxResults = defaultMaxResults
	}
	if svc.minNameSimilarity <= 0 {
		svc.minNameSimilarity = defaultMinNameSimilarity
	}
	if svc.maxVolumeRatio <= 0 {
		svc.maxVolumeRatio = defaultMaxVolumeRatio
	}
	if svc.maxCountRatio <= 0 {
		svc.maxCountRatio = defaultMaxCountRatio
	}
	if svc.workers <= 0 {
		svc.workers = 1
	}
	if config.Logger != nil {
		svc.logger = config.Logger.With().Str("component", "matcher").Logger()
	}
	return svc
}

// brandBucket holds the priced records of one brand in input order
type brandBucket struct {
	brand   string
	records []*domain.ProductRecord
}

// bucketResult is what matching a single bucket produces
type bucketResult struct {
	groups   []domain.ComparisonGroup
	consumed map[string]struct{}
}

// FindComparisons groups the records by brand and returns the ranked,
// non-overlapping comparisons across retailers. Records without an offer
// price or brand are ignored; records that were not annotated yet are
// annotated on a private copy.
//
// Products are consumed greedily in input order, so an early low-value group
// can claim a product that a later group would have used better.
func (s *MatchingService) FindComparisons(ctx context.Context, records []domain.ProductRecord) (*domain.MatchResult, error) {
	buckets := s.bucketByBrand(records)

	results := make([]bucketResult, len(buckets))
	if s.workers > 1 && len(buckets) > 1 {
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for i, b := range buckets {
			i, b := i, b
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}
				results[i] = s.matchBucket(b)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, b := range buckets {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			results[i] = s.matchBucket(b)
		}
	}

	result := &domain.MatchResult{
		Groups:   []domain.ComparisonGroup{},
		Consumed: make(map[string]struct{}),
	}
	for _, r := range results {
		result.Groups = append(result.Groups, r.groups...)
		for id := range r.consumed {
			result.Consumed[id] = struct{}{}
		}
	}

	sort.SliceStable(result.Groups, func(i, j int) bool {
		return result.Groups[i].SavingsPct > result.Groups[j].SavingsPct
	})
	if len(result.Groups) > s.maxResults {
		result.Groups = result.Groups[:s.maxResults]
	}

	s.logger.Debug().
		Int("records", len(records)).
		Int("buckets", len(buckets)).
		Int("comparisons", len(result.Groups)).
		Msg("matching finished")

	return result, nil
}

// bucketByBrand keeps brands in first-seen order and drops brands that are
// sold by a single retailer only.
func (s *MatchingService) bucketByBrand(records []domain.ProductRecord) []brandBucket {
	index := make(map[string]int)
	var buckets []brandBucket

	for i := range records {
		rec := records[i]
		brand := strings.ToLower(strings.TrimSpace(rec.Brand))
		if !hasPositiveOffer(&rec) || brand == "" {
			continue
		}
		if rec.ComparisonUnit == "" {
			Annotate(&rec)
		}

		pos, ok := index[brand]
		if !ok {
			pos = len(buckets)
			index[brand] = pos
			buckets = append(buckets, brandBucket{brand: brand})
		}
		buckets[pos].records = append(buckets[pos].records, &rec)
	}

	kept := buckets[:0]
	for _, b := range buckets {
		if len(b.records) < 2 || countRetailers(b.records) < 2 {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

// hasPositiveOffer treats a zero or negative offer as no offer at all
func hasPositiveOffer(p *domain.ProductRecord) bool {
	return p.HasOfferPrice() && *p.OfferPrice > 0
}

// matchBucket runs the greedy anchor scan over one brand
func (s *MatchingService) matchBucket(b brandBucket) bucketResult {
	res := bucketResult{consumed: make(map[string]struct{})}

	for i, p1 := range b.records {
		if _, used := res.consumed[p1.ID]; used {
			continue
		}

		candidates := []*domain.ProductRecord{p1}
		for _, p2 := range b.records[i+1:] {
			if p2.Retailer == p1.Retailer {
				continue
			}
			if _, used := res.consumed[p2.ID]; used {
				continue
			}
			if s.comparable(p1, p2) {
				candidates = append(candidates, p2)
			}
		}

		if len(candidates) < 2 || countRetailers(candidates) < 2 {
			continue
		}

		group, ok := s.buildGroup(candidates)
		if !ok {
			continue
		}
		if _, used := res.consumed[group.BestProduct.ID]; used {
			continue
		}
		for _, id := range group.ProductIDs() {
			res.consumed[id] = struct{}{}
		}
		res.groups = append(res.groups, group)

		if s.enableDebugLogging {
			s.logger.Debug().
				Str("brand", b.brand).
				Str("best", group.BestProduct.ID).
				Int("savings_pct", group.SavingsPct).
				Int("members", len(candidates)).
				Msg("comparison accepted")
		}
	}
	return res
}

// comparable applies the strict pairwise checks in order of cost
func (s *MatchingService) comparable(p1, p2 *domain.ProductRecord) bool {
	if !RecordsAreSameType(p1, p2) {
		s.debugReject(p1, p2, "type")
		return false
	}
	if p1.ComparisonUnit != p2.ComparisonUnit {
		s.debugReject(p1, p2, "unit")
		return false
	}
	if !s.sizeCompatible(p1, p2) {
		s.debugReject(p1, p2, "size")
		return false
	}
	if sim := NameSimilarity(p1.Name, p2.Name); sim < s.minNameSimilarity {
		s.debugReject(p1, p2, "name")
		return false
	}
	return true
}

// sizeCompatible compares volumes for drinks and unit counts for multi-packs
func (s *MatchingService) sizeCompatible(p1, p2 *domain.ProductRecord) bool {
	v1, v2 := p1.Volume(), p2.Volume()
	if v1 > 0 && v2 > 0 {
		return math.Max(v1, v2)/math.Min(v1, v2) <= s.maxVolumeRatio
	}

	c1, c2 := max(p1.UnitCount, 1), max(p2.UnitCount, 1)
	if c1 > 1 || c2 > 1 {
		return float64(max(c1, c2))/float64(min(c1, c2)) <= s.maxCountRatio
	}
	return true
}

// buildGroup ranks the candidates by comparison price and computes the savings
// against the most expensive alternative. It reports false when the savings
// stay below the configured minimum.
func (s *MatchingService) buildGroup(candidates []*domain.ProductRecord) (domain.ComparisonGroup, bool) {
	sorted := make([]*domain.ProductRecord, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ComparisonPrice < sorted[j].ComparisonPrice
	})

	best, others := sorted[0], sorted[1:]

	maxOther := others[0].ComparisonPrice
	for _, o := range others[1:] {
		maxOther = math.Max(maxOther, o.ComparisonPrice)
	}

	savings := maxOther - best.ComparisonPrice
	savingsPct := 0
	if maxOther > 0 {
		// Exact .5 percentages round away from zero, not to even.
		savingsPct = int(math.Round(savings / maxOther * 100))
	}
	if savingsPct < s.minSavingsPct {
		return domain.ComparisonGroup{}, false
	}

	group := domain.ComparisonGroup{
		BestProduct:         *best,
		BestComparisonPrice: best.ComparisonPrice,
		ComparisonUnit:      best.ComparisonUnit,
		BestVolumeLiters:    best.VolumeLiters,
		BestUnitCount:       best.UnitCount,
		OtherProducts:       make([]domain.OtherPrice, 0, len(others)),
		SavingsPerUnit:      roundCents(savings),
		SavingsPct:          savingsPct,
		RetailerCount:       countRetailers(sorted),
	}
	for _, o := range others {
		group.OtherProducts = append(group.OtherProducts, domain.OtherPrice{
			Retailer:        o.Retailer,
			ID:              o.ID,
			Name:            o.Name,
			Price:           *o.OfferPrice,
			ComparisonPrice: o.ComparisonPrice,
			VolumeLiters:    o.VolumeLiters,
			UnitCount:       o.UnitCount,
			ImageURL:        o.ImageURL,
		})
	}
	return group, true
}

func (s *MatchingService) debugReject(p1, p2 *domain.ProductRecord, reason string) {
	if !s.enableDebugLogging {
		return
	}
	s.logger.Debug().
		Str("a", p1.ID).
		Str("b", p2.ID).
		Str("reason", reason).
		Msg("pair rejected")
}

func countRetailers(records []*domain.ProductRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.Retailer] = struct{}{}
	}
	return len(seen)
}
