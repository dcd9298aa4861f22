package scraper

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wbdata/internal/catalog"
	"wbdata/pkg/models"
)

// SeriesSource is implemented by each upstream that can serve indicator series
// (the live API, or a local mirror of it).
type SeriesSource interface {
	Name() string
	FetchSeries(ctx context.Context, country, indicator string) ([]Observation, error)
}

// Summary counts what one ingestion pass did.
type Summary struct {
	Pairs        int // (country, indicator) pairs requested
	Failed       int // pairs whose fetch failed
	Observations int // observations received
	Dropped      int // observations rejected by Normalize
	Records      int // records produced
}

// AllFailed reports whether every requested pair failed, which points at the
// upstream being unreachable rather than at missing data.
func (s Summary) AllFailed() bool {
	return s.Pairs > 0 && s.Failed == s.Pairs
}

// Ingester fetches every (country, indicator) pair from a SeriesSource and
// normalizes the observations into records.
type Ingester struct {
	Source  SeriesSource
	Catalog *catalog.Catalog
	Workers int // pairs fetched at once; 1 is strictly sequential
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewIngester(src SeriesSource, cat *catalog.Catalog, workers int, logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Ingester{
		Source:  src,
		Catalog: cat,
		Workers: workers,
		Logger:  logger,
		Now:     time.Now,
	}
}

type pairResult struct {
	obs    []Observation
	failed bool
}

// Collect fetches every country x indicator pair. A failing pair is logged and
// counted as empty; it never cancels the other pairs, so Collect only returns
// an error when ctx is done. Records come back in pair order regardless of
// the number of workers.
func (in *Ingester) Collect(ctx context.Context, countries []string, codes CodeMap, indicators []string) ([]models.IndicatorRecord, Summary, error) {
	logger := in.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	if in.Now != nil {
		now = in.Now
	}

	type pair struct{ country, indicator string }
	pairs := make([]pair, 0, len(countries)*len(indicators))
	for _, c := range countries {
		for _, ind := range indicators {
			pairs = append(pairs, pair{c, ind})
		}
	}
	results := make([]pairResult, len(pairs))

	workers := in.Workers
	if workers < 1 {
		workers = 1
	}

	// Workers never return an error, so the group context is only cancelled
	// through ctx itself.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, p := range pairs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			obs, err := in.Source.FetchSeries(gctx, p.country, p.indicator)
			if err != nil {
				logger.Warn("fetch failed, skipping pair",
					zap.String("source", in.Source.Name()),
					zap.String("country", p.country),
					zap.String("indicator", p.indicator),
					zap.Error(err))
				results[i] = pairResult{failed: true}
				return nil
			}
			for j := range obs {
				if obs[j].Indicator.ID == "" {
					obs[j].Indicator.ID = p.indicator
				}
			}
			results[i] = pairResult{obs: obs}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}

	stamp := now()
	sum := Summary{Pairs: len(pairs)}
	var records []models.IndicatorRecord
	for _, r := range results {
		if r.failed {
			sum.Failed++
			continue
		}
		sum.Observations += len(r.obs)
		for _, o := range r.obs {
			rec, ok := Normalize(o, codes, in.Catalog, stamp)
			if !ok {
				sum.Dropped++
				continue
			}
			records = append(records, rec)
		}
	}
	sum.Records = len(records)

	logger.Info("ingestion pass finished",
		zap.String("source", in.Source.Name()),
		zap.Int("pairs", sum.Pairs),
		zap.Int("failed", sum.Failed),
		zap.Int("observations", sum.Observations),
		zap.Int("dropped", sum.Dropped),
		zap.Int("records", sum.Records))

	return records, sum, nil
}
