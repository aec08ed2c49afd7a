// Package assess runs the health engine against stored business snapshots.
package assess

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/bizhealth/internal/health"
	"github.com/sells-group/bizhealth/internal/model"
	"github.com/sells-group/bizhealth/internal/store"
)

// Assessment is one scored business.
type Assessment struct {
	BusinessID string          `json:"business_id"`
	Title      string          `json:"title"`
	Category   model.Category  `json:"category"`
	Result     *health.Result  `json:"result"`
	Insights   health.Insights `json:"insights"`
	MetricID   string          `json:"metric_id,omitempty"`
}

// Failure records a business whose calculation failed during a batch.
type Failure struct {
	BusinessID string `json:"business_id"`
	Title      string `json:"title"`
	Error      string `json:"error"`
}

// Service scores businesses and persists metric records.
type Service struct {
	store store.Store
	calc  *health.Calculator
}

// New creates a Service. st may be nil when only Evaluate is used.
func New(st store.Store, calc *health.Calculator) *Service {
	return &Service{store: st, calc: calc}
}

// Calculator returns the engine the service scores with.
func (s *Service) Calculator() *health.Calculator {
	return s.calc
}

// Evaluate scores a snapshot without touching the store.
func (s *Service) Evaluate(b *model.Business) (*Assessment, error) {
	res, err := s.calc.Calculate(b)
	if err != nil {
		return nil, err
	}
	return &Assessment{
		BusinessID: b.ID,
		Title:      b.Title,
		Category:   b.Category,
		Result:     res,
		Insights:   health.GenerateInsightsWith(res, s.calc.Weights()),
	}, nil
}

// ScoreOne loads a stored business, scores it and, when save is set,
// stores the metric record.
func (s *Service) ScoreOne(ctx context.Context, businessID string, save bool) (*Assessment, error) {
	if s.store == nil {
		return nil, eris.New("assess: no store configured")
	}
	b, err := s.store.GetBusiness(ctx, businessID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrapf(err, "assess: load business %s", businessID)
	}
	return s.score(ctx, b, save)
}

func (s *Service) score(ctx context.Context, b *model.Business, save bool) (*Assessment, error) {
	log := zap.L().With(zap.String("business_id", b.ID))

	a, err := s.Evaluate(b)
	if err != nil {
		log.Warn("health calculation failed", zap.Error(err))
		return nil, err
	}

	if save {
		rec, err := health.PrepareMetricRecord(b.ID, a.Result)
		if err != nil {
			return nil, eris.Wrap(err, "assess: prepare metric")
		}
		if err := s.store.SaveMetric(ctx, rec); err != nil {
			return nil, eris.Wrapf(err, "assess: save metric for %s", b.ID)
		}
		a.MetricID = rec.ID
	}

	log.Debug("business scored",
		zap.Int("overall", a.Result.Scores.Overall),
		zap.Int("confidence", a.Result.Scores.Confidence),
		zap.String("trajectory", string(a.Result.Scores.Trajectory)),
		zap.Bool("saved", save),
	)
	return a, nil
}

// ScoreAll scores every business matching filter with at most concurrency
// workers. Calculation failures are collected and do not stop the batch;
// store failures abort it. Results are ordered by overall score, best first.
func (s *Service) ScoreAll(ctx context.Context, filter store.BusinessFilter, concurrency int, save bool) ([]Assessment, []Failure, error) {
	if s.store == nil {
		return nil, nil, eris.New("assess: no store configured")
	}
	businesses, err := s.store.ListBusinesses(ctx, filter)
	if err != nil {
		return nil, nil, eris.Wrap(err, "assess: list businesses")
	}
	if len(businesses) == 0 {
		zap.L().Info("no businesses to score")
		return nil, nil, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("scoring batch",
		zap.Int("businesses", len(businesses)),
		zap.Int("concurrency", concurrency),
	)

	var (
		mu       sync.Mutex
		results  = make([]Assessment, 0, len(businesses))
		failures []Failure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range businesses {
		b := &businesses[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := s.score(gctx, b, save)
			if health.IsCalculationError(err) {
				mu.Lock()
				failures = append(failures, Failure{BusinessID: b.ID, Title: b.Title, Error: err.Error()})
				mu.Unlock()
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, *a)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, eris.Wrap(err, "assess: batch scoring")
	}

	sort.Slice(results, func(i, j int) bool {
		oi, oj := results[i].Result.Scores.Overall, results[j].Result.Scores.Overall
		if oi != oj {
			return oi > oj
		}
		return results[i].BusinessID < results[j].BusinessID
	})
	sort.Slice(failures, func(i, j int) bool { return failures[i].BusinessID < failures[j].BusinessID })

	zap.L().Info("batch complete",
		zap.Int("succeeded", len(results)),
		zap.Int("failed", len(failures)),
	)
	return results, failures, nil
}

// History returns stored metric records for a business, newest first.
func (s *Service) History(ctx context.Context, businessID string, limit int) ([]health.MetricRecord, error) {
	if s.store == nil {
		return nil, eris.New("assess: no store configured")
	}
	recs, err := s.store.ListMetrics(ctx, businessID, limit)
	if err != nil {
		return nil, eris.Wrapf(err, "assess: history for %s", businessID)
	}
	return recs, nil
}
