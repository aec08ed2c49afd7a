package health

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bizhealth/internal/model"
)

// Option configures a Calculator.
type Option func(*Calculator)

// WithBenchmarks replaces the default benchmark set.
func WithBenchmarks(b Benchmarks) Option {
	return func(c *Calculator) {
		c.bench = b
	}
}

// WithWeights replaces the default weights.
func WithWeights(w Weights) Option {
	return func(c *Calculator) {
		c.weights = w
	}
}

// WithRules replaces the free-text keyword rules.
func WithRules(r KeywordRules) Option {
	return func(c *Calculator) {
		c.rules = r
	}
}

// WithClock overrides the time source used for ages and CalculatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		c.now = now
	}
}

// Calculator scores business snapshots. It is immutable after construction
// and safe for concurrent use.
type Calculator struct {
	bench      Benchmarks
	weights    Weights
	rules      KeywordRules
	now        func() time.Time
	configHash string
}

// NewCalculator creates a Calculator with the default benchmarks and
// weights unless overridden.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		bench:   DefaultBenchmarks(),
		weights: DefaultWeights(),
		rules:   DefaultKeywordRules(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.configHash = ConfigHash(struct {
		Benchmarks Benchmarks   `json:"benchmarks"`
		Weights    Weights      `json:"weights"`
		Rules      KeywordRules `json:"rules"`
	}{c.bench, c.weights, c.rules})
	return c
}

// ConfigHash returns the hex SHA-256 prefix of the JSON encoding of cfg.
func ConfigHash(cfg interface{}) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:16]) // 32 hex chars
}

// ConfigHash identifies the benchmarks and weights this Calculator uses.
func (c *Calculator) ConfigHash() string { return c.configHash }

// Weights returns the weights this Calculator uses.
func (c *Calculator) Weights() Weights { return c.weights }

// Calculate scores one business. It either returns a complete Result or a
// *CalculationError; a partial result is never returned.
func (c *Calculator) Calculate(b *model.Business) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = newCalculationError("health score calculation failed", eris.Errorf("panic: %v", r))
		}
	}()

	if b == nil {
		return nil, newCalculationError("business snapshot is required", nil)
	}

	fin, op := Adapt(b)
	in := input{fin: fin, op: op, now: c.now().UTC(), rules: c.rules}

	bd := Breakdown{
		Financial:     financialScorer{bench: c.bench, w: c.weights.Financial}.score(in),
		Growth:        growthScorer{bench: c.bench, w: c.weights.Growth}.score(in),
		Operational:   operationalScorer{bench: c.bench, w: c.weights.Operational}.score(in),
		SaleReadiness: saleReadinessScorer{bench: c.bench, w: c.weights.SaleReadiness}.score(in),
	}

	overall := c.overall(bd)
	conf := confidenceAssessor{bench: c.bench, w: c.weights.Confidence}.assess(in, bd)
	traj := classifyTrajectory(fin, bd)

	if err := checkFinite(overall, bd, conf); err != nil {
		return nil, newCalculationError("health score calculation produced an invalid number", err)
	}

	version, err := dataVersion(fin, op)
	if err != nil {
		return nil, newCalculationError("hash input snapshot", err)
	}

	return &Result{
		Scores: HealthScores{
			Overall:       roundScore(overall),
			Financial:     roundScore(bd.Financial.Score),
			Growth:        roundScore(bd.Growth.Score),
			Operational:   roundScore(bd.Operational.Score),
			SaleReadiness: roundScore(bd.SaleReadiness.Score),
			Confidence:    roundScore(conf.Overall),
			Trajectory:    traj,
		},
		Breakdown:  bd,
		Confidence: conf,
		Metadata: Metadata{
			CalculatedAt:     in.now,
			DataVersion:      version,
			AlgorithmVersion: AlgorithmVersion,
			ConfigHash:       c.configHash,
		},
	}, nil
}

// overall is the weighted mean of the available dimensions, renormalized
// over their weights.
func (c *Calculator) overall(bd Breakdown) float64 {
	w := c.weights.Overall
	var b blend
	for _, d := range []struct {
		sb ScoreBreakdown
		w  float64
	}{
		{bd.Financial, w.Financial},
		{bd.Growth, w.Growth},
		{bd.Operational, w.Operational},
		{bd.SaleReadiness, w.SaleReadiness},
	} {
		if d.sb.Available {
			b.add(d.sb.Score, d.w)
		}
	}
	return b.valueOr(0)
}

func checkFinite(overall float64, bd Breakdown, conf ConfidenceAssessment) error {
	if !finite(overall) {
		return eris.New("overall score is not finite")
	}
	for _, d := range Dimensions {
		sb, _ := bd.Get(d)
		if !finite(sb.Score) {
			return eris.Errorf("%s score is not finite", d)
		}
		for k, v := range sb.Components {
			if !finite(v) {
				return eris.Errorf("%s component %s is not finite", d, k)
			}
		}
	}
	for _, v := range []float64{conf.Overall, conf.DataCompleteness, conf.DataQuality, conf.Consistency} {
		if !finite(v) {
			return eris.New("confidence is not finite")
		}
	}
	return nil
}

func dataVersion(fin FinancialData, op OperationalData) (string, error) {
	data, err := json.Marshal(struct {
		Financial   FinancialData   `json:"financial"`
		Operational OperationalData `json:"operational"`
	}{fin, op})
	if err != nil {
		return "", eris.Wrap(err, "health: marshal snapshot")
	}
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:16]), nil
}

func roundScore(v float64) int {
	return int(math.Round(clamp(v, 0, 100)))
}
