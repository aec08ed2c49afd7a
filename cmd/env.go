package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bizhealth/internal/assess"
	"github.com/sells-group/bizhealth/internal/config"
	"github.com/sells-group/bizhealth/internal/health"
	"github.com/sells-group/bizhealth/internal/store"
)

// weightsFromConfig applies the configurable parts of c on top of the
// default weights. Zero thresholds keep their defaults.
func weightsFromConfig(c config.HealthConfig) health.Weights {
	w := health.DefaultWeights()
	w.Overall = health.DimensionWeights{
		Financial:     c.FinancialWeight,
		Growth:        c.GrowthWeight,
		Operational:   c.OperationalWeight,
		SaleReadiness: c.SaleReadinessWeight,
	}
	if c.StrengthThreshold != 0 {
		w.StrengthThreshold = c.StrengthThreshold
	}
	if c.WeaknessThreshold != 0 {
		w.WeaknessThreshold = c.WeaknessThreshold
	}
	if c.MaxRecommendations != 0 {
		w.MaxRecommendations = c.MaxRecommendations
	}
	return w
}

// newCalculator builds the engine from the health section of the config.
func newCalculator() (*health.Calculator, error) {
	w := weightsFromConfig(cfg.Health)
	if err := w.Validate(); err != nil {
		return nil, err
	}
	opts := []health.Option{health.WithWeights(w)}
	if path := cfg.Health.BenchmarksFile; path != "" {
		bench, err := health.LoadBenchmarks(path)
		if err != nil {
			return nil, eris.Wrap(err, "load benchmarks")
		}
		opts = append(opts, health.WithBenchmarks(bench))
	}
	calc := health.NewCalculator(opts...)
	zap.L().Debug("health engine ready", zap.String("config_hash", calc.ConfigHash()))
	return calc, nil
}

// openStore validates the config for mode, opens the store and applies the
// schema.
func openStore(ctx context.Context, mode string) (store.Store, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// newService wires the engine and, when withStore is set, the store.
// The returned close func is always safe to call.
func newService(ctx context.Context, mode string, withStore bool) (*assess.Service, func(), error) {
	calc, err := newCalculator()
	if err != nil {
		return nil, func() {}, err
	}
	if !withStore {
		return assess.New(nil, calc), func() {}, nil
	}
	st, err := openStore(ctx, mode)
	if err != nil {
		return nil, func() {}, err
	}
	return assess.New(st, calc), func() { st.Close() }, nil //nolint:errcheck
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}
