package health

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// MetricRecord is a Result shaped for the health_metrics table.
// Breakdown and Confidence are stored as opaque JSON for audit.
type MetricRecord struct {
	ID               string          `json:"id"`
	BusinessID       string          `json:"business_id"`
	CalculatedAt     time.Time       `json:"calculated_at"`
	OverallScore     int             `json:"overall_score"`
	FinancialScore   int             `json:"financial_score"`
	GrowthScore      int             `json:"growth_score"`
	OperationalScore int             `json:"operational_score"`
	SaleReadiness    int             `json:"sale_readiness_score"`
	ConfidenceScore  int             `json:"confidence_score"`
	Trajectory       Trajectory      `json:"trajectory"`
	Breakdown        json.RawMessage `json:"breakdown"`
	Confidence       json.RawMessage `json:"confidence"`
	AlgorithmVersion string          `json:"algorithm_version"`
	DataVersion      string          `json:"data_version"`
	ConfigHash       string          `json:"config_hash"`
}

// PrepareMetricRecord shapes r for storage under businessID.
func PrepareMetricRecord(businessID string, r *Result) (MetricRecord, error) {
	if businessID == "" {
		return MetricRecord{}, eris.New("health: business id is required")
	}
	if r == nil {
		return MetricRecord{}, eris.New("health: result is required")
	}

	breakdown, err := json.Marshal(r.Breakdown)
	if err != nil {
		return MetricRecord{}, eris.Wrap(err, "health: marshal breakdown")
	}
	confidence, err := json.Marshal(r.Confidence)
	if err != nil {
		return MetricRecord{}, eris.Wrap(err, "health: marshal confidence")
	}

	return MetricRecord{
		ID:               uuid.NewString(),
		BusinessID:       businessID,
		CalculatedAt:     r.Metadata.CalculatedAt,
		OverallScore:     r.Scores.Overall,
		FinancialScore:   r.Scores.Financial,
		GrowthScore:      r.Scores.Growth,
		OperationalScore: r.Scores.Operational,
		SaleReadiness:    r.Scores.SaleReadiness,
		ConfidenceScore:  r.Scores.Confidence,
		Trajectory:       r.Scores.Trajectory,
		Breakdown:        breakdown,
		Confidence:       confidence,
		AlgorithmVersion: r.Metadata.AlgorithmVersion,
		DataVersion:      r.Metadata.DataVersion,
		ConfigHash:       r.Metadata.ConfigHash,
	}, nil
}
