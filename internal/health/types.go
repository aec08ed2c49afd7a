// Package health scores the financial and operational health of a listed
// business. Calculation is pure: a Calculator reads a snapshot and returns a
// Result without I/O, logging or shared mutable state.
package health

import (
	"time"

	"github.com/sells-group/bizhealth/internal/model"
)

// AlgorithmVersion identifies the scoring rules in this package. Bump it
// whenever a change alters scores for an unchanged input.
const AlgorithmVersion = "1.2.0"

// Dimension names, used as breakdown keys and in factor text.
const (
	DimensionFinancial     = "financial"
	DimensionGrowth        = "growth"
	DimensionOperational   = "operational"
	DimensionSaleReadiness = "saleReadiness"
)

// Dimensions lists the four dimensions in reporting order.
var Dimensions = []string{DimensionFinancial, DimensionGrowth, DimensionOperational, DimensionSaleReadiness}

// Trajectory is the coarse direction of a business's health.
type Trajectory string

const (
	TrajectoryImproving Trajectory = "IMPROVING"
	TrajectoryStable    Trajectory = "STABLE"
	TrajectoryDeclining Trajectory = "DECLINING"
	TrajectoryVolatile  Trajectory = "VOLATILE"
)

// FinancialData holds the financial facts the scorers read. Nil means the
// value was not reported. Ratios are fractions.
type FinancialData struct {
	Revenue        *float64 `json:"revenue,omitempty"`
	Profit         *float64 `json:"profit,omitempty"`
	CashFlow       *float64 `json:"cashFlow,omitempty"`
	EBITDA         *float64 `json:"ebitda,omitempty"`
	GrossMargin    *float64 `json:"grossMargin,omitempty"`
	NetMargin      *float64 `json:"netMargin,omitempty"`
	MonthlyRevenue *float64 `json:"monthlyRevenue,omitempty"`
	YearlyGrowth   *float64 `json:"yearlyGrowth,omitempty"`
	AskingPrice    *float64 `json:"askingPrice,omitempty"`
	TotalAssets    *float64 `json:"totalAssets,omitempty"`
	Liabilities    *float64 `json:"liabilities,omitempty"`
	Inventory      *float64 `json:"inventory,omitempty"`
	Equipment      *float64 `json:"equipment,omitempty"`
	RealEstate     *float64 `json:"realEstate,omitempty"`
}

// OperationalData holds the operational facts the scorers read.
type OperationalData struct {
	Established      *time.Time     `json:"established,omitempty"`
	Employees        *int           `json:"employees,omitempty"`
	CustomerBase     *int           `json:"customerBase,omitempty"`
	HoursOfOperation string         `json:"hoursOfOperation,omitempty"`
	DaysOpen         []string       `json:"daysOpen,omitempty"`
	Seasonality      string         `json:"seasonality,omitempty"`
	Competition      string         `json:"competition,omitempty"`
	Category         model.Category `json:"category,omitempty"`
	Description      string         `json:"description,omitempty"`
}

// ScoreBreakdown explains one dimension score. Available reports whether
// any sub-score was backed by reported data; the overall score only
// averages available dimensions.
type ScoreBreakdown struct {
	Score           float64            `json:"score"`
	Available       bool               `json:"available"`
	Components      map[string]float64 `json:"components"`
	Factors         []string           `json:"factors"`
	Recommendations []string           `json:"recommendations"`
}

// HealthScores are the rounded headline numbers.
type HealthScores struct {
	Overall       int        `json:"overall"`
	Financial     int        `json:"financial"`
	Growth        int        `json:"growth"`
	Operational   int        `json:"operational"`
	SaleReadiness int        `json:"saleReadiness"`
	Confidence    int        `json:"confidence"`
	Trajectory    Trajectory `json:"trajectory"`
}

// Breakdown holds the four dimension breakdowns.
type Breakdown struct {
	Financial     ScoreBreakdown `json:"financial"`
	Growth        ScoreBreakdown `json:"growth"`
	Operational   ScoreBreakdown `json:"operational"`
	SaleReadiness ScoreBreakdown `json:"saleReadiness"`
}

// Get returns the breakdown for a dimension name.
func (b Breakdown) Get(dimension string) (ScoreBreakdown, bool) {
	switch dimension {
	case DimensionFinancial:
		return b.Financial, true
	case DimensionGrowth:
		return b.Growth, true
	case DimensionOperational:
		return b.Operational, true
	case DimensionSaleReadiness:
		return b.SaleReadiness, true
	}
	return ScoreBreakdown{}, false
}

// ConfidenceAssessment describes how much the scores can be trusted.
type ConfidenceAssessment struct {
	Overall          float64  `json:"overall"`
	DataCompleteness float64  `json:"dataCompleteness"`
	DataQuality      float64  `json:"dataQuality"`
	Consistency      float64  `json:"consistency"`
	Factors          []string `json:"factors"`
}

// Metadata ties a result to the exact inputs, rules and configuration that
// produced it.
type Metadata struct {
	CalculatedAt     time.Time `json:"calculatedAt"`
	DataVersion      string    `json:"dataVersion"`
	AlgorithmVersion string    `json:"algorithmVersion"`
	ConfigHash       string    `json:"configHash"`
}

// Result is the complete output of one calculation.
type Result struct {
	Scores     HealthScores         `json:"scores"`
	Breakdown  Breakdown            `json:"breakdown"`
	Confidence ConfidenceAssessment `json:"confidence"`
	Metadata   Metadata             `json:"metadata"`
}

// Insights is the human-readable digest of a Result.
type Insights struct {
	Summary         string   `json:"summary"`
	KeyStrengths    []string `json:"keyStrengths"`
	KeyWeaknesses   []string `json:"keyWeaknesses"`
	Recommendations []string `json:"recommendations"`
}
