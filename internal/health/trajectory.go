package health

// Trajectory thresholds.
const (
	improvingGrowth = 0.10
	decliningGrowth = -0.05
	volatileVar     = 400
)

// classifyTrajectory applies the trajectory rules in order; the first
// match wins. Score statistics cover available dimensions only. When growth
// could not be scored the mean stands in for the growth score.
func classifyTrajectory(fin FinancialData, bd Breakdown) Trajectory {
	if g := fin.YearlyGrowth; g != nil && finite(*g) {
		if *g > improvingGrowth {
			return TrajectoryImproving
		}
		if *g < decliningGrowth {
			return TrajectoryDeclining
		}
	}

	scores := availableScores(bd)
	if len(scores) == 0 {
		return TrajectoryStable
	}
	if variance(scores) > volatileVar {
		return TrajectoryVolatile
	}

	m := mean(scores)
	growth := m
	if bd.Growth.Available {
		growth = bd.Growth.Score
	}
	switch {
	case m >= 70 && growth >= 60:
		return TrajectoryImproving
	case m <= 40 || growth <= 30:
		return TrajectoryDeclining
	default:
		return TrajectoryStable
	}
}
