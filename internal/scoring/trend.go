package scoring

import (
	"fmt"
	"math"

	"github.com/actuallystonmai/health-advisor/internal/domain"
)

const (
	trendWindow    = 7
	trendThreshold = 0.5
	// idealMidline is Bristol type 4; labels only fire when the recent half
	// sits on the matching side of it.
	idealMidline = 4.0
	changeScale  = 25.0
)

// AnalyzeTrend summarizes up to the last seven records. It returns nil when
// there is no history at all.
func AnalyzeTrend(history []domain.BristolType) *domain.Trend {
	if len(history) == 0 {
		return nil
	}
	recent := history[max(0, len(history)-trendWindow):]

	trend := &domain.Trend{
		Average:    fmt.Sprintf("%.1f", average(recent)),
		Direction:  domain.TrendStable,
		ChangeRate: "No significant change",
		Priority:   "Continue current routine",
		Records:    len(recent),
	}
	if len(recent) < 2 {
		return trend
	}

	split := len(recent) / 2
	firstAvg := average(recent[:split])
	secondAvg := average(recent[split:])
	change := secondAvg - firstAvg

	switch {
	case math.Abs(change) < trendThreshold:
	case change < 0 && secondAvg < idealMidline:
		trend.Direction = domain.TrendImproving
		trend.ChangeRate = fmt.Sprintf("%.1f%% improvement", math.Abs(change*changeScale))
		trend.Priority = "Continue current plan"
	case change > 0 && secondAvg > idealMidline:
		trend.Direction = domain.TrendWorsening
		trend.ChangeRate = fmt.Sprintf("%.1f%% decline", math.Abs(change*changeScale))
		trend.Priority = "Adjust current plan"
	}
	return trend
}

func average(types []domain.BristolType) float64 {
	sum := 0
	for _, t := range types {
		sum += int(t)
	}
	return float64(sum) / float64(len(types))
}
