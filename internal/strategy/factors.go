package strategy

import (
	"fmt"

	"TradeConsole/internal/chart"
)

// ladder returns the score of the first step whose bound v does not exceed,
// or last when v is above every bound.
func ladder(v float64, bounds, scores []float64, last float64) float64 {
	for i, b := range bounds {
		if v <= b {
			return scores[i]
		}
	}
	return last
}

func factor(name string, raw, weight float64, note string) Factor {
	return Factor{Name: name, Raw: raw, Weight: weight, Weighted: raw * weight, Note: note}
}

// scoreTrend leans against the 24h move: a sharp drop scores as a buy.
func scoreTrend(trend, weight float64) Factor {
	raw := ladder(trend,
		[]float64{-10, -5, -2, 2, 5, 10},
		[]float64{2, 1, 0.5, 0, -0.5, -1},
		-2)
	return factor("24h trend", raw, weight, fmt.Sprintf("%+.2f%%", trend))
}

func scoreSMADeviation(ind chart.Indicators, weight float64) Factor {
	if ind.SMA == 0 {
		return factor("SMA deviation", 0, weight, "SMA unavailable")
	}
	dev := (ind.Last - ind.SMA) / ind.SMA * 100
	raw := ladder(dev,
		[]float64{-5, -2, -0.5, 0.5, 2, 5},
		[]float64{2, 1, 0.5, 0, -0.5, -1},
		-2)
	return factor("SMA deviation", raw, weight, fmt.Sprintf("%+.2f%%", dev))
}

func scoreRSI(ind chart.Indicators, weight float64) Factor {
	raw := ladder(ind.RSI,
		[]float64{25, 30, 40, 45, 55, 60, 70, 80},
		[]float64{2, 1.5, 1, 0.5, 0, -0.5, -1, -1.5},
		-2)
	return factor("RSI", raw, weight, fmt.Sprintf("RSI=%.0f", ind.RSI))
}

func scoreRangePosition(ind chart.Indicators, weight float64) Factor {
	raw := ladder(ind.Position,
		[]float64{0.1, 0.3, 0.7, 0.9},
		[]float64{2, 1, 0, -1},
		-2)
	return factor("range position", raw, weight, fmt.Sprintf("%.0f%% of range", ind.Position*100))
}
