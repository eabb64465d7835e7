// Package strategy scores a coin from its market readings and maps the score
// to a trading verdict.
package strategy

import "TradeConsole/internal/chart"

// Inputs are the readings a signal is computed from. Indicators is only used
// when Ready.
type Inputs struct {
	Trend      float64 // 24h change in percent
	Indicators chart.Indicators
}

// Factor is one weighted component of a signal.
type Factor struct {
	Name     string
	Raw      float64 // -2..2, positive favours buying
	Weight   float64
	Weighted float64
	Note     string
}

// Signal is the scored verdict for one coin.
type Signal struct {
	Factors []Factor
	Total   float64
	Verdict string
	Warning string
}

// Verdicts are checked from the top; the first whose MinScore the total
// reaches wins.
var Verdicts = []struct {
	MinScore float64
	Label    string
}{
	{1.2, "strong buy"},
	{0.5, "accumulate"},
	{-0.5, "hold"},
	{-1.2, "reduce"},
}

// LowestVerdict applies below the last threshold.
const LowestVerdict = "take profit"

func verdict(total float64) string {
	for _, v := range Verdicts {
		if total >= v.MinScore {
			return v.Label
		}
	}
	return LowestVerdict
}

// Evaluate computes the signal. Without chart indicators the 24h trend is
// the only factor.
func Evaluate(in Inputs) Signal {
	var factors []Factor
	if in.Indicators.Ready {
		factors = []Factor{
			scoreTrend(in.Trend, 0.30),
			scoreSMADeviation(in.Indicators, 0.30),
			scoreRSI(in.Indicators, 0.25),
			scoreRangePosition(in.Indicators, 0.15),
		}
	} else {
		factors = []Factor{scoreTrend(in.Trend, 1.0)}
	}

	var total float64
	for _, f := range factors {
		total += f.Weighted
	}

	sig := Signal{Factors: factors, Total: total, Verdict: verdict(total)}
	if in.Indicators.Ready && in.Indicators.RSI > 85 {
		sig.Warning = "RSI above 85, consider taking profit"
	}
	return sig
}
