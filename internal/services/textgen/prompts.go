package textgen

import (
	"fmt"
	"strings"

	"RiskPulse/internal/domain/models"
)

// SummaryUnavailable is served when text generation fails or is not
// configured. Analysis responses degrade to this instead of failing.
const SummaryUnavailable = "AI summary unavailable."

// RiskSummaryPrompt asks for a short plain-language read of one
// analysis result. Sharpe may be absent when realized volatility is zero.
func RiskSummaryPrompt(r *models.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a financial risk analyst. In two or three plain sentences, summarize the risk profile of %s for a retail investor.\n", r.Ticker)
	fmt.Fprintf(&b, "Last close price: %.2f\n", r.LastClosePrice)
	fmt.Fprintf(&b, "Realized annualized volatility: %.3f\n", r.HistoricalVolatility)
	fmt.Fprintf(&b, "Model-predicted annualized volatility: %.3f\n", r.PredictedVolatility)
	if r.SharpeRatio != nil {
		fmt.Fprintf(&b, "Sharpe ratio: %.2f\n", *r.SharpeRatio)
	} else {
		b.WriteString("Sharpe ratio: undefined (zero realized volatility)\n")
	}
	b.WriteString("Do not give buy or sell advice. Describe what the numbers mean.")
	return b.String()
}

// RecommendationPrompt asks for a narrative comparison of several
// analyzed tickers for the advisor endpoint. The narrative is
// informational only; trade decisions come from the structured signals.
func RecommendationPrompt(results []*models.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("You are an investment research assistant. Compare the risk/return profiles below and explain, in one short paragraph, which looks most attractive for a volatility-averse investor and why.\n")
	for _, r := range results {
		fmt.Fprintf(&b, "- %s: price %.2f, realized vol %.3f, predicted vol %.3f",
			r.Ticker, r.LastClosePrice, r.HistoricalVolatility, r.PredictedVolatility)
		if r.SharpeRatio != nil {
			fmt.Fprintf(&b, ", sharpe %.2f", *r.SharpeRatio)
		}
		b.WriteString("\n")
	}
	b.WriteString("Do not output a ranking table. Plain prose only.")
	return b.String()
}
