package usecase

import (
	"context"
	"regexp"
	"strings"

	"RiskPulse/internal/domain/models"
	domservice "RiskPulse/internal/domain/service"
	"RiskPulse/internal/services/textgen"
	"RiskPulse/pkg/logger"
)

// AdvisorUseCase compares several analyzed tickers and produces one
// narrative recommendation. Candidates named in the free-text query are
// analyzed; with no recognizable symbols it falls back to the configured
// default set.
type AdvisorUseCase struct {
	analysis *AnalysisUseCase
	textgen  domservice.TextGenerator
	defaults []string
	logger   *logger.Logger
}

func NewAdvisorUseCase(analysis *AnalysisUseCase, tg domservice.TextGenerator, defaults []string, l *logger.Logger) *AdvisorUseCase {
	return &AdvisorUseCase{analysis: analysis, textgen: tg, defaults: defaults, logger: l}
}

// Recommendation is the advisor response: per-ticker numbers plus the
// combined narrative.
type Recommendation struct {
	Candidates []*models.AnalysisResult `json:"candidates"`
	Narrative  string                   `json:"narrative"`
}

var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// stopWords are uppercase English words that look like tickers but are not.
var stopWords = map[string]struct{}{
	"A": {}, "I": {}, "AND": {}, "OR": {}, "THE": {}, "FOR": {}, "TO": {},
	"OF": {}, "IN": {}, "ON": {}, "IS": {}, "IT": {}, "MY": {}, "BUY": {},
	"SELL": {}, "HOLD": {}, "VS": {}, "WHAT": {}, "WHICH": {}, "BEST": {},
	"STOCK": {}, "RISK": {}, "LOW": {}, "HIGH": {}, "ETF": {},
}

const maxCandidates = 5

// Recommend analyzes the candidate set and generates the comparison.
func (uc *AdvisorUseCase) Recommend(ctx context.Context, query string) (*Recommendation, error) {
	candidates := uc.extractTickers(query)
	if len(candidates) == 0 {
		candidates = uc.defaults
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	results := make([]*models.AnalysisResult, 0, len(candidates))
	for _, ticker := range candidates {
		r, err := uc.analysis.Analyze(ctx, ticker, false)
		if err != nil {
			uc.logger.Warn("advisor candidate skipped",
				logger.String("ticker", ticker),
				logger.Error(err))
			continue
		}
		results = append(results, r)
	}
	if len(results) == 0 {
		return nil, models.DataUnavailable("no analyzable candidates in query")
	}

	narrative := textgen.SummaryUnavailable
	if uc.textgen != nil {
		text, err := uc.textgen.Generate(ctx, textgen.RecommendationPrompt(results))
		if err != nil {
			uc.logger.Warn("advisor narrative failed", logger.Error(err))
		} else {
			narrative = text
		}
	}
	return &Recommendation{Candidates: results, Narrative: narrative}, nil
}

// extractTickers pulls plausible symbols out of free text, preserving
// first-mention order and dropping duplicates.
func (uc *AdvisorUseCase) extractTickers(query string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range tickerPattern.FindAllString(query, -1) {
		sym := strings.ToUpper(m)
		if _, skip := stopWords[sym]; skip {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}
