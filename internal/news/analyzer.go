package news

import (
	"fmt"
	"strings"
	"time"

	"forex-ai-trader/internal/types"
)

// Keyword lexicons for headline scoring. Direction is relative to the
// base currency of the pair: "euro rallies" is positive for EURUSD.
var (
	positiveWords = []string{
		"rally", "rallies", "surge", "surges", "gain", "gains", "climb", "climbs",
		"strengthen", "strengthens", "bullish", "upbeat", "recovery", "recovers",
		"rebound", "rebounds", "advance", "advances", "rises", "soar", "soars",
		"optimism", "hawkish", "beats", "outperform",
	}
	negativeWords = []string{
		"fall", "falls", "drop", "drops", "slide", "slides", "plunge", "plunges",
		"weaken", "weakens", "bearish", "downbeat", "slump", "slumps", "tumble",
		"tumbles", "decline", "declines", "selloff", "sell-off", "sinks",
		"pessimism", "dovish", "misses", "recession", "crisis",
	}
)

// scoreArticle assigns a sentiment score in [-1, 1] from keyword hits in
// the title and summary. The title counts double.
func scoreArticle(article types.NewsArticle) float64 {
	title := strings.ToLower(article.Title)
	summary := strings.ToLower(article.Summary)

	score := 0.0
	for _, w := range positiveWords {
		if strings.Contains(title, w) {
			score += 2
		}
		if strings.Contains(summary, w) {
			score++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(title, w) {
			score -= 2
		}
		if strings.Contains(summary, w) {
			score--
		}
	}

	if score > 4 {
		score = 4
	}
	if score < -4 {
		score = -4
	}
	return score / 4
}

func classify(score float64) string {
	switch {
	case score >= 0.15:
		return "POSITIVE"
	case score <= -0.15:
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}

// Aggregate folds individual article scores into one pair-level reading.
// Overall sentiment follows a two-to-one majority; anything closer stays
// neutral so the advisor is not nudged by noise.
func Aggregate(symbol string, articles []types.NewsArticle) types.NewsSentiment {
	if len(articles) == 0 {
		return neutralSentiment(symbol, "No articles found for analysis")
	}

	counts := map[string]int{"POSITIVE": 0, "NEGATIVE": 0, "NEUTRAL": 0}
	total := 0.0
	for _, a := range articles {
		s := scoreArticle(a)
		total += s
		counts[classify(s)]++
	}
	avg := total / float64(len(articles))

	overall := "NEUTRAL"
	if counts["POSITIVE"] > counts["NEGATIVE"]*2 {
		overall = "POSITIVE"
	} else if counts["NEGATIVE"] > counts["POSITIVE"]*2 {
		overall = "NEGATIVE"
	}

	return types.NewsSentiment{
		Symbol:           symbol,
		OverallSentiment: overall,
		OverallScore:     avg,
		Confidence:       confidence(len(articles), counts),
		ArticleCount:     len(articles),
		Summary: fmt.Sprintf("Headline sentiment: %d positive, %d negative, %d neutral",
			counts["POSITIVE"], counts["NEGATIVE"], counts["NEUTRAL"]),
		Timestamp: time.Now().Unix(),
	}
}

// confidence grows with article count and shrinks when the individual
// readings disagree.
func confidence(count int, counts map[string]int) float64 {
	base := 0.3
	switch {
	case count >= 10:
		base = 0.9
	case count >= 5:
		base = 0.7
	case count >= 3:
		base = 0.5
	}

	maxCount := counts["POSITIVE"]
	if counts["NEGATIVE"] > maxCount {
		maxCount = counts["NEGATIVE"]
	}
	if counts["NEUTRAL"] > maxCount {
		maxCount = counts["NEUTRAL"]
	}
	return base * float64(maxCount) / float64(count)
}

func neutralSentiment(symbol, summary string) types.NewsSentiment {
	return types.NewsSentiment{
		Symbol:           symbol,
		OverallSentiment: "NEUTRAL",
		OverallScore:     0,
		Confidence:       0,
		ArticleCount:     0,
		Summary:          summary,
		Timestamp:        time.Now().Unix(),
	}
}
