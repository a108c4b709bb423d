package news

import (
	"context"
	"testing"
	"time"

	"forex-ai-trader/internal/types"
)

func TestSentimentCache(t *testing.T) {
	cache := newSentimentCache(50 * time.Millisecond)

	sentiment := types.NewsSentiment{
		Symbol:           "EURUSD",
		OverallSentiment: "POSITIVE",
		OverallScore:     0.8,
		Confidence:       0.9,
		Timestamp:        time.Now().Unix(),
	}
	cache.set("EURUSD", sentiment)

	retrieved, found := cache.get("EURUSD")
	if !found {
		t.Fatal("Expected to find cached sentiment")
	}
	if retrieved.OverallScore != 0.8 {
		t.Errorf("Expected score 0.8, got %f", retrieved.OverallScore)
	}

	time.Sleep(100 * time.Millisecond)
	if _, found = cache.get("EURUSD"); found {
		t.Error("Expected cache entry to be expired")
	}
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(&ServiceConfig{Enabled: false})

	sentiment, err := svc.GetSentiment(context.Background(), "EURUSD")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if sentiment.OverallSentiment != "NEUTRAL" {
		t.Errorf("Expected NEUTRAL sentiment when disabled, got %s", sentiment.OverallSentiment)
	}
	if sentiment.Summary != "Sentiment analysis disabled" {
		t.Errorf("Expected disabled message, got %s", sentiment.Summary)
	}
}

func TestAggregateEmpty(t *testing.T) {
	sentiment := Aggregate("EURUSD", nil)
	if sentiment.OverallSentiment != "NEUTRAL" {
		t.Errorf("Expected NEUTRAL for no articles, got %s", sentiment.OverallSentiment)
	}
	if sentiment.ArticleCount != 0 || sentiment.Confidence != 0 {
		t.Errorf("Unexpected aggregate for no articles: %+v", sentiment)
	}
}

func TestAggregateMajority(t *testing.T) {
	articles := []types.NewsArticle{
		{Title: "Euro rallies as data beats expectations"},
		{Title: "EUR/USD surges to fresh highs"},
		{Title: "Single currency climbs on hawkish remarks"},
		{Title: "Euro slips ahead of ECB"},
	}

	sentiment := Aggregate("EURUSD", articles)
	if sentiment.OverallSentiment != "POSITIVE" {
		t.Errorf("Expected POSITIVE with a 3:1 split, got %s", sentiment.OverallSentiment)
	}
	if sentiment.ArticleCount != 4 {
		t.Errorf("Expected 4 articles counted, got %d", sentiment.ArticleCount)
	}
	if sentiment.Confidence <= 0 {
		t.Error("Expected nonzero confidence")
	}
}

func TestAggregateMixedStaysNeutral(t *testing.T) {
	articles := []types.NewsArticle{
		{Title: "Euro rallies on upbeat PMI"},
		{Title: "Euro tumbles after dovish comments"},
	}

	sentiment := Aggregate("EURUSD", articles)
	if sentiment.OverallSentiment != "NEUTRAL" {
		t.Errorf("Expected NEUTRAL for an even split, got %s", sentiment.OverallSentiment)
	}
}

func TestScoreArticleBounded(t *testing.T) {
	article := types.NewsArticle{
		Title:   "rally surge gain climb soar advance",
		Summary: "bullish upbeat recovery rebound optimism",
	}
	if s := scoreArticle(article); s > 1 {
		t.Errorf("Expected score capped at 1, got %f", s)
	}

	article = types.NewsArticle{
		Title:   "plunge slump tumble selloff crisis",
		Summary: "bearish downbeat recession pessimism",
	}
	if s := scoreArticle(article); s < -1 {
		t.Errorf("Expected score capped at -1, got %f", s)
	}
}

func TestPairSlug(t *testing.T) {
	if got := pairSlug("EURUSD"); got != "eur-usd" {
		t.Errorf("Expected eur-usd, got %s", got)
	}
	if got := pairSlug("GBPJPY"); got != "gbp-jpy" {
		t.Errorf("Expected gbp-jpy, got %s", got)
	}
}
