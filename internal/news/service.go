// Package news scrapes FX headlines and folds them into an aggregate
// sentiment reading the advisor can weigh. Every failure path degrades
// to a neutral reading so the trading cycle never blocks on news.
package news

import (
	"context"
	"sync"
	"time"

	"forex-ai-trader/internal/interfaces"
	"forex-ai-trader/internal/logger"
	"forex-ai-trader/internal/store"
	"forex-ai-trader/internal/types"
)

// Service provides headline sentiment with caching.
type Service struct {
	scraper *Scraper
	cache   *sentimentCache
	cfg     *ServiceConfig
}

var _ interfaces.SentimentProvider = (*Service)(nil)

// ServiceConfig configures the sentiment service.
type ServiceConfig struct {
	MaxArticles    int
	CacheDuration  time.Duration
	ScraperTimeout time.Duration
	Enabled        bool
}

// DefaultServiceConfig returns the default configuration.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxArticles:    15,
		CacheDuration:  1 * time.Hour,
		ScraperTimeout: 30 * time.Second,
		Enabled:        true,
	}
}

// ServiceConfigFrom builds a service config from the bot configuration.
func ServiceConfigFrom(cfg *store.Config) *ServiceConfig {
	return &ServiceConfig{
		MaxArticles:    cfg.News.MaxArticles,
		CacheDuration:  time.Duration(cfg.News.CacheMinutes) * time.Minute,
		ScraperTimeout: 30 * time.Second,
		Enabled:        cfg.News.Enabled,
	}
}

type sentimentCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	sentiment types.NewsSentiment
	timestamp time.Time
}

func newSentimentCache(ttl time.Duration) *sentimentCache {
	return &sentimentCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}
}

func (c *sentimentCache) get(symbol string) (types.NewsSentiment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[symbol]
	if !exists || time.Since(entry.timestamp) > c.ttl {
		return types.NewsSentiment{}, false
	}
	return entry.sentiment, true
}

func (c *sentimentCache) set(symbol string, sentiment types.NewsSentiment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[symbol] = &cacheEntry{
		sentiment: sentiment,
		timestamp: time.Now(),
	}
}

// NewService creates a news sentiment service.
func NewService(cfg *ServiceConfig) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	return &Service{
		scraper: NewScraper(cfg.ScraperTimeout),
		cache:   newSentimentCache(cfg.CacheDuration),
		cfg:     cfg,
	}
}

// GetSentiment returns cached or freshly scraped sentiment for a pair.
func (s *Service) GetSentiment(ctx context.Context, symbol string) (types.NewsSentiment, error) {
	if !s.cfg.Enabled {
		return neutralSentiment(symbol, "Sentiment analysis disabled"), nil
	}

	if cached, ok := s.cache.get(symbol); ok {
		logger.Debug(ctx, "Using cached sentiment", "symbol", symbol,
			"age_minutes", time.Since(time.Unix(cached.Timestamp, 0)).Minutes())
		return cached, nil
	}

	articles, err := s.scraper.ScrapeNews(ctx, symbol, s.cfg.MaxArticles)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch sentiment", err, "symbol", symbol)
		return neutralSentiment(symbol, "Failed to fetch sentiment: "+err.Error()), nil
	}

	sentiment := Aggregate(symbol, articles)
	s.cache.set(symbol, sentiment)

	logger.Info(ctx, "Sentiment analysis completed", "symbol", symbol,
		"overall", sentiment.OverallSentiment, "score", sentiment.OverallScore,
		"articles", sentiment.ArticleCount)
	return sentiment, nil
}

// RefreshSentiment bypasses the cache and re-scrapes.
func (s *Service) RefreshSentiment(ctx context.Context, symbol string) (types.NewsSentiment, error) {
	articles, err := s.scraper.ScrapeNews(ctx, symbol, s.cfg.MaxArticles)
	if err != nil {
		return types.NewsSentiment{}, err
	}
	sentiment := Aggregate(symbol, articles)
	s.cache.set(symbol, sentiment)
	return sentiment, nil
}
