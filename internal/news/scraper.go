package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"forex-ai-trader/internal/logger"
	"forex-ai-trader/internal/types"
)

// Scraper collects FX headlines from public news sites.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

// Source describes one scrapeable news site.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // {pair} is replaced with e.g. "eur-usd"
	Selectors  ArticleSelectors
	RateLimit  time.Duration
}

// ArticleSelectors holds the CSS selectors for pulling article data out
// of a source's listing page.
type ArticleSelectors struct {
	ArticleContainer string
	Title            string
	URL              string
	Summary          string
	PublishedAt      string
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "FXStreet",
			BaseURL:    "https://www.fxstreet.com",
			SearchPath: "/currencies/{pair}",
			Selectors: ArticleSelectors{
				ArticleContainer: "article, div.fxs_article",
				Title:            "h3 a, h4 a",
				URL:              "h3 a, h4 a",
				Summary:          "p",
				PublishedAt:      "time",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "DailyFX",
			BaseURL:    "https://www.dailyfx.com",
			SearchPath: "/{pair}",
			Selectors: ArticleSelectors{
				ArticleContainer: "div.dfx-articleListItem, article",
				Title:            "a h3, span.dfx-articleListItem__title",
				URL:              "a",
				Summary:          "p",
				PublishedAt:      "time, span.dfx-articleListItem__date",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "Investing.com",
			BaseURL:    "https://www.investing.com",
			SearchPath: "/currencies/{pair}-news",
			Selectors: ArticleSelectors{
				ArticleContainer: "article, div.largeTitle article",
				Title:            "a.title, h3 a",
				URL:              "a.title, h3 a",
				Summary:          "p",
				PublishedAt:      "time, span.date",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// pairSlug turns "EURUSD" into "eur-usd".
func pairSlug(symbol string) string {
	s := strings.ToLower(symbol)
	if len(s) >= 6 {
		return s[:3] + "-" + s[3:6]
	}
	return s
}

// ScrapeNews fetches headlines for a currency pair from every source.
// A failing source is logged and skipped; the remainder still count.
func (s *Scraper) ScrapeNews(ctx context.Context, symbol string, maxArticles int) ([]types.NewsArticle, error) {
	logger.Info(ctx, "Starting news scraping", "symbol", symbol, "sources", len(s.sources))

	perSource := maxArticles / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	var all []types.NewsArticle
	for _, source := range s.sources {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		articles, err := s.scrapeSource(ctx, source, symbol, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "symbol", symbol)
			continue
		}
		all = append(all, articles...)

		// Rate limiting between sources
		time.Sleep(source.RateLimit)
	}

	logger.Info(ctx, "News scraping completed", "symbol", symbol, "articles", len(all))
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source Source, symbol string, maxArticles int) ([]types.NewsArticle, error) {
	var articles []types.NewsArticle

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.ArticleContainer, func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}
		articleURL := e.ChildAttr(source.Selectors.URL, "href")
		if articleURL == "" {
			return
		}
		if !strings.HasPrefix(articleURL, "http") {
			articleURL = source.BaseURL + articleURL
		}

		articles = append(articles, types.NewsArticle{
			Title:       title,
			URL:         articleURL,
			Source:      source.Name,
			Summary:     firstParagraph(e.DOM, source.Selectors.Summary),
			PublishedAt: strings.TrimSpace(e.ChildText(source.Selectors.PublishedAt)),
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	listURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{pair}", pairSlug(symbol))
	if err := c.Visit(listURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", listURL, err)
	}
	c.Wait()

	return articles, nil
}

// firstParagraph picks the first non-trivial paragraph under the article
// node. Listing pages mix captions and timestamps into <p> tags, so very
// short fragments are skipped.
func firstParagraph(sel *goquery.Selection, selector string) string {
	var summary string
	sel.Find(selector).EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if len(text) > 40 {
			summary = text
			return false
		}
		return true
	})
	return summary
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
