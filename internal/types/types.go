package types

import "time"

// Candle is one OHLCV bar. Series are ordered ascending by time.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// IndicatorSnapshot holds the lagging indicators derived from a candle
// series. A zero value means the series was too short for that window.
type IndicatorSnapshot struct {
	SMA20     float64 `json:"sma20"`
	SMA50     float64 `json:"sma50"`
	EMA12     float64 `json:"ema12"`
	EMA26     float64 `json:"ema26"`
	RSI14     float64 `json:"rsi14"`
	ATR14     float64 `json:"atr14"`
	MaxHigh20 float64 `json:"maxHigh"`
	MinLow20  float64 `json:"minLow"`
}

type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
	ActionHold TradeAction = "hold"
)

// TradeSignal is the advisor's recommendation for one cycle.
type TradeSignal struct {
	Action         TradeAction `json:"action"`
	Confidence     float64     `json:"confidence"`
	StopLossPips   float64     `json:"stopLossPips"`
	TakeProfitPips float64     `json:"takeProfitPips"`
	Rationale      string      `json:"rationale"`
	RiskFactors    []string    `json:"riskFactors"`
}

type RiskProfile struct {
	RiskPerTrade        float64 `yaml:"risk_per_trade_pct" json:"riskPerTrade"`
	MaxConcurrentTrades int     `yaml:"max_concurrent_trades" json:"maxConcurrentTrades"`
	MaxDrawdown         float64 `yaml:"max_drawdown_pct" json:"maxDrawdown"`
}

// AccountSnapshot is read fresh from the broker each cycle.
type AccountSnapshot struct {
	Balance    float64 `json:"balance"`
	Equity     float64 `json:"equity"`
	Margin     float64 `json:"margin"`
	FreeMargin float64 `json:"freeMargin"`
	Leverage   int     `json:"leverage"`
	Currency   string  `json:"currency"`
}

type PositionSnapshot struct {
	ID               string      `json:"id"`
	Symbol           string      `json:"symbol"`
	Type             TradeAction `json:"type"`
	Volume           float64     `json:"volume"`
	Price            float64     `json:"price"`
	Profit           float64     `json:"profit"`
	UnrealizedProfit float64     `json:"unrealizedProfit"`
	Magic            int         `json:"magic,omitempty"`
	Comment          string      `json:"comment,omitempty"`
}

// SymbolSpecification carries the broker's trading constraints for a
// symbol. Specifications are immutable for the life of a session.
type SymbolSpecification struct {
	Symbol       string  `json:"symbol"`
	ContractSize float64 `json:"contractSize"`
	Point        float64 `json:"point"`
	Digits       int     `json:"digits"`
	MinVolume    float64 `json:"minVolume"`
	VolumeStep   float64 `json:"volumeStep"`
}

// Quote is the current bid/ask for a symbol.
type Quote struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
}

// TradeRequest describes one market order. It is constructed once per
// cycle and never retried automatically.
type TradeRequest struct {
	Symbol         string      `json:"symbol"`
	Action         TradeAction `json:"action"`
	LotSize        float64     `json:"lotSize"`
	StopLossPips   float64     `json:"stopLossPips"`
	TakeProfitPips float64     `json:"takeProfitPips"`
	MagicNumber    int         `json:"magicNumber"`
	Comment        string      `json:"comment,omitempty"`
}

// TradeResult is the broker's acknowledgment of an order.
type TradeResult struct {
	OrderID     string `json:"orderId,omitempty"`
	PositionID  string `json:"positionId,omitempty"`
	NumericCode int    `json:"numericCode"`
	StringCode  string `json:"stringCode"`
	Message     string `json:"message"`
}

// StrategySettings selects the instrument and risk envelope for a cycle.
type StrategySettings struct {
	Symbol      string      `json:"symbol"`
	Timeframe   string      `json:"timeframe"`
	RiskProfile RiskProfile `json:"riskProfile"`
	MagicNumber int         `json:"magicNumber"`
}

// CycleResult is the single outcome of one strategy cycle.
type CycleResult struct {
	Signal          TradeSignal `json:"signal"`
	LotSize         float64     `json:"lotSize,omitempty"`
	ExecutedTradeID string      `json:"executedTradeId,omitempty"`
	SkippedReason   string      `json:"skippedReason,omitempty"`
}

// AnalysisPayload is the structured market context sent to the advisor.
type AnalysisPayload struct {
	Symbol        string            `json:"symbol"`
	Timeframe     string            `json:"timeframe"`
	Candles       []Candle          `json:"candles"`
	Indicators    IndicatorSnapshot `json:"indicators"`
	Account       AccountSnapshot   `json:"account"`
	RiskProfile   RiskProfile       `json:"riskProfile"`
	NewsSentiment *NewsSentiment    `json:"newsSentiment,omitempty"`
}

// NewsArticle is one scraped headline.
type NewsArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Summary     string `json:"summary,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// NewsSentiment is the aggregated headline sentiment for a currency pair.
type NewsSentiment struct {
	Symbol           string  `json:"symbol"`
	OverallSentiment string  `json:"overall_sentiment"` // POSITIVE, NEGATIVE or NEUTRAL
	OverallScore     float64 `json:"overall_score"`     // -1.0 .. +1.0
	Confidence       float64 `json:"confidence"`
	ArticleCount     int     `json:"article_count"`
	Summary          string  `json:"summary,omitempty"`
	Timestamp        int64   `json:"timestamp"`
}
