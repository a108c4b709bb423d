// Package tradelog keeps a plain JSONL journal of signals and executed
// trades, one file per UTC day. The journal survives restarts and is
// meant for offline review, not for the trading loop itself.
package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"forex-ai-trader/internal/types"
)

var mu sync.Mutex

type SignalEntry struct {
	Time           string   `json:"time"`
	Symbol         string   `json:"symbol"`
	Action         string   `json:"action"`
	Confidence     float64  `json:"confidence"`
	StopLossPips   float64  `json:"stopLossPips"`
	TakeProfitPips float64  `json:"takeProfitPips"`
	Rationale      string   `json:"rationale"`
	RiskFactors    []string `json:"riskFactors,omitempty"`
	SkippedReason  string   `json:"skippedReason,omitempty"`
}

type TradeEntry struct {
	Time       string  `json:"time"`
	Symbol     string  `json:"symbol"`
	Action     string  `json:"action"`
	LotSize    float64 `json:"lotSize"`
	TradeID    string  `json:"tradeId"`
	StringCode string  `json:"stringCode,omitempty"`
}

func logDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func signalsFilepath(t time.Time) string {
	return filepath.Join(logDir(), "signals", t.UTC().Format("2006-01-02")+".jsonl")
}

func tradesFilepath(t time.Time) string {
	return filepath.Join(logDir(), t.UTC().Format("2006-01-02")+".jsonl")
}

func appendLine(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(v)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// AppendSignal journals one advisor signal and how the cycle handled it.
func AppendSignal(symbol string, signal types.TradeSignal, skippedReason string) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().UTC()
	return appendLine(signalsFilepath(now), SignalEntry{
		Time:           now.Format("2006-01-02 15:04:05"),
		Symbol:         symbol,
		Action:         string(signal.Action),
		Confidence:     signal.Confidence,
		StopLossPips:   signal.StopLossPips,
		TakeProfitPips: signal.TakeProfitPips,
		Rationale:      signal.Rationale,
		RiskFactors:    signal.RiskFactors,
		SkippedReason:  skippedReason,
	})
}

// AppendTrade journals one executed order.
func AppendTrade(req types.TradeRequest, result types.TradeResult) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().UTC()
	tradeID := result.OrderID
	if tradeID == "" {
		tradeID = result.PositionID
	}
	return appendLine(tradesFilepath(now), TradeEntry{
		Time:       now.Format("2006-01-02 15:04:05"),
		Symbol:     req.Symbol,
		Action:     string(req.Action),
		LotSize:    req.LotSize,
		TradeID:    tradeID,
		StringCode: result.StringCode,
	})
}

// CompressOlder gzips journal files older than retentionDays. Errors on
// individual files are skipped so one bad file never blocks startup.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(logDir(), func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e := os.Stat(gz); e == nil {
			_ = os.Remove(p)
			return nil
		}

		in, e := os.Open(p)
		if e != nil {
			return nil
		}
		defer in.Close()

		out, e := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e = io.Copy(gw, in); e == nil {
			if e = gw.Close(); e == nil {
				if e = out.Close(); e == nil {
					_ = os.Remove(p)
					return nil
				}
			}
		}
		_ = gw.Close()
		_ = out.Close()
		_ = os.Remove(gz)
		return nil
	})
}
