package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"forex-ai-trader/internal/api"
	"forex-ai-trader/internal/interfaces"
	"forex-ai-trader/internal/store"
	"forex-ai-trader/internal/trace"
	"forex-ai-trader/internal/types"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

const systemInstruction = `You are an expert FX trading assistant.
You must:
- Analyse the provided market data and indicators.
- Produce a clear recommendation: buy, sell, or hold.
- Provide confidence metrics between 0 and 1.
- Suggest stop loss and take profit levels in pips.
- Highlight risks and justifications.

Return JSON with the following shape:
{
  "action": "buy" | "sell" | "hold",
  "confidence": number,
  "stopLossPips": number,
  "takeProfitPips": number,
  "rationale": string,
  "riskFactors": string[]
}`

// Gemini asks the Gemini API for a trade signal. Unreadable model
// output degrades to a hold signal; only transport failures surface as
// errors.
type Gemini struct {
	client *api.Client
	cfg    *store.Config
	apiKey string
}

var _ interfaces.Advisor = (*Gemini)(nil)

func NewGemini(cfg *store.Config, creds store.Credentials) *Gemini {
	return &Gemini{
		client: api.NewClient(
			api.WithBaseURL(geminiBaseURL),
			api.WithTimeout(60*time.Second),
		),
		cfg:    cfg,
		apiKey: creds.GeminiAPIKey,
	}
}

func (g *Gemini) Advise(ctx context.Context, payload types.AnalysisPayload) (types.TradeSignal, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-generate-content")
	defer span.End()

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return types.TradeSignal{}, fmt.Errorf("failed to encode analysis payload: %w", err)
	}

	generationConfig := map[string]any{
		"temperature": g.cfg.Advisor.Temperature,
		"topP":        g.cfg.Advisor.TopP,
	}
	if g.cfg.Advisor.MaxOutputTokens > 0 {
		generationConfig["maxOutputTokens"] = g.cfg.Advisor.MaxOutputTokens
	}

	body := map[string]any{
		"systemInstruction": map[string]any{
			"parts": []map[string]string{{"text": systemInstruction}},
		},
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": []map[string]string{{"text": string(payloadJSON)}},
			},
		},
		"generationConfig": generationConfig,
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", g.cfg.Advisor.Model)
	resp, err := g.client.POST(ctx, path, body, map[string]string{"x-goog-api-key": g.apiKey})
	if err != nil {
		return types.TradeSignal{}, fmt.Errorf("gemini request failed: %w", err)
	}

	text := gjson.GetBytes(resp.Body, "candidates.0.content.parts.0.text").String()
	return ParseSignal(text), nil
}

// fallbackSignal is returned whenever model output cannot be read into
// the expected shape. It flows through the normal gating path and
// always results in a hold.
func fallbackSignal() types.TradeSignal {
	return types.TradeSignal{
		Action:         types.ActionHold,
		Confidence:     0,
		StopLossPips:   0,
		TakeProfitPips: 0,
		Rationale:      "parse failure",
		RiskFactors:    []string{"advisor output unreadable"},
	}
}

// ParseSignal extracts a trade signal from raw model text. The text may
// wrap the JSON object in code fences or prose; anything that does not
// yield a valid action and numeric confidence becomes the hold fallback.
func ParseSignal(text string) types.TradeSignal {
	t := strings.TrimSpace(text)

	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start < 0 || end <= start {
		return fallbackSignal()
	}

	var signal types.TradeSignal
	if err := json.Unmarshal([]byte(t[start:end+1]), &signal); err != nil {
		return fallbackSignal()
	}

	signal.Action = types.TradeAction(strings.ToLower(strings.TrimSpace(string(signal.Action))))
	switch signal.Action {
	case types.ActionBuy, types.ActionSell, types.ActionHold:
	default:
		return fallbackSignal()
	}
	if signal.Confidence < 0 || signal.Confidence > 1 {
		signal.Confidence = 0
	}

	return signal
}
