package sentiment

import (
	"context"
	"errors"
	"strings"
)

// neutralBand is the net polarity below which a headline stays neutral.
const neutralBand = 0.2

// LexiconModel is an offline keyword classifier speaking FinBERT's label set.
type LexiconModel struct {
	positive map[string]float64
	negative map[string]float64
}

// NewLexiconModel returns a model with the built-in market vocabulary.
func NewLexiconModel() *LexiconModel {
	return &LexiconModel{
		positive: buildPositiveWords(),
		negative: buildNegativeWords(),
	}
}

// Classify scores text by keyword polarity. It returns the winning label first.
func (m *LexiconModel) Classify(ctx context.Context, text string) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return nil, errors.New("empty text")
	}

	var pos, neg float64
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:'\"()[]")
		pos += m.positive[w]
		neg += m.negative[w]
	}

	if pos+neg == 0 {
		return []Prediction{{Label: "neutral", Score: 0.5}}, nil
	}

	net := (pos - neg) / (pos + neg)
	switch {
	case net > neutralBand:
		return []Prediction{{Label: "positive", Score: 0.5 + net/2}, {Label: "neutral", Score: 0.5 - net/2}}, nil
	case net < -neutralBand:
		return []Prediction{{Label: "negative", Score: 0.5 - net/2}, {Label: "neutral", Score: 0.5 + net/2}}, nil
	default:
		abs := net
		if abs < 0 {
			abs = -abs
		}
		return []Prediction{{Label: "neutral", Score: 1 - abs}}, nil
	}
}

func buildPositiveWords() map[string]float64 {
	return map[string]float64{
		"rally":      1.0,
		"rallies":    1.0,
		"surge":      0.9,
		"surges":     0.9,
		"soar":       0.9,
		"soars":      0.9,
		"record":     0.6,
		"gain":       0.7,
		"gains":      0.7,
		"growth":     0.7,
		"profit":     0.7,
		"profits":    0.7,
		"beat":       0.6,
		"beats":      0.6,
		"upgrade":    0.8,
		"boost":      0.7,
		"boosts":     0.7,
		"recovery":   0.7,
		"rebound":    0.7,
		"rebounds":   0.7,
		"strong":     0.5,
		"optimism":   0.8,
		"bullish":    1.0,
		"expands":    0.5,
		"cools":      0.4,
		"hires":      0.5,
		"agreement":  0.4,
		"approval":   0.5,
		"approves":   0.5,
		"dividend":   0.5,
		"outperform": 0.8,
	}
}

func buildNegativeWords() map[string]float64 {
	return map[string]float64{
		"crash":      1.0,
		"crashes":    1.0,
		"plunge":     1.0,
		"plunges":    1.0,
		"slump":      0.9,
		"slumps":     0.9,
		"fall":       0.6,
		"falls":      0.6,
		"drop":       0.6,
		"drops":      0.6,
		"loss":       0.7,
		"losses":     0.7,
		"recession":  1.0,
		"inflation":  0.4,
		"layoffs":    0.9,
		"cuts":       0.5,
		"downgrade":  0.8,
		"bankruptcy": 1.0,
		"default":    0.8,
		"fraud":      0.9,
		"lawsuit":    0.6,
		"crisis":     0.9,
		"war":        0.8,
		"tariffs":    0.6,
		"weak":       0.5,
		"bearish":    1.0,
		"misses":     0.6,
		"warning":    0.6,
		"fears":      0.7,
		"selloff":    0.9,
		"sell-off":   0.9,
	}
}
