package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
)

// ErrClassificationFailed matches every *ClassificationError.
var ErrClassificationFailed = errors.New("classification failed")

// Prediction is one label/score pair returned by a model.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Model classifies text. Predictions are ordered best first.
type Model interface {
	Classify(ctx context.Context, text string) ([]Prediction, error)
}

// Observer is notified of every classification attempt.
type Observer interface {
	Classified(ok bool)
}

// ClassificationError carries the text that could not be classified.
type ClassificationError struct {
	Text string
	Err  error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify %q: %v", e.Text, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

func (e *ClassificationError) Is(target error) bool { return target == ErrClassificationFailed }

// MapLabel maps a raw model label onto a Category. Anything other than
// "positive" or "negative" is Neutral.
func MapLabel(label string) domain.Category {
	switch label {
	case "positive":
		return domain.Positive
	case "negative":
		return domain.Negative
	default:
		return domain.Neutral
	}
}

// Classifier wraps a Model and normalizes its output.
type Classifier struct {
	model    Model
	observer Observer
}

// NewClassifier builds a Classifier around model.
func NewClassifier(model Model) *Classifier {
	return &Classifier{model: model}
}

// WithObserver sets the observer notified of outcomes.
func (c *Classifier) WithObserver(o Observer) *Classifier {
	c.observer = o
	return c
}

// Annotate classifies text with the first prediction of the model. It does not retry.
func (c *Classifier) Annotate(ctx context.Context, text string) (domain.Category, float64, error) {
	label, score, err := c.annotate(ctx, text)
	if c.observer != nil {
		c.observer.Classified(err == nil)
	}
	return label, score, err
}

func (c *Classifier) annotate(ctx context.Context, text string) (domain.Category, float64, error) {
	preds, err := c.model.Classify(ctx, text)
	if err != nil {
		return "", 0, &ClassificationError{Text: text, Err: err}
	}
	if len(preds) == 0 {
		return "", 0, &ClassificationError{Text: text, Err: errors.New("model returned no predictions")}
	}

	top := preds[0]
	if math.IsNaN(top.Score) || top.Score < 0 || top.Score > 1 {
		return "", 0, &ClassificationError{Text: text, Err: fmt.Errorf("score %v out of range", top.Score)}
	}
	return MapLabel(top.Label), top.Score, nil
}
