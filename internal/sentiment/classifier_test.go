package sentiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
)

type fakeModel struct {
	preds []Prediction
	err   error
	texts []string
}

func (m *fakeModel) Classify(_ context.Context, text string) ([]Prediction, error) {
	m.texts = append(m.texts, text)
	return m.preds, m.err
}

type outcomeCounter struct {
	ok, failed int
}

func (o *outcomeCounter) Classified(ok bool) {
	if ok {
		o.ok++
		return
	}
	o.failed++
}

func TestMapLabel_IsTotal(t *testing.T) {
	cases := map[string]domain.Category{
		"positive": domain.Positive,
		"negative": domain.Negative,
		"neutral":  domain.Neutral,
		"":         domain.Neutral,
		"POSITIVE": domain.Neutral,
		"LABEL_1":  domain.Neutral,
		"mixed":    domain.Neutral,
	}
	for label, want := range cases {
		assert.Equal(t, want, MapLabel(label), "label %q", label)
	}
}

func TestAnnotate_UsesFirstPrediction(t *testing.T) {
	m := &fakeModel{preds: []Prediction{{Label: "negative", Score: 0.81}, {Label: "positive", Score: 0.1}}}
	obs := &outcomeCounter{}
	c := NewClassifier(m).WithObserver(obs)

	label, score, err := c.Annotate(context.Background(), "Factory output slumps")

	require.NoError(t, err)
	assert.Equal(t, domain.Negative, label)
	assert.InDelta(t, 0.81, score, 1e-9)
	assert.Equal(t, []string{"Factory output slumps"}, m.texts)
	assert.Equal(t, 1, obs.ok)
}

func TestAnnotate_Failures(t *testing.T) {
	cases := []struct {
		name  string
		model *fakeModel
	}{
		{name: "model error", model: &fakeModel{err: errors.New("model overloaded")}},
		{name: "no predictions", model: &fakeModel{}},
		{name: "score above one", model: &fakeModel{preds: []Prediction{{Label: "positive", Score: 1.5}}}},
		{name: "negative score", model: &fakeModel{preds: []Prediction{{Label: "positive", Score: -0.1}}}},
		{name: "nan score", model: &fakeModel{preds: []Prediction{{Label: "positive", Score: math.NaN()}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obs := &outcomeCounter{}
			c := NewClassifier(tc.model).WithObserver(obs)

			_, _, err := c.Annotate(context.Background(), "Some headline")

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrClassificationFailed))

			var ce *ClassificationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "Some headline", ce.Text)
			assert.Len(t, tc.model.texts, 1, "no retry")
			assert.Equal(t, 1, obs.failed)
		})
	}
}

func TestClassificationError_UnwrapsCause(t *testing.T) {
	cause := context.DeadlineExceeded
	err := &ClassificationError{Text: "x", Err: cause}
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), `"x"`)
}
