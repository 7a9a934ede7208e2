package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func heuristicValidator() *Validator {
	return NewValidator(&ValidatorConfig{Classifier: HeuristicClassifier{}})
}

func TestValidate_FalsePositiveShortCircuits(t *testing.T) {
	v := heuristicValidator()

	// Exact phrase match rejects before the capitalization gate runs.
	score := v.Validate("ANNUAL RETURN", "")
	assert.False(t, score.IsValid)
	assert.Equal(t, 0.0, score.Confidence)

	score = v.Validate("Trust Fund", "")
	assert.False(t, score.IsValid)
	assert.Equal(t, 0.0, score.Confidence)
}

func TestValidate_Capitalization(t *testing.T) {
	v := heuristicValidator()

	tests := []struct {
		name string
	}{
		{"JOHN SMITH"},
		{"john smith"},
		{"john Smith"},
		{"John Smith 123"},
		{"John 'Smith"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := v.Validate(tt.name, "")
			assert.False(t, score.IsValid)
			assert.Equal(t, 0.1, score.Confidence)
		})
	}
}

func TestValidate_ClassifierRejection(t *testing.T) {
	v := heuristicValidator()

	// Single capitalized word is not a capitalized pair.
	score := v.Validate("Johnson", "")
	assert.False(t, score.IsValid)
	assert.Equal(t, 0.2, score.Confidence)
}

func TestValidate_BaseConfidence(t *testing.T) {
	v := heuristicValidator()

	score := v.Validate("John Smith", "")
	assert.True(t, score.IsValid)
	assert.InDelta(t, 0.6, score.Confidence, 1e-9)
}

func TestValidate_ContextBoost(t *testing.T) {
	v := heuristicValidator()

	score := v.Validate("John Smith", "Our CEO John Smith will attend")
	assert.True(t, score.IsValid)
	assert.InDelta(t, 0.9, score.Confidence, 1e-9)
}

func TestValidate_ContextWithoutTitle(t *testing.T) {
	v := heuristicValidator()

	score := v.Validate("John Smith", "John Smith enjoys hiking")
	assert.True(t, score.IsValid)
	assert.InDelta(t, 0.6, score.Confidence, 1e-9)
}

func TestExtractContext(t *testing.T) {
	v := heuristicValidator()

	text := "the board announced that our CEO John Smith will attend the annual meeting downtown"
	got := v.ExtractContext(text, "John Smith")
	assert.Equal(t, "announced that our CEO John Smith will attend the annual meeting", got)
}

func TestExtractContext_NameAtStart(t *testing.T) {
	v := heuristicValidator()

	got := v.ExtractContext("Jane Doe is our President", "Jane Doe")
	assert.Equal(t, "Jane Doe is our President", got)
}

func TestExtractContext_NotFound(t *testing.T) {
	v := heuristicValidator()

	assert.Empty(t, v.ExtractContext("no names here", "Jane Doe"))
	assert.Empty(t, v.ExtractContext("", "Jane Doe"))
	assert.Empty(t, v.ExtractContext("some text", ""))
}

func TestExtractContext_CustomWindow(t *testing.T) {
	v := NewValidator(&ValidatorConfig{Classifier: HeuristicClassifier{}, ContextWindow: 1})

	got := v.ExtractContext("our CEO Jane Doe will attend", "Jane Doe")
	assert.Equal(t, "CEO Jane Doe will", got)
}

func TestHeuristicClassifier(t *testing.T) {
	c := HeuristicClassifier{}
	assert.True(t, c.IsPerson("Jane Doe"))
	assert.True(t, c.IsPerson("Mary Jane Watson"))
	assert.False(t, c.IsPerson("Jane"))
	assert.False(t, c.IsPerson("JANE DOE"))
	assert.False(t, c.IsPerson("jane doe"))
}

func TestValidate_CustomFalsePositives(t *testing.T) {
	v := NewValidator(&ValidatorConfig{
		Classifier:     HeuristicClassifier{},
		FalsePositives: []string{"Sample Phrase"},
	})

	score := v.Validate("sample phrase", "")
	assert.False(t, score.IsValid)
	assert.Equal(t, 0.0, score.Confidence)

	// The default set is replaced, not extended.
	score = v.Validate("Trust Fund", "")
	assert.NotEqual(t, 0.0, score.Confidence)
}
