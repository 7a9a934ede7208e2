package names

import (
	"strings"
	"unicode"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/types"
)

// DefaultFalsePositives are phrases that look like title-cased names but are
// organizational or benefit-plan terms, common in Taft-Hartley filings.
var DefaultFalsePositives = []string{
	"Annual Return",
	"Blue Cross",
	"Blue Shield",
	"Organization",
	"Corporation",
	"Form 5500",
	"Benefit Plan",
	"Trust Fund",
	"Welfare Fund",
	"Pension Plan",
	"Medical Plan",
	"Health Plan",
}

// titleKeywords boost confidence when present in the surrounding context.
var titleKeywords = []string{
	"chief executive officer",
	"ceo",
	"president",
	"director",
	"vice president",
	"chair",
	"secretary",
	"treasurer",
	"cfo",
	"coo",
	"cto",
	"chief",
}

// DefaultContextWindow is the number of tokens taken on each side of a name
// when extracting context.
const DefaultContextWindow = 5

// baseConfidence is assigned once text is accepted as a plausible person name.
const baseConfidence = 0.6

// titleBoost is added when an executive title appears in the context.
const titleBoost = 0.3

// ValidatorConfig configures a name Validator. All fields are optional.
type ValidatorConfig struct {
	FalsePositives []string
	ContextWindow  int
	Classifier     PersonNameClassifier
}

// Validator scores how likely a candidate string is a real person's name.
type Validator struct {
	falsePositives map[string]bool
	contextWindow  int
	classifier     PersonNameClassifier
}

// NewValidator creates a validator. A nil config uses the default false
// positive set, a 5-token context window, and the NER-backed classifier.
func NewValidator(cfg *ValidatorConfig) *Validator {
	if cfg == nil {
		cfg = &ValidatorConfig{}
	}
	phrases := cfg.FalsePositives
	if phrases == nil {
		phrases = DefaultFalsePositives
	}
	fps := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		fps[strings.ToLower(strings.TrimSpace(p))] = true
	}
	window := cfg.ContextWindow
	if window <= 0 {
		window = DefaultContextWindow
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = ModelClassifier{}
	}
	return &Validator{falsePositives: fps, contextWindow: window, classifier: classifier}
}

// Validate scores a candidate name, optionally using surrounding context for
// a title boost. Gates run in order and the first failure short-circuits:
// false-positive phrases score 0.0, bad capitalization 0.1, and text the
// classifier rejects 0.2.
func (v *Validator) Validate(name, context string) types.ValidationScore {
	clean := strings.TrimSpace(name)

	if v.falsePositives[strings.ToLower(clean)] {
		return types.ValidationScore{IsValid: false, Confidence: 0.0, Reason: "false positive phrase"}
	}

	if !properCapitalization(clean) {
		return types.ValidationScore{IsValid: false, Confidence: 0.1, Reason: "improper capitalization"}
	}

	if !v.classifier.IsPerson(clean) {
		return types.ValidationScore{IsValid: false, Confidence: 0.2, Reason: "not recognized as a person"}
	}

	confidence := baseConfidence
	if context != "" && hasTitleKeyword(context) {
		confidence += titleBoost
		if confidence > 1.0 {
			confidence = 1.0
		}
	}
	return types.ValidationScore{IsValid: true, Confidence: confidence}
}

// ExtractContext returns a token window around the first occurrence of name
// in text, for use as the context argument to Validate. Returns "" when the
// name does not appear as a contiguous token sequence.
func (v *Validator) ExtractContext(text, name string) string {
	tokens := strings.Fields(text)
	nameTokens := strings.Fields(name)
	if len(nameTokens) == 0 || len(tokens) < len(nameTokens) {
		return ""
	}

	start := -1
	for i := 0; i+len(nameTokens) <= len(tokens); i++ {
		match := true
		for j, nt := range nameTokens {
			if tokens[i+j] != nt {
				match = false
				break
			}
		}
		if match {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	begin := start - v.contextWindow
	if begin < 0 {
		begin = 0
	}
	end := start + len(nameTokens) + v.contextWindow
	if end > len(tokens) {
		end = len(tokens)
	}
	return strings.Join(tokens[begin:end], " ")
}

// properCapitalization reports whether name is title-cased: not fully upper
// or lower case, with every token starting on an upper-case letter.
func properCapitalization(name string) bool {
	if name == "" {
		return false
	}
	hasLetters := strings.IndexFunc(name, unicode.IsLetter) >= 0
	if !hasLetters {
		return false
	}
	if name == strings.ToUpper(name) || name == strings.ToLower(name) {
		return false
	}
	for _, token := range strings.Fields(name) {
		// Digit- or punctuation-initial tokens fail the gate too.
		if !unicode.IsUpper([]rune(token)[0]) {
			return false
		}
	}
	return true
}

// hasTitleKeyword reports whether any executive title appears in context.
func hasTitleKeyword(context string) bool {
	ctx := strings.ToLower(context)
	for _, kw := range titleKeywords {
		if strings.Contains(ctx, kw) {
			return true
		}
	}
	return false
}
