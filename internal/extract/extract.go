// Package extract scans parsed pages for executive (name, title) pairs using
// structural and inline-text patterns.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/names"
)

// ExecutiveTitles is the title vocabulary accepted by both extraction passes.
// Longer phrases come before their substrings so alternation prefers them.
var ExecutiveTitles = []string{
	"chief executive officer",
	"ceo",
	"president",
	"executive director",
	"chief operating officer",
	"coo",
	"chief financial officer",
	"cfo",
	"chief technology officer",
	"cto",
	"vice president",
	"director",
	"board chair",
	"chair",
}

// SectionKeywords locate page regions likely to describe leadership.
var SectionKeywords = []string{"about", "leadership", "team", "staff", "board"}

// Candidate is an extracted (name, title) pair with the name validator's
// confidence. Duplicates across sections and passes are preserved;
// deduplication is a caller responsibility.
type Candidate struct {
	Name       string
	Title      string
	Confidence float64
}

// Extractor finds executive candidates in parsed HTML documents.
type Extractor struct {
	validator *names.Validator
	titles    *regexp.Regexp
	nameTitle *regexp.Regexp
	titleName *regexp.Regexp
}

// NewExtractor creates an extractor gated by the given name validator.
// A nil validator uses the default configuration.
func NewExtractor(validator *names.Validator) *Extractor {
	if validator == nil {
		validator = names.NewValidator(nil)
	}

	escaped := make([]string, len(ExecutiveTitles))
	for i, t := range ExecutiveTitles {
		escaped[i] = regexp.QuoteMeta(t)
	}
	alternation := strings.Join(escaped, "|")

	return &Extractor{
		validator: validator,
		titles:    regexp.MustCompile(`(?i)\b(` + alternation + `)\b`),
		// "John Smith, Chief Executive Officer"
		nameTitle: regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\s*,\s*([^,\n]+)`),
		// "CEO: John Smith" or "CEO - John Smith"
		titleName: regexp.MustCompile(`(?i)\b(` + alternation + `)\b\s*[:\-]\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`),
	}
}

// Extract returns all executive candidates found in doc. Inline and
// structured passes run independently per section and their results are
// concatenated in order, without cross-section deduplication.
func (e *Extractor) Extract(doc *goquery.Document) []Candidate {
	var results []Candidate
	for _, section := range candidateSections(doc) {
		results = append(results, e.extractInline(flatText(section))...)
		results = append(results, e.extractStructured(section)...)
	}
	return results
}

// candidateSections returns elements whose id or class mentions a section
// keyword. When nothing matches, the whole document is one section.
func candidateSections(doc *goquery.Document) []*goquery.Selection {
	var sections []*goquery.Selection
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		class, _ := s.Attr("class")
		attrs := strings.ToLower(id + " " + class)
		for _, kw := range SectionKeywords {
			if strings.Contains(attrs, kw) {
				sections = append(sections, s)
				return
			}
		}
	})
	if len(sections) == 0 {
		sections = append(sections, doc.Selection)
	}
	return sections
}

// extractStructured pairs each heading with the text of its immediately
// following sibling, accepting the pair when the sibling matches the title
// vocabulary and the heading validates as a person name.
func (e *Extractor) extractStructured(section *goquery.Selection) []Candidate {
	var results []Candidate
	section.Find("h1,h2,h3,h4,h5,h6").Each(func(_ int, heading *goquery.Selection) {
		name := flatText(heading)
		if name == "" {
			return
		}
		sibling := heading.Next()
		if sibling.Length() == 0 {
			return
		}
		title := flatText(sibling)
		if !e.titles.MatchString(title) {
			return
		}
		score := e.validator.Validate(name, name+" "+title)
		if score.IsValid {
			results = append(results, Candidate{Name: name, Title: title, Confidence: score.Confidence})
		}
	})
	return results
}

// extractInline runs the two text-pattern scans over a section's flattened
// text.
func (e *Extractor) extractInline(text string) []Candidate {
	var results []Candidate

	for _, m := range e.nameTitle.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		title := strings.TrimSpace(m[2])
		if !e.titles.MatchString(title) {
			continue
		}
		score := e.validator.Validate(name, m[0])
		if score.IsValid {
			results = append(results, Candidate{Name: name, Title: title, Confidence: score.Confidence})
		}
	}

	for _, m := range e.titleName.FindAllStringSubmatch(text, -1) {
		title := strings.TrimSpace(m[1])
		name := strings.TrimSpace(m[2])
		score := e.validator.Validate(name, m[0])
		if score.IsValid {
			results = append(results, Candidate{Name: name, Title: title, Confidence: score.Confidence})
		}
	}

	return results
}

// flatText returns a selection's text with whitespace collapsed to single
// spaces.
func flatText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
