package insights

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spec-kit/field-insights/internal/domain"
)

// Dimension names one tag family counted across feedback and annotations.
type Dimension string

const (
	DimensionEmotion          Dimension = "emotion"
	DimensionProductMention   Dimension = "product_mention"
	DimensionComplaint        Dimension = "complaint"
	DimensionContactReason    Dimension = "contact_reason"
	DimensionCustomerInterest Dimension = "customer_interest"
	DimensionLanguage         Dimension = "language"
	DimensionGender           Dimension = "gender"
	DimensionPositiveKeyword  Dimension = "positive_keyword"
	DimensionNegativeKeyword  Dimension = "negative_keyword"
	DimensionCallRating       Dimension = "call_rating"
)

// Dimensions lists every counted dimension in display order.
var Dimensions = []Dimension{
	DimensionEmotion,
	DimensionProductMention,
	DimensionComplaint,
	DimensionContactReason,
	DimensionCustomerInterest,
	DimensionLanguage,
	DimensionGender,
	DimensionPositiveKeyword,
	DimensionNegativeKeyword,
	DimensionCallRating,
}

// TagCounter counts occurrences of normalized tags.
type TagCounter map[string]int

// Total returns the sum of all counts.
func (c TagCounter) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// TagCounts holds one counter per dimension.
type TagCounts map[Dimension]TagCounter

// NewTagCounts returns counters for every dimension, all empty.
func NewTagCounts() TagCounts {
	counts := make(TagCounts, len(Dimensions))
	for _, dim := range Dimensions {
		counts[dim] = TagCounter{}
	}
	return counts
}

// tagger normalizes tags before counting. Casers are stateful, so a tagger
// must not be shared between goroutines.
type tagger struct {
	title cases.Caser
	lower cases.Caser
}

func newTagger() *tagger {
	return &tagger{
		title: cases.Title(language.Und),
		lower: cases.Lower(language.Und),
	}
}

// normalize trims and collapses whitespace. Language and gender are labels
// and get title case; free-form tags are lower-cased.
func (t *tagger) normalize(dim Dimension, raw string) string {
	tag := strings.Join(strings.Fields(raw), " ")
	if tag == "" {
		return ""
	}
	switch dim {
	case DimensionLanguage, DimensionGender:
		return t.title.String(tag)
	default:
		return t.lower.String(tag)
	}
}

func (t *tagger) add(counts TagCounts, dim Dimension, values ...string) {
	counter, ok := counts[dim]
	if !ok {
		counter = TagCounter{}
		counts[dim] = counter
	}
	for _, v := range values {
		if tag := t.normalize(dim, v); tag != "" {
			counter[tag]++
		}
	}
}

// countFeedback flattens feedback payloads into counts.
func (t *tagger) countFeedback(counts TagCounts, rows []domain.Feedback) {
	for _, fb := range rows {
		p := fb.Payload
		t.add(counts, DimensionCallRating, p.CallRating)
		t.add(counts, DimensionContactReason, p.ContactReasons...)
		t.add(counts, DimensionCustomerInterest, p.CustomerInterests...)
		t.add(counts, DimensionProductMention, p.ProductMentions...)
		t.add(counts, DimensionComplaint, p.Complaints...)
	}
}

func (t *tagger) countAnnotations(counts TagCounts, rows []domain.TranscriptAnnotation) {
	for _, a := range rows {
		t.add(counts, DimensionEmotion, a.Emotions...)
		t.add(counts, DimensionProductMention, a.ProductMentions...)
		t.add(counts, DimensionComplaint, a.Complaints...)
		t.add(counts, DimensionContactReason, a.ContactReasons...)
		t.add(counts, DimensionCustomerInterest, a.CustomerInterests...)
		t.add(counts, DimensionPositiveKeyword, a.PositiveKeywords...)
		t.add(counts, DimensionNegativeKeyword, a.NegativeKeywords...)
		t.add(counts, DimensionLanguage, a.Language)
		t.add(counts, DimensionGender, a.Gender)
	}
}

// CountTags builds counters from feedback and annotation rows.
func CountTags(feedback []domain.Feedback, annotations []domain.TranscriptAnnotation) TagCounts {
	counts := NewTagCounts()
	t := newTagger()
	t.countFeedback(counts, feedback)
	t.countAnnotations(counts, annotations)
	return counts
}
