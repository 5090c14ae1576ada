package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/field-insights/internal/domain"
)

func TestCountTags(t *testing.T) {
	feedback := []domain.Feedback{
		{Payload: domain.FeedbackPayload{
			CallRating:        "good",
			ContactReasons:    []string{"Price Enquiry", " price  enquiry "},
			CustomerInterests: []string{"TV"},
			Complaints:        []string{""},
		}},
		{Payload: domain.FeedbackPayload{CallRating: "bad"}},
	}
	annotations := []domain.TranscriptAnnotation{
		{RecordingID: "r1", Language: "hindi", Gender: "FEMALE", Emotions: []string{"happy", "Happy"}, ProductMentions: []string{"tv"}},
		{RecordingID: "r2", Language: "Hindi", Gender: "male", NegativeKeywords: []string{"late"}},
	}

	counts := CountTags(feedback, annotations)

	assert.Equal(t, TagCounter{"good": 1, "bad": 1}, counts[DimensionCallRating])
	assert.Equal(t, TagCounter{"price enquiry": 2}, counts[DimensionContactReason])
	assert.Equal(t, TagCounter{"tv": 1}, counts[DimensionCustomerInterest])
	assert.Empty(t, counts[DimensionComplaint])
	assert.Equal(t, TagCounter{"happy": 2}, counts[DimensionEmotion])
	assert.Equal(t, TagCounter{"tv": 1}, counts[DimensionProductMention])
	assert.Equal(t, TagCounter{"Hindi": 2}, counts[DimensionLanguage])
	assert.Equal(t, TagCounter{"Female": 1, "Male": 1}, counts[DimensionGender])
	assert.Equal(t, TagCounter{"late": 1}, counts[DimensionNegativeKeyword])
	assert.Equal(t, 2, counts[DimensionLanguage].Total())
}

func TestNewTagCountsHasEveryDimension(t *testing.T) {
	counts := NewTagCounts()
	for _, dim := range Dimensions {
		assert.NotNil(t, counts[dim], dim)
	}
}
