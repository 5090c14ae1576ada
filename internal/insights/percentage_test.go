package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func percentages(b Breakdown) map[string]int {
	out := map[string]int{}
	for _, s := range b {
		out[s.Tag] = s.Percentage
	}
	return out
}

func sumPercent(b Breakdown) int {
	total := 0
	for _, s := range b {
		total += s.Percentage
	}
	return total
}

func TestFormatAllTags(t *testing.T) {
	got := Format(TagCounter{"a": 7, "b": 2, "c": 1}, 3)
	assert.Equal(t, map[string]int{"a": 70, "b": 20, "c": 10}, percentages(got))
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Tag, got[1].Tag, got[2].Tag})
}

func TestFormatTopNRelativeToSubset(t *testing.T) {
	got := Format(TagCounter{"a": 7, "b": 2, "c": 1}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, map[string]int{"a": 78, "b": 22}, percentages(got))
	assert.Equal(t, 7, got[0].Count)
}

func TestFormatFoldsRemainderIntoLargest(t *testing.T) {
	got := Format(TagCounter{"x": 1, "y": 1, "z": 1}, 0)
	assert.Equal(t, 100, sumPercent(got))
	assert.Equal(t, "x", got[0].Tag)
	assert.Equal(t, 34, got[0].Percentage)
	assert.Equal(t, 33, got[1].Percentage)

	// 1/6 and 5/6 of 6 tags rounding up past 100
	got = Format(TagCounter{"a": 1, "b": 1, "c": 1, "d": 1, "e": 1, "f": 1}, 0)
	assert.Equal(t, 100, sumPercent(got))
}

func TestFormatEmpty(t *testing.T) {
	assert.Empty(t, Format(TagCounter{}, 5))
	assert.Empty(t, Format(nil, 5))
	assert.Empty(t, Format(TagCounter{"zero": 0}, 5))
}

func TestFormatSumsTo100(t *testing.T) {
	counters := []TagCounter{
		{"a": 3, "b": 3, "c": 1},
		{"a": 10, "b": 5, "c": 5, "d": 1},
		{"only": 42},
		{"a": 2, "b": 2, "c": 2, "d": 1, "e": 1, "f": 1, "g": 1},
	}
	for _, c := range counters {
		for _, n := range []int{1, 2, 3, 5, 0} {
			assert.Equal(t, 100, sumPercent(Format(c, n)), "counter %v topN %d", c, n)
		}
	}
}

func TestBreakdownMap(t *testing.T) {
	m := Format(TagCounter{"a": 1}, 1).Map()
	assert.Equal(t, Share{Tag: "a", Count: 1, Percentage: 100}, m["a"])
}
