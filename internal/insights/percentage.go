package insights

import (
	"math"
	"sort"
)

// Share is one tag's slice of a breakdown.
type Share struct {
	Tag        string `json:"tag"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Breakdown is ordered by descending count, ties broken by tag.
type Breakdown []Share

// Map indexes the breakdown by tag.
func (b Breakdown) Map() map[string]Share {
	out := make(map[string]Share, len(b))
	for _, s := range b {
		out[s.Tag] = s
	}
	return out
}

// Format keeps the topN most frequent tags and expresses each as a whole
// percentage of the kept subset. Rounding drift is folded into the first
// share so the percentages always sum to 100. topN <= 0 keeps every tag.
func Format(counter TagCounter, topN int) Breakdown {
	shares := make(Breakdown, 0, len(counter))
	for tag, count := range counter {
		if count > 0 {
			shares = append(shares, Share{Tag: tag, Count: count})
		}
	}
	if len(shares) == 0 {
		return Breakdown{}
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Tag < shares[j].Tag
	})
	if topN > 0 && len(shares) > topN {
		shares = shares[:topN]
	}

	sum := 0
	for _, s := range shares {
		sum += s.Count
	}

	allocated := 0
	for i := range shares {
		shares[i].Percentage = int(math.Round(float64(shares[i].Count) / float64(sum) * 100))
		allocated += shares[i].Percentage
	}
	shares[0].Percentage += 100 - allocated
	return shares
}

// FormatAll formats every dimension of counts.
func FormatAll(counts TagCounts, topN int) map[Dimension]Breakdown {
	out := make(map[Dimension]Breakdown, len(counts))
	for dim, counter := range counts {
		out[dim] = Format(counter, topN)
	}
	return out
}
