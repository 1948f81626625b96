// Package keyword aggregates per-page keyword frequencies into site-wide
// opportunity scores: Opportunity = Volume × CTR × RankGap ÷
// Difficulty, normalized to a 0-100 scale.
package keyword

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Pavankona715/seo-crawler/internal/model"
)

// positionCTRMap is the organic-search click-through curve by result
// position. Values between entries are linearly interpolated.
var positionCTRMap = map[int]float64{
	1: 0.284, 2: 0.152, 3: 0.099, 4: 0.073, 5: 0.058,
	6: 0.046, 7: 0.036, 8: 0.031, 9: 0.027, 10: 0.024,
	11: 0.018, 12: 0.015, 13: 0.013, 14: 0.011, 15: 0.009,
	20: 0.006, 30: 0.003, 50: 0.001,
}

var sortedPositions = func() []int {
	ps := make([]int, 0, len(positionCTRMap))
	for p := range positionCTRMap {
		ps = append(ps, p)
	}
	sort.Ints(ps)
	return ps
}()

// CTRForPosition returns the estimated click-through rate for a search
// result position, interpolating between known data points.
func CTRForPosition(position int) float64 {
	if position <= 0 {
		return 0.0
	}
	if ctr, ok := positionCTRMap[position]; ok {
		return ctr
	}
	if position > 50 {
		return 0.0005
	}
	for i := 0; i < len(sortedPositions)-1; i++ {
		p1, p2 := sortedPositions[i], sortedPositions[i+1]
		if p1 <= position && position <= p2 {
			ctr1, ctr2 := positionCTRMap[p1], positionCTRMap[p2]
			ratio := float64(position-p1) / float64(p2-p1)
			return ctr1 + ratio*(ctr2-ctr1)
		}
	}
	return 0.001
}

// ComputeOpportunityScore normalizes Volume×CTR×RankGap/Difficulty onto a
// log-compressed 0-100 scale. Returns 0 if volume, ctr, or rankGap is
// non-positive.
func ComputeOpportunityScore(volume int, ctr float64, rankGap int, difficulty float64) float64 {
	if difficulty <= 0 {
		difficulty = 1.0
	}
	if volume <= 0 || ctr <= 0 || rankGap <= 0 {
		return 0.0
	}
	rawScore := (float64(volume) * ctr * float64(rankGap)) / difficulty
	normalized := math.Log1p(rawScore) * 8
	if normalized > 100.0 {
		normalized = 100.0
	}
	return round2(normalized)
}

// Engine aggregates per-page keyword frequencies into site-wide
// opportunities.
type Engine struct {
	// TargetRank is the search position this engine estimates opportunity
	// against (spec default: 3).
	TargetRank int
}

// New returns an Engine targeting rank 3.
func New() *Engine {
	return &Engine{TargetRank: 3}
}

// PageKeywords pairs a page URL with its extracted keyword frequencies.
type PageKeywords struct {
	PageURL     string
	Frequencies map[string]int
}

// MaxOpportunities bounds how many opportunities AggregateSiteKeywords
// considers, taken from the most frequent keywords overall.
const MaxOpportunities = 500

// AggregateSiteKeywords combines keyword frequencies across every analyzed
// page of a site into a descending-opportunity-score list of Keyword
// records.
func (e *Engine) AggregateSiteKeywords(pages []PageKeywords) []model.Keyword {
	keywordPages := make(map[string][]string)
	totalFreq := make(map[string]int)
	totalWords := 0

	for _, p := range pages {
		for kw, count := range p.Frequencies {
			keywordPages[kw] = append(keywordPages[kw], p.PageURL)
			totalFreq[kw] += count
			totalWords += count
		}
	}

	type kwCount struct {
		keyword string
		freq    int
	}
	ranked := make([]kwCount, 0, len(totalFreq))
	for kw, freq := range totalFreq {
		ranked = append(ranked, kwCount{kw, freq})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].freq != ranked[j].freq {
			return ranked[i].freq > ranked[j].freq
		}
		return ranked[i].keyword < ranked[j].keyword
	})
	if len(ranked) > MaxOpportunities {
		ranked = ranked[:MaxOpportunities]
	}

	targetCTR := CTRForPosition(e.TargetRank)
	opportunities := make([]model.Keyword, 0, len(ranked))

	for _, kc := range ranked {
		kw, freq := kc.keyword, kc.freq
		if len(kw) < 3 || isDigitsOnly(kw) {
			continue
		}

		estimatedVolume := estimateVolume(kw, freq)
		estimatedDifficulty := estimateDifficulty(kw)
		currentRank := estimateCurrentRank(freq)

		var rankGap *int
		if currentRank > e.TargetRank {
			gap := currentRank - e.TargetRank
			rankGap = &gap
		}

		opportunityScore := 0.0
		if rankGap != nil && *rankGap > 0 {
			opportunityScore = ComputeOpportunityScore(estimatedVolume, targetCTR, *rankGap, estimatedDifficulty)
		}

		density := float64(freq) / float64(maxInt(totalWords, 1)) * 100

		urls := keywordPages[kw]
		if len(urls) > model.MaxOpportunityPageURLs {
			urls = urls[:model.MaxOpportunityPageURLs]
		}

		opportunities = append(opportunities, model.Keyword{
			Keyword:             kw,
			Frequency:           freq,
			Density:             round4(density),
			EstimatedVolume:     estimatedVolume,
			EstimatedDifficulty: estimatedDifficulty,
			EstimatedCTR:        targetCTR,
			CurrentRank:         currentRank,
			RankGap:             rankGap,
			OpportunityScore:    opportunityScore,
			IsOpportunity:       opportunityScore > 15.0,
			PageURLs:            urls,
		})
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].OpportunityScore > opportunities[j].OpportunityScore
	})
	return opportunities
}

// NewPageKeywords builds the per-page input AggregateSiteKeywords expects.
func NewPageKeywords(pageURL string, frequencies map[string]int) PageKeywords {
	return PageKeywords{PageURL: pageURL, Frequencies: frequencies}
}

func estimateVolume(keyword string, siteFrequency int) int {
	wordCount := len(strings.Fields(keyword))
	const baseVolume = 1000

	var multiplier int
	switch {
	case wordCount == 1:
		multiplier = 10
	case wordCount == 2:
		multiplier = 4
	case wordCount == 3:
		multiplier = 2
	default:
		multiplier = 1
	}

	freqBonus := minInt(siteFrequency*50, 5000)
	return baseVolume*multiplier + freqBonus
}

func estimateDifficulty(keyword string) float64 {
	switch len(strings.Fields(keyword)) {
	case 1:
		return 75.0
	case 2:
		return 55.0
	case 3:
		return 40.0
	default:
		return 25.0
	}
}

func estimateCurrentRank(siteFrequency int) int {
	switch {
	case siteFrequency >= 50:
		return 8
	case siteFrequency >= 20:
		return 15
	case siteFrequency >= 10:
		return 25
	case siteFrequency >= 5:
		return 40
	default:
		return 60
	}
}

func isDigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func round2(v float64) float64 {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	r, _ := strconv.ParseFloat(s, 64)
	return r
}

func round4(v float64) float64 {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	r, _ := strconv.ParseFloat(s, 64)
	return r
}
