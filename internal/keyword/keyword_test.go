package keyword

import (
	"math"
	"testing"
)

func TestCTRForPositionExactEntries(t *testing.T) {
	cases := map[int]float64{1: 0.284, 3: 0.099, 10: 0.024, 50: 0.001}
	for pos, want := range cases {
		if got := CTRForPosition(pos); got != want {
			t.Errorf("CTRForPosition(%d) = %v, want %v", pos, got, want)
		}
	}
}

func TestCTRForPositionInterpolates(t *testing.T) {
	// Position 16 falls between 15 (0.009) and 20 (0.006).
	got := CTRForPosition(16)
	want := 0.009 + (1.0/5.0)*(0.006-0.009)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("CTRForPosition(16) = %v, want %v", got, want)
	}
}

func TestCTRForPositionBeyond50(t *testing.T) {
	if got := CTRForPosition(75); got != 0.0005 {
		t.Errorf("CTRForPosition(75) = %v, want 0.0005", got)
	}
}

func TestCTRForPositionNonPositive(t *testing.T) {
	if got := CTRForPosition(0); got != 0.0 {
		t.Errorf("CTRForPosition(0) = %v, want 0", got)
	}
}

func TestComputeOpportunityScoreZeroedInputs(t *testing.T) {
	cases := []struct {
		volume     int
		ctr        float64
		rankGap    int
		difficulty float64
	}{
		{0, 0.1, 5, 50}, {100, 0, 5, 50}, {100, 0.1, 0, 50},
	}
	for _, c := range cases {
		if got := ComputeOpportunityScore(c.volume, c.ctr, c.rankGap, c.difficulty); got != 0.0 {
			t.Errorf("ComputeOpportunityScore(%v) = %v, want 0", c, got)
		}
	}
}

func TestComputeOpportunityScoreWorkedExample(t *testing.T) {
	// Single-word keyword at frequency 40: volume=12000, difficulty=75,
	// ctr(rank3)=0.099, rank_gap=12 (current rank 15, target 3).
	volume := estimateVolume("widget", 40)
	if volume != 12000 {
		t.Fatalf("estimated volume = %d, want 12000", volume)
	}
	difficulty := estimateDifficulty("widget")
	if difficulty != 75.0 {
		t.Fatalf("estimated difficulty = %v, want 75", difficulty)
	}
	rank := estimateCurrentRank(40)
	if rank != 15 {
		t.Fatalf("estimated rank = %d, want 15", rank)
	}
	ctr := CTRForPosition(3)
	if ctr != 0.099 {
		t.Fatalf("ctr = %v, want 0.099", ctr)
	}
	rankGap := rank - 3
	if rankGap != 12 {
		t.Fatalf("rank gap = %d, want 12", rankGap)
	}

	rawScore := float64(volume) * ctr * float64(rankGap) / difficulty
	if math.Abs(rawScore-190.08) > 0.01 {
		t.Fatalf("raw score = %v, want ~190.08", rawScore)
	}

	want := math.Log1p(rawScore) * 8
	got := ComputeOpportunityScore(volume, ctr, rankGap, difficulty)
	if math.Abs(got-round2(want)) > 0.01 {
		t.Errorf("opportunity score = %v, want %v", got, round2(want))
	}
}

func TestComputeOpportunityScoreClampedTo100(t *testing.T) {
	got := ComputeOpportunityScore(1_000_000_000, 1.0, 100, 1.0)
	if got != 100.0 {
		t.Errorf("opportunity score = %v, want 100", got)
	}
}

func TestEstimateVolumeMultipliers(t *testing.T) {
	cases := []struct {
		keyword string
		freq    int
		want    int
	}{
		{"one", 0, 10000},
		{"two word", 0, 4000},
		{"three word phrase", 0, 2000},
		{"four word long tail phrase", 0, 1000},
		{"one", 200, 10000 + 5000},
	}
	for _, c := range cases {
		if got := estimateVolume(c.keyword, c.freq); got != c.want {
			t.Errorf("estimateVolume(%q, %d) = %d, want %d", c.keyword, c.freq, got, c.want)
		}
	}
}

func TestAggregateSiteKeywordsFiltersShortAndNumeric(t *testing.T) {
	e := New()
	pages := []PageKeywords{
		NewPageKeywords("https://example.test/a", map[string]int{"ab": 10, "123": 5, "widgets": 20}),
	}
	opps := e.AggregateSiteKeywords(pages)
	for _, o := range opps {
		if o.Keyword == "ab" || o.Keyword == "123" {
			t.Errorf("expected %q to be filtered out", o.Keyword)
		}
	}
}

func TestAggregateSiteKeywordsSortedDescending(t *testing.T) {
	e := New()
	pages := []PageKeywords{
		NewPageKeywords("https://example.test/a", map[string]int{"popular": 60, "rare": 1}),
	}
	opps := e.AggregateSiteKeywords(pages)
	for i := 1; i < len(opps); i++ {
		if opps[i].OpportunityScore > opps[i-1].OpportunityScore {
			t.Errorf("opportunities not sorted descending at index %d", i)
		}
	}
}

func TestAggregateSiteKeywordsPageURLsTruncated(t *testing.T) {
	e := New()
	freq := map[string]int{"widgets": 30}
	var pages []PageKeywords
	for i := 0; i < 8; i++ {
		pages = append(pages, NewPageKeywords("https://example.test/p", freq))
	}
	opps := e.AggregateSiteKeywords(pages)
	for _, o := range opps {
		if o.Keyword == "widgets" && len(o.PageURLs) > 5 {
			t.Errorf("page_urls length = %d, want <= 5", len(o.PageURLs))
		}
	}
}
