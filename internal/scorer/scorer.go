// Package scorer computes per-page and per-site SEO scores across five
// weighted dimensions.
package scorer

import (
	"github.com/Pavankona715/seo-crawler/internal/model"
)

const (
	technicalMaxPossible = 90.0
	contentMaxPossible   = 95.0
)

// Scorer computes dimension and overall scores using a fixed set of weights.
type Scorer struct {
	weights model.DimensionWeights
}

// New builds a Scorer using weights for the overall-score combination.
func New(weights model.DimensionWeights) *Scorer {
	return &Scorer{weights: weights}
}

// ScorePage computes all five dimensions plus the weighted overall for one
// page. inboundLinkCount is the number of internal links pointing at this
// page; it is 0 for every page during the initial per-page pass (see
// DESIGN.md's Open Question 2).
func (s *Scorer) ScorePage(page model.Page, inboundLinkCount int) model.Score {
	techScore, techBreakdown := scoreTechnical(page)
	contentScore, contentBreakdown := scoreContent(page)
	linkingScore, linkingBreakdown := scoreLinking(page, inboundLinkCount)
	authorityScore := scoreAuthority(inboundLinkCount)
	aiScore := scoreAIVisibility(page)

	score := model.Score{
		SiteID:             page.SiteID,
		PageID:             page.ID,
		CrawlJobID:         page.CrawlJobID,
		TechnicalScore:     clamp(techScore),
		ContentScore:       clamp(contentScore),
		AuthorityScore:     clamp(authorityScore),
		LinkingScore:       clamp(linkingScore),
		AIVisibilityScore:  clamp(aiScore),
		TechnicalBreakdown: techBreakdown,
		ContentBreakdown:   contentBreakdown,
		LinkingBreakdown:   linkingBreakdown,
	}

	score.OverallScore = clamp(
		score.TechnicalScore*s.weights.Technical +
			score.ContentScore*s.weights.Content +
			score.AuthorityScore*s.weights.Authority +
			score.LinkingScore*s.weights.Linking +
			score.AIVisibilityScore*s.weights.AIVisibility,
	)

	return score
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func scoreTechnical(page model.Page) (float64, model.DimensionBreakdown) {
	breakdown := make(model.DimensionBreakdown)
	var score float64

	httpsPts := 0.0
	if page.IsHTTPS {
		httpsPts = 10
	}
	score += httpsPts
	breakdown["https"] = model.ScoreComponent{Score: httpsPts, Max: 10, Value: page.IsHTTPS}

	var statusPts float64
	switch {
	case page.StatusCode == 200:
		statusPts = 10
	case page.StatusCode > 200 && page.StatusCode < 400:
		statusPts = 5
	}
	score += statusPts
	breakdown["status_code"] = model.ScoreComponent{Score: statusPts, Max: 10, Value: page.StatusCode}

	indexPts := 0.0
	if page.IsIndexable {
		indexPts = 15
	}
	score += indexPts
	breakdown["indexable"] = model.ScoreComponent{Score: indexPts, Max: 15, Value: page.IsIndexable}

	viewportPts := 0.0
	if page.HasViewportMeta {
		viewportPts = 5
	}
	score += viewportPts
	breakdown["viewport"] = model.ScoreComponent{Score: viewportPts, Max: 5, Value: page.HasViewportMeta}

	lt := page.LoadTimeMs
	var ltPts float64
	switch {
	case lt <= 1000:
		ltPts = 10
	case lt <= 2000:
		ltPts = 7
	case lt <= 3000:
		ltPts = 5
	case lt <= 5000:
		ltPts = 2
	}
	score += ltPts
	breakdown["load_time"] = model.ScoreComponent{Score: ltPts, Max: 10, Value: lt}

	sizeKB := float64(page.PageSizeBytes) / 1024
	var sizePts float64
	switch {
	case sizeKB < 500:
		sizePts = 10
	case sizeKB < 1024:
		sizePts = 7
	case sizeKB < 2048:
		sizePts = 3
	}
	score += sizePts
	breakdown["page_size"] = model.ScoreComponent{Score: sizePts, Max: 10, Value: round1(sizeKB)}

	canonicalPts := 0.0
	if page.CanonicalTag != "" {
		canonicalPts = 5
	}
	score += canonicalPts
	breakdown["canonical"] = model.ScoreComponent{Score: canonicalPts, Max: 5, Value: page.CanonicalTag != ""}

	schemaPts := 0.0
	if page.HasSchemaMarkup {
		schemaPts = 10
	}
	score += schemaPts
	breakdown["schema"] = model.ScoreComponent{Score: schemaPts, Max: 10, Value: page.HasSchemaMarkup}

	ogPts := 0.0
	if page.HasOpenGraph {
		ogPts = 5
	}
	score += ogPts
	breakdown["open_graph"] = model.ScoreComponent{Score: ogPts, Max: 5, Value: page.HasOpenGraph}

	twitterPts := 0.0
	if page.HasTwitterCard {
		twitterPts = 5
	}
	score += twitterPts
	breakdown["twitter_card"] = model.ScoreComponent{Score: twitterPts, Max: 5, Value: page.HasTwitterCard}

	hreflangPts := 0.0
	if page.HasHreflang {
		hreflangPts = 5
	}
	score += hreflangPts
	breakdown["hreflang"] = model.ScoreComponent{Score: hreflangPts, Max: 5, Value: page.HasHreflang}

	return score / technicalMaxPossible * 100, breakdown
}

func scoreContent(page model.Page) (float64, model.DimensionBreakdown) {
	breakdown := make(model.DimensionBreakdown)
	var score float64

	var titlePts float64
	switch {
	case page.Title == "":
		titlePts = 0
	case page.TitleLength >= 50 && page.TitleLength <= 60:
		titlePts = 20
	case page.TitleLength >= 30 && page.TitleLength <= 70:
		titlePts = 15
	case page.TitleLength > 0:
		titlePts = 8
	}
	score += titlePts
	breakdown["title"] = model.ScoreComponent{Score: titlePts, Max: 20, Value: page.TitleLength}

	var descPts float64
	switch {
	case page.MetaDescription == "":
		descPts = 0
	case page.MetaDescriptionLength >= 150 && page.MetaDescriptionLength <= 160:
		descPts = 15
	case page.MetaDescriptionLength >= 100 && page.MetaDescriptionLength <= 180:
		descPts = 10
	default:
		descPts = 5
	}
	score += descPts
	breakdown["meta_description"] = model.ScoreComponent{Score: descPts, Max: 15, Value: page.MetaDescriptionLength}

	h1Count := len(page.H1Tags)
	var h1Pts float64
	switch {
	case h1Count == 1:
		h1Pts = 15
	case h1Count > 1:
		h1Pts = 8
	}
	score += h1Pts
	breakdown["h1"] = model.ScoreComponent{Score: h1Pts, Max: 15, Value: h1Count}

	h2Count := len(page.H2Tags)
	var h2Pts float64
	switch {
	case h2Count >= 2:
		h2Pts = 5
	case h2Count == 1:
		h2Pts = 2
	}
	score += h2Pts
	breakdown["h2"] = model.ScoreComponent{Score: h2Pts, Max: 5, Value: h2Count}

	wc := page.WordCount
	var wcPts float64
	switch {
	case wc >= 1500:
		wcPts = 20
	case wc >= 800:
		wcPts = 15
	case wc >= 400:
		wcPts = 10
	case wc >= 200:
		wcPts = 5
	}
	score += wcPts
	breakdown["word_count"] = model.ScoreComponent{Score: wcPts, Max: 20, Value: wc}

	var altPts float64
	if page.TotalImages > 0 {
		altPts = round(float64(page.ImagesWithAlt) / float64(page.TotalImages) * 10)
	} else {
		altPts = 10
	}
	score += altPts
	breakdown["image_alt"] = model.ScoreComponent{Score: altPts, Max: 10, Value: page.TotalImages}

	var ratioPts float64
	switch {
	case page.TextHTMLRatio >= 0.30:
		ratioPts = 10
	case page.TextHTMLRatio >= 0.15:
		ratioPts = 5
	}
	score += ratioPts
	breakdown["text_ratio"] = model.ScoreComponent{Score: ratioPts, Max: 10, Value: page.TextHTMLRatio}

	return score / contentMaxPossible * 100, breakdown
}

func scoreLinking(page model.Page, inboundCount int) (float64, model.DimensionBreakdown) {
	breakdown := make(model.DimensionBreakdown)
	var score float64

	outCount := page.InternalLinksCount
	var outPts float64
	switch {
	case outCount >= 5:
		outPts = 30
	case outCount >= 2:
		outPts = 20
	case outCount >= 1:
		outPts = 10
	}
	score += outPts
	breakdown["outgoing_internal"] = model.ScoreComponent{Score: outPts, Max: 30, Value: outCount}

	var qualityPts float64
	switch {
	case outCount >= 1 && outCount <= 50:
		qualityPts = 20
	case outCount > 100:
		qualityPts = 5
	}
	score += qualityPts
	breakdown["link_count_quality"] = model.ScoreComponent{Score: qualityPts, Max: 20, Value: outCount}

	var inPts float64
	switch {
	case inboundCount >= 10:
		inPts = 50
	case inboundCount >= 5:
		inPts = 35
	case inboundCount >= 2:
		inPts = 20
	case inboundCount >= 1:
		inPts = 10
	}
	score += inPts
	breakdown["inbound_links"] = model.ScoreComponent{Score: inPts, Max: 50, Value: inboundCount}

	return score, breakdown
}

func scoreAuthority(inboundCount int) float64 {
	switch {
	case inboundCount >= 50:
		return 90
	case inboundCount >= 20:
		return 75
	case inboundCount >= 10:
		return 60
	case inboundCount >= 5:
		return 45
	case inboundCount >= 2:
		return 30
	case inboundCount >= 1:
		return 15
	default:
		return 5
	}
}

var highValueSchemas = map[string]bool{
	"FAQPage": true, "HowTo": true, "Article": true, "Product": true, "LocalBusiness": true,
}

func scoreAIVisibility(page model.Page) float64 {
	var score float64
	if page.HasSchemaMarkup {
		score += 40
		for _, t := range page.SchemaTypes {
			if highValueSchemas[t] {
				score += 10
			}
		}
	}
	if len(page.H1Tags) == 1 {
		score += 15
	}
	if len(page.H2Tags) >= 2 {
		score += 15
	}
	if page.HasOpenGraph {
		score += 10
	}
	if page.WordCount >= 1000 {
		score += 10
	}
	return clamp(score)
}

// AggregateSite folds per-page scores into the site-level arithmetic mean.
func AggregateSite(pageScores []model.Score) model.Score {
	if len(pageScores) == 0 {
		return model.Score{}
	}

	var overall, tech, content, authority, linking, ai float64
	for _, p := range pageScores {
		overall += p.OverallScore
		tech += p.TechnicalScore
		content += p.ContentScore
		authority += p.AuthorityScore
		linking += p.LinkingScore
		ai += p.AIVisibilityScore
	}
	n := float64(len(pageScores))

	return model.Score{
		OverallScore:       round2(overall / n),
		TechnicalScore:     round2(tech / n),
		ContentScore:       round2(content / n),
		AuthorityScore:     round2(authority / n),
		LinkingScore:       round2(linking / n),
		AIVisibilityScore:  round2(ai / n),
		TechnicalBreakdown: aggregateBreakdowns(extractBreakdowns(pageScores, func(s model.Score) model.DimensionBreakdown { return s.TechnicalBreakdown })),
		ContentBreakdown:   aggregateBreakdowns(extractBreakdowns(pageScores, func(s model.Score) model.DimensionBreakdown { return s.ContentBreakdown })),
		LinkingBreakdown:   aggregateBreakdowns(extractBreakdowns(pageScores, func(s model.Score) model.DimensionBreakdown { return s.LinkingBreakdown })),
	}
}

func extractBreakdowns(scores []model.Score, pick func(model.Score) model.DimensionBreakdown) []model.DimensionBreakdown {
	out := make([]model.DimensionBreakdown, 0, len(scores))
	for _, s := range scores {
		out = append(out, pick(s))
	}
	return out
}

func aggregateBreakdowns(breakdowns []model.DimensionBreakdown) model.DimensionBreakdown {
	type accum struct {
		sum, count, max float64
	}
	acc := make(map[string]*accum)

	for _, bd := range breakdowns {
		for key, comp := range bd {
			a, ok := acc[key]
			if !ok {
				a = &accum{max: comp.Max}
				acc[key] = a
			}
			a.sum += comp.Score
			a.count++
		}
	}

	result := make(model.DimensionBreakdown, len(acc))
	for key, a := range acc {
		avg := a.sum / a.count
		maxVal := a.max
		if maxVal <= 0 {
			maxVal = 1
		}
		result[key] = model.ScoreComponent{
			Score: round2(avg),
			Max:   a.max,
			Value: round1(avg / maxVal * 100),
		}
	}
	return result
}

func round(f float64) float64 {
	return float64(int64(f + 0.5))
}

func round1(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}
