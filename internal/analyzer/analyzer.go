// Package analyzer turns a raw fetcher.CrawlResult into the full SEO
// signal set of a model.Page plus its outgoing model.Link edges.
package analyzer

import (
	"encoding/json"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"

	"github.com/Pavankona715/seo-crawler/internal/fetcher"
	"github.com/Pavankona715/seo-crawler/internal/model"
)

const (
	maxTitleLen = 512
	maxHeadingLen = 255
	maxLanguageLen = 10
	maxAnchorLen = 255
	wordsPerMinute = 225
)

var (
	reDescriptionName = regexp.MustCompile(`(?i)description`)
	reRobotsName      = regexp.MustCompile(`(?i)robots`)
	reViewportName    = regexp.MustCompile(`(?i)viewport`)
	reNonKeywordChars = regexp.MustCompile(`[^a-z0-9\s\-']`)
)

// Result bundles one page's analyzed signals with its outgoing links. Links
// carry no IDs yet — the repository layer assigns those at upsert time.
type Result struct {
	Page  model.Page
	Links []model.Link
}

// Analyzer extracts SEO signals from crawl results for one site.
type Analyzer struct{}

// New returns an Analyzer. It is stateless; analysis depends only on the
// CrawlResult passed to Analyze.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze transforms result into a Page + Link set. An empty HTML body
// yields a Page with only the transport-level fields set.
func (a *Analyzer) Analyze(result *fetcher.CrawlResult, depth int) Result {
	page := model.Page{
		URL:           result.URL,
		Depth:         depth,
		StatusCode:    result.StatusCode,
		LoadTimeMs:    result.LoadTimeMs,
		PageSizeBytes: result.PageSizeBytes,
		IsHTTPS:       strings.HasPrefix(result.URL, "https://"),
		IsIndexable:   true,
		IsCanonical:   true,
	}

	if result.HTML == "" {
		page.ReadingTimeSeconds = 1
		return Result{Page: page}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		log.Warn().Err(err).Str("url", result.URL).Msg("parse html failed")
		page.ReadingTimeSeconds = 1
		return Result{Page: page}
	}

	finalURL := result.FinalURL
	if finalURL == "" {
		finalURL = result.URL
	}

	extractBasicSEO(&page, doc, finalURL)
	extractHeadings(&page, doc)
	extractContent(&page, result.HTML, finalURL)
	extractImages(&page, doc)
	links := extractLinks(doc, finalURL)
	page.InternalLinksCount, page.ExternalLinksCount = countLinks(links)
	extractStructuredData(&page, doc, finalURL)
	extractSocialMeta(&page, doc)
	extractTechnicalSignals(&page, doc)
	page.KeywordFrequencies = computeKeywordFrequencies(page.ContentText)

	return Result{Page: page, Links: links}
}

func extractBasicSEO(page *model.Page, doc *goquery.Document, pageURL string) {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		page.Title = truncate(title, maxTitleLen)
		page.TitleLength = len(page.Title)
	}

	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		content, hasContent := s.Attr("content")
		if !hasContent || page.MetaDescription != "" {
			return true
		}
		if reDescriptionName.MatchString(name) {
			page.MetaDescription = strings.TrimSpace(content)
			page.MetaDescriptionLength = len(page.MetaDescription)
		}
		return true
	})

	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		content, hasContent := s.Attr("content")
		if !hasContent || page.MetaRobots != "" {
			return true
		}
		if reRobotsName.MatchString(name) {
			page.MetaRobots = strings.ToLower(strings.TrimSpace(content))
			page.IsIndexable = !strings.Contains(page.MetaRobots, "noindex")
		}
		return true
	})

	if canonical, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		page.CanonicalTag = strings.TrimSpace(canonical)
		if page.CanonicalTag != "" && page.CanonicalTag != pageURL {
			page.IsCanonical = false
		}
	}

	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		page.Language = truncate(lang, maxLanguageLen)
	}

	page.HasHreflang = doc.Find("link[hreflang]").Length() > 0
}

func extractHeadings(page *model.Page, doc *goquery.Document) {
	targets := []*[]string{&page.H1Tags, &page.H2Tags, &page.H3Tags, &page.H4Tags, &page.H5Tags, &page.H6Tags}
	for level := 1; level <= 6; level++ {
		var texts []string
		doc.Find(headingSelector(level)).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				texts = append(texts, truncate(text, maxHeadingLen))
			}
		})
		*targets[level-1] = texts
	}
}

func headingSelector(level int) string {
	switch level {
	case 1:
		return "h1"
	case 2:
		return "h2"
	case 3:
		return "h3"
	case 4:
		return "h4"
	case 5:
		return "h5"
	default:
		return "h6"
	}
}

func extractContent(page *model.Page, rawHTML, pageURL string) {
	htmlLen := len(rawHTML)

	parsedURL, err := url.Parse(pageURL)
	if err == nil {
		article, rerr := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
		if rerr == nil && article.TextContent != "" {
			page.ContentText = article.TextContent
			words := strings.Fields(article.TextContent)
			page.WordCount = len(words)
			page.ReadingTimeSeconds = readingTimeSeconds(page.WordCount)
		}
	}
	if page.WordCount == 0 {
		page.ReadingTimeSeconds = 1
	}

	if htmlLen > 0 {
		doc, derr := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
		if derr == nil {
			textLen := len(doc.Text())
			page.TextHTMLRatio = round3(float64(textLen) / float64(htmlLen))
		}
	}
}

func readingTimeSeconds(wordCount int) int {
	seconds := int(round(float64(wordCount) / wordsPerMinute * 60))
	if seconds < 1 {
		return 1
	}
	return seconds
}

func extractImages(page *model.Page, doc *goquery.Document) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		page.TotalImages++
		alt, exists := s.Attr("alt")
		if !exists || strings.TrimSpace(alt) == "" {
			page.ImagesMissingAlt++
		} else {
			page.ImagesWithAlt++
		}
	})
}

func extractLinks(doc *goquery.Document, pageURL string) []model.Link {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	baseHost := stripWWW(base.Host)

	var links []model.Link
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		rel, _ := s.Attr("rel")
		links = append(links, model.Link{
			TargetURL:  resolved.String(),
			AnchorText: truncate(strings.TrimSpace(s.Text()), maxAnchorLen),
			IsNofollow: strings.Contains(rel, "nofollow"),
			IsInternal: stripWWW(resolved.Host) == baseHost,
			LinkType:   model.LinkHyperlink,
		})
	})

	if len(links) > model.MaxLinksPerPage {
		links = links[:model.MaxLinksPerPage]
	}
	return links
}

func countLinks(links []model.Link) (internal, external int) {
	for _, l := range links {
		if l.IsInternal {
			internal++
		} else {
			external++
		}
	}
	return
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// jsonLDNode is the subset of a JSON-LD object we care about: its @type,
// which may be a single string or an array of strings.
type jsonLDNode struct {
	Type any `json:"@type"`
}

// extractStructuredData extracts JSON-LD, Microdata, and RDFa in one pass,
// the way extruct's uniform=True mode does for the Python original;
// OpenGraph is read separately by extractSocialMeta. goquery has no structured-data extension of its own, so each
// syntax is walked by hand against the DOM it already parsed.
func extractStructuredData(page *model.Page, doc *goquery.Document, pageURL string) {
	var jsonLD []any
	typesFound := make(map[string]bool)

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := s.Text()
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			log.Debug().Err(err).Str("url", pageURL).Msg("json-ld parse failed")
			return
		}
		jsonLD = append(jsonLD, parsed)
		collectSchemaTypes(parsed, typesFound)
	})

	microdata := extractMicrodata(doc)
	for _, item := range microdata {
		if t, ok := item["@type"].(string); ok {
			typesFound[t] = true
		}
	}

	rdfa := extractRDFa(doc)
	for _, item := range rdfa {
		if t, ok := item["@type"].(string); ok {
			typesFound[t] = true
		}
	}

	if len(jsonLD) > 0 || len(microdata) > 0 || len(rdfa) > 0 {
		page.HasSchemaMarkup = true
		page.StructuredData = map[string]any{
			"json_ld":   jsonLD,
			"microdata": microdata,
			"rdfa":      rdfa,
		}
	}

	var types []string
	for t := range typesFound {
		if seoSchemaTypes[t] {
			types = append(types, t)
		}
	}
	page.SchemaTypes = types
}

func collectSchemaTypes(node any, into map[string]bool) {
	switch v := node.(type) {
	case map[string]any:
		switch t := v["@type"].(type) {
		case string:
			into[t] = true
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					into[s] = true
				}
			}
		}
	case []any:
		for _, item := range v {
			collectSchemaTypes(item, into)
		}
	}
}

// extractMicrodata walks every top-level [itemscope] element (one not nested
// inside another itemscope, which belongs to its parent item instead) and
// collects its itemtype plus the itemprop/value pairs found within its scope.
func extractMicrodata(doc *goquery.Document) []map[string]any {
	var items []map[string]any
	doc.Find("[itemscope]").Each(func(_ int, s *goquery.Selection) {
		if hasItemscopeAncestor(s) {
			return
		}
		items = append(items, microdataItem(s))
	})
	return items
}

func hasItemscopeAncestor(s *goquery.Selection) bool {
	found := false
	s.Parents().Each(func(_ int, p *goquery.Selection) {
		if _, has := p.Attr("itemscope"); has {
			found = true
		}
	})
	return found
}

func microdataItem(scope *goquery.Selection) map[string]any {
	item := make(map[string]any)
	if itemType, ok := scope.Attr("itemtype"); ok {
		item["@type"] = lastPathSegment(itemType)
	}

	props := make(map[string]any)
	scope.Find("[itemprop]").Each(func(_ int, p *goquery.Selection) {
		if p.Closest("[itemscope]").Get(0) != scope.Get(0) {
			return
		}
		name, _ := p.Attr("itemprop")
		if name == "" {
			return
		}
		props[name] = microdataPropValue(p)
	})
	if len(props) > 0 {
		item["properties"] = props
	}
	return item
}

func microdataPropValue(s *goquery.Selection) string {
	if content, ok := s.Attr("content"); ok {
		return content
	}
	if href, ok := s.Attr("href"); ok {
		return href
	}
	if src, ok := s.Attr("src"); ok {
		return src
	}
	return strings.TrimSpace(s.Text())
}

func lastPathSegment(itemType string) string {
	parts := strings.Split(strings.TrimSuffix(itemType, "/"), "/")
	return parts[len(parts)-1]
}

// extractRDFa walks every [typeof] element and collects the RDFa [property]
// values nested within it, mirroring extruct's rdfa syntax in uniform mode.
func extractRDFa(doc *goquery.Document) []map[string]any {
	var items []map[string]any
	doc.Find("[typeof]").Each(func(_ int, s *goquery.Selection) {
		typeofVal, _ := s.Attr("typeof")
		item := map[string]any{"@type": lastPathSegment(typeofVal)}

		props := make(map[string]any)
		s.Find("[property]").Each(func(_ int, p *goquery.Selection) {
			if p.Closest("[typeof]").Get(0) != s.Get(0) {
				return
			}
			name, _ := p.Attr("property")
			if name == "" {
				return
			}
			props[lastPathSegment(name)] = microdataPropValue(p)
		})
		if len(props) > 0 {
			item["properties"] = props
		}
		items = append(items, item)
	})
	return items
}

func extractSocialMeta(page *model.Page, doc *goquery.Document) {
	og := make(map[string]string)
	doc.Find("meta[property]").Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		if strings.HasPrefix(strings.ToLower(prop), "og:") && content != "" {
			og[strings.TrimPrefix(prop, "og:")] = content
		}
	})
	if len(og) > 0 {
		page.HasOpenGraph = true
		page.OpenGraphData = og
	}

	twitter := make(map[string]string)
	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		if strings.HasPrefix(strings.ToLower(name), "twitter:") && content != "" {
			twitter[strings.TrimPrefix(name, "twitter:")] = content
		}
	})
	if len(twitter) > 0 {
		page.HasTwitterCard = true
		page.TwitterCardData = twitter
	}
}

func extractTechnicalSignals(page *model.Page, doc *goquery.Document) {
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if page.HasViewportMeta {
			return false
		}
		name, _ := s.Attr("name")
		if reViewportName.MatchString(name) {
			page.HasViewportMeta = true
		}
		return true
	})
}

func computeKeywordFrequencies(contentText string) map[string]int {
	if contentText == "" {
		return nil
	}

	text := reNonKeywordChars.ReplaceAllString(strings.ToLower(contentText), " ")
	tokens := strings.Fields(text)

	var meaningful []string
	for _, t := range tokens {
		if len(t) <= 2 || stopWords[t] {
			continue
		}
		trimmed := strings.Trim(t, "'-")
		if trimmed == "" {
			continue
		}
		meaningful = append(meaningful, trimmed)
	}

	unigramCounts := countTokens(meaningful)
	bigrams := make([]string, 0, len(meaningful))
	for i := 0; i < len(meaningful)-1; i++ {
		bigrams = append(bigrams, meaningful[i]+" "+meaningful[i+1])
	}
	bigramCounts := countTokens(bigrams)

	combined := make(map[string]int)
	for _, term := range topN(unigramCounts, 150) {
		combined[term] = unigramCounts[term]
	}
	for _, term := range topN(bigramCounts, 50) {
		if bigramCounts[term] >= 2 {
			combined[term] = bigramCounts[term]
		}
	}
	return combined
}

func countTokens(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// topN returns the N highest-count keys of counts, ties broken by first
// occurrence order being unspecified (matches the source's reliance on
// Counter.most_common, which is stable but not meaningfully ordered among ties
// for this spec's purposes).
func topN(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return counts[keys[i]] > counts[keys[j]] })
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func round(f float64) float64 {
	if f < 0 {
		return -round(-f)
	}
	return float64(int64(f + 0.5))
}

func round3(f float64) float64 {
	if f != f { // NaN guard for 0/0
		return 0
	}
	return float64(int64(f*1000+0.5)) / 1000
}
