// Package recommend generates actionable SEO recommendations from analyzed
// pages, per-page and site-wide. fix_instructions strings are
// part of the user-visible contract and are reproduced verbatim.
package recommend

import (
	"fmt"

	"github.com/Pavankona715/seo-crawler/internal/model"
)

// Engine generates recommendations. It holds no state.
type Engine struct{}

// New returns an Engine.
func New() *Engine {
	return &Engine{}
}

// GeneratePageIssues runs every per-page rule check against page, tagging
// each resulting Issue with page.URL and page.ID.
func (e *Engine) GeneratePageIssues(page model.Page) []model.Issue {
	var issues []model.Issue
	issues = append(issues, checkTitle(page)...)
	issues = append(issues, checkMetaDescription(page)...)
	issues = append(issues, checkHeadings(page)...)
	issues = append(issues, checkContent(page)...)
	issues = append(issues, checkImages(page)...)
	issues = append(issues, checkTechnical(page)...)
	issues = append(issues, checkStructuredData(page)...)
	issues = append(issues, checkLinks(page)...)

	for i := range issues {
		issues[i].PageURL = page.URL
		issues[i].PageID = page.ID
		issues[i].SiteID = page.SiteID
		issues[i].CrawlJobID = page.CrawlJobID
	}
	return issues
}

func checkTitle(page model.Page) []model.Issue {
	switch {
	case page.Title == "":
		return []model.Issue{{
			IssueType:       "missing_title",
			Severity:        model.SeverityCritical,
			Title:           "Missing title tag",
			Description:     "This page has no <title> tag. Title tags are critical for SEO and click-through rates.",
			Recommendation:  "Add a unique, descriptive title tag (50-60 characters) with the primary keyword.",
			FixInstructions: "Add <title>Your Primary Keyword - Brand Name</title> in the <head> section.\nKeep it between 50-60 characters for optimal display in search results.",
			ImpactDescription: "Critical: Missing title severely impacts ranking ability.",
			AffectedElement: "<title>",
		}}
	case page.TitleLength > 60:
		return []model.Issue{{
			IssueType:         "title_too_long",
			Severity:          model.SeverityMedium,
			Title:             fmt.Sprintf("Title too long (%d characters)", page.TitleLength),
			Description:       fmt.Sprintf("Title tag is %d chars. Google truncates titles over 60 characters in search results, reducing click-through rates.", page.TitleLength),
			Recommendation:    "Shorten the title to 50-60 characters while retaining the primary keyword.",
			FixInstructions:   fmt.Sprintf("Current: '%s'\nReduce to 50-60 characters, keeping the primary keyword near the start.", page.Title),
			ImpactDescription: "Shorter titles display fully in SERPs, improving CTR.",
			AffectedElement:   fmt.Sprintf("<title>%s</title>", page.Title),
		}}
	case page.TitleLength < 30:
		return []model.Issue{{
			IssueType:         "title_too_short",
			Severity:          model.SeverityMedium,
			Title:             fmt.Sprintf("Title too short (%d characters)", page.TitleLength),
			Description:       "Short titles miss keyword opportunities and may appear less relevant to search engines.",
			Recommendation:    "Expand the title to 50-60 characters with descriptive keywords.",
			FixInstructions:   "Add more descriptive keywords and context to the title.",
			ImpactDescription: "Properly-lengthed titles maximize SERP real estate and keyword targeting.",
			AffectedElement:   fmt.Sprintf("<title>%s</title>", page.Title),
		}}
	}
	return nil
}

func checkMetaDescription(page model.Page) []model.Issue {
	switch {
	case page.MetaDescription == "":
		return []model.Issue{{
			IssueType:         "missing_meta_description",
			Severity:          model.SeverityHigh,
			Title:             "Missing meta description",
			Description:       "No meta description found. Google may generate a poor auto-snippet for this page.",
			Recommendation:    "Write a compelling meta description (150-160 chars) with a call-to-action.",
			FixInstructions:   `Add <meta name="description" content="Your description here..."> in the <head>.`,
			ImpactDescription: "Meta descriptions control your SERP snippet and heavily influence CTR.",
			AffectedElement:   `<meta name="description">`,
		}}
	case page.MetaDescriptionLength > 160:
		return []model.Issue{{
			IssueType:         "meta_description_too_long",
			Severity:          model.SeverityLow,
			Title:             fmt.Sprintf("Meta description too long (%d chars)", page.MetaDescriptionLength),
			Description:       "Google truncates descriptions over 160 characters in search results.",
			Recommendation:    "Shorten to 150-160 characters, keeping the most important information first.",
			FixInstructions:   fmt.Sprintf("Trim to under 160 chars. Current length: %d.", page.MetaDescriptionLength),
			ImpactDescription: "Prevents truncation in SERPs, showing the full value proposition.",
			AffectedElement:   `<meta name="description">`,
		}}
	}
	return nil
}

func checkHeadings(page model.Page) []model.Issue {
	h1Count := len(page.H1Tags)
	switch {
	case h1Count == 0:
		return []model.Issue{{
			IssueType:         "missing_h1",
			Severity:          model.SeverityHigh,
			Title:             "Missing H1 tag",
			Description:       "No H1 heading found. H1 is the primary signal for page topic to search engines.",
			Recommendation:    "Add one H1 tag containing the primary keyword for this page.",
			FixInstructions:   "Add <h1>Your Primary Keyword</h1> as the main heading on the page.",
			ImpactDescription: "H1 is a strong relevance signal. Missing it reduces ranking potential.",
			AffectedElement:   "<h1>",
		}}
	case h1Count > 1:
		sample := page.H1Tags
		if len(sample) > 3 {
			sample = sample[:3]
		}
		return []model.Issue{{
			IssueType:         "multiple_h1",
			Severity:          model.SeverityMedium,
			Title:             fmt.Sprintf("Multiple H1 tags (%d found)", h1Count),
			Description:       fmt.Sprintf("Found %d H1 tags. Best practice is exactly one H1 per page.", h1Count),
			Recommendation:    "Consolidate to a single H1 tag. Use H2-H6 for subheadings.",
			FixInstructions:   fmt.Sprintf("H1 tags found: %v. Keep the most descriptive one, convert others to H2.", sample),
			ImpactDescription: "Multiple H1s dilute the page's topic signal.",
			AffectedElement:   "<h1>",
		}}
	}
	return nil
}

func checkContent(page model.Page) []model.Issue {
	if page.WordCount < 300 && page.IsIndexable {
		severity := model.SeverityMedium
		if page.WordCount < 150 {
			severity = model.SeverityHigh
		}
		return []model.Issue{{
			IssueType:         "thin_content",
			Severity:          severity,
			Title:             fmt.Sprintf("Thin content (%d words)", page.WordCount),
			Description:       fmt.Sprintf("Page has only %d words. Pages with less than 300 words are considered thin content and may struggle to rank.", page.WordCount),
			Recommendation:    "Expand content to at least 800 words with valuable, relevant information.",
			FixInstructions:   "1. Research what users searching for this topic want to know\n2. Add comprehensive answers to common questions\n3. Include relevant examples, data, and visuals\n4. Aim for 800-2000 words for competitive topics",
			ImpactDescription: "Content depth is strongly correlated with ranking ability.",
			AffectedElement:   "page body",
		}}
	}
	return nil
}

func checkImages(page model.Page) []model.Issue {
	if page.ImagesMissingAlt > 0 {
		severity := model.SeverityMedium
		if page.ImagesMissingAlt > 5 {
			severity = model.SeverityHigh
		}
		return []model.Issue{{
			IssueType:         "images_missing_alt",
			Severity:          severity,
			Title:             fmt.Sprintf("%d images missing alt text", page.ImagesMissingAlt),
			Description:       fmt.Sprintf("%d of %d images have no alt attribute. Alt text is critical for accessibility and image SEO.", page.ImagesMissingAlt, page.TotalImages),
			Recommendation:    "Add descriptive alt text to all images, using keywords where natural.",
			FixInstructions:   "1. Add alt='Descriptive text about image' to each img tag\n2. For decorative images, use alt=''\n3. Include target keywords naturally in key image alt texts\n4. Keep alt text under 125 characters",
			ImpactDescription: "Alt text improves image rankings, accessibility, and is an on-page signal.",
			AffectedElement:   "<img> tags",
		}}
	}
	return nil
}

func checkTechnical(page model.Page) []model.Issue {
	var issues []model.Issue

	if !page.IsHTTPS {
		issues = append(issues, model.Issue{
			IssueType:         "not_https",
			Severity:          model.SeverityCritical,
			Title:             "Page not served over HTTPS",
			Description:       "This page is served over HTTP. HTTPS is a ranking factor and builds user trust.",
			Recommendation:    "Migrate to HTTPS with a valid SSL certificate.",
			FixInstructions:   "1. Install an SSL certificate (Let's Encrypt is free)\n2. Redirect HTTP to HTTPS via server config\n3. Update all internal links to HTTPS\n4. Update canonical tags, sitemaps, and Search Console",
			ImpactDescription: "HTTPS is a direct Google ranking signal. Critical for security and trust.",
			AffectedElement:   "URL scheme",
		})
	}

	if !page.HasViewportMeta {
		issues = append(issues, model.Issue{
			IssueType:         "missing_viewport",
			Severity:          model.SeverityHigh,
			Title:             "Missing viewport meta tag",
			Description:       "No viewport meta tag found. This makes the page non-mobile-friendly.",
			Recommendation:    `Add <meta name="viewport" content="width=device-width, initial-scale=1">`,
			FixInstructions:   `Add <meta name="viewport" content="width=device-width, initial-scale=1"> in <head>.`,
			ImpactDescription: "Mobile-friendliness is a major ranking factor. Missing viewport hurts mobile rankings.",
			AffectedElement:   `<meta name="viewport">`,
		})
	}

	if page.LoadTimeMs > 3000 && page.LoadTimeMs > 0 {
		issues = append(issues, model.Issue{
			IssueType:         "slow_page_load",
			Severity:          model.SeverityHigh,
			Title:             fmt.Sprintf("Slow page load time (%dms)", page.LoadTimeMs),
			Description:       fmt.Sprintf("Page took %dms to load. Core Web Vitals (LCP) should be under 2500ms.", page.LoadTimeMs),
			Recommendation:    "Optimize page performance: compress images, minify assets, use a CDN.",
			FixInstructions:   "1. Compress and resize images (use WebP format)\n2. Enable gzip/brotli compression on server\n3. Minify CSS, JS, and HTML\n4. Use a CDN for static assets\n5. Implement browser caching\n6. Reduce server response time (TTFB < 200ms)",
			ImpactDescription: "Page speed is a direct ranking factor and impacts user experience.",
			AffectedElement:   "page load performance",
		})
	}

	return issues
}

func checkStructuredData(page model.Page) []model.Issue {
	var issues []model.Issue

	if !page.HasSchemaMarkup {
		issues = append(issues, model.Issue{
			IssueType:         "missing_schema",
			Severity:          model.SeverityMedium,
			Title:             "No structured data / schema markup",
			Description:       "No schema.org markup found. Schema helps search engines understand your content and can unlock rich results.",
			Recommendation:    "Add appropriate schema.org markup (Article, Product, FAQ, etc.).",
			FixInstructions:   "1. Identify the most appropriate schema type for this page\n2. Implement JSON-LD in the <head> section\n3. Validate using Google's Rich Results Test\n4. Monitor for rich result impressions in Search Console",
			ImpactDescription: "Schema markup can significantly improve CTR via rich results.",
			AffectedElement:   "<script type='application/ld+json'>",
		})
	}

	if !page.HasOpenGraph {
		issues = append(issues, model.Issue{
			IssueType:         "missing_open_graph",
			Severity:          model.SeverityLow,
			Title:             "Missing Open Graph tags",
			Description:       "No Open Graph meta tags found. These control how the page appears when shared on social media.",
			Recommendation:    "Add og:title, og:description, og:image, and og:url meta tags.",
			FixInstructions:   "Add to <head>:\n<meta property='og:title' content='Page Title'>\n<meta property='og:description' content='Description'>\n<meta property='og:image' content='https://example.com/image.jpg'>\n<meta property='og:url' content='https://example.com/page'>",
			ImpactDescription: "Improves social sharing appearance, driving referral traffic.",
			AffectedElement:   "Open Graph meta tags",
		})
	}

	return issues
}

func checkLinks(page model.Page) []model.Issue {
	if page.InternalLinksCount == 0 && page.WordCount > 100 {
		return []model.Issue{{
			IssueType:         "no_internal_links",
			Severity:          model.SeverityMedium,
			Title:             "No outgoing internal links",
			Description:       "This page has no internal links to other pages. Internal links pass PageRank and help users navigate.",
			Recommendation:    "Add 3-5 relevant internal links to related content on your site.",
			FixInstructions:   "1. Identify 3-5 related pages on your site\n2. Add contextual links with descriptive anchor text\n3. Avoid generic anchor text like 'click here'\n4. Link to both category pages and individual articles",
			ImpactDescription: "Internal links distribute PageRank and improve crawlability.",
			AffectedElement:   "<a href> tags",
		}}
	}
	return nil
}

// GenerateSiteIssues runs every site-wide threshold check across pages.
func (e *Engine) GenerateSiteIssues(siteID string, pages []model.Page) []model.Issue {
	total := len(pages)
	if total == 0 {
		return nil
	}

	var notHTTPS, noTitle, noMeta, thinContent, noSchema int
	for _, p := range pages {
		if !p.IsHTTPS {
			notHTTPS++
		}
		if p.Title == "" {
			noTitle++
		}
		if p.MetaDescription == "" {
			noMeta++
		}
		if p.WordCount < 300 {
			thinContent++
		}
		if !p.HasSchemaMarkup {
			noSchema++
		}
	}

	pctNoTitle := float64(noTitle) / float64(total) * 100
	pctNoMeta := float64(noMeta) / float64(total) * 100

	var issues []model.Issue

	if notHTTPS > 0 {
		issues = append(issues, model.Issue{
			IssueType:         "https_mixed",
			Severity:          model.SeverityCritical,
			Title:             fmt.Sprintf("%d pages not served over HTTPS", notHTTPS),
			Description:       fmt.Sprintf("%d of %d pages are not using HTTPS. HTTPS is a confirmed Google ranking factor.", notHTTPS, total),
			Recommendation:    "Migrate all pages to HTTPS and implement 301 redirects from HTTP.",
			FixInstructions:   "1. Obtain an SSL certificate (Let's Encrypt is free)\n2. Configure your web server to redirect all HTTP to HTTPS\n3. Update all internal links to use HTTPS\n4. Update your sitemap and Google Search Console",
			ImpactDescription: "HTTPS is a direct ranking signal. Migration improves trust and rankings.",
			AffectedElement:   fmt.Sprintf("%d pages", notHTTPS),
		})
	}

	if pctNoTitle > 5 {
		issues = append(issues, model.Issue{
			IssueType:         "missing_titles_bulk",
			Severity:          model.SeverityCritical,
			Title:             fmt.Sprintf("%d pages missing title tags (%.0f%%)", noTitle, pctNoTitle),
			Description:       "Title tags are one of the most critical on-page SEO factors.",
			Recommendation:    "Add unique, descriptive title tags to all pages.",
			FixInstructions:   "1. Audit all pages missing titles\n2. Write unique titles (50-60 characters)\n3. Include primary keyword near the beginning\n4. Add brand name at the end: 'Primary Keyword - Brand Name'",
			ImpactDescription: "Title tags directly influence click-through rates and rankings.",
			AffectedElement:   fmt.Sprintf("%d pages", noTitle),
		})
	}

	if pctNoMeta > 10 {
		issues = append(issues, model.Issue{
			IssueType:         "missing_meta_bulk",
			Severity:          model.SeverityHigh,
			Title:             fmt.Sprintf("%d pages missing meta descriptions (%.0f%%)", noMeta, pctNoMeta),
			Description:       "Meta descriptions influence click-through rates from search results.",
			Recommendation:    "Write compelling meta descriptions for all important pages.",
			FixInstructions:   "1. Write unique meta descriptions (150-160 characters)\n2. Include target keyword naturally\n3. Add a call-to-action where appropriate\n4. Make each description unique to the page content",
			ImpactDescription: "Better meta descriptions improve CTR, driving more organic traffic.",
			AffectedElement:   fmt.Sprintf("%d pages", noMeta),
		})
	}

	if float64(thinContent) > float64(total)*0.3 {
		issues = append(issues, model.Issue{
			IssueType:         "thin_content_bulk",
			Severity:          model.SeverityHigh,
			Title:             fmt.Sprintf("%d pages have thin content (<300 words)", thinContent),
			Description:       fmt.Sprintf("%d pages have fewer than 300 words. Thin content can trigger Google Panda penalties.", thinContent),
			Recommendation:    "Either expand thin content or consolidate/remove low-value pages.",
			FixInstructions:   "1. Identify which thin pages have search value\n2. Expand valuable pages to 800+ words\n3. Consolidate related thin pages into comprehensive guides\n4. Use noindex on unavoidable thin pages (e.g., tag pages)",
			ImpactDescription: "Content depth is strongly correlated with ranking ability.",
			AffectedElement:   fmt.Sprintf("%d pages", thinContent),
		})
	}

	if float64(noSchema) > float64(total)*0.8 {
		issues = append(issues, model.Issue{
			IssueType:         "missing_schema_bulk",
			Severity:          model.SeverityMedium,
			Title:             "Most pages lack structured data / schema markup",
			Description:       fmt.Sprintf("Only %d of %d pages have schema markup. Schema helps search engines understand your content.", total-noSchema, total),
			Recommendation:    "Implement appropriate schema.org markup across your site.",
			FixInstructions:   "1. Add Organization or WebSite schema to homepage\n2. Add Article/BlogPosting schema to blog posts\n3. Add FAQPage schema to FAQ pages\n4. Add BreadcrumbList to improve sitelinks\n5. Validate with Google's Rich Results Test",
			ImpactDescription: "Schema markup enables rich results, improving visibility and CTR.",
			AffectedElement:   fmt.Sprintf("%d pages", noSchema),
		})
	}

	for i := range issues {
		issues[i].SiteID = siteID
	}
	return issues
}
