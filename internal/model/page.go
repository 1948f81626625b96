package model

import "time"

// Page holds the full analyzed signal set for one crawled URL, unique by
// (site_id, url).
type Page struct {
	ID         string `json:"id"`
	SiteID     string `json:"site_id"`
	CrawlJobID string `json:"crawl_job_id"`
	URL        string `json:"url"`
	Depth      int    `json:"depth"`

	StatusCode   int    `json:"status_code"`
	IsIndexable  bool   `json:"is_indexable"`
	IsCanonical  bool   `json:"is_canonical"`
	CanonicalTag string `json:"canonical_tag"`

	Title                  string   `json:"title"`
	TitleLength            int      `json:"title_length"`
	MetaDescription        string   `json:"meta_description"`
	MetaDescriptionLength  int      `json:"meta_description_length"`
	MetaRobots             string   `json:"meta_robots"`
	H1Tags                 []string `json:"h1_tags"`
	H2Tags                 []string `json:"h2_tags"`
	H3Tags                 []string `json:"h3_tags"`
	H4Tags                 []string `json:"h4_tags"`
	H5Tags                 []string `json:"h5_tags"`
	H6Tags                 []string `json:"h6_tags"`

	WordCount           int     `json:"word_count"`
	ContentText         string  `json:"content_text"`
	ReadingTimeSeconds  int     `json:"reading_time_seconds"`
	TextHTMLRatio       float64 `json:"text_html_ratio"`
	Language            string  `json:"language"`

	LoadTimeMs      int64 `json:"load_time_ms"`
	PageSizeBytes   int64 `json:"page_size_bytes"`
	HasSchemaMarkup bool  `json:"has_schema_markup"`
	SchemaTypes     []string `json:"schema_types"`
	HasOpenGraph    bool  `json:"has_open_graph"`
	HasTwitterCard  bool  `json:"has_twitter_card"`
	HasHreflang     bool  `json:"has_hreflang"`
	IsHTTPS         bool  `json:"is_https"`
	HasViewportMeta bool  `json:"has_viewport_meta"`

	TotalImages       int `json:"total_images"`
	ImagesMissingAlt  int `json:"images_missing_alt"`
	ImagesWithAlt     int `json:"images_with_alt"`

	InternalLinksCount int `json:"internal_links_count"`
	ExternalLinksCount int `json:"external_links_count"`
	BrokenLinksCount   int `json:"broken_links_count"`

	StructuredData     map[string]any `json:"structured_data"`
	OpenGraphData      map[string]string `json:"open_graph_data"`
	TwitterCardData    map[string]string `json:"twitter_card_data"`
	KeywordFrequencies map[string]int `json:"keyword_frequencies"`

	CrawledAt time.Time `json:"crawled_at"`
}
