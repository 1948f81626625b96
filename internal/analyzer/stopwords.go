package analyzer

// stopWords is the fixed small-word set filtered out of keyword tokens.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
	"of": true, "with": true, "by": true, "from": true, "up": true,
	"about": true, "into": true, "through": true, "during": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "may": true, "might": true,
	"shall": true, "can": true, "need": true, "dare": true, "ought": true,
	"used": true, "it": true, "its": true, "this": true,
	"that": true, "these": true, "those": true, "i": true, "me": true,
	"my": true, "we": true, "our": true, "you": true, "your": true,
	"he": true, "his": true, "she": true, "her": true, "they": true,
	"their": true, "what": true, "which": true, "who": true,
	"when": true, "where": true, "why": true, "how": true, "all": true,
	"each": true, "every": true, "both": true, "few": true,
	"more": true, "most": true, "other": true, "some": true, "such": true,
	"no": true, "not": true, "only": true, "same": true,
	"so": true, "than": true, "too": true, "very": true, "just": true,
	"also": true, "as": true, "if": true, "then": true,
}

// seoSchemaTypes are the schema.org @type values considered SEO-relevant.
var seoSchemaTypes = map[string]bool{
	"Article": true, "NewsArticle": true, "BlogPosting": true, "WebPage": true,
	"Product": true, "LocalBusiness": true, "Organization": true, "Person": true,
	"Event": true, "FAQPage": true, "HowTo": true, "Review": true,
	"AggregateRating": true, "BreadcrumbList": true, "Recipe": true,
	"VideoObject": true, "ImageObject": true, "SoftwareApplication": true,
	"Course": true,
}
