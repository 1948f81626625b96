package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Pavankona715/seo-crawler/internal/apperr"
	"github.com/Pavankona715/seo-crawler/internal/model"
)

// MemoryStore is an in-memory backing store shared by every repository
// adapter, guarded by a single mutex. It exists for tests and the CLI's demo
// mode; it is not meant to survive process restarts.
type MemoryStore struct {
	mu sync.Mutex

	sites    map[string]*model.Site
	jobs     map[string]*model.CrawlJob
	pages    map[string]*model.Page
	pageKey  map[string]string // (site_id|url) -> page id
	links    []model.Link
	scores   map[string]*model.Score // page-level: page id; site-level: site id (page_id="")
	issues   map[string]*model.Issue
	keywords map[string]*model.Keyword // (site_id|keyword) -> Keyword
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sites:    make(map[string]*model.Site),
		jobs:     make(map[string]*model.CrawlJob),
		pages:    make(map[string]*model.Page),
		pageKey:  make(map[string]string),
		scores:   make(map[string]*model.Score),
		issues:   make(map[string]*model.Issue),
		keywords: make(map[string]*model.Keyword),
	}
}

func newID() string { return uuid.NewString() }

func paginate[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return items[skip:end]
}

// Repositories exposes this store through the Repositories bundle. Each
// field is a thin adapter over the shared MemoryStore so that identically
// named operations across repositories (GetByID, Create, GetForSite) don't
// collide as methods on one Go type.
func (s *MemoryStore) Repositories() Repositories {
	return Repositories{
		Sites:    siteRepo{s},
		Jobs:     jobRepo{s},
		Pages:    pageRepo{s},
		Links:    linkRepo{s},
		Scores:   scoreRepo{s},
		Issues:   issueRepo{s},
		Keywords: keywordRepo{s},
	}
}

// --- SiteRepo ---

type siteRepo struct{ s *MemoryStore }

func (r siteRepo) GetByDomain(_ context.Context, domain string) (*model.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, site := range r.s.sites {
		if site.Domain == domain {
			cp := *site
			return &cp, nil
		}
	}
	return nil, apperr.ErrSiteNotFound
}

func (r siteRepo) GetByID(_ context.Context, id string) (*model.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	site, ok := r.s.sites[id]
	if !ok {
		return nil, apperr.ErrSiteNotFound
	}
	cp := *site
	return &cp, nil
}

func (r siteRepo) Create(_ context.Context, domain, rootURL string) (*model.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	site := model.NewSite(newID(), domain, rootURL)
	r.s.sites[site.ID] = site
	cp := *site
	return &cp, nil
}

func (r siteRepo) UpdatePageCount(_ context.Context, siteID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	site, ok := r.s.sites[siteID]
	if !ok {
		return apperr.ErrSiteNotFound
	}
	count := 0
	for _, p := range r.s.pages {
		if p.SiteID == siteID {
			count++
		}
	}
	site.TotalPages = count
	site.LastCrawledAt = time.Now()
	return nil
}

func (r siteRepo) GetAll(_ context.Context, skip, limit int) ([]model.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]model.Site, 0, len(r.s.sites))
	for _, site := range r.s.sites {
		all = append(all, *site)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginate(all, skip, limit), nil
}

// --- CrawlJobRepo ---

type jobRepo struct{ s *MemoryStore }

func (r jobRepo) Create(_ context.Context, siteID string, cfg model.CrawlJobConfig) (*model.CrawlJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job := &model.CrawlJob{
		ID:        newID(),
		SiteID:    siteID,
		Status:    model.JobPending,
		Config:    cfg,
		CreatedAt: time.Now(),
	}
	r.s.jobs[job.ID] = job
	cp := *job
	return &cp, nil
}

func (r jobRepo) GetByID(_ context.Context, id string) (*model.CrawlJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job, ok := r.s.jobs[id]
	if !ok {
		return nil, apperr.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (r jobRepo) UpdateStatus(_ context.Context, id string, status model.JobStatus, errMsg string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job, ok := r.s.jobs[id]
	if !ok {
		return apperr.ErrJobNotFound
	}
	job.Status = status
	if errMsg != "" {
		job.ErrorMessage = apperr.Truncate(errMsg, model.MaxErrorMessageLen)
	}
	if status == model.JobRunning && job.StartedAt.IsZero() {
		job.StartedAt = time.Now()
	}
	if status.IsTerminal() {
		job.CompletedAt = time.Now()
	}
	return nil
}

func (r jobRepo) IncrementCrawled(_ context.Context, id string, success bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job, ok := r.s.jobs[id]
	if !ok {
		return apperr.ErrJobNotFound
	}
	if success {
		job.PagesCrawled++
	} else {
		job.PagesFailed++
	}
	return nil
}

func (r jobRepo) GetRecentForSite(_ context.Context, siteID string, limit int) ([]model.CrawlJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var jobs []model.CrawlJob
	for _, j := range r.s.jobs {
		if j.SiteID == siteID {
			jobs = append(jobs, *j)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// --- PageRepo ---

type pageRepo struct{ s *MemoryStore }

func (r pageRepo) Upsert(_ context.Context, page model.Page) (*model.Page, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := page.SiteID + "|" + page.URL
	if id, ok := r.s.pageKey[key]; ok {
		page.ID = id
	} else if page.ID == "" {
		page.ID = newID()
	}
	page.CrawledAt = time.Now()
	r.s.pages[page.ID] = &page
	r.s.pageKey[key] = page.ID
	cp := page
	return &cp, nil
}

func (r pageRepo) GetByID(_ context.Context, id string) (*model.Page, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	page, ok := r.s.pages[id]
	if !ok {
		return nil, apperr.ErrSiteNotFound
	}
	cp := *page
	return &cp, nil
}

func (r pageRepo) GetForSite(_ context.Context, siteID string, skip, limit int) ([]model.Page, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var pages []model.Page
	for _, p := range r.s.pages {
		if p.SiteID == siteID {
			pages = append(pages, *p)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].URL < pages[j].URL })
	return paginate(pages, skip, limit), nil
}

func (r pageRepo) CountForSite(_ context.Context, siteID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, p := range r.s.pages {
		if p.SiteID == siteID {
			count++
		}
	}
	return count, nil
}

// --- LinkRepo ---

type linkRepo struct{ s *MemoryStore }

func (r linkRepo) BulkInsert(_ context.Context, links []model.Link) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range links {
		if l.ID == "" {
			l.ID = newID()
		}
		l.CreatedAt = time.Now()
		r.s.links = append(r.s.links, l)
	}
	return nil
}

func (r linkRepo) CountInbound(_ context.Context, pageID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, l := range r.s.links {
		if l.TargetPageID == pageID {
			count++
		}
	}
	return count, nil
}

func (r linkRepo) GetBrokenLinks(_ context.Context, siteID string) ([]model.Link, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var broken []model.Link
	for _, l := range r.s.links {
		if l.SiteID == siteID && l.IsBroken {
			broken = append(broken, l)
		}
	}
	return broken, nil
}

// --- ScoreRepo ---

type scoreRepo struct{ s *MemoryStore }

func (r scoreRepo) UpsertSiteScore(_ context.Context, siteID, jobID string, score model.Score) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	score.SiteID = siteID
	score.CrawlJobID = jobID
	score.PageID = ""
	score.ScoredAt = time.Now()
	if existing, ok := r.s.scores[siteID]; ok {
		score.ID = existing.ID
	} else {
		score.ID = newID()
	}
	r.s.scores[siteID] = &score
	return nil
}

func (r scoreRepo) CreatePageScore(_ context.Context, score model.Score) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if score.ID == "" {
		score.ID = newID()
	}
	score.ScoredAt = time.Now()
	r.s.scores[score.PageID] = &score
	return nil
}

func (r scoreRepo) GetSiteScore(_ context.Context, siteID string) (*model.Score, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	score, ok := r.s.scores[siteID]
	if !ok {
		return nil, apperr.ErrSiteNotFound
	}
	cp := *score
	return &cp, nil
}

// --- IssueRepo ---

type issueRepo struct{ s *MemoryStore }

func (r issueRepo) BulkCreate(_ context.Context, issues []model.Issue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range issues {
		if i.ID == "" {
			i.ID = newID()
		}
		i.CreatedAt = time.Now()
		r.s.issues[i.ID] = &i
	}
	return nil
}

func (r issueRepo) GetForSite(_ context.Context, siteID string, severity *model.IssueSeverity, resolved *bool, skip, limit int) ([]model.Issue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []model.Issue
	for _, i := range r.s.issues {
		if i.SiteID != siteID {
			continue
		}
		if severity != nil && i.Severity != *severity {
			continue
		}
		if resolved != nil && i.IsResolved != *resolved {
			continue
		}
		matched = append(matched, *i)
	}
	sort.Slice(matched, func(a, b int) bool { return matched[a].CreatedAt.After(matched[b].CreatedAt) })
	return paginate(matched, skip, limit), nil
}

func (r issueRepo) CountBySeverity(_ context.Context, siteID string) (map[model.IssueSeverity]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[model.IssueSeverity]int)
	for _, i := range r.s.issues {
		if i.SiteID == siteID && !i.IsResolved {
			counts[i.Severity]++
		}
	}
	return counts, nil
}

func (r issueRepo) DeleteForJob(_ context.Context, jobID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, i := range r.s.issues {
		if i.CrawlJobID == jobID {
			delete(r.s.issues, id)
		}
	}
	return nil
}

// --- KeywordRepo ---

type keywordRepo struct{ s *MemoryStore }

func (r keywordRepo) BulkUpsert(_ context.Context, siteID string, keywords []model.Keyword) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, k := range keywords {
		key := siteID + "|" + k.Keyword
		k.SiteID = siteID
		if k.ID == "" {
			k.ID = newID()
		}
		k.CreatedAt = time.Now()
		r.s.keywords[key] = &k
	}
	return nil
}

func (r keywordRepo) GetOpportunities(_ context.Context, siteID string, limit int, minScore float64) ([]model.Keyword, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []model.Keyword
	for _, k := range r.s.keywords {
		if k.SiteID == siteID && k.IsOpportunity && k.OpportunityScore >= minScore {
			matched = append(matched, *k)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].OpportunityScore > matched[j].OpportunityScore })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r keywordRepo) GetAllForSite(_ context.Context, siteID string, limit int) ([]model.Keyword, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []model.Keyword
	for _, k := range r.s.keywords {
		if k.SiteID == siteID {
			matched = append(matched, *k)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Frequency > matched[j].Frequency })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
