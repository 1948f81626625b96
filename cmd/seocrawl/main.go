package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Pavankona715/seo-crawler/internal/config"
	"github.com/Pavankona715/seo-crawler/internal/crawler"
	"github.com/Pavankona715/seo-crawler/internal/logging"
	"github.com/Pavankona715/seo-crawler/internal/model"
	"github.com/Pavankona715/seo-crawler/internal/pipeline"
	"github.com/Pavankona715/seo-crawler/internal/repo"
	"github.com/Pavankona715/seo-crawler/internal/reportutil"
	"github.com/Pavankona715/seo-crawler/internal/urlnorm"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFile string
	verbose    bool
	logLevel   string

	targetURL     string
	depth         int
	maxPages      int
	maxConcurrent int
	rateLimitRPS  float64
	useBrowser    bool
	respectRobots bool
	userAgent     string
	outputDir     string
)

var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:     "seocrawl",
	Short:   "Crawl a site and score its on-page SEO signals",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		appConfig = cfg

		logCfg := logging.Config{
			Level:      cfg.Logging.Level,
			Dir:        cfg.Logging.LogDir,
			MaxSizeMB:  cfg.Logging.Rotation.MaxSizeMB,
			MaxBackups: cfg.Logging.Rotation.MaxBackups,
			MaxAgeDays: cfg.Logging.Rotation.MaxAgeDays,
			Compress:   cfg.Logging.Rotation.Compress,
			Console:    true,
		}
		if logLevel != "" {
			logCfg.Level = logLevel
		}
		if err := logging.Init(logCfg); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		if verbose {
			log.Info().Msg("verbose mode enabled")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if targetURL == "" {
			return cmd.Help()
		}
		if err := validateFlags(targetURL, depth, maxPages, maxConcurrent, rateLimitRPS); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			log.Warn().Str("signal", sig.String()).Msg("received interrupt, shutting down gracefully")
			cancel()
		}()

		normalized, err := normalizeSeedURL(targetURL)
		if err != nil {
			return fmt.Errorf("invalid target URL: %w", err)
		}
		domain := urlnorm.RegisteredDomain(normalized)

		store := repo.NewMemoryStore()
		repos := store.Repositories()

		site, err := repos.Sites.Create(ctx, domain, normalized)
		if err != nil {
			return fmt.Errorf("create site: %w", err)
		}

		jobCfg := model.CrawlJobConfig{
			MaxDepth:       depth,
			MaxPages:       maxPages,
			MaxConcurrent:  maxConcurrent,
			RateLimitRPS:   rateLimitRPS,
			UseJSRendering: useBrowser,
			RespectRobots:  respectRobots,
			UserAgent:      userAgent,
			RequestTimeout: appConfig.Crawl.RequestTimeout,
			MaxRetries:     appConfig.Crawl.MaxRetries,
			JSRenderTimeMs: appConfig.Crawl.JSRenderTimeout,
		}
		if err := jobCfg.Validate(); err != nil {
			return fmt.Errorf("crawl config: %w", err)
		}

		job, err := repos.Jobs.Create(ctx, site.ID, jobCfg)
		if err != nil {
			return fmt.Errorf("create job: %w", err)
		}

		crawlCfg := crawler.Config{
			MaxDepth:              jobCfg.MaxDepth,
			MaxPages:              jobCfg.MaxPages,
			MaxConcurrent:         jobCfg.MaxConcurrent,
			RateLimitRPS:          jobCfg.RateLimitRPS,
			UseBrowser:            jobCfg.UseJSRendering,
			RespectRobots:         jobCfg.RespectRobots,
			UserAgent:             jobCfg.UserAgent,
			RequestTimeout:        time.Duration(jobCfg.RequestTimeout) * time.Second,
			MaxRetries:            jobCfg.MaxRetries,
			SafetyReserveMemoryMB: appConfig.Resource.SafetyReserveMemoryMB,
			CPULoadThresholdPct:   float64(appConfig.Resource.CPULoadThresholdPct),
			MaxBrowserTabs:        appConfig.Resource.MaxBrowserTabs,
		}

		weights := model.DimensionWeights{
			Technical:    appConfig.Score.TechnicalWeight,
			Content:      appConfig.Score.ContentWeight,
			Authority:    appConfig.Score.AuthorityWeight,
			Linking:      appConfig.Score.LinkingWeight,
			AIVisibility: appConfig.Score.AIVisibilityWeight,
		}

		bar := reportutil.NewProgressBar(jobCfg.MaxPages, "crawling "+domain)
		driver := pipeline.New(repos, weights)

		log.Info().Str("domain", domain).Str("job_id", job.ID).Msg("starting crawl")
		if err := driver.Run(ctx, *site, *job, crawlCfg); err != nil {
			return fmt.Errorf("crawl job failed: %w", err)
		}
		_ = bar.Finish()

		finishedJob, err := repos.Jobs.GetByID(ctx, job.ID)
		if err != nil {
			return fmt.Errorf("reload job: %w", err)
		}
		siteScore, err := repos.Scores.GetSiteScore(ctx, site.ID)
		if err != nil {
			return fmt.Errorf("load site score: %w", err)
		}
		issues, err := repos.Issues.GetForSite(ctx, site.ID, nil, nil, 0, 0)
		if err != nil {
			return fmt.Errorf("load issues: %w", err)
		}
		keywords, err := repos.Keywords.GetAllForSite(ctx, site.ID, 0)
		if err != nil {
			return fmt.Errorf("load keywords: %w", err)
		}

		writer := reportutil.NewWriter(outputDir)
		reportDir, err := writer.Write(reportutil.Report{
			Site:      *site,
			Job:       *finishedJob,
			SiteScore: siteScore,
			Issues:    issues,
			Keywords:  keywords,
		})
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		fmt.Println()
		fmt.Println("crawl complete")
		fmt.Printf("  pages crawled:  %d\n", finishedJob.PagesCrawled)
		fmt.Printf("  pages failed:   %d\n", finishedJob.PagesFailed)
		if siteScore != nil {
			fmt.Printf("  overall score:  %.1f\n", siteScore.OverallScore)
		}
		fmt.Printf("  issues found:   %d\n", len(issues))
		fmt.Printf("  keywords found: %d\n", len(keywords))
		fmt.Printf("  report written: %s\n", reportDir)

		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("seocrawl %s (built %s)\n", version, buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")

	rootCmd.Flags().StringVarP(&targetURL, "url", "u", "", "seed URL to crawl (required)")
	rootCmd.Flags().IntVarP(&depth, "depth", "d", 3, "max crawl depth")
	rootCmd.Flags().IntVar(&maxPages, "max-pages", 500, "max pages to crawl")
	rootCmd.Flags().IntVar(&maxConcurrent, "concurrent", 20, "max concurrent fetches")
	rootCmd.Flags().Float64Var(&rateLimitRPS, "rps", 1.0, "per-host requests per second")
	rootCmd.Flags().BoolVar(&useBrowser, "render", false, "use headless browser rendering")
	rootCmd.Flags().BoolVar(&respectRobots, "respect-robots", true, "respect robots.txt")
	rootCmd.Flags().StringVar(&userAgent, "user-agent", "SEOBot/1.0 (+https://example.invalid/bot)", "crawler user agent")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "output", "report output directory")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func normalizeSeedURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" {
		raw = "https://" + raw
		if parsed, err = url.Parse(raw); err != nil {
			return "", err
		}
	}
	return urlnorm.Normalize(parsed.String()), nil
}
