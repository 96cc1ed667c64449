package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limitscan/limitscan/internal/llm"
	"github.com/limitscan/limitscan/internal/model"
	"github.com/limitscan/limitscan/internal/pipeline"
	"github.com/limitscan/limitscan/internal/report"
	"github.com/limitscan/limitscan/internal/source"
)

var (
	urls        []string
	urlFile     string
	files       []string
	dbPath      string
	club        string
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	cacheDir    string
	noCache     bool
	noFooter    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	workers     int
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <limits.json>",
	Short: "Check result sources against a qualification limits specification",
	Long: `Analyze reads a limits specification and a set of result sources,
normalizes every performance, matches disciplines and categories against
the specification and reports which results qualify or nearly qualify.

Sources are independent: an unreachable URL or unreadable file is
skipped and the report reflects whatever succeeded. Only an invalid
limits specification aborts the run.

Example:
  limitscan analyze limits.json --file results.html --club "TV Musterstadt"
  limitscan analyze limits.json --url https://results.example.org/meet/123 --club LGO
  limitscan analyze limits.json --db results.db --json report.json --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Source flags
	analyzeCmd.Flags().StringArrayVar(&urls, "url", nil, "result page URL (repeatable)")
	analyzeCmd.Flags().StringVar(&urlFile, "url-file", "", "file with one result page URL per line")
	analyzeCmd.Flags().StringArrayVar(&files, "file", nil, "saved HTML result list (repeatable)")
	analyzeCmd.Flags().StringVar(&dbPath, "db", "", "results database (SQLite)")
	analyzeCmd.Flags().StringVar(&club, "club", "", "club name filter for HTML sources")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// HTTP flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-URL fetch timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "limitscan/0.3 (+https://github.com/limitscan/limitscan)", "HTTP User-Agent")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 4_000_000, "max response bytes to read")
	analyzeCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist fetched pages in this directory")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable page cache (force fresh fetch)")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	analyzeCmd.Flags().IntVar(&workers, "workers", 4, "concurrent source fetches")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM report summary")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	limitsPath := args[0]

	// The specification is validated before any source is touched: a
	// broken specification fails the whole run.
	specData, err := os.ReadFile(limitsPath)
	if err != nil {
		return fmt.Errorf("read limits specification: %w", err)
	}
	spec, err := model.ParseLimitSpec(specData)
	if err != nil {
		return err
	}

	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Concurrency.SourceWorkers = workers
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	p := pipeline.New(spec, cfg, logger)

	sources, cleanup, err := buildSources(p, spec)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(sources) == 0 {
		return fmt.Errorf("no sources given: use --url, --url-file, --file or --db")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %d source(s) against %d discipline limits\n", len(sources), len(spec.Disciplines))
	}

	rep, err := p.Run(context.Background(), sources)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(rep, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(rep, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}
	renderer.RenderSummary(rep)

	// The LLM summary comes after the report is final and never
	// changes it; a failed summary is a warning, not an error.
	if llmEnabled {
		summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM summarizer unavailable: %v\n", err)
		} else if summarizer != nil {
			summary, err := summarizer.GenerateSummary(context.Background(), *rep)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: LLM summary failed: %v\n", err)
			} else {
				fmt.Println("Summary:")
				fmt.Println(summary)
				fmt.Println()
			}
		}
	}

	return nil
}

// buildSources assembles the source list from the flags. The returned
// cleanup closes the database handle when one was opened.
func buildSources(p *pipeline.Pipeline, spec *model.LimitSpec) ([]source.Source, func(), error) {
	var sources []source.Source
	cleanup := func() {}

	for _, u := range urls {
		sources = append(sources, p.URLSource(u, club))
	}

	if urlFile != "" {
		listed, err := readURLFile(urlFile)
		if err != nil {
			return nil, cleanup, err
		}
		for _, u := range listed {
			sources = append(sources, p.URLSource(u, club))
		}
	}

	for _, f := range files {
		sources = append(sources, &source.FileSource{Path: f, Club: club})
	}

	if dbPath != "" {
		db, err := source.OpenResultsDB(dbPath)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { _ = db.Close() }
		sources = append(sources, &source.DBSource{DB: db, Years: spec.Years})
	}

	return sources, cleanup, nil
}

// readURLFile reads one URL per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read URL file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL file: %w", err)
	}
	return out, nil
}

// newLogger builds the run logger: human-readable in verbose mode,
// errors-only JSON otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
