package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vulpeslabs/vulpes/internal/browser"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath  string
		outputPath  string
		pdfPath     string
		userAgent   string
		timeout     time.Duration
		maxAttempts int
		maxBody     int64
		hostRPS     float64
		cacheDir    string
		cacheMaxAge time.Duration
		cacheClear  bool
		historyDir  string
		historyOff  bool
		showHistory int
		verbose     bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.StringVar(&outputPath, "output", "", "Write extracted text to this file instead of stdout")
	flag.StringVar(&pdfPath, "output.pdf", "", "Also write the extracted text as a simple PDF")
	flag.StringVar(&userAgent, "ua", "", "Custom User-Agent header")
	flag.DurationVar(&timeout, "timeout", 0, "Per-request timeout (e.g. 30s)")
	flag.IntVar(&maxAttempts, "max.attempts", 0, "Fetch attempts including the first (default 2)")
	flag.Int64Var(&maxBody, "max.body", 0, "Response body cap in bytes (default 10485760)")
	flag.Float64Var(&hostRPS, "rate", 0, "Max requests per second per host (0 disables)")
	flag.StringVar(&cacheDir, "cache.dir", "", "HTTP cache directory (empty disables caching)")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this on startup (e.g. 24h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.StringVar(&historyDir, "history.dir", "", "History database directory (default ~/.vulpes)")
	flag.BoolVar(&historyOff, "history.off", false, "Disable the persistent visit history")
	flag.IntVar(&showHistory, "history.show", 0, "Print the N most recent visits and exit")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if showVersion {
		fmt.Printf("vulpes %s (%s, %s)\n", browser.BuildVersion, browser.BuildCommit, browser.BuildDate)
		return
	}

	cfg := browser.Config{
		UserAgent:      userAgent,
		RequestTimeout: timeout,
		MaxAttempts:    maxAttempts,
		MaxBodyBytes:   maxBody,
		HostRPS:        hostRPS,
		CacheDir:       cacheDir,
		CacheMaxAge:    cacheMaxAge,
		CacheClear:     cacheClear,
		HistoryDir:     historyDir,
		DisableHistory: historyOff,
		Verbose:        verbose,
	}
	browser.ApplyEnvToConfig(&cfg)
	if configPath != "" {
		fc, err := browser.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config file")
		}
		browser.ApplyFileConfig(&cfg, fc)
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if showHistory > 0 {
		if err := printHistory(cfg, showHistory); err != nil {
			log.Fatal().Err(err).Msg("history")
		}
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: vulpes [flags] URL")
		flag.Usage()
		os.Exit(2)
	}
	rawURL := flag.Arg(0)
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	if err := run(cfg, rawURL, outputPath, pdfPath); err != nil {
		log.Fatal().Err(err).Msg("vulpes failed")
	}
}

// run navigates to rawURL and writes the extracted text to outputPath (or
// stdout when empty), optionally also as a PDF. Split out from main for
// testability.
func run(cfg browser.Config, rawURL, outputPath, pdfPath string) error {
	bctx, err := browser.NewContext(cfg)
	if err != nil {
		return fmt.Errorf("new context: %w", err)
	}
	defer bctx.Close()

	ctx := context.Background()
	page, err := bctx.Navigate(ctx, rawURL)
	if err != nil {
		return err
	}
	log.Debug().Str("finalURL", page.FinalURL).Int("status", page.Status).Msg("page loaded")

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(page.Text+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else {
		fmt.Println(page.Text)
	}
	if pdfPath != "" {
		if err := browser.SavePDF(page, pdfPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("pdf", pdfPath).Msg("wrote PDF")
	}
	return nil
}

func printHistory(cfg browser.Config, n int) error {
	cfg.DisableHistory = false
	bctx, err := browser.NewContext(cfg)
	if err != nil {
		return err
	}
	defer bctx.Close()
	visits, err := bctx.History().Recent(context.Background(), n)
	if err != nil {
		return err
	}
	for _, v := range visits {
		fmt.Printf("%s  %d  %s\n", v.VisitedAt.Format(time.RFC3339), v.Status, v.URL)
	}
	return nil
}
