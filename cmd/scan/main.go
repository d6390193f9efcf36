// One-shot CLI: scan a CSV of competitor accounts for viral content over a
// date range, write the result to CSV, and optionally export it to Google
// Sheets. Runs without a database.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"reel-radar/internal/apify"
	"reel-radar/internal/config"
	"reel-radar/internal/exporter"
	"reel-radar/internal/scoring"
	"reel-radar/internal/scraper"
	"reel-radar/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	var (
		csvPath    = flag.String("csv", "", "Path to CSV file with competitor usernames (required)")
		startDate  = flag.String("start-date", "", "Start date, YYYY-MM-DD (required)")
		endDate    = flag.String("end-date", "", "End date, YYYY-MM-DD (required)")
		configPath = flag.String("config", "config.yaml", "Path to config file")
		kindFlag   = flag.String("kind", "reel", "Content kind: reel or post")
		policyFlag = flag.String("policy", "client", "Date window policy: client, hybrid or strict")
		outPath    = flag.String("out", "viral.csv", "Output CSV path")
		toSheets   = flag.Bool("sheets", false, "Also export to Google Sheets")
	)
	flag.Parse()

	log.SetFlags(log.Ltime)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if *csvPath == "" || *startDate == "" || *endDate == "" {
		flag.Usage()
		os.Exit(2)
	}

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		log.Fatalf("Invalid start-date: %v", err)
	}
	end, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		log.Fatalf("Invalid end-date: %v", err)
	}
	if start.After(end) {
		log.Fatal("start-date must not be after end-date")
	}

	kind := scraper.ContentKind(*kindFlag)
	if kind != scraper.KindReel && kind != scraper.KindPost {
		log.Fatalf("Invalid kind %q: must be reel or post", *kindFlag)
	}
	policy := scraper.WindowPolicy(*policyFlag)
	if policy != scraper.WindowClient && policy != scraper.WindowHybrid && policy != scraper.WindowStrict {
		log.Fatalf("Invalid policy %q: must be client, hybrid or strict", *policyFlag)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("No config file at %s, using defaults", *configPath)
			cfg = config.Default()
		} else {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if cfg.Apify.Token == "" {
		log.Fatal("Apify token missing: set apify.token in config or APIFY_TOKEN in env")
	}

	log.Printf("Period: %s to %s", *startDate, *endDate)

	// Read competitors
	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open CSV: %v", err)
	}
	usernames, csvFollowers, err := scraper.ReadCompetitorsCSV(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(usernames) == 0 {
		log.Fatal("No usernames found in CSV")
	}
	log.Printf("Loaded %d competitors", len(usernames))

	// Run the pipeline without persistence
	client := apify.NewClient(cfg.Apify.Token, os.Getenv("APIFY_BASE_URL"))
	fetcher := scraper.NewFetcher(client, cfg)
	scans := services.NewScanService(nil, fetcher, cfg)

	result, err := scans.RunScan(context.Background(), services.ScanRequest{
		Usernames:         usernames,
		FollowerOverrides: csvFollowers,
		StartDate:         start,
		EndDate:           end,
		Kind:              kind,
		Policy:            policy,
		Thresholds:        cfg.Thresholds,
	})
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	if len(result.Viral) == 0 {
		log.Printf("No viral %ss matched the thresholds. Try lowering the minimums.", kind)
		return
	}

	// Top 5 preview
	log.Printf("Top 5 viral %ss:", kind)
	for i, record := range result.Viral {
		if i == 5 {
			break
		}
		log.Printf("  %d. @%s: %d views, ER %.2f%%, %s",
			i+1, record.Username, record.Views, record.EngagementRate, record.URL)
	}

	mode := scoring.Mode(kind)

	// Write CSV
	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	if err := exporter.WriteCSV(out, result.Viral, mode); err != nil {
		out.Close()
		log.Fatalf("Failed to write CSV: %v", err)
	}
	out.Close()
	log.Printf("Wrote %d records to %s", len(result.Viral), *outPath)

	// Export to Google Sheets
	if *toSheets {
		ctx := context.Background()
		sheetsExporter, err := exporter.NewSheetsExporter(ctx, cfg.GoogleSheet)
		if err != nil {
			log.Fatalf("Failed to init Google Sheets export: %v", err)
		}
		url, err := sheetsExporter.Export(ctx, result.Viral, mode)
		if err != nil {
			log.Fatalf("Failed to export to Google Sheets: %v", err)
		}
		log.Printf("Done! Spreadsheet: %s", url)
	}
}
