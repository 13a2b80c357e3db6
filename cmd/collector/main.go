// Package main provides the collector command-line tool that fetches article
// metadata from the configured search providers and consolidates it into one
// CSV dataset per provider.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"newsharvest/internal/config"
	"newsharvest/internal/dataset"
	"newsharvest/internal/logger"
	"newsharvest/internal/pipeline"
	"newsharvest/internal/provider"
	"newsharvest/internal/report"
)

const defaultConfigPath = "configs/collector.yaml"

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	// Load .env if present; environment variables alone are fine too.
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, ".env file not loaded: %v (using environment variables only)\n", err)
	}

	cfg := loadConfig(*configFile)

	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("❌ Configuration error: %v\n", err)
	}

	appLog := logger.New(cfg.Collector.Logging.Level)
	store := dataset.NewStore(cfg.Collector.Output.CreateBackup)
	fetcher := provider.NewFetcher(cfg.Collector.Fetch, appLog)

	enabled := cfg.EnabledProviders()
	fmt.Printf("🚀 Collecting %d queries from %d providers...\n", len(cfg.Collector.Queries), len(enabled))

	var results []*pipeline.Result

	for i, pc := range enabled {
		fmt.Printf("\n----------------------------------------------------------------\n")
		fmt.Printf("📦 Provider %d/%d: %s -> %s\n", i+1, len(enabled), pc.Name, pc.Output)

		prov, err := provider.FromConfig(pc, cfg.Collector.Fetch)
		if err != nil {
			log.Fatalf("❌ %v\n", err)
		}

		result, err := pipeline.New(prov, fetcher, store, cfg, pc.Output, appLog).Run()
		if err != nil {
			fmt.Printf("❌ %s run failed: %v\n", pc.Name, err)
		} else if result.SkippedSave {
			fmt.Printf("⚠️  No new articles collected from %s.\n", pc.Name)
		} else {
			fmt.Printf("✅ Saved: %s (total rows: %d)\n", result.Path, result.Saved)
		}

		if result != nil {
			results = append(results, result)
		}
	}

	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Print(report.Summary(results))
	fmt.Println("\n✨ Collection complete!")
}

// loadConfig loads the flagged config file, falling back to the default path.
func loadConfig(path string) *config.Config {
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			log.Fatalf("❌ Please provide -config file or place %s in working directory\n", defaultConfigPath)
		}

		path = defaultConfigPath
	}

	fmt.Printf("⚙️  Loading configuration from: %s\n", path)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	fmt.Printf("✅ Configuration loaded: %s\n\n", cfg)

	return cfg
}

func printUsage() {
	fmt.Println("Usage: collector [-config <file.yaml>]")
	fmt.Println()
	fmt.Println("Fetches article metadata for every configured query from each enabled")
	fmt.Println("provider, merges the results with the previously stored dataset and")
	fmt.Println("writes one deduplicated CSV file per provider.")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Printf("  %s            API key for the newsapi provider (required when enabled)\n", config.EnvNewsAPIKey)
	fmt.Printf("  %s  override inter-request delay in seconds\n", config.EnvSleepSeconds)
	fmt.Printf("  %s      override result page size\n", config.EnvPageSize)
	fmt.Printf("  %s      override maximum pages per query\n", config.EnvMaxPages)
	fmt.Println()
	flag.PrintDefaults()
}
