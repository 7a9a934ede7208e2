package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/config"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/crawl"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/observability"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Crawl a known domain and extract executive contacts",
	Long:  "Discovers the domain's sitemap, fetches leadership-related pages with polite pacing, and extracts validated executive names and titles.",
	RunE:  runDiscover,
}

var (
	discoverDomain       string
	discoverOrganization string
	discoverCacheDir     string
	discoverTimeout      int
	discoverDelay        float64
	discoverUseBrowser   bool
	discoverVerbose      bool
	discoverOutputFile   string
)

func init() {
	discoverCmd.Flags().StringVarP(&discoverDomain, "domain", "d", "", "Domain to crawl (required)")
	discoverCmd.Flags().StringVarP(&discoverOrganization, "organization", "g", "", "Organization name (required)")
	discoverCmd.Flags().StringVar(&discoverCacheDir, "cache-dir", "data/pages", "Page cache directory")
	discoverCmd.Flags().IntVar(&discoverTimeout, "timeout", 0, "Per-request timeout in seconds")
	discoverCmd.Flags().Float64Var(&discoverDelay, "delay", 0, "Minimum delay between requests in seconds")
	discoverCmd.Flags().BoolVar(&discoverUseBrowser, "use-browser", false, "Use headless browser for thin SPA pages (requires Chrome)")
	discoverCmd.Flags().BoolVarP(&discoverVerbose, "verbose", "v", false, "Print detailed progress information")
	discoverCmd.Flags().StringVarP(&discoverOutputFile, "out", "o", "", "Path to output JSON file (optional)")

	if err := discoverCmd.MarkFlagRequired("domain"); err != nil {
		panic(fmt.Sprintf("failed to mark domain flag as required: %v", err))
	}
	if err := discoverCmd.MarkFlagRequired("organization"); err != nil {
		panic(fmt.Sprintf("failed to mark organization flag as required: %v", err))
	}

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(_ *cobra.Command, _ []string) error {
	cfg := config.Config{
		TimeoutSeconds: discoverTimeout,
		DelaySeconds:   discoverDelay,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	crawlCfg := &crawl.Config{
		CacheDir:   discoverCacheDir,
		Fetch:      cfg.FetchOptions(),
		UseBrowser: discoverUseBrowser,
	}
	if discoverVerbose {
		crawlCfg.Progress = os.Stdout
	}

	crawler, err := crawl.New(crawlCfg)
	if err != nil {
		return fmt.Errorf("failed to create crawler: %w", err)
	}

	ctx := context.Background()
	result, err := crawler.DiscoverAndExtract(ctx, types.CrawlTarget{
		OrganizationName: discoverOrganization,
		Domain:           discoverDomain,
	})
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if discoverVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintExecutives(result.Executives)
		printer.PrintDiscoverySummary(result)
	}

	if discoverOutputFile != "" {
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result to JSON: %w", err)
		}
		if err := os.WriteFile(discoverOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file %s: %w", discoverOutputFile, err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", discoverOutputFile)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Found %d executives across %d pages\n",
		len(result.Executives), result.PagesSeen)

	return nil
}
