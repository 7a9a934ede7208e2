package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/config"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/email"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/observability"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full discovery pipeline end-to-end",
	Long: `Orchestrates the entire discovery process: query building -> search -> domain validation -> sitemap crawl -> executive extraction -> email pattern generation.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath   string
	runOrganization string
	runDBAName      string
	runDomain       string
	runInput        string
	runCacheDir     string
	runTimeout      int
	runDelay        float64
	runUseBrowser   bool
	runWorkers      int
	runVerifyEmailsFlag bool
	runSMTPFrom     string
	runVerbose      bool
	runOutputFile   string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runOrganization, "organization", "g", "", "Organization name (mutually exclusive with --input)")
	runCommand.Flags().StringVar(&runDBAName, "dba", "", "\"Doing business as\" name, if different")
	runCommand.Flags().StringVarP(&runDomain, "domain", "d", "", "Known domain, skips search and domain validation")
	runCommand.Flags().StringVarP(&runInput, "input", "i", "", "Path to CSV of organizations for batch runs (mutually exclusive with --organization)")
	runCommand.Flags().StringVar(&runCacheDir, "cache-dir", "", "Page cache directory")
	runCommand.Flags().IntVar(&runTimeout, "timeout", 0, "Per-request timeout in seconds")
	runCommand.Flags().Float64Var(&runDelay, "delay", 0, "Minimum delay between requests in seconds")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for thin SPA pages (requires Chrome)")
	runCommand.Flags().IntVar(&runWorkers, "workers", 0, "Concurrent organizations in batch runs")
	runCommand.Flags().BoolVar(&runVerifyEmailsFlag, "verify-emails", false, "Verify generated email patterns via DNS")
	runCommand.Flags().StringVar(&runSMTPFrom, "smtp-from", "", "Sender address for SMTP-level verification")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress information")
	runCommand.Flags().StringVarP(&runOutputFile, "out", "o", "", "Path to output JSON file (optional)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("organization") {
		cfg.Organization = runOrganization
	}
	if cmd.Flags().Changed("dba") {
		cfg.DBAName = runDBAName
	}
	if cmd.Flags().Changed("domain") {
		cfg.Domain = runDomain
	}
	if cmd.Flags().Changed("input") {
		cfg.Input = runInput
	}
	if cmd.Flags().Changed("cache-dir") {
		cfg.CacheDir = runCacheDir
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = runTimeout
	}
	if cmd.Flags().Changed("delay") {
		cfg.DelaySeconds = runDelay
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = runWorkers
	}
	if cmd.Flags().Changed("verify-emails") {
		cfg.VerifyEmails = runVerifyEmailsFlag
	}
	if cmd.Flags().Changed("smtp-from") {
		cfg.SMTPFrom = runSMTPFrom
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		CacheDir: "data/pages",
	})

	// Step 4: Validate merged configuration
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Organization == "" && cfg.Input == "" {
		return fmt.Errorf("must provide either --organization or --input")
	}

	orgs, err := loadOrganizations(cfg)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		CacheDir:   cfg.CacheDir,
		Fetch:      cfg.FetchOptions(),
		UseBrowser: cfg.UseBrowser,
		Workers:    cfg.Workers,
	}
	if cfg.VerifyEmails {
		opts.Verifier = email.NewDNSVerifier(net.DefaultResolver, 5*time.Second)
	}
	if cfg.Verbose {
		opts.Progress = os.Stdout
		opts.OnProgress = func(event pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(os.Stdout, "[%s] %s: %s\n", event.Organization, event.Step, event.Message)
		}
	}

	outcomes := pipeline.RunAll(ctx, opts, orgs)

	printer := observability.NewPrinter(os.Stdout)
	failures := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failures++
			_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", outcome.Organization.Name, outcome.Err)
			continue
		}
		if cfg.Verbose {
			printer.PrintExecutives(outcome.Result.Executives)
			printer.PrintEmails(outcome.Result.Emails)
		}
		printer.PrintDiscoverySummary(outcome.Result)
	}

	if runOutputFile != "" {
		jsonBytes, err := json.MarshalIndent(outcomesJSON(outcomes), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		if err := os.WriteFile(runOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file %s: %w", runOutputFile, err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", runOutputFile)
	}

	if failures == len(outcomes) {
		return fmt.Errorf("all %d organizations failed", failures)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Processed %d organizations (%d failed)\n", len(outcomes), failures)
	return nil
}

func loadOrganizations(cfg config.Config) ([]pipeline.Organization, error) {
	if cfg.Organization != "" {
		// A known domain skips search and domain validation in the pipeline.
		return []pipeline.Organization{{
			Name:    cfg.Organization,
			DBAName: cfg.DBAName,
			Domain:  cfg.Domain,
		}}, nil
	}
	return readOrganizationsCSV(cfg.Input)
}

// readOrganizationsCSV reads organizations from a CSV file with a "name"
// column and optional "dba_name" and "domain" columns. A header row is
// required.
func readOrganizationsCSV(path string) ([]pipeline.Organization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("input file %s has no organization rows", path)
	}

	nameCol, dbaCol, domainCol := -1, -1, -1
	for i, col := range records[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name", "organization", "org_name":
			nameCol = i
		case "dba", "dba_name":
			dbaCol = i
		case "domain", "website":
			domainCol = i
		}
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("input file %s is missing a name column", path)
	}

	var orgs []pipeline.Organization
	for _, record := range records[1:] {
		if nameCol >= len(record) {
			continue
		}
		name := strings.TrimSpace(record[nameCol])
		if name == "" {
			continue
		}
		org := pipeline.Organization{Name: name}
		if dbaCol >= 0 && dbaCol < len(record) {
			org.DBAName = strings.TrimSpace(record[dbaCol])
		}
		if domainCol >= 0 && domainCol < len(record) {
			org.Domain = strings.TrimSpace(record[domainCol])
		}
		orgs = append(orgs, org)
	}
	if len(orgs) == 0 {
		return nil, fmt.Errorf("input file %s has no organization rows", path)
	}
	return orgs, nil
}

// outcomesJSON shapes pipeline outcomes for JSON output, flattening errors to
// strings.
func outcomesJSON(outcomes []pipeline.Outcome) []map[string]any {
	shaped := make([]map[string]any, 0, len(outcomes))
	for _, outcome := range outcomes {
		entry := map[string]any{
			"organization": outcome.Organization.Name,
		}
		if outcome.Err != nil {
			entry["error"] = outcome.Err.Error()
		}
		if outcome.Result != nil {
			entry["result"] = outcome.Result
		}
		shaped = append(shaped, entry)
	}
	return shaped
}
