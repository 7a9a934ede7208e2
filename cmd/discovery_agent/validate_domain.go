package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/domains"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/observability"
)

var validateDomainCmd = &cobra.Command{
	Use:   "validate-domain",
	Short: "Score whether a domain belongs to an organization",
	Long:  "Scores a candidate domain against an organization name using fuzzy matching, union local number detection, a blacklist of aggregator sites, and DNS resolvability.",
	RunE:  runValidateDomain,
}

var (
	validateDomainName string
	validateDomainOrg  string
	validateThreshold  float64
)

func init() {
	validateDomainCmd.Flags().StringVarP(&validateDomainName, "domain", "d", "", "Domain to validate (required)")
	validateDomainCmd.Flags().StringVarP(&validateDomainOrg, "organization", "g", "", "Organization name (required)")
	validateDomainCmd.Flags().Float64Var(&validateThreshold, "threshold", 0, "Minimum confidence to consider valid (default: 0.6)")

	if err := validateDomainCmd.MarkFlagRequired("domain"); err != nil {
		panic(fmt.Sprintf("failed to mark domain flag as required: %v", err))
	}
	if err := validateDomainCmd.MarkFlagRequired("organization"); err != nil {
		panic(fmt.Sprintf("failed to mark organization flag as required: %v", err))
	}

	rootCmd.AddCommand(validateDomainCmd)
}

func runValidateDomain(_ *cobra.Command, _ []string) error {
	validator := domains.NewValidator(&domains.ValidatorConfig{
		Threshold: validateThreshold,
	})

	score := validator.Validate(context.Background(), validateDomainName, validateDomainOrg)

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintDomainScore(validateDomainName, validateDomainOrg, score)

	if !score.IsValid {
		return fmt.Errorf("domain %s is not valid for %q (confidence %.2f)",
			validateDomainName, validateDomainOrg, score.Confidence)
	}
	return nil
}
