package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/email"
)

var verifyEmailsCmd = &cobra.Command{
	Use:   "verify-emails",
	Short: "Generate and verify likely email addresses for a person",
	Long:  "Generates common email patterns for a person at a domain and optionally verifies them via DNS MX lookup or an SMTP RCPT probe.",
	RunE:  runVerifyEmails,
}

var (
	verifyFirstName string
	verifyLastName  string
	verifyDomain    string
	verifyMode      string
	verifySMTPFrom  string
)

func init() {
	verifyEmailsCmd.Flags().StringVar(&verifyFirstName, "first", "", "First name (required)")
	verifyEmailsCmd.Flags().StringVar(&verifyLastName, "last", "", "Last name (required)")
	verifyEmailsCmd.Flags().StringVarP(&verifyDomain, "domain", "d", "", "Email domain (required)")
	verifyEmailsCmd.Flags().StringVar(&verifyMode, "mode", "none", "Verification mode: none, dns, or smtp")
	verifyEmailsCmd.Flags().StringVar(&verifySMTPFrom, "smtp-from", "verify@example.com", "Sender address for SMTP verification")

	if err := verifyEmailsCmd.MarkFlagRequired("first"); err != nil {
		panic(fmt.Sprintf("failed to mark first flag as required: %v", err))
	}
	if err := verifyEmailsCmd.MarkFlagRequired("last"); err != nil {
		panic(fmt.Sprintf("failed to mark last flag as required: %v", err))
	}
	if err := verifyEmailsCmd.MarkFlagRequired("domain"); err != nil {
		panic(fmt.Sprintf("failed to mark domain flag as required: %v", err))
	}

	rootCmd.AddCommand(verifyEmailsCmd)
}

func runVerifyEmails(_ *cobra.Command, _ []string) error {
	guesses := email.GeneratePatterns(verifyFirstName, verifyLastName, verifyDomain)
	if len(guesses) == 0 {
		return fmt.Errorf("no email patterns could be generated for %q %q at %q",
			verifyFirstName, verifyLastName, verifyDomain)
	}

	verifier, err := buildVerifier(verifyMode)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, guess := range guesses {
		if verifier == nil {
			_, _ = fmt.Fprintln(os.Stdout, guess)
			continue
		}
		status := "unverified"
		if verifier.Verify(ctx, guess) {
			status = "deliverable"
		}
		_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\n", guess, status)
	}
	return nil
}

func buildVerifier(mode string) (email.Verifier, error) {
	switch mode {
	case "none":
		return nil, nil
	case "dns":
		return email.NewDNSVerifier(net.DefaultResolver, 5*time.Second), nil
	case "smtp":
		return email.NewSMTPVerifier(verifySMTPFrom, 10*time.Second, net.DefaultResolver), nil
	default:
		return nil, fmt.Errorf("unknown verification mode %q (expected none, dns, or smtp)", mode)
	}
}
