// Package domains scores whether a candidate domain belongs to a target
// organization, gating which domains get crawled at all.
package domains

import (
	"context"
	"math"
	"net"
	"regexp"
	"strings"
	"sync"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/types"
)

// DefaultBlacklist lists aggregator and social-media hosts that are never the
// organization's own site, however well their names match.
var DefaultBlacklist = []string{
	"charitynavigator.org",
	"yellowpages.com",
	"guidestar.org",
	"charitywatch.org",
	"greatnonprofits.org",
	"linkedin.com",
	"facebook.com",
	"twitter.com",
	"yelp.com",
	"bbb.org",
	"nonprofitfacts.com",
	"findnonprofits.com",
}

// DefaultThreshold is the minimum score for a domain to be considered valid.
const DefaultThreshold = 0.6

// unionLocalBoost is the floor applied when a domain's local number matches
// the organization's local number.
const unionLocalBoost = 0.8

// dnsAdjustment is added when the domain resolves and subtracted when it
// does not.
const dnsAdjustment = 0.1

var (
	schemePrefix   = regexp.MustCompile(`^https?://`)
	nonAlnum       = regexp.MustCompile(`[^a-z0-9]`)
	domainLocalNum = regexp.MustCompile(`local(\d+)`)
	orgLocalNum    = regexp.MustCompile(`local\s*#?\s*(\d+)`)
)

// HostResolver looks up a host's addresses. net.DefaultResolver satisfies it.
type HostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// ValidatorConfig configures a domain Validator. All fields are optional.
type ValidatorConfig struct {
	Blacklist []string
	Threshold float64
	Resolver  HostResolver
}

// Validator scores candidate domains against organization names.
type Validator struct {
	blacklist map[string]bool
	threshold float64
	resolver  HostResolver

	// DNS outcomes are cached per host; lookups for the same host across a
	// run would otherwise dominate validation time.
	mu       sync.Mutex
	resolved map[string]bool
}

// NewValidator creates a validator. A nil config uses the default blacklist,
// a 0.6 threshold, and the system DNS resolver.
func NewValidator(cfg *ValidatorConfig) *Validator {
	if cfg == nil {
		cfg = &ValidatorConfig{}
	}
	list := cfg.Blacklist
	if list == nil {
		list = DefaultBlacklist
	}
	blacklist := make(map[string]bool, len(list))
	for _, b := range list {
		blacklist[strings.ToLower(strings.TrimSpace(b))] = true
	}
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Validator{
		blacklist: blacklist,
		threshold: threshold,
		resolver:  resolver,
		resolved:  make(map[string]bool),
	}
}

// Validate scores domain against organization. Blacklisted hosts are rejected
// outright; otherwise a fuzzy match between the domain's first label and the
// organization name is boosted for union-local matches and adjusted by DNS
// resolvability. Confidence is rounded to two decimal places.
func (v *Validator) Validate(ctx context.Context, domain, organization string) types.ValidationScore {
	dom := NormalizeDomain(domain)
	if dom == "" {
		return types.ValidationScore{IsValid: false, Confidence: 0.0, Reason: "empty domain"}
	}

	for b := range v.blacklist {
		if dom == b || strings.HasSuffix(dom, "."+b) {
			return types.ValidationScore{IsValid: false, Confidence: 0.0, Reason: "blacklisted host"}
		}
	}

	score := fuzzyMatchScore(dom, organization)
	if v.domainResolves(ctx, dom) {
		score = math.Min(1.0, score+dnsAdjustment)
	} else {
		score = math.Max(0.0, score-dnsAdjustment)
	}

	score = math.Round(score*100) / 100
	return types.ValidationScore{IsValid: score >= v.threshold, Confidence: score}
}

// NormalizeDomain strips the scheme, any path or query beyond the host, and a
// leading "www." prefix, and lowercases the result.
func NormalizeDomain(domain string) string {
	dom := strings.ToLower(strings.TrimSpace(domain))
	dom = schemePrefix.ReplaceAllString(dom, "")
	if i := strings.IndexAny(dom, "/?"); i >= 0 {
		dom = dom[:i]
	}
	dom = strings.TrimPrefix(dom, "www.")
	return dom
}

// fuzzyMatchScore compares the domain's first label against the organization
// name, with a floor of 0.8 when both carry the same union local number.
func fuzzyMatchScore(domain, organization string) float64 {
	base := strings.Split(domain, ".")[0]
	baseClean := nonAlnum.ReplaceAllString(base, "")
	orgLower := strings.ToLower(organization)
	orgClean := nonAlnum.ReplaceAllString(orgLower, "")

	ratio := strutil.Similarity(baseClean, orgClean, metrics.NewSorensenDice())

	if m := domainLocalNum.FindStringSubmatch(baseClean); m != nil {
		for _, om := range orgLocalNum.FindAllStringSubmatch(orgLower, -1) {
			if om[1] == m[1] && ratio < unionLocalBoost {
				ratio = unionLocalBoost
			}
		}
	}
	return ratio
}

func (v *Validator) domainResolves(ctx context.Context, domain string) bool {
	v.mu.Lock()
	cached, ok := v.resolved[domain]
	v.mu.Unlock()
	if ok {
		return cached
	}

	_, err := v.resolver.LookupHost(ctx, domain)
	result := err == nil

	v.mu.Lock()
	v.resolved[domain] = result
	v.mu.Unlock()
	return result
}
