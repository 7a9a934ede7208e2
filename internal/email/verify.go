package email

import (
	"context"
	"net"
	"net/smtp"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultDNSTimeout bounds a single MX lookup.
const DefaultDNSTimeout = 2 * time.Second

// DefaultSMTPTimeout bounds a single SMTP handshake connection.
const DefaultSMTPTimeout = 10 * time.Second

var emailDomain = regexp.MustCompile(`@([^@]+)$`)

// Verifier checks whether a candidate email address is likely deliverable.
type Verifier interface {
	Verify(ctx context.Context, email string) bool
}

// MXResolver looks up mail-exchanger records. net.DefaultResolver satisfies it.
type MXResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// DNSVerifier accepts an address when its domain has MX records. Lookups are
// cached per domain; the cache has no eviction and is guarded by a mutex.
type DNSVerifier struct {
	resolver MXResolver
	timeout  time.Duration

	mu    sync.Mutex
	cache map[string]bool
}

// NewDNSVerifier creates a DNS-based verifier. A nil resolver uses the
// system resolver.
func NewDNSVerifier(resolver MXResolver, timeout time.Duration) *DNSVerifier {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	if timeout <= 0 {
		timeout = DefaultDNSTimeout
	}
	return &DNSVerifier{resolver: resolver, timeout: timeout, cache: make(map[string]bool)}
}

// Verify reports whether the email's domain has at least one MX record.
func (v *DNSVerifier) Verify(ctx context.Context, email string) bool {
	domain := domainOf(email)
	if domain == "" {
		return false
	}

	v.mu.Lock()
	cached, ok := v.cache[domain]
	v.mu.Unlock()
	if ok {
		return cached
	}

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	records, err := v.resolver.LookupMX(lookupCtx, domain)
	result := err == nil && len(records) > 0

	v.mu.Lock()
	v.cache[domain] = result
	v.mu.Unlock()
	return result
}

// SMTPVerifier checks an address with a minimal SMTP handshake (HELO,
// MAIL FROM, RCPT TO) against the domain's mail servers, sending no message
// data.
type SMTPVerifier struct {
	fromAddress string
	timeout     time.Duration
	resolver    MXResolver

	// check overrides the per-host handshake; tests swap in a fake so host
	// iteration is exercised without dialing port 25.
	check func(ctx context.Context, host, email string) bool
}

// NewSMTPVerifier creates an SMTP-based verifier. The from address is used
// in the MAIL FROM command.
func NewSMTPVerifier(fromAddress string, timeout time.Duration, resolver MXResolver) *SMTPVerifier {
	if fromAddress == "" {
		fromAddress = "verify@example.com"
	}
	if timeout <= 0 {
		timeout = DefaultSMTPTimeout
	}
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &SMTPVerifier{fromAddress: fromAddress, timeout: timeout, resolver: resolver}
}

// mxHosts returns the domain's mail hosts ordered by MX preference, falling
// back to the domain itself when no MX records exist.
func (v *SMTPVerifier) mxHosts(ctx context.Context, domain string) []string {
	records, err := v.resolver.LookupMX(ctx, domain)
	if err != nil || len(records) == 0 {
		return []string{domain}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Pref < records[j].Pref
	})
	hosts := make([]string, 0, len(records))
	for _, r := range records {
		hosts = append(hosts, strings.TrimSuffix(r.Host, "."))
	}
	return hosts
}

// Verify reports whether any of the domain's mail servers accepts RCPT TO
// for the address. A rejection by one host falls through to the next in MX
// preference order; only acceptance short-circuits.
func (v *SMTPVerifier) Verify(ctx context.Context, email string) bool {
	domain := domainOf(email)
	if domain == "" {
		return false
	}

	check := v.check
	if check == nil {
		check = v.tryHost
	}
	for _, host := range v.mxHosts(ctx, domain) {
		if check(ctx, host, email) {
			return true
		}
	}
	return false
}

// tryHost performs the handshake against one mail host and reports whether
// it accepted the recipient.
func (v *SMTPVerifier) tryHost(ctx context.Context, host, email string) bool {
	dialer := &net.Dialer{Timeout: v.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, "25"))
	if err != nil {
		return false
	}
	defer func() { _ = conn.Close() }()
	_ = conn.SetDeadline(time.Now().Add(v.timeout))

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return false
	}
	defer func() { _ = client.Close() }()

	if err := client.Hello("example.com"); err != nil {
		return false
	}
	if err := client.Mail(v.fromAddress); err != nil {
		return false
	}
	err = client.Rcpt(email)
	_ = client.Quit()
	return err == nil
}

// domainOf extracts the lowercased domain part of an email address.
func domainOf(email string) string {
	m := emailDomain.FindStringSubmatch(email)
	if m == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(m[1]))
}
