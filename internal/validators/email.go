package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const defaultLookupTimeout = 3 * time.Second

// Resolver is the subset of *net.Resolver used for domain checks.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// MailDomainChecker returns a func that accepts an address when its domain
// has an MX record, or at least an A/AAAA record. A nil resolver uses
// net.DefaultResolver.
func MailDomainChecker(r Resolver, timeout time.Duration) func(email string) bool {
	if r == nil {
		r = net.DefaultResolver
	}
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}

	return func(email string) bool {
		domain, ok := emailDomain(email)
		if !ok {
			return false
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
			return true
		}
		ips, err := r.LookupIPAddr(ctx, domain)
		return err == nil && len(ips) > 0
	}
}

func emailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	return strings.ToLower(email[at+1:]), true
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
