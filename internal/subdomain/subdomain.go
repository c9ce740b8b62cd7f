// Package subdomain derives, allocates and parses the public subdomains
// menus are published under.
package subdomain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
)

const (
	fallbackSlug = "menu"
	maxAttempts  = 1000
	maxLabelLen  = 63
)

var (
	ErrExhausted = errors.New("no free subdomain found")

	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	reservedLabels  = map[string]struct{}{"www": {}, "api": {}}
)

// Slugify lowercases name, collapses every run of characters outside
// [a-z0-9] into one hyphen and trims hyphens from both ends.
// "Joe's Diner!" becomes "joe-s-diner".
func Slugify(name string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxLabelLen {
		slug = strings.Trim(slug[:maxLabelLen], "-")
	}
	return slug
}

// Base returns the first candidate tried for a menu name.
func Base(name string) string {
	if slug := Slugify(name); slug != "" {
		return slug
	}
	return fallbackSlug
}

// Reserved reports whether label can never be assigned to a menu.
func Reserved(label string) bool {
	_, ok := reservedLabels[label]
	return ok
}

// TakenFunc reports whether a candidate is already assigned.
type TakenFunc func(ctx context.Context, candidate string) (bool, error)

// Allocate tries base, base-1, base-2, ... and returns the first candidate
// taken reports as free. base is shortened before a suffix is appended so
// every candidate fits in a 63 character DNS label. Two concurrent callers
// can pick the same value; the unique index on menus.subdomain rejects the
// second write.
func Allocate(ctx context.Context, base string, taken TakenFunc) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		candidate := base
		if i > 0 {
			candidate = withSuffix(base, i)
		}
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w for %q after %d attempts", ErrExhausted, base, maxAttempts)
}

func withSuffix(base string, n int) string {
	suffix := fmt.Sprintf("-%d", n)
	if keep := maxLabelLen - len(suffix); len(base) > keep {
		base = strings.TrimRight(base[:keep], "-")
	}
	return base + suffix
}

// FromHost extracts the candidate subdomain from a Host header value.
// Hosts under baseDomain yield the label directly in front of it; other
// hosts with at least three labels yield their leftmost label. "www" and
// "api" never count, and bare IP addresses yield "".
func FromHost(host, baseDomain string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}

	baseDomain = strings.ToLower(strings.Trim(baseDomain, ". "))
	var label string
	if baseDomain != "" && strings.HasSuffix(host, "."+baseDomain) {
		prefix := strings.TrimSuffix(host, "."+baseDomain)
		labels := strings.Split(prefix, ".")
		label = labels[len(labels)-1]
	} else {
		labels := strings.Split(host, ".")
		if len(labels) < 3 {
			return ""
		}
		label = labels[0]
	}

	if Reserved(label) {
		return ""
	}
	return label
}
