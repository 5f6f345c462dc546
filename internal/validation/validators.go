// Package validation provides shared input validators used by the config
// layer and the CLI. Everything here is pure string/network checking.
package validation

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

var (
	// Valid identifier: starts with a letter, then alphanumeric, dash, underscore
	identifierRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

	// Metric names are consumed by the monitoring backend: alphanumeric only
	metricNameRegex = regexp.MustCompile(`^[a-zA-Z0-9]{1,128}$`)

	// ISO 3166-1 alpha-2
	countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

	// Dangerous characters that should never appear in identifiers
	dangerousChars = []string{";", "|", "&", "$", "`", "(", ")", "<", ">", "\\", "\"", "'", "\n", "\r"}
)

// ValidateIdentifier validates a general identifier (policy names, set names, etc.)
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("identifier cannot be empty")
	}

	if len(id) > 128 {
		return fmt.Errorf("identifier too long (max 128 characters)")
	}

	if !identifierRegex.MatchString(id) {
		return fmt.Errorf("invalid identifier: %s (must start with a letter, then alphanumeric with -_)", id)
	}

	for _, char := range dangerousChars {
		if strings.Contains(id, char) {
			return fmt.Errorf("identifier contains dangerous character: %s", char)
		}
	}

	return nil
}

// ValidateMetricName validates a visibility-config metric name.
func ValidateMetricName(name string) error {
	if name == "" {
		return fmt.Errorf("metric name cannot be empty")
	}
	if !metricNameRegex.MatchString(name) {
		return fmt.Errorf("invalid metric name: %s (must be 1-128 alphanumeric characters)", name)
	}
	return nil
}

// MetricName derives a valid metric name from an arbitrary rule name by
// stripping everything the monitoring backend rejects.
func MetricName(ruleName string) string {
	var b strings.Builder
	for _, r := range ruleName {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "Rule"
	}
	if len(name) > 128 {
		name = name[:128]
	}
	return name
}

// ValidateCountryCode validates an ISO 3166-1 alpha-2 country code.
// Codes must already be upper case; silently fixing case hides typos.
func ValidateCountryCode(code string) error {
	if !countryCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid country code: %q (must be two upper-case letters)", code)
	}
	return nil
}

// ValidateAddress validates an IP address or CIDR block and checks it
// against the expected IP version ("ipv4" or "ipv6").
func ValidateAddress(addr, version string) error {
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	ip, _, err := net.ParseCIDR(addr)
	if err != nil {
		ip = net.ParseIP(addr)
		if ip == nil {
			return fmt.Errorf("invalid IP address or CIDR: %s", addr)
		}
	}

	isV4 := ip.To4() != nil
	switch version {
	case "ipv4":
		if !isV4 {
			return fmt.Errorf("address %s is not IPv4", addr)
		}
	case "ipv6":
		if isV4 {
			return fmt.Errorf("address %s is not IPv6", addr)
		}
	case "":
		// version not constrained
	default:
		return fmt.Errorf("unknown IP version: %s", version)
	}

	return nil
}
