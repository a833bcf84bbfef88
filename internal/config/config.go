package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by Load.
const (
	EnvAPIURL      = "TRILIUM_API_URL"
	EnvAPIToken    = "TRILIUM_API_TOKEN"
	EnvPermissions = "PERMISSIONS"
	EnvTimeout     = "TRILIUM_API_TIMEOUT"
	EnvVerbose     = "VERBOSE"
)

const (
	defaultAPIURL  = "http://localhost:8080/etapi"
	defaultTimeout = 30 * time.Second
)

// Capability names a permission gating which tools are dispatchable.
type Capability string

const (
	CapabilityRead  Capability = "READ"
	CapabilityWrite Capability = "WRITE"
)

// CapabilitySet is the set of capabilities granted to the server.
// It is fixed at startup and never mutated afterwards.
type CapabilitySet map[Capability]struct{}

// Has reports whether the capability is granted.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// String renders the set in the same semicolon-separated form it was
// configured with, in a stable order.
func (s CapabilitySet) String() string {
	names := make([]string, 0, len(s))
	for c := range s {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return strings.Join(names, ";")
}

// DefaultCapabilities grants both READ and WRITE.
func DefaultCapabilities() CapabilitySet {
	return CapabilitySet{CapabilityRead: {}, CapabilityWrite: {}}
}

// ParseCapabilities parses a semicolon-separated capability list such as
// "READ;WRITE". Matching is case-insensitive and blank items are skipped.
// A blank input yields the default set; an unknown capability name is an
// error.
func ParseCapabilities(raw string) (CapabilitySet, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultCapabilities(), nil
	}
	set := make(CapabilitySet)
	for _, item := range strings.Split(raw, ";") {
		name := strings.ToUpper(strings.TrimSpace(item))
		if name == "" {
			continue
		}
		switch Capability(name) {
		case CapabilityRead:
			set[CapabilityRead] = struct{}{}
		case CapabilityWrite:
			set[CapabilityWrite] = struct{}{}
		default:
			return nil, fmt.Errorf("unknown capability %q (valid: READ, WRITE)", item)
		}
	}
	if len(set) == 0 {
		return DefaultCapabilities(), nil
	}
	return set, nil
}

// Config holds the server configuration. It is read-only after Load.
type Config struct {
	// APIURL is the upstream ETAPI base URL without a trailing slash.
	APIURL string
	// APIToken is sent verbatim in the Authorization header.
	APIToken string
	// Permissions gates which tools the server registers and dispatches.
	Permissions CapabilitySet
	// Timeout bounds each upstream HTTP call.
	Timeout time.Duration
	// Verbose enables debug logging on stderr.
	Verbose bool
}

// Load builds the configuration from environment variables, applying
// defaults for everything except the API token. A missing token or a
// value that does not parse is an error.
func Load() (*Config, error) {
	cfg := &Config{
		APIURL:  defaultAPIURL,
		Timeout: defaultTimeout,
	}

	if raw := strings.TrimSpace(os.Getenv(EnvAPIURL)); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%s: %q is not a valid base URL", EnvAPIURL, raw)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("%s: unsupported scheme %q", EnvAPIURL, u.Scheme)
		}
		cfg.APIURL = strings.TrimRight(raw, "/")
	}

	cfg.APIToken = strings.TrimSpace(os.Getenv(EnvAPIToken))
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("%s is required", EnvAPIToken)
	}

	perms, err := ParseCapabilities(os.Getenv(EnvPermissions))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvPermissions, err)
	}
	cfg.Permissions = perms

	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a duration (try \"30s\")", EnvTimeout, raw)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%s: must be positive, got %q", EnvTimeout, raw)
		}
		cfg.Timeout = d
	}

	if raw := strings.TrimSpace(os.Getenv(EnvVerbose)); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a boolean", EnvVerbose, raw)
		}
		cfg.Verbose = v
	}

	return cfg, nil
}
