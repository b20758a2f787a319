// SPDX-License-Identifier: Apache-2.0

package sanity

import (
	"net/url"
	"strings"

	"github.com/joomcode/errorx"
)

// allowedMirrorDomains is an allowlist of trusted domains for APT repository
// mirrors. It is used by ValidateMirrorURL to keep the generated
// sources.list pointed at legitimate Debian infrastructure.
//
// Only HTTP(S) URLs from these domains (and their subdomains) are allowed.
// When adding new domains, ensure they are official Debian mirror
// infrastructure or a vetted corporate mirror, and document their purpose.
// Never add IP addresses, loopback or link-local hosts, or internal
// development domains: the allowlist is the control that keeps a
// misconfigured mirror from silently feeding the system untrusted packages.
var allowedMirrorDomains = []string{
	// Debian project infrastructure; country mirrors follow the
	// ftp.<cc>.debian.org convention and match as subdomains.
	"debian.org",
}

// AllowedMirrorDomains returns the allowlist of trusted APT mirror domains.
func AllowedMirrorDomains() []string {
	return append([]string(nil), allowedMirrorDomains...)
}

// ValidateMirrorURL checks that rawURL is a well-formed http(s) URL whose
// host belongs to the mirror allowlist (exact match or subdomain).
func ValidateMirrorURL(rawURL string) error {
	if rawURL == "" {
		return errorx.IllegalArgument.New("mirror URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return errorx.IllegalArgument.Wrap(err, "invalid mirror URL: %s", rawURL)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return errorx.IllegalArgument.New("mirror URL must use http or https: %s", rawURL)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return errorx.IllegalArgument.New("mirror URL has no host: %s", rawURL)
	}

	for _, domain := range allowedMirrorDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return nil
		}
	}

	return errorx.IllegalArgument.New("mirror host %s is not in the trusted domain list", host)
}
