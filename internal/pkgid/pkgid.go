// Package pkgid parses the accepted input forms for VCS-backed package
// identifiers into a canonical (identifier, remote URL) pair.
package pkgid

import (
	"fmt"
	"strings"
)

// Identifier is a resolved package identifier together with the remote URL
// its sources should be fetched from.
type Identifier struct {
	ID  string // canonical identifier, e.g. "host/path"
	URL string // remote URL to pass to the VCS front end
}

// Parse accepts the three forms documented by the workspace layout contract:
//
//	user@host:path[.git]  -> ID "host/path", URL as given
//	https://host/path[.git] -> ID "host/path", URL as given
//	host/path             -> ID as given, URL "https://host/path"
func Parse(input string) (Identifier, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Identifier{}, fmt.Errorf("pkgid: empty package identifier")
	}

	switch {
	case strings.Contains(input, "@") && strings.Contains(input, ":"):
		return parseSCP(input)
	case strings.HasPrefix(input, "https://"):
		return parseHTTPS(input)
	default:
		return parseBare(input)
	}
}

// parseSCP handles "user@host:path[.git]".
func parseSCP(input string) (Identifier, error) {
	at := strings.Index(input, "@")
	colon := strings.Index(input, ":")
	if at < 0 || colon < at {
		return Identifier{}, fmt.Errorf("pkgid: malformed scp-style identifier %q", input)
	}
	host := input[at+1 : colon]
	path := trimGitSuffix(input[colon+1:])
	if host == "" || path == "" {
		return Identifier{}, fmt.Errorf("pkgid: malformed scp-style identifier %q", input)
	}
	return Identifier{ID: host + "/" + path, URL: input}, nil
}

// parseHTTPS handles "https://host/path[.git]".
func parseHTTPS(input string) (Identifier, error) {
	rest := strings.TrimPrefix(input, "https://")
	rest = trimGitSuffix(rest)
	if rest == "" || !strings.Contains(rest, "/") {
		return Identifier{}, fmt.Errorf("pkgid: malformed https identifier %q", input)
	}
	return Identifier{ID: rest, URL: input}, nil
}

// parseBare handles "host/path".
func parseBare(input string) (Identifier, error) {
	if !strings.Contains(input, "/") {
		return Identifier{}, fmt.Errorf("pkgid: malformed package identifier %q (want host/path)", input)
	}
	return Identifier{ID: input, URL: "https://" + input}, nil
}

func trimGitSuffix(s string) string {
	return strings.TrimSuffix(s, ".git")
}

// String returns the canonical identifier.
func (id Identifier) String() string {
	return id.ID
}
