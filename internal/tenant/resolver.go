package tenant

import (
	"net/http"
	"strings"
)

// Resolution sources, in priority order. Reported in metrics and useful in
// logs when debugging which strategy produced an identifier.
const (
	SourceHeader    = "header"
	SourceSubdomain = "subdomain"
	SourceQuery     = "query"
	SourceCookie    = "cookie"
)

// HeaderWorkspaceID is the explicit workspace header, used for
// service-to-service or explicitly-scoped calls.
const HeaderWorkspaceID = "X-Workspace-ID"

// ExtractIdentifier pulls a raw workspace identifier from the request.
// Priority: explicit header, then Host subdomain, then the "workspace" query
// parameter, then the "workspace_id" cookie. First non-empty value wins, no
// merging. Returns the identifier and the source it came from, or "" when
// nothing matched.
func ExtractIdentifier(req *http.Request) (string, string) {
	if v := req.Header.Get(HeaderWorkspaceID); v != "" {
		return v, SourceHeader
	}

	if sub := subdomainOf(req.Host); sub != "" {
		return sub, SourceSubdomain
	}

	if v := req.URL.Query().Get("workspace"); v != "" {
		return v, SourceQuery
	}

	if cookie, err := req.Cookie("workspace_id"); err == nil && cookie.Value != "" {
		return cookie.Value, SourceCookie
	}

	return "", ""
}

// subdomainOf returns the leftmost Host label when it can be treated as a
// workspace slug. "www", "localhost" and any label containing a port
// separator never yield an identifier.
func subdomainOf(host string) string {
	sub := strings.Split(host, ".")[0]
	if sub == "" || sub == "www" || sub == "localhost" || strings.Contains(sub, ":") {
		return ""
	}
	return sub
}

// looksLikeID reports whether an identifier has the shape of a generated
// canonical id rather than a human-chosen slug: it starts with the id prefix
// or is at least 20 characters long. Shape sniffing is brittle but kept for
// compatibility with identifiers already in circulation; a future API should
// carry an explicit kind instead (see DESIGN.md).
func looksLikeID(identifier string) bool {
	return strings.HasPrefix(identifier, "cl") || len(identifier) >= 20
}
