// Package request classifies API callers.
package request

import "strings"

const (
	ClientWeb    = "web"
	ClientCLI    = "cli"
	ClientMobile = "mobile"
)

// ResolveClientType prefers the X-Client-Type header and falls back to
// sniffing the user agent. Unknown callers are treated as web clients.
func ResolveClientType(header, userAgent string) string {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case ClientWeb:
		return ClientWeb
	case ClientCLI:
		return ClientCLI
	case ClientMobile:
		return ClientMobile
	}

	ua := strings.ToLower(userAgent)
	switch {
	case strings.HasPrefix(ua, "clock/"), strings.HasPrefix(ua, "go-http-client"), strings.HasPrefix(ua, "curl/"):
		return ClientCLI
	case strings.Contains(ua, "okhttp"), strings.Contains(ua, "cfnetwork"):
		return ClientMobile
	}
	return ClientWeb
}

// IsWebClient reports whether tokens should travel as cookies.
func IsWebClient(clientType string) bool {
	return clientType == ClientWeb
}
