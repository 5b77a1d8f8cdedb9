package services

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UnknownClient is the sentinel key used when no usable address can be
// resolved. It buckets all such callers together, which is accepted.
const UnknownClient = "unknown"

var forwardHeaders = []string{
	"X-Forwarded-For",
	"X-Real-IP",
	"CF-Connecting-IP",
	"True-Client-IP",
}

// ClientIP returns the best-effort client address for rate and abuse
// bucketing. Proxy headers win over the socket address; the value is not
// validated as an IP, so consumers must tolerate garbage strings.
func ClientIP(c *fiber.Ctx) string {
	return resolveClientIP(func(name string) string {
		return c.Get(name)
	}, c.Context().RemoteAddr().String())
}

func resolveClientIP(header func(string) string, remoteAddr string) string {
	for _, name := range forwardHeaders {
		value := strings.TrimSpace(header(name))
		if value == "" || strings.EqualFold(value, UnknownClient) {
			continue
		}
		// X-Forwarded-For may carry a chain; the first hop is the client.
		if idx := strings.IndexByte(value, ','); idx >= 0 {
			value = strings.TrimSpace(value[:idx])
		}
		if value != "" {
			return value
		}
	}

	if remoteAddr != "" {
		if host, _, err := net.SplitHostPort(remoteAddr); err == nil && host != "" {
			return host
		}
		return remoteAddr
	}

	return UnknownClient
}
