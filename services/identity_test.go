package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func headerMap(m map[string]string) func(string) string {
	return func(name string) string {
		return m[name]
	}
}

func TestResolveClientIP_ForwardedFor(t *testing.T) {
	ip := resolveClientIP(headerMap(map[string]string{
		"X-Forwarded-For": "203.0.113.7",
	}), "10.0.0.1:443")
	assert.Equal(t, "203.0.113.7", ip)
}

func TestResolveClientIP_ForwardedForChainTakesFirstHop(t *testing.T) {
	ip := resolveClientIP(headerMap(map[string]string{
		"X-Forwarded-For": "203.0.113.7, 70.41.3.18, 150.172.238.178",
	}), "10.0.0.1:443")
	assert.Equal(t, "203.0.113.7", ip)
}

func TestResolveClientIP_HeaderPrecedence(t *testing.T) {
	ip := resolveClientIP(headerMap(map[string]string{
		"X-Forwarded-For": "203.0.113.7",
		"X-Real-IP":       "198.51.100.9",
	}), "10.0.0.1:443")
	assert.Equal(t, "203.0.113.7", ip, "X-Forwarded-For wins over X-Real-IP")
}

func TestResolveClientIP_SkipsUnknownHeaderValue(t *testing.T) {
	ip := resolveClientIP(headerMap(map[string]string{
		"X-Forwarded-For": "unknown",
		"X-Real-IP":       "198.51.100.9",
	}), "10.0.0.1:443")
	assert.Equal(t, "198.51.100.9", ip)
}

func TestResolveClientIP_CloudflareHeader(t *testing.T) {
	ip := resolveClientIP(headerMap(map[string]string{
		"CF-Connecting-IP": "203.0.113.7",
	}), "10.0.0.1:443")
	assert.Equal(t, "203.0.113.7", ip)
}

func TestResolveClientIP_FallsBackToRemoteAddr(t *testing.T) {
	ip := resolveClientIP(headerMap(nil), "192.0.2.4:51234")
	assert.Equal(t, "192.0.2.4", ip)
}

func TestResolveClientIP_RemoteAddrWithoutPort(t *testing.T) {
	ip := resolveClientIP(headerMap(nil), "192.0.2.4")
	assert.Equal(t, "192.0.2.4", ip)
}

func TestResolveClientIP_NothingResolvable(t *testing.T) {
	ip := resolveClientIP(headerMap(nil), "")
	assert.Equal(t, UnknownClient, ip)
}
