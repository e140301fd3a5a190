package engine

import (
	"context"
	"net/http"

	stealth "github.com/anatolykoptev/go-stealth"
)

// Re-export stealth types and functions for engine consumers.
type BrowserClient = stealth.BrowserClient

type RetryConfig = stealth.RetryConfig

var DefaultRetryConfig = stealth.DefaultRetryConfig

func ChromeHeaders() map[string]string { return stealth.ChromeHeaders() }
func RandomUserAgent() string          { return stealth.RandomUserAgent() }

func RetryHTTP(ctx context.Context, rc stealth.RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return stealth.RetryHTTP(ctx, rc, fn)
}
