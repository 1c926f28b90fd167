package scrape

import (
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrChallenge marks a response that is a bot-protection interstitial rather
// than report content. Callers escalate to the next fetch strategy on it.
var ErrChallenge = eris.New("scrape: challenge page")

// challengeMarkers are phrases that identify a protection interstitial. All
// comparisons are case-insensitive.
var challengeMarkers = []string{
	"challenge validation",
	"security check",
	"bot protection",
	"cloudflare",
	"please wait",
	"checking your browser",
	"ddos protection",
	"cf-browser-verification",
	"just a moment",
	"enable javascript and cookies",
	"verify you are human",
	"access denied",
	"captcha",
}

// DetectChallenge reports whether a page is a protection interstitial. A
// marker in the title or body, or a near-empty body, both count: the
// challenge shell renders almost no text.
func DetectChallenge(title, body string) bool {
	lowerTitle := strings.ToLower(title)
	lowerBody := strings.ToLower(body)
	for _, m := range challengeMarkers {
		if strings.Contains(lowerTitle, m) || strings.Contains(lowerBody, m) {
			return true
		}
	}
	return len(strings.TrimSpace(body)) < 100
}

// DetectBlock checks response metadata for anti-bot protection before the
// body is even parsed.
func DetectBlock(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode == 403 || resp.StatusCode == 503 {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("cf-cache-status") != "" {
			return true
		}
		if resp.Header.Get("server") == "cloudflare" {
			return true
		}
	}
	return false
}
