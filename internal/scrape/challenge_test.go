package scrape

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectChallenge_Markers(t *testing.T) {
	longBody := make([]byte, 200)
	for i := range longBody {
		longBody[i] = 'x'
	}

	tests := []struct {
		name  string
		title string
		body  string
		want  bool
	}{
		{"clean page", "Dry Bulk Report", string(longBody), false},
		{"challenge in title", "Challenge Validation", string(longBody), true},
		{"checking browser", "Report", "Checking your browser before accessing " + string(longBody), true},
		{"just a moment", "Just a moment...", string(longBody), true},
		{"captcha", "Report", "please solve this CAPTCHA " + string(longBody), true},
		{"security check", "Security Check", string(longBody), true},
		{"bot protection", "Report", "This site is under bot protection. " + string(longBody), true},
		{"cloudflare", "Report", "Performance and security by Cloudflare. " + string(longBody), true},
		{"ddos protection", "Report", "DDoS protection active. " + string(longBody), true},
		{"please wait", "Report", "Please wait while we verify your request. " + string(longBody), true},
		{"long interstitial no title", "", "Security check in progress. Bot protection by DDoS protection, please wait. " + string(longBody), true},
		{"tiny body", "Report", "loading", true},
		{"empty body", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectChallenge(tt.title, tt.body))
		})
	}
}

func TestDetectBlock(t *testing.T) {
	assert.False(t, DetectBlock(nil))

	ok := &http.Response{StatusCode: 200, Header: http.Header{}}
	assert.False(t, DetectBlock(ok))

	blocked := &http.Response{StatusCode: 403, Header: http.Header{}}
	blocked.Header.Set("cf-ray", "abc123")
	assert.True(t, DetectBlock(blocked))

	cfServer := &http.Response{StatusCode: 503, Header: http.Header{}}
	cfServer.Header.Set("server", "cloudflare")
	assert.True(t, DetectBlock(cfServer))

	plain403 := &http.Response{StatusCode: 403, Header: http.Header{}}
	assert.False(t, DetectBlock(plain403))
}
