package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Source", KeySource, "intro.md", Source("intro.md")},
		{"Container", KeyContainer, "markdown-content", Container("markdown-content")},
		{"LoadID", KeyLoadID, "abc-123", LoadID("abc-123")},
		{"Path", KeyPath, "../content/intro.md", Path("../content/intro.md")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"UserAgent", KeyUserAgent, "curl/8", UserAgent("curl/8")},
		{"RemoteAddr", KeyRemoteAddr, "127.0.0.1:9", RemoteAddr("127.0.0.1:9")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.attr.Key != tc.attrKey {
				t.Fatalf("key mismatch: got %q want %q", tc.attr.Key, tc.attrKey)
			}
			if got := tc.attr.Value.String(); got != tc.attrVal {
				t.Fatalf("value mismatch: got %q want %q", got, tc.attrVal)
			}
		})
	}
}

func TestIntHelpers(t *testing.T) {
	if a := Attempt(3); a.Key != KeyAttempt || a.Value.Int64() != 3 {
		t.Fatalf("unexpected attempt attr: %v", a)
	}
	if a := Status(404); a.Key != KeyStatus || a.Value.Int64() != 404 {
		t.Fatalf("unexpected status attr: %v", a)
	}
	if a := Bytes(128); a.Key != KeyBytes || a.Value.Int64() != 128 {
		t.Fatalf("unexpected bytes attr: %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should produce empty value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("unexpected error value: %q", a.Value.String())
	}
}
