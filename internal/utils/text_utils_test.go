package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	if got := tp.TruncateText("short", 100); got != "short" {
		t.Errorf("text within limit was modified: %q", got)
	}
	if got := tp.TruncateText("anything", 0); got != "anything" {
		t.Errorf("zero limit should disable truncation: %q", got)
	}

	long := strings.Repeat("a", 200)
	got := tp.TruncateText(long, 50)
	if !strings.HasPrefix(got, strings.Repeat("a", 50)) {
		t.Error("truncated text lost its prefix")
	}
	if len(got) >= 200 {
		t.Errorf("text was not truncated: %d bytes", len(got))
	}

	// Truncation must not split a multi-byte rune
	multibyte := strings.Repeat("é", 30)
	if !utf8.ValidString(tp.TruncateText(multibyte, 31)) {
		t.Error("truncation produced invalid UTF-8")
	}
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	if got := tp.SanitizeUTF8("already valid"); got != "already valid" {
		t.Errorf("valid text was modified: %q", got)
	}

	got := tp.SanitizeUTF8("bad\xffbytes")
	if !utf8.ValidString(got) {
		t.Errorf("sanitized text is not valid UTF-8: %q", got)
	}
	if !strings.Contains(got, "bad") || !strings.Contains(got, "bytes") {
		t.Errorf("sanitizing dropped valid content: %q", got)
	}
}
