package core

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"tags and newline", "<b>hi</b>\nthere", 100, "hi there"},
		{"crlf", "a\r\nb\rc", 100, "a b c"},
		{"trim", "  <img src=\"x.png\"> hello  ", 100, "hello"},
		{"only markup", "<br><i></i>", 100, ""},
		{"empty", "", 100, ""},
		{"whitespace", " \n\t ", 100, ""},
		{"lone angle bracket", "1 < 2", 100, "1 < 2"},
		{"exact cap", "abcde", 5, "abcde"},
		{"over cap", "abcdef", 5, "abcde" + Ellipsis},
		{"no cap", strings.Repeat("x", 300), 0, strings.Repeat("x", 300)},
		{"runes not bytes", "héllo wörld", 5, "héllo" + Ellipsis},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.in, tc.maxLen); got != tc.want {
				t.Errorf("Sanitize(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestSanitizeTruncatesLongMessage(t *testing.T) {
	in := strings.Repeat("abcdefghij", 50)

	got := Sanitize(in, 200)
	if n := utf8.RuneCountInString(got); n != 201 {
		t.Fatalf("expected 201 runes, got %d", n)
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-8:])
	}
	if !strings.HasPrefix(got, in[:200]) {
		t.Error("expected first 200 characters to match input")
	}
}

func TestSanitizeNoNewlines(t *testing.T) {
	got := Sanitize("line one\n<p>line\ntwo</p>\r\n", 0)
	if strings.ContainsAny(got, "\r\n") {
		t.Errorf("expected no line breaks, got %q", got)
	}
}
