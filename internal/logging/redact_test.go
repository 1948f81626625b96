package logging

import (
	"net/http"
	"testing"
)

func TestIsSensitiveHeader(t *testing.T) {
	cases := map[string]bool{
		"Authorization": true,
		"X-Api-Key":     true,
		"Cookie":        true,
		"Content-Type":  false,
		"User-Agent":    false,
	}
	for name, want := range cases {
		if got := IsSensitiveHeader(name); got != want {
			t.Errorf("IsSensitiveHeader(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRedactHeaderValueBearer(t *testing.T) {
	got := RedactHeaderValue("Authorization", "Bearer abcdef123456")
	if got != "Bearer ***" {
		t.Errorf("got %q, want %q", got, "Bearer ***")
	}
}

func TestRedactHeaderValueLongSecret(t *testing.T) {
	got := RedactHeaderValue("X-Api-Key", "sk_live_1234567890")
	if got != "sk_l***7890" {
		t.Errorf("got %q, want %q", got, "sk_l***7890")
	}
}

func TestRedactHeaderValueShortSecret(t *testing.T) {
	got := RedactHeaderValue("X-Secret", "abc")
	if got != "***" {
		t.Errorf("got %q, want %q", got, "***")
	}
}

func TestRedactHeaderValuePassesThroughNonSensitive(t *testing.T) {
	got := RedactHeaderValue("Content-Type", "application/json")
	if got != "application/json" {
		t.Errorf("got %q, want unchanged value", got)
	}
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secrettoken123")
	h.Set("Content-Type", "text/html")

	got := RedactHeaders(h)
	if got["Content-Type"] != "text/html" {
		t.Errorf("Content-Type should pass through, got %q", got["Content-Type"])
	}
	if got["Authorization"] != "Bearer ***" {
		t.Errorf("Authorization = %q, want masked", got["Authorization"])
	}
}
