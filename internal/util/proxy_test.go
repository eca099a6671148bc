package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "http://secure-proxy.local:3128", "localhost, .internal,gnews.io")

	tests := []struct {
		url      string
		expected string
	}{
		{"http://newsdata.io/api/1/news", "http://proxy.local:3128"},
		{"https://serpapi.com/search", "http://secure-proxy.local:3128"},
		{"http://localhost:11434/api/generate", ""},
		{"http://ml.internal/predict", ""},
		{"https://gnews.io/api/v4/search", ""},
		{"https://api.gnews.io/v4", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tt.url, nil)
			if err != nil {
				t.Fatal(err)
			}
			got, err := proxy(req)
			if err != nil {
				t.Fatalf("proxy func failed: %v", err)
			}

			gotStr := ""
			if got != nil {
				gotStr = got.String()
			}
			if gotStr != tt.expected {
				t.Errorf("proxy for %s = %q, want %q", tt.url, gotStr, tt.expected)
			}
		})
	}
}

func TestNewProxyFunc_HTTPOnly(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "", "")

	req, _ := http.NewRequest(http.MethodGet, "https://serpapi.com/search", nil)
	got, err := proxy(req)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Host != "proxy.local:3128" {
		t.Errorf("expected HTTPS traffic to use the HTTP proxy, got %v", got)
	}
}

func TestNoProxyList_Wildcard(t *testing.T) {
	if !parseNoProxy("*").matches("anything.example") {
		t.Error("expected * to bypass every host")
	}
	if parseNoProxy("").matches("example.com") {
		t.Error("expected empty list to bypass nothing")
	}
}
