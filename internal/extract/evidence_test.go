package extract

import "testing"

func TestCleanSnippet(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "  Water   found on\nMars ", "Water found on Mars"},
		{"google news description", `<a href="https://news.google.com/rss/articles/abc" target="_blank">Water found on Mars</a>&nbsp;&nbsp;<font color="#6f6f6f">BBC</font>`, "Water found on Mars BBC"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"script skipped", "<p>Visible</p><script>var x = 1;</script>", "Visible"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanSnippet(tt.input); got != tt.expected {
				t.Errorf("CleanSnippet() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStripPublisherSuffix(t *testing.T) {
	tests := []struct {
		title     string
		publisher string
		expected  string
	}{
		{"Water found on Mars - BBC News", "BBC News", "Water found on Mars"},
		{"Water found on Mars | Reuters", "Reuters", "Water found on Mars"},
		{"Water found on Mars - BBC News", "", "Water found on Mars - BBC News"},
		{"Water found on Mars", "Reuters", "Water found on Mars"},
	}

	for _, tt := range tests {
		if got := StripPublisherSuffix(tt.title, tt.publisher); got != tt.expected {
			t.Errorf("StripPublisherSuffix(%q, %q) = %q, want %q", tt.title, tt.publisher, got, tt.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo world", 5); got != "héllo" {
		t.Errorf("Truncate by runes = %q, want %q", got, "héllo")
	}
	if got := Truncate("short", 200); got != "short" {
		t.Errorf("Truncate should not touch short strings, got %q", got)
	}
	if got := Truncate("anything", 0); got != "anything" {
		t.Errorf("Truncate with n=0 should be a no-op, got %q", got)
	}
}
