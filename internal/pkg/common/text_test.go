package common

import "testing"

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Kimchi Fried Rice", "Kimchi Fried Rice"},
		{"hashtags dropped", "Easy Pasta #shorts #recipe", "Easy Pasta"},
		{"html entities decoded", "Mac &amp; Cheese", "Mac & Cheese"},
		{"hashtag in the middle", "Best #viral Ramen Hack", "Best Ramen Hack"},
		{"whitespace collapsed", "Soup   Recipe", "Soup Recipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitle(tt.input); got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractFirstURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"none", "no links here", ""},
		{"simple", "recipe at https://example.com/pasta yum", "https://example.com/pasta"},
		{"trailing punctuation trimmed", "see https://example.com/a.", "https://example.com/a"},
		{"closing paren trimmed", "(https://example.com/b)", "https://example.com/b"},
		{"first of several", "https://a.com then https://b.com", "https://a.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFirstURL(tt.input); got != tt.want {
				t.Errorf("ExtractFirstURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestYouTubeID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"watch url", "https://www.youtube.com/watch?v=abc123", "abc123"},
		{"share url", "https://youtu.be/xyz789", "xyz789"},
		{"shorts url", "https://www.youtube.com/shorts/sh0rt1", "sh0rt1"},
		{"shorts with suffix", "https://youtube.com/shorts/sh0rt1/extra", "sh0rt1"},
		{"mobile host", "https://m.youtube.com/watch?v=mob1", "mob1"},
		{"non-youtube", "https://example.com/watch?v=abc", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := YouTubeID(tt.input); got != tt.want {
				t.Errorf("YouTubeID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestYouTubeThumbnail(t *testing.T) {
	got := YouTubeThumbnail("https://www.youtube.com/watch?v=abc123")
	want := "https://i.ytimg.com/vi/abc123/maxresdefault.jpg"
	if got != want {
		t.Errorf("YouTubeThumbnail = %q, want %q", got, want)
	}
	if got := YouTubeThumbnail("https://example.com/video"); got != "" {
		t.Errorf("YouTubeThumbnail for non-YouTube URL = %q, want empty", got)
	}
}

func TestHostFromURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.allrecipes.com/recipe/1", "allrecipes.com"},
		{"https://youtu.be/abc", "youtu.be"},
		{"not a url", ""},
	}
	for _, tt := range tests {
		if got := HostFromURL(tt.input); got != tt.want {
			t.Errorf("HostFromURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase hyphenated", "Kimchi Fried Rice", "kimchi-fried-rice"},
		{"punctuation stripped", "Mom's Best Stew!", "moms-best-stew"},
		{"hangul kept", "김치 볶음밥", "김치-볶음밥"},
		{"empty falls back", "!!!", "recipe"},
		{"underscores fold", "slow_cooked_beef", "slow-cooked-beef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "", "c"); got != "c" {
		t.Errorf("FirstNonEmpty = %q, want %q", got, "c")
	}
	if got := FirstNonEmpty(); got != "" {
		t.Errorf("FirstNonEmpty() = %q, want empty", got)
	}
}

func TestHasHangul(t *testing.T) {
	if !HasHangul("된장찌개 recipe") {
		t.Error("expected hangul to be detected")
	}
	if HasHangul("plain english") {
		t.Error("did not expect hangul in plain english")
	}
}
