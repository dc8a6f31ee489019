package redis

import (
	"strings"
	"testing"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"case folded", "GitHub", "github", true},
		{"trimmed", "  git ", "git", true},
		{"different", "git", "gitlab", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, kb := CacheKey(tt.a), CacheKey(tt.b)
			if (ka == kb) != tt.same {
				t.Errorf("CacheKey(%q)=%s CacheKey(%q)=%s", tt.a, ka, tt.b, kb)
			}
			if !strings.HasPrefix(ka, KeyPrefixCache) {
				t.Errorf("missing prefix: %s", ka)
			}
		})
	}
}
