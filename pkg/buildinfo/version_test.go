package buildinfo

import (
	"strings"
	"testing"
)

func TestCacheScope(t *testing.T) {
	v, c := Version, Commit
	t.Cleanup(func() { Version, Commit = v, c })

	tests := []struct {
		version, commit, want string
	}{
		{"v0.3.0", "abc", "v0.3.0:"},
		{"dev", "none", "dev:"},
		{"dev", "0123456789abcdef", "dev-0123456789ab:"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := CacheScope(); got != tt.want {
			t.Errorf("CacheScope(%s, %s) = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} "+Version) {
		t.Errorf("Template = %q", got)
	}
}
