package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcluded(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		patterns []string
		want     bool
	}{
		{"suffix glob", "/home/u/Downloads/a.tmp", []string{"*.tmp"}, true},
		{"suffix glob miss", "/home/u/Downloads/a.txt", []string{"*.tmp", "*.log"}, false},
		{"second pattern", "/var/log/app.log", []string{"*.tmp", "*.log"}, true},
		{"prefix and suffix", "/tmp/cache/a.bin", []string{"/tmp/*.bin"}, true},
		{"prefix miss", "/home/cache/a.bin", []string{"/tmp/*.bin"}, false},
		{"overlapping parts too short", "/ab", []string{"/ab*b"}, false},
		{"no star is substring", "/home/u/node_modules/x.js", []string{"node_modules"}, true},
		{"two stars are literal", "/home/u/a.tmp", []string{"*a*"}, false},
		{"two stars literal match", "/home/u/*a*/f", []string{"*a*"}, true},
		{"no patterns", "/home/u/a.tmp", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excluded(tt.path, tt.patterns))
		})
	}
}
