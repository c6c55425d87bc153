package core

import (
	"errors"
	"math"
	"testing"
)

func TestValidateAppEntry(t *testing.T) {
	tests := []struct {
		name    string
		entry   *AppEntry
		wantErr error
	}{
		{
			name:    "valid entry",
			entry:   &AppEntry{Name: "Firefox", ExecutablePath: "/usr/bin/firefox"},
			wantErr: nil,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantErr: ErrInvalidAppEntry,
		},
		{
			name:    "blank name",
			entry:   &AppEntry{Name: "   "},
			wantErr: ErrEmptyName,
		},
		{
			name:    "missing executable",
			entry:   &AppEntry{Name: "Firefox"},
			wantErr: ErrEmptyPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAppEntry(tt.entry)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAppEntry() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAppEntry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSearchResult(t *testing.T) {
	valid := NewSearchResult("Calculator", "").WithScore(0.5)

	tests := []struct {
		name    string
		result  *SearchResult
		wantErr error
	}{
		{
			name:    "valid result",
			result:  &valid,
			wantErr: nil,
		},
		{
			name:    "nil result",
			result:  nil,
			wantErr: ErrInvalidSearchResult,
		},
		{
			name:    "empty title",
			result:  &SearchResult{Action: CopyToClipboard{}, Category: CategoryFile},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "score above one",
			result:  &SearchResult{Title: "x", Score: 1.5, Action: CopyToClipboard{}, Category: CategoryFile},
			wantErr: ErrScoreOutOfRange,
		},
		{
			name:    "NaN score",
			result:  &SearchResult{Title: "x", Score: math.NaN(), Action: CopyToClipboard{}, Category: CategoryFile},
			wantErr: ErrScoreOutOfRange,
		},
		{
			name:    "missing action",
			result:  &SearchResult{Title: "x", Category: CategoryFile},
			wantErr: ErrMissingAction,
		},
		{
			name:    "plugin category without name",
			result:  &SearchResult{Title: "x", Action: CopyToClipboard{}, Category: Category{Kind: KindPlugin}},
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "zero category",
			result:  &SearchResult{Title: "x", Action: CopyToClipboard{}},
			wantErr: ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchResult(tt.result)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSearchResult() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSearchResult() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAction(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		wantErr bool
	}{
		{"application with path", ExecuteApplication{Path: "/bin/app"}, false},
		{"application without path", ExecuteApplication{}, true},
		{"open file without path", OpenFile{}, true},
		{"open url", OpenURL{URL: "https://example.com"}, false},
		{"open url without url", OpenURL{}, true},
		{"empty clipboard text", CopyToClipboard{}, false},
		{"command without command", ExecuteCommand{}, true},
		{"plugin without id", PluginAction{}, true},
		{"plugin with id", PluginAction{PluginID: "Calculator"}, false},
		{"nil action", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAction(tt.action)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAction() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
