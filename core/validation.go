// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"math"
	"strings"
)

// ValidateAppEntry checks that an entry can be indexed.
func ValidateAppEntry(entry *AppEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidAppEntry)
	}

	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAppEntry, ErrEmptyName)
	}

	if strings.TrimSpace(entry.ExecutablePath) == "" {
		return fmt.Errorf("%w: %s: %w", ErrInvalidAppEntry, entry.Name, ErrEmptyPath)
	}

	return nil
}

// ValidateSearchResult checks that a result can be handed to the presentation layer.
func ValidateSearchResult(result *SearchResult) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", ErrInvalidSearchResult)
	}

	if result.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSearchResult, ErrEmptyTitle)
	}

	if math.IsNaN(result.Score) || result.Score < 0 || result.Score > 1 {
		return fmt.Errorf("%w: %w: %v", ErrInvalidSearchResult, ErrScoreOutOfRange, result.Score)
	}

	if err := ValidateCategory(result.Category); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSearchResult, err)
	}

	if err := ValidateAction(result.Action); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSearchResult, err)
	}

	return nil
}

// ValidateCategory checks the category kind and, for plugins, the plugin name.
func ValidateCategory(category Category) error {
	if category.Kind < KindApplication || category.Kind > KindCustomCommand {
		return fmt.Errorf("%w: kind %d", ErrInvalidCategory, category.Kind)
	}
	if category.Kind == KindPlugin && category.Plugin == "" {
		return fmt.Errorf("%w: plugin name is empty", ErrInvalidCategory)
	}
	return nil
}

// ValidateAction checks that an action carries the data it needs.
// CopyToClipboard with empty text is allowed.
func ValidateAction(action Action) error {
	switch a := action.(type) {
	case nil:
		return ErrMissingAction
	case ExecuteApplication:
		if a.Path == "" {
			return fmt.Errorf("%w: %s requires a path", ErrInvalidAction, a.Kind())
		}
	case OpenFile:
		if a.Path == "" {
			return fmt.Errorf("%w: %s requires a path", ErrInvalidAction, a.Kind())
		}
	case OpenURL:
		if a.URL == "" {
			return fmt.Errorf("%w: %s requires a url", ErrInvalidAction, a.Kind())
		}
	case ExecuteCommand:
		if a.Command == "" {
			return fmt.Errorf("%w: %s requires a command", ErrInvalidAction, a.Kind())
		}
	case PluginAction:
		if a.PluginID == "" {
			return fmt.Errorf("%w: %s requires a plugin id", ErrInvalidAction, a.Kind())
		}
	}
	return nil
}
