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

import "errors"

// Domain validation errors
var (
	// ErrInvalidAppEntry indicates an AppEntry failed validation.
	ErrInvalidAppEntry = errors.New("invalid app entry")

	// ErrInvalidSearchResult indicates a SearchResult failed validation.
	ErrInvalidSearchResult = errors.New("invalid search result")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyPath indicates the ExecutablePath field is empty.
	ErrEmptyPath = errors.New("executable path cannot be empty")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrScoreOutOfRange indicates a score outside [0, 1].
	ErrScoreOutOfRange = errors.New("score must be between 0 and 1")

	// ErrMissingAction indicates a result has no action.
	ErrMissingAction = errors.New("action is required")

	// ErrInvalidAction indicates an action lacks the data it needs.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidCategory indicates an unknown category kind.
	ErrInvalidCategory = errors.New("invalid category")
)
