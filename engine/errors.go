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


package engine

import "errors"

var (
	// ErrConfigRequired is returned when a config store is not provided.
	ErrConfigRequired = errors.New("config store required")

	// ErrIndexUnavailable wraps failures of the application or file source.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrPluginFailure wraps failures of the plugin source.
	ErrPluginFailure = errors.New("plugin failure")

	// ErrPlatformFailure wraps failures performing a result's action.
	ErrPlatformFailure = errors.New("platform failure")
)
