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


// Package storage provides the persistence abstraction for launcher history.
//
// The search indexes themselves live only in memory. What survives a restart
// is the usage history that feeds ranking and the record of which result was
// picked for which query:
//
//   - UsageRepository: per-application usage counters and last-used instants
//   - SelectionRepository: chosen results, most recent first
//
// Records are encoded with mus-go serializers defined in this package.
//
// # Usage
//
// Open an in-memory backend for tests or ephemeral sessions:
//
//	backend, err := badger.OpenBackend("", true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	usage := badger.NewUsageRepository(backend)
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
