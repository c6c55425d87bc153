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


// Package scoring holds the pure relevance functions used by the index and the
// search engine.
//
// Application and file scores are prefix/substring heuristics over lowercased
// names, with usage-frequency and recency bonuses for applications. FuzzyScore
// is the secondary approximate-match signal blended in by the engine.
//
// All functions are deterministic given their inputs; callers pass the current
// time explicitly.
package scoring
