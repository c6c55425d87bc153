// Package index maintains the in-memory application and file indexes.
//
// A Store holds two independently replaceable snapshots, one per index kind.
// Reads are lock-free loads of immutable snapshots; a rebuild builds new
// collections off to the side and publishes each with a single atomic swap.
// The only in-place mutation is RecordUsage, which copies the application
// snapshot, bumps one entry and swaps the copy in.
//
// A Builder owns the Store. Rebuild runs two passes concurrently:
//
//   - The application pass lists applications from an AppProvider and keys
//     them by lowercased display name. When the provider fails, the previous
//     application index is kept unless WithClearAppsOnFailure is set.
//   - The file pass scans each include root one level deep on a worker pool,
//     skipping excluded paths and anything that is not a regular file.
//
// File entries are keyed by lowercased file name, so two files with the same
// name in different roots collide. The one from the root listed last in the
// configuration wins.
//
// A Watcher can trigger rebuilds when the include roots change.
package index
