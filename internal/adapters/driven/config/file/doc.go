// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the autojoin data directory.
//
// Adapters:
//   - ConfigStore: TOML settings (config.toml)
//   - SnapshotStore: JSON meeting snapshot (meetings.json)
package file
