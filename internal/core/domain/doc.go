// Package domain defines the core business entities for autojoin.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Meeting: A scheduled meeting and its join parameters
//   - Platform: The closed set of supported meeting services
//   - Trigger: The ephemeral binding of a meeting to its fire time
//   - JoinResult: The outcome of one join attempt
//   - Decision: The resolution of an account mismatch
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
