// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - MeetingSnapshotStore: Meeting persistence
//   - CredentialStore: Account secrets keyed by service and account
//   - RemoteControllerFactory: Browser surfaces for join attempts
//   - AppProbe / AppLauncher: Native meeting applications
//   - DecisionMaker: Account-mismatch resolution
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - JoinHistoryStore: Attempt history. Without it, history is not recorded.
//   - MetricsRecorder: Prometheus observations. NopMetrics is used otherwise.
//   - CalendarImporter: Only needed by the import command.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
