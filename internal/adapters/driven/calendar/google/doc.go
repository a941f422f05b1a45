// Package google imports meetings from Google Calendar.
//
// The importer reads upcoming events from one calendar with the read-only
// calendar scope. OAuth tokens are kept in the credential store under
// TokenService, keyed by OAuth client id, and refreshed tokens are written
// back as they change.
package google
