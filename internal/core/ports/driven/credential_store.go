package driven

// CredentialStore is the secure secret store keyed by service and account.
// Services are namespaced per platform (see domain.Platform.CredentialService)
// so credentials never collide across platforms.
type CredentialStore interface {
	// Get returns the secret. An absent secret returns domain.ErrNotFound.
	Get(service, account string) (string, error)

	// Set stores or replaces a secret.
	Set(service, account, secret string) error

	// Delete removes a secret. An absent secret returns domain.ErrNotFound.
	Delete(service, account string) error
}
