package wallet

import authservice "walletgate/internal/auth/service"

// Options control enrollment side effects. They mirror the per-deployment
// choices a hosting application makes once, not per-call parameters.
type Options struct {
	// SkipBackupEncryptedSeed leaves the vault empty at sign-up; the session
	// still carries the ciphertext and the caller may back it up later.
	SkipBackupEncryptedSeed bool

	// SkipBackupCredentials disables persisting the registration credential
	// minted at sign-up. The credential is still attached to the session.
	SkipBackupCredentials bool

	// IssueSignUpCredential mints a self-issued registration credential when
	// a sign-up is confirmed.
	IssueSignUpCredential bool

	// DIDMethod selects the method for session DIDs; empty means the first
	// entry of the allow-list.
	DIDMethod string

	// SupportedDIDMethods is the wallet-wide DID method allow-list; empty
	// means the built-in defaults.
	SupportedDIDMethods []string

	// DeviceBinding rejects sign-in confirmations from a different device
	// class than the one that initiated the flow.
	DeviceBinding bool
}

// AuthConfig maps the enrollment options onto the authenticator's config so
// wiring code sets each knob exactly once.
func (o Options) AuthConfig() authservice.Config {
	return authservice.Config{
		DIDMethod:            o.DIDMethod,
		SupportedDIDMethods:  o.SupportedDIDMethods,
		SkipSeedBackup:       o.SkipBackupEncryptedSeed,
		DeviceBindingEnabled: o.DeviceBinding,
	}
}
