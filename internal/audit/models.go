package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Principal string
	AccountID string
	Action    string
	Reason    string
}

type AuditEvent string

const (
	EventSignUpInitiated    AuditEvent = "signup_initiated"
	EventSignUpConfirmed    AuditEvent = "signup_confirmed"
	EventSignInInitiated    AuditEvent = "signin_initiated"
	EventSignInConfirmed    AuditEvent = "signin_confirmed"
	EventSignedOut          AuditEvent = "signed_out"
	EventSeedRotated        AuditEvent = "seed_rotated"
	EventCredentialsSaved   AuditEvent = "credentials_saved"
	EventCredentialsDeleted AuditEvent = "credentials_deleted"
	EventAuthFailed         AuditEvent = "auth_failed"
)
