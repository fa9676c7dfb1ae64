package models

import (
	"strings"
	"time"

	dErrors "walletgate/pkg/domain-errors"
)

// Flow identifies which two-phase authentication flow a challenge belongs to.
// A challenge issued for one flow can never confirm the other; the pending
// state machine is keyed by (correlation token, flow) so that confirming a
// sign-up that was never initiated is unrepresentable.
type Flow string

const (
	FlowSignUp Flow = "sign_up"
	FlowSignIn Flow = "sign_in"
)

// CodePlaceholder is substituted with the generated OTP code when rendering
// a message template.
const CodePlaceholder = "{{CODE}}"

// MessageTemplate describes the out-of-band message carrying the OTP code.
type MessageTemplate struct {
	Message string
	Subject string
}

// Validate rejects templates that cannot carry a code.
func (t MessageTemplate) Validate() error {
	if !strings.Contains(t.Message, CodePlaceholder) {
		return dErrors.New(dErrors.CodeInvalidInput, "message template is missing the {{CODE}} placeholder")
	}
	return nil
}

// Render substitutes the code into the message body.
func (t MessageTemplate) Render(code string) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return strings.ReplaceAll(t.Message, CodePlaceholder, code), nil
}

// Challenge is a pending OTP challenge correlated to a sign-up or sign-in
// attempt. The Secret and DirectoryRef fields are the associated data of the
// pending state: a sign-up carries the caller's secret and the directory
// registration handle, a sign-in carries the directory challenge context.
type Challenge struct {
	Token        string
	Principal    string
	Code         string
	Flow         Flow
	DirectoryRef string
	Secret       string
	Fingerprint  string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	Consumed     bool
}

// Expired reports whether the challenge can no longer succeed.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// IdentitySession is an authenticated wallet session. It either does not
// exist or has both AccessToken and EncryptedSeed populated — the only
// exception is a sign-in against an enrollment that opted out of seed backup,
// where EncryptedSeed stays empty until the caller stores one.
type IdentitySession struct {
	AccessToken   string
	EncryptedSeed string
	Password      string
	Principal     string
	AccountID     string
	DID           string
}
