package wallet

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"walletgate/internal/auth/models"
	credmodels "walletgate/internal/credential/models"
	"walletgate/internal/platform/tracer"
	dErrors "walletgate/pkg/domain-errors"
)

// Session is an authenticated handle on the wallet. It carries the access
// token and the encrypted seed of one identity; every credential operation
// runs under its token, so revoking the session cuts off the whole surface.
type Session struct {
	wallet   *Wallet
	mu       sync.Mutex
	identity *models.IdentitySession

	// SignUpCredential is the self-issued registration credential minted at
	// sign-up confirmation, when enabled. It stays attached to the session
	// even when credential backup is skipped.
	SignUpCredential json.RawMessage
}

// DID returns the session's decentralized identifier.
func (s *Session) DID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.DID
}

// AccessToken returns the session's current access token.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.AccessToken
}

// EncryptedSeed returns the session's seed ciphertext, empty when the
// identity enrolled without backup and has not stored one yet.
func (s *Session) EncryptedSeed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.EncryptedSeed
}

// AccountID returns the directory account this session belongs to. Empty on
// a resumed session, which carries only the access token.
func (s *Session) AccountID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.AccountID
}

// Principal returns the login identifier this session was established for.
func (s *Session) Principal() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.Principal
}

// SignOut revokes the session's access token immediately.
func (s *Session) SignOut(ctx context.Context) (err error) {
	ctx, span := s.wallet.tracer.Start(ctx, tracer.SpanSignOut)
	defer func() { span.End(err) }()

	return s.wallet.auth.SignOut(ctx, s.AccessToken())
}

// StoreEncryptedSeed replaces the identity's backed-up seed ciphertext. An
// empty argument re-backs-up the ciphertext the session already holds, which
// is how an identity that enrolled with skip-backup opts back in.
func (s *Session) StoreEncryptedSeed(ctx context.Context, encryptedSeed string) (err error) {
	ctx, span := s.wallet.tracer.Start(ctx, tracer.SpanStoreSeed)
	defer func() { span.End(err) }()

	if encryptedSeed == "" {
		encryptedSeed = s.EncryptedSeed()
	}
	if encryptedSeed == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "session holds no encrypted seed to store")
	}

	if err := s.wallet.auth.StoreEncryptedSeed(ctx, s.AccessToken(), encryptedSeed); err != nil {
		return err
	}
	s.mu.Lock()
	s.identity.EncryptedSeed = encryptedSeed
	s.mu.Unlock()
	return nil
}

// SaveCredentials stores the batch under the session's identity. The batch
// is atomic: a duplicate ID anywhere leaves the store untouched.
func (s *Session) SaveCredentials(ctx context.Context, credentials []json.RawMessage) (records []credmodels.Record, err error) {
	ctx, span := s.wallet.tracer.Start(ctx, tracer.SpanSaveCredentials,
		tracer.Int64(tracer.AttrRecordCount, int64(len(credentials))),
	)
	defer func() { span.End(err) }()

	return s.wallet.credentials.Save(ctx, s.AccessToken(), credentials)
}

// GetCredentials lists the session's credentials in the order they were
// saved. A non-empty share request token narrows the result to credentials
// satisfying one of its type requirements.
func (s *Session) GetCredentials(ctx context.Context, shareRequestToken string) (records []credmodels.Record, err error) {
	ctx, span := s.wallet.tracer.Start(ctx, tracer.SpanGetCredentials,
		tracer.Bool(tracer.AttrFiltered, shareRequestToken != ""),
	)
	defer func() { span.End(err) }()

	return s.wallet.credentials.List(ctx, s.AccessToken(), shareRequestToken)
}

// DeleteCredential removes one credential by ID; absent IDs succeed.
func (s *Session) DeleteCredential(ctx context.Context, id string) (err error) {
	ctx, span := s.wallet.tracer.Start(ctx, tracer.SpanDeleteCredential)
	defer func() { span.End(err) }()

	return s.wallet.credentials.Delete(ctx, s.AccessToken(), id)
}

// DeleteAllCredentials wipes the session's credential store. Safe to repeat.
func (s *Session) DeleteAllCredentials(ctx context.Context) (err error) {
	ctx, span := s.wallet.tracer.Start(ctx, tracer.SpanDeleteCredentials)
	defer func() { span.End(err) }()

	return s.wallet.credentials.DeleteAll(ctx, s.AccessToken())
}

// issueRegistrationCredential mints the self-issued credential attesting
// that the identity completed enrollment, optionally persisting it.
func (s *Session) issueRegistrationCredential(ctx context.Context, persist bool) error {
	credential := map[string]any{
		"id":           "claimId:" + uuid.NewString(),
		"type":         []string{"VerifiableCredential", "RegistrationCredential"},
		"issuer":       s.DID(),
		"holder":       map[string]any{"id": s.DID()},
		"issuanceDate": time.Now().UTC().Format(time.RFC3339),
		"credentialSubject": map[string]any{
			"id":       s.DID(),
			"username": s.Principal(),
		},
	}
	raw, err := json.Marshal(credential)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not encode registration credential")
	}

	s.mu.Lock()
	s.SignUpCredential = raw
	s.mu.Unlock()

	if !persist {
		return nil
	}
	_, err = s.wallet.credentials.Save(ctx, s.AccessToken(), []json.RawMessage{raw})
	return err
}
