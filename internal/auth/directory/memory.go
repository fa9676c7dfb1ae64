package directory

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "walletgate/pkg/domain-errors"
	"walletgate/pkg/secrets"
)

const tokenIssuer = "walletgate-directory"

// InMemoryDirectory is a self-contained directory for tests and local
// development. Access tokens are HS256 JWTs carrying a jti so revocation can
// be enforced immediately without a token round trip.
type InMemoryDirectory struct {
	mu         sync.Mutex
	accounts   map[string]*account // keyed by principal
	pending    map[string]string   // registration handle -> principal
	challenges map[string]string   // challenge context -> account ID
	revoked    map[string]struct{} // revoked jti set

	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

type account struct {
	id         string
	principal  string
	secretHash string
	confirmed  bool
}

// Option configures the in-memory directory.
type Option func(*InMemoryDirectory)

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(d *InMemoryDirectory) {
		d.now = now
	}
}

// WithTokenTTL overrides the access token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(d *InMemoryDirectory) {
		if ttl > 0 {
			d.tokenTTL = ttl
		}
	}
}

// NewInMemory constructs a directory signing tokens with the given key.
func NewInMemory(signingKey string, opts ...Option) *InMemoryDirectory {
	d := &InMemoryDirectory{
		accounts:   make(map[string]*account),
		pending:    make(map[string]string),
		challenges: make(map[string]string),
		revoked:    make(map[string]struct{}),
		signingKey: []byte(signingKey),
		tokenTTL:   24 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *InMemoryDirectory) RegisterPending(_ context.Context, principal, secret string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if acc, ok := d.accounts[principal]; ok && acc.confirmed {
		return "", dErrors.New(dErrors.CodeAlreadyRegistered, "an active account exists for this principal")
	}

	hash, err := secrets.Hash(secret)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeDirectoryError, "could not register pending account")
	}

	// Re-registering an unconfirmed principal replaces the earlier attempt.
	d.accounts[principal] = &account{
		id:         uuid.NewString(),
		principal:  principal,
		secretHash: hash,
	}

	handle := uuid.NewString()
	d.pending[handle] = principal
	return handle, nil
}

func (d *InMemoryDirectory) ConfirmRegistration(_ context.Context, handle string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	principal, ok := d.pending[handle]
	if !ok {
		return "", dErrors.New(dErrors.CodeDirectoryError, "unknown registration handle")
	}
	delete(d.pending, handle)

	acc, ok := d.accounts[principal]
	if !ok {
		return "", dErrors.New(dErrors.CodeDirectoryError, "pending account disappeared")
	}
	acc.confirmed = true
	return acc.id, nil
}

func (d *InMemoryDirectory) Authenticate(_ context.Context, principal string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	acc, ok := d.accounts[principal]
	if !ok || !acc.confirmed {
		return "", dErrors.New(dErrors.CodeUnknownPrincipal, "no confirmed account for this principal")
	}

	challengeCtx := uuid.NewString()
	d.challenges[challengeCtx] = acc.id
	return challengeCtx, nil
}

func (d *InMemoryDirectory) IssueAccessToken(_ context.Context, challengeContext string) (string, error) {
	d.mu.Lock()
	accountID, ok := d.challenges[challengeContext]
	if ok {
		delete(d.challenges, challengeContext)
	}
	d.mu.Unlock()

	if !ok {
		return "", dErrors.New(dErrors.CodeDirectoryError, "unknown challenge context")
	}

	now := d.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   accountID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeDirectoryError, "could not sign access token")
	}
	return token, nil
}

func (d *InMemoryDirectory) Validate(_ context.Context, accessToken string) (string, error) {
	claims, err := d.parse(accessToken)
	if err != nil {
		return "", err
	}

	d.mu.Lock()
	_, revoked := d.revoked[claims.ID]
	d.mu.Unlock()
	if revoked {
		return "", dErrors.New(dErrors.CodeUnauthenticated, "access token has been revoked")
	}
	return claims.Subject, nil
}

func (d *InMemoryDirectory) Revoke(_ context.Context, accessToken string) error {
	claims, err := d.parse(accessToken)
	if err != nil {
		// Revocation is idempotent; a token that no longer validates is
		// already unusable.
		return nil
	}

	d.mu.Lock()
	d.revoked[claims.ID] = struct{}{}
	d.mu.Unlock()
	return nil
}

func (d *InMemoryDirectory) parse(accessToken string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims,
		func(t *jwt.Token) (any, error) { return d.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(d.now),
	)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "invalid access token")
	}
	return claims, nil
}

var _ Directory = (*InMemoryDirectory)(nil)
