// Package wallet is the composition root of the identity wallet. It fronts
// the session authenticator, the seed vault and the credential store behind
// one facade, and owns the cross-cutting tracing around every operation.
package wallet

import (
	"context"
	"log/slog"

	"walletgate/internal/auth/models"
	authservice "walletgate/internal/auth/service"
	credservice "walletgate/internal/credential/service"
	"walletgate/internal/platform/tracer"
)

// Wallet orchestrates wallet operations. All state lives in the underlying
// services; the facade itself is safe for concurrent use.
type Wallet struct {
	opts        Options
	auth        *authservice.Service
	credentials *credservice.Service
	tracer      tracer.Tracer
	logger      *slog.Logger
}

// Option configures the Wallet.
type Option func(*Wallet)

// WithTracer sets the tracer used around facade operations.
func WithTracer(tr tracer.Tracer) Option {
	return func(w *Wallet) { w.tracer = tr }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wallet) { w.logger = logger }
}

// New builds the wallet facade.
func New(opts Options, auth *authservice.Service, credentials *credservice.Service, wopts ...Option) *Wallet {
	w := &Wallet{
		opts:        opts,
		auth:        auth,
		credentials: credentials,
	}
	for _, opt := range wopts {
		opt(w)
	}
	if w.tracer == nil {
		w.tracer = tracer.NewNoop()
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// SignUp initiates enrollment and returns the confirmation token.
func (w *Wallet) SignUp(ctx context.Context, username, password string, template models.MessageTemplate, userAgent string) (token string, err error) {
	ctx, span := w.tracer.Start(ctx, tracer.SpanSignUp,
		tracer.String(tracer.AttrPrincipal, tracer.HashPrincipal(username)),
		tracer.String(tracer.AttrFlow, string(models.FlowSignUp)),
	)
	defer func() { span.End(err) }()

	return w.auth.SignUp(ctx, authservice.SignUpRequest{
		Principal: username,
		Password:  password,
		Template:  template,
		UserAgent: userAgent,
	})
}

// ConfirmSignUp completes enrollment and returns the authenticated session.
func (w *Wallet) ConfirmSignUp(ctx context.Context, token, code string) (session *Session, err error) {
	ctx, span := w.tracer.Start(ctx, tracer.SpanConfirmSignUp,
		tracer.String(tracer.AttrFlow, string(models.FlowSignUp)),
	)
	defer func() { span.End(err) }()

	identity, err := w.auth.ConfirmSignUp(ctx, token, code)
	if err != nil {
		return nil, err
	}
	session = w.newSession(identity)

	if w.opts.IssueSignUpCredential {
		if err := session.issueRegistrationCredential(ctx, !w.opts.SkipBackupCredentials); err != nil {
			// Enrollment already succeeded; losing the welcome credential is
			// not worth failing the session for.
			w.logger.WarnContext(ctx, "registration credential not issued", "error", err)
		}
	}
	return session, nil
}

// SignIn initiates authentication and returns the confirmation token.
func (w *Wallet) SignIn(ctx context.Context, username, password string, template models.MessageTemplate, userAgent string) (token string, err error) {
	ctx, span := w.tracer.Start(ctx, tracer.SpanSignIn,
		tracer.String(tracer.AttrPrincipal, tracer.HashPrincipal(username)),
		tracer.String(tracer.AttrFlow, string(models.FlowSignIn)),
	)
	defer func() { span.End(err) }()

	return w.auth.SignIn(ctx, authservice.SignInRequest{
		Principal: username,
		Password:  password,
		Template:  template,
		UserAgent: userAgent,
	})
}

// ConfirmSignIn completes authentication and returns the session.
func (w *Wallet) ConfirmSignIn(ctx context.Context, token, code, userAgent string) (session *Session, err error) {
	ctx, span := w.tracer.Start(ctx, tracer.SpanConfirmSignIn,
		tracer.String(tracer.AttrFlow, string(models.FlowSignIn)),
	)
	defer func() { span.End(err) }()

	identity, err := w.auth.ConfirmSignIn(ctx, token, code, userAgent)
	if err != nil {
		return nil, err
	}
	return w.newSession(identity), nil
}

// ResumeSession builds a session handle around an access token issued
// earlier, for callers that hold only the token. The token is not checked
// here; an invalid or revoked one surfaces as unauthenticated on the first
// operation.
func (w *Wallet) ResumeSession(accessToken string) *Session {
	return w.newSession(&models.IdentitySession{AccessToken: accessToken})
}

func (w *Wallet) newSession(identity *models.IdentitySession) *Session {
	return &Session{wallet: w, identity: identity}
}
