package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// Justification: These are core error primitives used at every trust boundary.
// Unit tests ensure invariants like "wrapped domain errors preserve original code"
// and "errors.Is matches by code" are maintained.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeUnknownPrincipal, Message: "no confirmed account"}
		s.Equal("no confirmed account", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeVerificationFailed}
		s.Equal("verification_failed", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("smtp handshake failed")
		err := &Error{Code: CodeDeliveryError, Message: "delivery failed", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeNotFound, Message: "not found"}
		s.Nil(err.Unwrap())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeUnauthenticated, Message: "missing token"}
		err2 := &Error{Code: CodeUnauthenticated, Message: "revoked token"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeVerificationFailed}
		err2 := &Error{Code: CodeUnauthenticated}
		s.False(err1.Is(err2))
	})

	s.Run("does not match non-domain errors", func() {
		err1 := &Error{Code: CodeNotFound}
		err2 := errors.New("not found")
		s.False(err1.Is(err2))
	})

	s.Run("works with errors.Is through chain", func() {
		inner := &Error{Code: CodeDuplicateCredentialID, Message: "original"}
		wrapped := &Error{Code: CodeInternal, Message: "wrapped", Err: inner}
		target := &Error{Code: CodeDuplicateCredentialID}

		s.True(errors.Is(wrapped, target))
	})
}

func (s *DomainErrorsSuite) TestWrapPreservesDomainCode() {
	inner := New(CodeDirectoryError, "registry rejected request")
	wrapped := Wrap(inner, CodeInternal, "sign-up failed")

	var e *Error
	s.Require().True(errors.As(wrapped, &e))
	s.Equal(CodeDirectoryError, e.Code)
	s.Equal("sign-up failed", e.Message)
}

func (s *DomainErrorsSuite) TestHasCode() {
	err := New(CodeInvalidShareToken, "bad token")
	s.True(HasCode(err, CodeInvalidShareToken))
	s.False(HasCode(err, CodeNotFound))
	s.False(HasCode(errors.New("plain"), CodeNotFound))
}
