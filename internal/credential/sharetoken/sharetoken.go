// Package sharetoken decodes credential share-request tokens into the type
// constraints they carry.
//
// A share request is a JWT whose interaction payload lists credential
// requirements. The wallet only needs the requirement type lists to decide
// which stored credentials satisfy the request, so the token is decoded
// without signature verification; validating the requester's signature is
// the exchange protocol's concern, not the store's.
package sharetoken

import (
	"github.com/golang-jwt/jwt/v5"

	"walletgate/internal/credential/models"
	dErrors "walletgate/pkg/domain-errors"
)

// Requirement is one credential requirement from a share request. A stored
// credential satisfies it when every listed type appears in the
// credential's type list.
type Requirement struct {
	Types []string
}

// Constraints is the set of requirements decoded from a share token. A
// credential matches when it satisfies at least one requirement.
type Constraints struct {
	Requirements []Requirement
}

type tokenClaims struct {
	InteractionToken struct {
		CredentialRequirements []struct {
			Type []string `json:"type"`
		} `json:"credentialRequirements"`
	} `json:"interactionToken"`
	jwt.RegisteredClaims
}

// Decode extracts the credential type constraints from a share-request
// token. Any token that cannot be parsed yields an invalid_share_token
// error; callers treat the filter request as a whole as unservable rather
// than silently returning everything.
func Decode(token string) (Constraints, error) {
	if token == "" {
		return Constraints{}, dErrors.New(dErrors.CodeInvalidShareToken, "share token is empty")
	}

	var claims tokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return Constraints{}, dErrors.Wrap(err, dErrors.CodeInvalidShareToken, "share token could not be decoded")
	}

	constraints := Constraints{}
	for _, req := range claims.InteractionToken.CredentialRequirements {
		if len(req.Type) == 0 {
			continue
		}
		constraints.Requirements = append(constraints.Requirements, Requirement{Types: req.Type})
	}
	return constraints, nil
}

// Matches reports whether the record satisfies the constraints. A token
// carrying no requirements matches nothing: an empty filter is a request
// for no credentials, not for all of them.
func (c Constraints) Matches(record models.Record) bool {
	for _, req := range c.Requirements {
		if satisfies(record, req) {
			return true
		}
	}
	return false
}

func satisfies(record models.Record, req Requirement) bool {
	for _, t := range req.Types {
		if !record.HasType(t) {
			return false
		}
	}
	return true
}
