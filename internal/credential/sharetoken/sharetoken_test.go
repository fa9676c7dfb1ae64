package sharetoken

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletgate/internal/credential/models"
	dErrors "walletgate/pkg/domain-errors"
)

func signedShareToken(t *testing.T, requirements []map[string]any) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"interactionToken": map[string]any{
			"credentialRequirements": requirements,
		},
	})
	signed, err := token.SignedString([]byte("share-request-key"))
	require.NoError(t, err)
	return signed
}

func TestDecodeExtractsRequirements(t *testing.T) {
	token := signedShareToken(t, []map[string]any{
		{"type": []string{"VerifiableCredential", "EmailCredential"}},
		{"type": []string{"PhoneCredential"}},
	})

	constraints, err := Decode(token)
	require.NoError(t, err)
	require.Len(t, constraints.Requirements, 2)
	assert.Equal(t, []string{"VerifiableCredential", "EmailCredential"}, constraints.Requirements[0].Types)
	assert.Equal(t, []string{"PhoneCredential"}, constraints.Requirements[1].Types)
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b"} {
		_, err := Decode(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidShareToken), "token %q", token)
	}
}

func TestMatchesRequiresAllTypesOfSomeRequirement(t *testing.T) {
	constraints, err := Decode(signedShareToken(t, []map[string]any{
		{"type": []string{"VerifiableCredential", "EmailCredential"}},
	}))
	require.NoError(t, err)

	email := models.Record{Kind: models.KindW3C, Types: []string{"VerifiableCredential", "EmailCredential"}}
	phone := models.Record{Kind: models.KindW3C, Types: []string{"VerifiableCredential", "PhoneCredential"}}

	assert.True(t, constraints.Matches(email))
	assert.False(t, constraints.Matches(phone))
}

func TestLegacyRecordsNeverMatch(t *testing.T) {
	constraints, err := Decode(signedShareToken(t, []map[string]any{
		{"type": []string{"VerifiableCredential"}},
	}))
	require.NoError(t, err)

	legacy := models.Record{Kind: models.KindLegacy}
	assert.False(t, constraints.Matches(legacy))
}

func TestEmptyRequirementsMatchNothing(t *testing.T) {
	constraints, err := Decode(signedShareToken(t, nil))
	require.NoError(t, err)

	record := models.Record{Kind: models.KindW3C, Types: []string{"VerifiableCredential"}}
	assert.False(t, constraints.Matches(record))
}
