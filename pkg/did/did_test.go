package did

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "walletgate/pkg/domain-errors"
)

func TestMethodsValidate(t *testing.T) {
	m := NewMethods(nil)

	assert.NoError(t, m.Validate("jolo"))
	assert.NoError(t, m.Validate("elem"))

	err := m.Validate("web")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestMethodsCustomAllowList(t *testing.T) {
	m := NewMethods([]string{"key"})

	assert.NoError(t, m.Validate("key"))
	assert.Error(t, m.Validate("jolo"))
}

func TestMethodOf(t *testing.T) {
	assert.Equal(t, "jolo", MethodOf("did:jolo:f559265b6c1becd56109c56"))
	assert.Equal(t, "", MethodOf("not-a-did"))
	assert.Equal(t, "", MethodOf("did:partial"))
}

func TestStripParams(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare did unchanged", "did:jolo:abc123", "did:jolo:abc123"},
		{"matrix params removed", "did:jolo:abc123;service=agent;version=1", "did:jolo:abc123"},
		{"query params removed", "did:jolo:abc123?versionTime=2026-01-01", "did:jolo:abc123"},
		{"fragment kept", "did:jolo:abc123?x=1#keys-1", "did:jolo:abc123#keys-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripParams(tt.in))
		})
	}
}
