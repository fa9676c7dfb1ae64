package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "walletgate/pkg/domain-errors"
)

func TestNewHonorsConfiguredDIDMethods(t *testing.T) {
	t.Run("configured allow-list admits its own methods", func(t *testing.T) {
		svc, err := New(Config{
			DIDMethod:           "web",
			SupportedDIDMethods: []string{"web", "key"},
		}, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "did:web:acct-1", svc.mintDID("acct-1"))
	})

	t.Run("empty method defaults to the first configured entry", func(t *testing.T) {
		svc, err := New(Config{
			SupportedDIDMethods: []string{"key", "web"},
		}, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "did:key:acct-1", svc.mintDID("acct-1"))
	})

	t.Run("method outside the allow-list is rejected", func(t *testing.T) {
		_, err := New(Config{
			DIDMethod:           "web",
			SupportedDIDMethods: []string{"jolo"},
		}, nil, nil, nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("no allow-list falls back to the defaults", func(t *testing.T) {
		svc, err := New(Config{}, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "did:jolo:acct-1", svc.mintDID("acct-1"))
	})
}
