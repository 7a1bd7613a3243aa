package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/ecofinder/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestStaticStore(t *testing.T) {
	ctx := context.Background()
	store := NewStaticStore(map[string]string{
		domain.CredentialClassifier: "hf-key",
		domain.CredentialVision:     "",
	})

	t.Run("returns only present names", func(t *testing.T) {
		creds, err := store.Get(ctx, domain.KnownCredentials...)
		require.NoError(t, err)

		assert.Equal(t, domain.Credentials{domain.CredentialClassifier: "hf-key"}, creds)
		_, ok := creds.Get(domain.CredentialVision)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, domain.CredentialGenerative, "gemini-key"))

		creds, err := store.Get(ctx, domain.CredentialGenerative)
		require.NoError(t, err)
		secret, ok := creds.Get(domain.CredentialGenerative)
		assert.True(t, ok)
		assert.Equal(t, "gemini-key", secret)
	})

	t.Run("empty secret removes", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, domain.CredentialGenerative, ""))

		creds, err := store.Get(ctx, domain.CredentialGenerative)
		require.NoError(t, err)
		assert.Empty(t, creds)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		assert.ErrorIs(t, store.Set(ctx, "", "x"), domain.ErrInvalidRequest)
	})
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	store := NewKeyringStore("ecofinder-test")

	creds, err := store.Get(ctx, domain.CredentialVision)
	require.NoError(t, err)
	assert.Empty(t, creds)

	require.NoError(t, store.Set(ctx, domain.CredentialVision, "vision-key"))

	creds, err = store.Get(ctx, domain.CredentialVision, domain.CredentialGenerative)
	require.NoError(t, err)
	assert.Equal(t, domain.Credentials{domain.CredentialVision: "vision-key"}, creds)

	require.NoError(t, store.Set(ctx, domain.CredentialVision, ""))
	require.NoError(t, store.Set(ctx, domain.CredentialVision, ""), "deleting a missing entry is not an error")

	creds, err = store.Get(ctx, domain.CredentialVision)
	require.NoError(t, err)
	assert.Empty(t, creds)
}

func TestKeyringStore_BackendError(t *testing.T) {
	keyring.MockInitWithError(errors.New("keychain locked"))
	defer keyring.MockInit()

	store := NewKeyringStore("ecofinder-test")

	_, err := store.Get(context.Background(), domain.CredentialVision)
	assert.ErrorContains(t, err, "keychain locked")

	err = store.Set(context.Background(), domain.CredentialVision, "x")
	assert.ErrorContains(t, err, "keychain locked")
}

func TestChainStore(t *testing.T) {
	ctx := context.Background()
	first := NewStaticStore(map[string]string{domain.CredentialClassifier: "from-first"})
	second := NewStaticStore(map[string]string{
		domain.CredentialClassifier: "from-second",
		domain.CredentialGenerative: "gemini-second",
	})
	chain := NewChainStore(first, second)

	creds, err := chain.Get(ctx, domain.KnownCredentials...)
	require.NoError(t, err)
	assert.Equal(t, domain.Credentials{
		domain.CredentialClassifier: "from-first",
		domain.CredentialGenerative: "gemini-second",
	}, creds)

	require.NoError(t, chain.Set(ctx, domain.CredentialVision, "vision-key"))
	firstCreds, _ := first.Get(ctx, domain.CredentialVision)
	assert.Equal(t, "vision-key", firstCreds[domain.CredentialVision])
}

func TestChainStore_Empty(t *testing.T) {
	chain := NewChainStore()

	creds, err := chain.Get(context.Background(), domain.CredentialVision)
	require.NoError(t, err)
	assert.Empty(t, creds)
	assert.ErrorIs(t, chain.Set(context.Background(), "x", "y"), domain.ErrMissingCredential)
}
