package keyring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

func TestStore_SetGetDelete(t *testing.T) {
	gokeyring.MockInit()
	store := New()

	require.NoError(t, store.Set("autojoin_zoom", "me@example.com", "pw"))

	secret, err := store.Get("autojoin_zoom", "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "pw", secret)

	require.NoError(t, store.Set("autojoin_zoom", "me@example.com", "new"))
	secret, err = store.Get("autojoin_zoom", "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new", secret)

	require.NoError(t, store.Delete("autojoin_zoom", "me@example.com"))
	_, err = store.Get("autojoin_zoom", "me@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ServicesAreSeparate(t *testing.T) {
	gokeyring.MockInit()
	store := New()

	require.NoError(t, store.Set("autojoin_zoom", "me@example.com", "zoom-pw"))

	_, err := store.Get("autojoin_teams", "me@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DeleteMissing(t *testing.T) {
	gokeyring.MockInit()

	assert.ErrorIs(t, New().Delete("autojoin_zoom", "nobody@example.com"), domain.ErrNotFound)
}

func TestStore_BackendError(t *testing.T) {
	boom := errors.New("keychain locked")
	gokeyring.MockInitWithError(boom)
	store := New()

	_, err := store.Get("autojoin_zoom", "me@example.com")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	err = store.Set("autojoin_zoom", "me@example.com", "pw")
	assert.ErrorIs(t, err, boom)
}
