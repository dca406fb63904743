package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	plain := []byte(`{"accounts":{}}`)

	sealed, err := Seal(plain, []byte("storage-key"))
	require.NoError(t, err)
	assert.False(t, bytes.Contains(sealed, plain))

	got, err := Open(sealed, []byte("storage-key"))
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestOpen_WrongPassphrase(t *testing.T) {
	sealed, err := Seal([]byte("data"), []byte("right"))
	require.NoError(t, err)

	_, err = Open(sealed, []byte("wrong"))
	require.Error(t, err)
}

func TestOpen_Tampered(t *testing.T) {
	sealed, err := Seal([]byte("data"), []byte("k"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = Open(sealed, []byte("k"))
	require.Error(t, err)
}

func TestOpen_TooShort(t *testing.T) {
	_, err := Open([]byte("abc"), []byte("k"))
	require.ErrorIs(t, err, ErrSealedTooShort)

	_, err = Open(make([]byte, sealSaltSize+4), []byte("k"))
	require.ErrorIs(t, err, ErrSealedTooShort)
}

func TestDeriveKey_DependsOnSalt(t *testing.T) {
	k1 := DeriveKey([]byte("pw"), []byte("salt-1"))
	k2 := DeriveKey([]byte("pw"), []byte("salt-2"))
	k3 := DeriveKey([]byte("pw"), []byte("salt-1"))

	assert.Len(t, k1, 32)
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, k3)
}
