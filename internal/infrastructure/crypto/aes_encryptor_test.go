package crypto

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func TestNewAESEncryptor_KeyValidation(t *testing.T) {
	_, err := NewAESEncryptor("not base64!!")
	assert.Error(t, err)

	_, err = NewAESEncryptor(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)

	_, err = NewAESEncryptor(testKey)
	assert.NoError(t, err)
}

func TestAESEncryptor_SealOpen(t *testing.T) {
	enc, err := NewAESEncryptor(testKey)
	require.NoError(t, err)

	plaintext := []byte(`{"ipfsHash":"QmShippingAddr"}`)
	sealed, err := enc.Seal(plaintext)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(sealed), &env))
	assert.NotEmpty(t, env.CipherText)
	assert.NotEmpty(t, env.IV)

	opened, err := enc.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestAESEncryptor_NoncesAreUnique(t *testing.T) {
	enc, err := NewAESEncryptor(testKey)
	require.NoError(t, err)

	first, err := enc.Seal([]byte("payload"))
	require.NoError(t, err)
	second, err := enc.Seal([]byte("payload"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestAESEncryptor_OpenRejectsTampering(t *testing.T) {
	enc, err := NewAESEncryptor(testKey)
	require.NoError(t, err)

	sealed, err := enc.Seal([]byte("payload"))
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(sealed), &env))

	raw, err := base64.StdEncoding.DecodeString(env.CipherText)
	require.NoError(t, err)
	raw[0] ^= 0xff
	env.CipherText = base64.StdEncoding.EncodeToString(raw)
	tampered, err := json.Marshal(env)
	require.NoError(t, err)

	_, err = enc.Open(string(tampered))
	assert.Error(t, err)
}

func TestAESEncryptor_OpenRejectsWrongKey(t *testing.T) {
	enc, err := NewAESEncryptor(testKey)
	require.NoError(t, err)
	other, err := NewAESEncryptor(base64.StdEncoding.EncodeToString([]byte("ffffffffffffffffffffffffffffffff")))
	require.NoError(t, err)

	sealed, err := enc.Seal([]byte("payload"))
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.Error(t, err)
}
