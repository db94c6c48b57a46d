package cipher

import (
	"bytes"
	"compress/gzip"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeySizes(t *testing.T) {
	for _, size := range []int{16, 32} {
		key, err := GenerateKey(size)
		require.NoError(t, err)
		assert.Len(t, key, size)
	}

	_, err := GenerateKey(24)
	assert.Error(t, err)
}

func TestECBRoundTrip(t *testing.T) {
	for _, size := range []int{16, 32} {
		key, err := GenerateKey(size)
		require.NoError(t, err)

		plain := []byte(`{"currentTime":"2025-03-01 10:15:00"}`)
		ct, err := EncryptECB(plain, key)
		require.NoError(t, err)
		assert.Zero(t, len(ct)%16)

		out, err := DecryptECB(ct, key)
		require.NoError(t, err)
		assert.Equal(t, plain, out)
	}
}

func TestECBBlockAlignedInput(t *testing.T) {
	key, _ := GenerateKey(16)

	// Exactly one block of input must gain a full block of padding.
	plain := bytes.Repeat([]byte{'x'}, 16)
	ct, err := EncryptECB(plain, key)
	require.NoError(t, err)
	assert.Len(t, ct, 32)

	out, err := DecryptECB(ct, key)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestDecryptECBRejectsBadInput(t *testing.T) {
	key, _ := GenerateKey(16)

	_, err := DecryptECB([]byte("short"), key)
	assert.Error(t, err)

	// Corrupt padding byte.
	ct, err := EncryptECB([]byte("hello"), key)
	require.NoError(t, err)
	ct[len(ct)-1] ^= 0xff
	_, err = DecryptECB(ct, key)
	assert.Error(t, err)
}

func TestSignAndVerifySHA1(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	content := []byte("eyJjdXJyZW50VGltZSI6IjIwMjUifQ==")
	sig, err := SignSHA1(key, content)
	require.NoError(t, err)

	// PKCS#1 v1.5 is deterministic, the gateway relies on that.
	sig2, err := SignSHA1(key, content)
	require.NoError(t, err)
	assert.Equal(t, sig, sig2)

	assert.NoError(t, VerifySHA1(&key.PublicKey, content, sig))
	assert.Error(t, VerifySHA1(&key.PublicKey, []byte("tampered"), sig))
}

func TestUnwrapKey(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	aesKey, _ := GenerateKey(32)
	inner := base64.StdEncoding.EncodeToString(aesKey)
	wrapped, err := rsa.EncryptPKCS1v15(rand.Reader, &rsaKey.PublicKey, []byte(inner))
	require.NoError(t, err)

	out, err := UnwrapKey(rsaKey, base64.StdEncoding.EncodeToString(wrapped))
	require.NoError(t, err)
	assert.Equal(t, aesKey, out)
}

func TestDecodeContentPlainBase64(t *testing.T) {
	plain := []byte(`{"returnCode":"00"}`)
	out, err := DecodeContent(base64.StdEncoding.EncodeToString(plain), nil)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestDecodeContentEncrypted(t *testing.T) {
	key, _ := GenerateKey(16)
	plain := []byte(`{"fdn":"1234567890"}`)

	enc, err := EncryptContent(plain, key)
	require.NoError(t, err)

	out, err := DecodeContent(enc, key)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestDecodeContentGzip(t *testing.T) {
	plain := []byte(`{"records":[]}`)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(plain)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	require.True(t, len(encoded) >= 4 && encoded[:4] == "H4sI")

	out, err := DecodeContent(encoded, nil)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestDecodeContentEmpty(t *testing.T) {
	out, err := DecodeContent("  ", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}
