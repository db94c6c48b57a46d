package cipher

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
)

// SignSHA1 signs content with RSA PKCS#1 v1.5 over a SHA-1 digest and
// returns the signature base64-encoded, the only scheme the gateway
// verifies. The input must be the exact content string placed in the
// envelope, byte for byte.
func SignSHA1(key *rsa.PrivateKey, content []byte) (string, error) {
	if key == nil {
		return "", fmt.Errorf("nil private key")
	}
	digest := sha1.Sum(content)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign content: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifySHA1 checks a base64 RSA-SHA1 signature against content.
func VerifySHA1(pub *rsa.PublicKey, content []byte, signatureB64 string) error {
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	digest := sha1.Sum(content)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], sig); err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}

// UnwrapKey recovers the AES session key from the T104 passowrdDes
// value: base64, RSA PKCS#1 v1.5 decrypt, then base64 again.
func UnwrapKey(key *rsa.PrivateKey, passwordDes string) ([]byte, error) {
	wrapped, err := base64.StdEncoding.DecodeString(passwordDes)
	if err != nil {
		return nil, fmt.Errorf("decode wrapped key: %w", err)
	}
	inner, err := rsa.DecryptPKCS1v15(rand.Reader, key, wrapped)
	if err != nil {
		return nil, fmt.Errorf("unwrap session key: %w", err)
	}
	aesKey, err := base64.StdEncoding.DecodeString(string(inner))
	if err != nil {
		return nil, fmt.Errorf("decode session key: %w", err)
	}
	if len(aesKey) != 16 && len(aesKey) != 32 {
		return nil, fmt.Errorf("unexpected session key size: %d, expected 16 or 32 bytes", len(aesKey))
	}
	return aesKey, nil
}
