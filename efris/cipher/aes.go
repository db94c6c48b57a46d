package cipher

import (
	"bytes"
	aes2 "crypto/aes"
	"crypto/rand"
	"fmt"
)

// GenerateKey produces a random AES key. The gateway issues either
// AES-128 or AES-256 session keys, so both sizes are accepted.
func GenerateKey(size int) ([]byte, error) {
	if size != 16 && size != 32 {
		return nil, fmt.Errorf("invalid AES key size: %d, expected 16 or 32 bytes", size)
	}
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate random key: %w", err)
	}
	return key, nil
}

// EncryptECB encrypts content with AES-ECB and PKCS#7 padding. ECB is
// what the gateway speaks; each request body is a single short JSON
// document, never streamed.
func EncryptECB(content, key []byte) ([]byte, error) {
	if len(key) != 16 && len(key) != 32 {
		return nil, fmt.Errorf("invalid AES key size: %d, expected 16 or 32 bytes", len(key))
	}

	block, err := aes2.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("NewCipher: %w", err)
	}

	padded := pkcs7Pad(content, aes2.BlockSize)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes2.BlockSize {
		block.Encrypt(out[i:i+aes2.BlockSize], padded[i:i+aes2.BlockSize])
	}
	return out, nil
}

// DecryptECB decrypts AES-ECB ciphertext and strips validated PKCS#7
// padding.
func DecryptECB(ciphertext, key []byte) ([]byte, error) {
	if len(key) != 16 && len(key) != 32 {
		return nil, fmt.Errorf("invalid AES key size: %d, expected 16 or 32 bytes", len(key))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes2.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(ciphertext))
	}

	block, err := aes2.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("NewCipher: %w", err)
	}

	plain := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes2.BlockSize {
		block.Decrypt(plain[i:i+aes2.BlockSize], ciphertext[i:i+aes2.BlockSize])
	}
	return pkcs7Unpad(plain, aes2.BlockSize)
}

func pkcs7Pad(src []byte, blockSize int) []byte {
	padLen := blockSize - (len(src) % blockSize)
	if padLen == 0 {
		padLen = blockSize
	}
	return append(src, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

func pkcs7Unpad(src []byte, blockSize int) ([]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("empty plaintext after decryption")
	}
	pad := int(src[len(src)-1])
	if pad <= 0 || pad > blockSize || pad > len(src) {
		return nil, fmt.Errorf("invalid padding")
	}
	for i := 0; i < pad; i++ {
		if src[len(src)-1-i] != byte(pad) {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return src[:len(src)-pad], nil
}
