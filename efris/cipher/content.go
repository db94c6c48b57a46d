package cipher

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// gzipB64Prefix is how a base64-encoded gzip stream always starts; the
// gateway gives no other indication that a response body is compressed.
const gzipB64Prefix = "H4sI"

// EncryptContent encrypts a request body with the session key and
// base64-encodes it for the envelope.
func EncryptContent(plain, key []byte) (string, error) {
	ct, err := EncryptECB(plain, key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// DecodeContent turns a response content field back into plaintext
// bytes. Responses arrive base64-encoded, optionally gzip-compressed
// and optionally AES-encrypted under the session key; which of those
// apply is not declared anywhere, so decoding probes in order.
func DecodeContent(content string, key []byte) ([]byte, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	if strings.HasPrefix(content, gzipB64Prefix) {
		raw, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("decode compressed content: %w", err)
		}
		out, err := gunzip(raw)
		if err != nil {
			return nil, fmt.Errorf("decompress content: %w", err)
		}
		// The decompressed stream may be a second layer of
		// base64+AES when the interface is encrypted.
		if key != nil {
			if inner, err := decryptB64(string(out), key); err == nil {
				return inner, nil
			}
		}
		return out, nil
	}

	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		// Not base64 at all: the gateway sent plain JSON.
		return []byte(content), nil
	}
	if key != nil {
		if plain, err := DecryptECB(raw, key); err == nil {
			return plain, nil
		}
	}
	return raw, nil
}

func decryptB64(content string, key []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
	if err != nil {
		return nil, err
	}
	return DecryptECB(raw, key)
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
