package keys

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/go-faster/errors"
	"github.com/youmark/pkcs8"
	"golang.org/x/crypto/pkcs12"
)

// LoadPKCS12 loads the device keystore issued by URA: a .p12 file with
// one RSA key pair and the device certificate.
func LoadPKCS12(path, password string) (*rsa.PrivateKey, *x509.Certificate, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read keystore")
	}
	return ParsePKCS12(b, password)
}

// ParsePKCS12 decodes PKCS#12 bytes into the RSA key and certificate.
func ParsePKCS12(data []byte, password string) (*rsa.PrivateKey, *x509.Certificate, error) {
	keyAny, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decode PKCS#12")
	}
	key, ok := keyAny.(*rsa.PrivateKey)
	if !ok {
		return nil, nil, errors.Errorf("keystore holds a %T, expected RSA private key", keyAny)
	}
	return key, cert, nil
}

// LoadEncryptedPKCS8FromFile loads an RSA key from a PEM file holding an
// ENCRYPTED PRIVATE KEY block. Some deployments ship the device key this
// way instead of a .p12 keystore.
func LoadEncryptedPKCS8FromFile(path string, password []byte) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read key file")
	}
	return LoadEncryptedPKCS8FromPEM(b, password)
}

// LoadEncryptedPKCS8FromPEM parses the first ENCRYPTED PRIVATE KEY block.
func LoadEncryptedPKCS8FromPEM(pemBytes []byte, password []byte) (*rsa.PrivateKey, error) {
	if len(password) == 0 {
		return nil, errors.New("password is required for ENCRYPTED PRIVATE KEY")
	}

	for len(pemBytes) > 0 {
		var block *pem.Block
		block, pemBytes = pem.Decode(pemBytes)
		if block == nil {
			break
		}
		if block.Type != "ENCRYPTED PRIVATE KEY" {
			continue
		}

		keyAny, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, password)
		if err != nil {
			return nil, errors.Wrap(err, "decrypt PKCS#8 encrypted private key")
		}

		key, ok := keyAny.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.Errorf("unsupported key type in PKCS#8: %T (expected RSA)", keyAny)
		}
		return key, nil
	}

	return nil, errors.New("no ENCRYPTED PRIVATE KEY block found in PEM")
}
