// Package qr renders the verification material of a fiscalized invoice.
package qr

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/efrisio/go-efris-client/efris"
	"github.com/efrisio/go-efris-client/efris/model"
)

// VerificationURL builds the public invoice validation link for a
// fiscal document number.
func VerificationURL(env efris.Environment, fdn string) (string, error) {
	if strings.TrimSpace(fdn) == "" {
		return "", fmt.Errorf("fiscal document number is empty")
	}

	base, err := url.Parse(env.BaseURL())
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	return fmt.Sprintf("https://%s/site_new/#/invoiceValidation?invoiceNo=%s",
		base.Host, url.QueryEscape(fdn)), nil
}

// Content picks the QR payload for a fiscal result: the gateway's own
// qrCode string when present, otherwise the validation link.
func Content(env efris.Environment, result *model.FiscalResult) (string, error) {
	if result.QRCode != "" {
		return result.QRCode, nil
	}
	return VerificationURL(env, result.FDN)
}

// EncodePNG renders content as a PNG QR code of size x size pixels.
func EncodePNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("QR content is empty")
	}
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode QR: %w", err)
	}
	return png, nil
}

// WritePNG renders content and writes the PNG to path.
func WritePNG(content, path string, size int) error {
	png, err := EncodePNG(content, size)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}
