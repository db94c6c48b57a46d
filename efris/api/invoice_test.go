package api

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efrisio/go-efris-client/efris/model"
)

func TestExtractFiscalResultTopLevel(t *testing.T) {
	out, err := extractFiscalResult([]byte(`{
		"fdn": "322001234567",
		"invoiceId": "900015",
		"antifakeCode": "16200001",
		"issuedDate": "01/03/2025 10:15:00",
		"qrCode": "payload"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "322001234567", out.FDN)
	assert.Equal(t, "900015", out.InvoiceID)
	assert.Equal(t, "16200001", out.AntifakeCode)
	assert.Equal(t, "payload", out.QRCode)
}

func TestExtractFiscalResultBasicInformation(t *testing.T) {
	out, err := extractFiscalResult([]byte(`{
		"basicInformation": {
			"invoiceNo": "322009876543",
			"antifakeCode": "16200002",
			"invoiceId": 900016,
			"issuedDate": "02/03/2025 09:00:00"
		},
		"summary": {"qrCode": "qr-payload", "grossAmount": "1000.00"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "322009876543", out.FDN)
	// Numeric invoice ids come back as their decimal text.
	assert.Equal(t, "900016", out.InvoiceID)
	assert.Equal(t, "qr-payload", out.QRCode)
}

func TestExtractFiscalResultPrefersFirstFDN(t *testing.T) {
	out, err := extractFiscalResult([]byte(`{
		"fdn": "322001111111",
		"basicInformation": {"invoiceNo": "322002222222"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "322001111111", out.FDN)
}

func TestExtractFiscalResultMissingFDN(t *testing.T) {
	_, err := extractFiscalResult([]byte(`{"summary": {"grossAmount": "100"}}`))
	assert.ErrorContains(t, err, "no fiscal document number")
}

func TestInvoiceSubmitEndToEnd(t *testing.T) {
	g := newFakeGateway(t)
	sender := newTestStack(t, g, clockwork.NewFakeClock())
	service := NewInvoiceService(sender)

	g.on(model.InterfaceInvoiceUpload, func(env *model.Envelope) (string, model.ReturnStateInfo) {
		return g.encrypt([]byte(`{
			"basicInformation": {"invoiceNo": "322000000001", "antifakeCode": "16299999", "invoiceId": "1"},
			"summary": {"qrCode": "qr"}
		}`)), model.ReturnStateInfo{ReturnCode: "00"}
	})

	result, err := service.Submit(&model.Invoice{})
	require.NoError(t, err)
	assert.Equal(t, "322000000001", result.FDN)
	assert.Equal(t, "16299999", result.AntifakeCode)
}
