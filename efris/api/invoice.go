package api

import (
	"encoding/json"
	"fmt"

	"github.com/go-faster/jx"
	log "github.com/sirupsen/logrus"

	"github.com/efrisio/go-efris-client/efris/model"
)

type InvoiceService interface {
	// Submit fiscalizes one invoice (T109) and returns the assigned
	// fiscal document number with its verification material.
	Submit(invoice *model.Invoice) (*model.FiscalResult, error)

	// SubmitCreditNote files a credit note application (T110) against a
	// previously fiscalized invoice.
	SubmitCreditNote(note *model.CreditNote) (*model.FiscalResult, error)

	// Query lists fiscalized invoices (T106).
	Query(query model.InvoiceQuery) (*model.InvoicePage, error)

	// Details fetches one fiscalized invoice in full (T108).
	Details(invoiceNo string) (*model.Invoice, error)
}

type invoiceService struct {
	sender *Sender
	log    *log.Entry
}

func NewInvoiceService(sender *Sender) InvoiceService {
	return &invoiceService{
		sender: sender,
		log:    log.WithField("component", "efris.invoice"),
	}
}

func (s *invoiceService) Submit(invoice *model.Invoice) (*model.FiscalResult, error) {

	s.log.Debugf("submitting invoice %s", invoice.BasicInformation.InvoiceNo)

	out, err := s.sender.Send(model.InterfaceInvoiceUpload, invoice, EncryptAES)
	if err != nil {
		return nil, err
	}

	result, err := extractFiscalResult(out)
	if err != nil {
		return nil, err
	}

	s.log.Infof("invoice fiscalized, FDN %s", result.FDN)
	return result, nil
}

func (s *invoiceService) SubmitCreditNote(note *model.CreditNote) (*model.FiscalResult, error) {

	s.log.Debugf("submitting credit note against invoice %s", note.OriInvoiceNo)

	out, err := s.sender.Send(model.InterfaceCreditNote, note, EncryptAES)
	if err != nil {
		return nil, err
	}
	return extractFiscalResult(out)
}

func (s *invoiceService) Query(query model.InvoiceQuery) (*model.InvoicePage, error) {

	out, err := s.sender.Send(model.InterfaceInvoiceQuery, query, EncryptAES)
	if err != nil {
		return nil, err
	}

	var page model.InvoicePage
	if err := json.Unmarshal(out, &page); err != nil {
		return nil, fmt.Errorf("decode invoice page: %w", err)
	}
	return &page, nil
}

func (s *invoiceService) Details(invoiceNo string) (*model.Invoice, error) {

	content := map[string]string{"invoiceNo": invoiceNo}
	out, err := s.sender.Send(model.InterfaceInvoiceDetails, content, EncryptAES)
	if err != nil {
		return nil, err
	}

	var invoice model.Invoice
	if err := json.Unmarshal(out, &invoice); err != nil {
		return nil, fmt.Errorf("decode invoice details: %w", err)
	}
	return &invoice, nil
}

// extractFiscalResult digs the fiscal document number and verification
// fields out of a T109/T110 response. The gateway has shipped several
// response shapes over time (top-level fdn, basicInformation block),
// so the walk is tolerant about where the fields live.
func extractFiscalResult(data []byte) (*model.FiscalResult, error) {

	result := &model.FiscalResult{}

	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "fdn", "invoiceNo":
			return setIfEmpty(&result.FDN, d)
		case "invoiceId", "id":
			return setIfEmpty(&result.InvoiceID, d)
		case "antifakeCode":
			return setIfEmpty(&result.AntifakeCode, d)
		case "issuedDate":
			return setIfEmpty(&result.IssuedDate, d)
		case "qrCode":
			return setIfEmpty(&result.QRCode, d)
		case "basicInformation":
			return d.Obj(func(d *jx.Decoder, key string) error {
				switch key {
				case "invoiceNo":
					return setIfEmpty(&result.FDN, d)
				case "invoiceId", "id":
					return setIfEmpty(&result.InvoiceID, d)
				case "antifakeCode":
					return setIfEmpty(&result.AntifakeCode, d)
				case "issuedDate":
					return setIfEmpty(&result.IssuedDate, d)
				default:
					return d.Skip()
				}
			})
		case "summary":
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key == "qrCode" {
					return setIfEmpty(&result.QRCode, d)
				}
				return d.Skip()
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("decode fiscal response: %w", err)
	}

	if result.FDN == "" {
		return nil, fmt.Errorf("no fiscal document number in response: %s", data)
	}
	return result, nil
}

func setIfEmpty(dst *string, d *jx.Decoder) error {
	s, err := scalarString(d)
	if err != nil {
		return err
	}
	if *dst == "" {
		*dst = s
	}
	return nil
}

// scalarString reads a string or number value as a string; invoice ids
// in particular arrive as either.
func scalarString(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		if err := d.Skip(); err != nil {
			return "", err
		}
		return "", nil
	}
}
