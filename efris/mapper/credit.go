package mapper

import (
	"github.com/efrisio/go-efris-client/efris/erp"
	"github.com/efrisio/go-efris-client/efris/model"
)

// MapCreditMemo builds a T110 credit note application from an ERP
// credit memo. Goods lines reuse the invoice pipeline, then flip sign:
// the gateway wants negative quantities and amounts on credit notes.
func (m *Mapper) MapCreditMemo(inv *erp.Invoice) (*model.CreditNote, error) {

	if !inv.IsCreditMemo {
		return nil, &MappingError{Reason: "document is not a credit memo"}
	}
	if inv.OriginalFDN == "" && inv.OriginalInvoiceID == "" {
		return nil, &MappingError{Reason: "credit memo does not reference a fiscalized invoice"}
	}

	mapped, err := m.MapInvoice(inv)
	if err != nil {
		return nil, err
	}

	goods := mapped.GoodsDetails
	for i := range goods {
		goods[i].Qty = negate(goods[i].Qty)
		goods[i].Total = negate(goods[i].Total)
		goods[i].Tax = negate(goods[i].Tax)
		goods[i].ExciseTax = negate(goods[i].ExciseTax)
	}

	reasonCode := inv.CreditReasonCode
	if reasonCode == "" {
		reasonCode = "102"
	}
	reason := inv.CreditReason
	if reason == "" {
		reason = "Return"
	}

	currency := inv.Currency
	if currency == "" {
		currency = m.company.Currency
	}

	return &model.CreditNote{
		OriInvoiceID:             inv.OriginalInvoiceID,
		OriInvoiceNo:             inv.OriginalFDN,
		ReasonCode:               reasonCode,
		Reason:                   reason,
		ApplicationTime:          m.clock.Now().Format(issuedDateLayout),
		InvoiceApplyCategoryCode: "101",
		Currency:                 currency,
		ContactName:              inv.Customer.Name,
		ContactMobileNum:         inv.Customer.Phone,
		ContactEmail:             inv.Customer.Email,
		Source:                   "106",
		Remarks:                  inv.Memo,
		SellersReferenceNo:       inv.DocNumber,
		GoodsDetails:             goods,
	}, nil
}

// negate flips the sign of a formatted amount, leaving empty fields and
// zeros alone.
func negate(s string) string {
	switch s {
	case "", "0", "0.00":
		return s
	}
	if s[0] == '-' {
		return s[1:]
	}
	return "-" + s
}
