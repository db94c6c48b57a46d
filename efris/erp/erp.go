// Package erp holds the source-side invoice model as it arrives from an
// ERP system such as QuickBooks, before any fiscal mapping.
package erp

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is one ERP sales document to be fiscalized.
type Invoice struct {
	DocNumber string
	TxnDate   time.Time
	Currency  string
	Customer  Customer
	Lines     []Line

	// DiscountTotal is a document-level discount not attached to any
	// line; it gets distributed across lines in proportion to their
	// VAT-inclusive totals, last line absorbing the rounding remainder.
	DiscountTotal decimal.Decimal

	// IsCreditMemo marks the document as a credit note against
	// OriginalFDN / OriginalInvoiceID.
	IsCreditMemo      bool
	OriginalFDN       string
	OriginalInvoiceID string
	CreditReason      string
	CreditReasonCode  string

	Memo string
}

// Line is one sales line. Amount is the line total as the ERP stored
// it; whether that figure includes VAT is decided by the company's
// pricing mode.
type Line struct {
	ItemCode    string
	Description string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal

	// DiscountAmount is a line-level discount, already positive.
	DiscountAmount decimal.Decimal

	// TaxCode is the ERP tax code, used when the catalog has no
	// category override for the item.
	TaxCode string

	// TaxCategory forces the EFRIS tax category for this line ("01"
	// standard, "02" zero-rated, "03" exempt). It wins over catalog
	// metadata and TaxCode names; empty means classify normally.
	TaxCategory string
}

type Customer struct {
	Name        string
	TIN         string
	Email       string
	Phone       string
	Address     string
	IsBusiness  bool
	PassportNum string
}

// Item is one ERP product as it appears in the source item list, the
// input for goods registration.
type Item struct {
	Code        string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Unit        string
	Sku         string // commodity category code when maintained in the ERP
}

// Purchase is a purchase document that books stock in.
type Purchase struct {
	DocNumber string
	TxnDate   time.Time
	Memo      string
	Supplier  Supplier
	Lines     []PurchaseLine
}

type Supplier struct {
	Name string
	TIN  string
}

type PurchaseLine struct {
	ItemCode  string
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
}

// ItemMeta is the fiscal metadata registered for an item: its EFRIS
// commodity category, excise profile and VAT treatment. The mapper
// refuses lines whose item is not in the catalog.
type ItemMeta struct {
	GoodsCode         string
	GoodsName         string
	UnitOfMeasure     string
	CommodityCategory string

	HasExcise  bool
	ExciseCode string
	ExciseRate decimal.Decimal
	ExciseRule string // "1" percentage, "2" fixed per unit
	ExciseUnit string

	IsZeroRated bool
	IsExempt    bool
	DeemedVAT   bool

	VATProjectID   string
	VATProjectName string

	// TaxRate overrides the standard 18% when set.
	TaxRate *decimal.Decimal
}

// Catalog resolves item codes to their fiscal metadata.
type Catalog interface {
	Lookup(itemCode string) (ItemMeta, bool)
}

// MapCatalog is a Catalog backed by a plain map, enough for tests and
// for callers that preload their item list.
type MapCatalog map[string]ItemMeta

func (m MapCatalog) Lookup(itemCode string) (ItemMeta, bool) {
	meta, ok := m[itemCode]
	return meta, ok
}

// unitCodes maps common ERP unit names to EFRIS measure unit codes
// from the rateUnit dictionary.
var unitCodes = map[string]string{
	"each":   "101",
	"pcs":    "101",
	"piece":  "101",
	"unit":   "101",
	"kg":     "102",
	"g":      "103",
	"gram":   "103",
	"l":      "104",
	"litre":  "104",
	"liter":  "104",
	"ml":     "105",
	"m":      "106",
	"metre":  "106",
	"meter":  "106",
	"cm":     "107",
	"box":    "108",
	"carton": "109",
	"dozen":  "110",
}

// UnitCode translates an ERP unit name into the gateway's measure unit
// code, defaulting to "101" (each) for anything unknown.
func UnitCode(name string) string {
	if code, ok := unitCodes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return "101"
}
