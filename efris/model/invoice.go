package model

// Flag vocabularies used inside goodsDetails. All values are strings on
// the wire, including the numeric-looking ones.
const (
	DiscountFlagDetail     = "0" // synthetic discount-detail line
	DiscountFlagDiscounted = "1" // product line that carries a discount
	DiscountFlagNone       = "2"

	DeemedFlagYes = "1"
	DeemedFlagNo  = "2"

	ExciseFlagYes = "1"
	ExciseFlagNo  = "2"

	TaxCategoryStandard  = "01"
	TaxCategoryZeroRated = "02"
	TaxCategoryExempt    = "03"

	// Exempt lines carry the literal "-" instead of a numeric rate.
	TaxRateExempt = "-"

	BuyerTypeBusiness   = "0"
	BuyerTypeIndividual = "1"
	BuyerTypeForeigner  = "2"
	BuyerTypeGovernment = "3"

	ExciseRulePercentage = "1"
	ExciseRuleFixed      = "2"

	PaymentModeCash = "101"
)

type SellerDetails struct {
	TIN             string `json:"tin"`
	NinBrn          string `json:"ninBrn"`
	LegalName       string `json:"legalName"`
	BusinessName    string `json:"businessName"`
	Address         string `json:"address"`
	MobilePhone     string `json:"mobilePhone"`
	LinePhone       string `json:"linePhone"`
	EmailAddress    string `json:"emailAddress"`
	PlaceOfBusiness string `json:"placeOfBusiness"`
	ReferenceNo     string `json:"referenceNo"`
}

type BasicInformation struct {
	InvoiceNo           string `json:"invoiceNo"`
	AntifakeCode        string `json:"antifakeCode"`
	DeviceNo            string `json:"deviceNo"`
	IssuedDate          string `json:"issuedDate"`
	Operator            string `json:"operator"`
	Currency            string `json:"currency"`
	OriInvoiceID        string `json:"oriInvoiceId"`
	InvoiceType         string `json:"invoiceType"`
	InvoiceKind         string `json:"invoiceKind"`
	DataSource          string `json:"dataSource"`
	InvoiceIndustryCode string `json:"invoiceIndustryCode"`
	IsBatch             string `json:"isBatch"`
}

type BuyerDetails struct {
	BuyerTIN          string `json:"buyerTin"`
	BuyerNinBrn       string `json:"buyerNinBrn"`
	BuyerPassportNum  string `json:"buyerPassportNum"`
	BuyerLegalName    string `json:"buyerLegalName"`
	BuyerBusinessName string `json:"buyerBusinessName"`
	BuyerAddress      string `json:"buyerAddress"`
	BuyerMobilePhone  string `json:"buyerMobilePhone"`
	BuyerLinePhone    string `json:"buyerLinePhone"`
	BuyerPlaceOfBusi  string `json:"buyerPlaceOfBusi"`
	BuyerEmail        string `json:"buyerEmail"`
	BuyerCitizenship  string `json:"buyerCitizenship"`
	BuyerSector       string `json:"buyerSector"`
	BuyerReferenceNo  string `json:"buyerReferenceNo"`
	BuyerType         string `json:"buyerType"`
}

// GoodsLine is one entry of goodsDetails: either a product line
// (discountFlag 1 or 2) or a discount-detail line (discountFlag 0) that
// must directly follow the product line it discounts.
type GoodsLine struct {
	Item              string `json:"item"`
	ItemCode          string `json:"itemCode"`
	Qty               string `json:"qty"`
	UnitOfMeasure     string `json:"unitOfMeasure"`
	UnitPrice         string `json:"unitPrice"`
	Total             string `json:"total"`
	TaxRate           string `json:"taxRate"`
	Tax               string `json:"tax"`
	DiscountTotal     string `json:"discountTotal"`
	DiscountTaxRate   string `json:"discountTaxRate"`
	OrderNumber       string `json:"orderNumber"`
	DiscountFlag      string `json:"discountFlag"`
	DeemedFlag        string `json:"deemedFlag"`
	ExciseFlag        string `json:"exciseFlag"`
	CategoryID        string `json:"categoryId"`
	CategoryName      string `json:"categoryName"`
	GoodsCategoryID   string `json:"goodsCategoryId"`
	GoodsCategoryName string `json:"goodsCategoryName"`
	ExciseRate        string `json:"exciseRate"`
	ExciseRule        string `json:"exciseRule"`
	ExciseUnit        string `json:"exciseUnit"`
	ExciseCurrency    string `json:"exciseCurrency"`
	ExciseTax         string `json:"exciseTax"`
	Pack              string `json:"pack"`
	Stick             string `json:"stick"`
	ExciseRateName    string `json:"exciseRateName"`
	TaxCategoryCode   string `json:"taxCategoryCode"`
	IsZeroRate        string `json:"isZeroRate"`
	IsExempt          string `json:"isExempt"`
	VatApplicableFlag string `json:"vatApplicableFlag"`
	VatProjectID      string `json:"vatProjectId,omitempty"`
	VatProjectName    string `json:"vatProjectName,omitempty"`
}

// TaxDetail aggregates goods lines per tax category. The gateway
// validates netAmount + taxAmount == grossAmount on every entry.
type TaxDetail struct {
	TaxCategoryCode string `json:"taxCategoryCode"`
	NetAmount       string `json:"netAmount"`
	TaxRate         string `json:"taxRate"`
	TaxAmount       string `json:"taxAmount"`
	GrossAmount     string `json:"grossAmount"`
	ExciseUnit      string `json:"exciseUnit,omitempty"`
	ExciseCurrency  string `json:"exciseCurrency,omitempty"`
	Tax             string `json:"tax"`
	CurrencyType    string `json:"currencyType"`
}

type Summary struct {
	NetAmount   string `json:"netAmount"`
	TaxAmount   string `json:"taxAmount"`
	GrossAmount string `json:"grossAmount"`
	ItemCount   string `json:"itemCount"`
	ModeCode    string `json:"modeCode"`
	Remarks     string `json:"remarks"`
	QRCode      string `json:"qrCode"`
}

type PayWay struct {
	PaymentMode   string `json:"paymentMode"`
	PaymentAmount string `json:"paymentAmount"`
	OrderNumber   string `json:"orderNumber"`
}

type Extend struct {
	Reason     string `json:"reason"`
	ReasonCode string `json:"reasonCode"`
}

// Invoice is the T109 request content. Built fresh for every submission
// attempt and never mutated after construction.
type Invoice struct {
	SellerDetails    SellerDetails    `json:"sellerDetails"`
	BasicInformation BasicInformation `json:"basicInformation"`
	BuyerDetails     BuyerDetails     `json:"buyerDetails"`
	GoodsDetails     []GoodsLine      `json:"goodsDetails"`
	TaxDetails       []TaxDetail      `json:"taxDetails"`
	Summary          Summary          `json:"summary"`
	PayWay           []PayWay         `json:"payWay"`
	Extend           Extend           `json:"extend"`
}

// CreditNote is the T110 request content.
type CreditNote struct {
	OriInvoiceID             string      `json:"oriInvoiceId"`
	OriInvoiceNo             string      `json:"oriInvoiceNo"`
	ReasonCode               string      `json:"reasonCode"`
	Reason                   string      `json:"reason"`
	ApplicationTime          string      `json:"applicationTime"`
	InvoiceApplyCategoryCode string      `json:"invoiceApplyCategoryCode"`
	Currency                 string      `json:"currency"`
	ContactName              string      `json:"contactName"`
	ContactMobileNum         string      `json:"contactMobileNum"`
	ContactEmail             string      `json:"contactEmail"`
	Source                   string      `json:"source"`
	Remarks                  string      `json:"remarks"`
	SellersReferenceNo       string      `json:"sellersReferenceNo"`
	GoodsDetails             []GoodsLine `json:"goodsDetails"`
}

// FiscalResult is what the caller persists after a successful T109/T110:
// the fiscal document number plus the verification material.
type FiscalResult struct {
	FDN          string
	InvoiceID    string
	AntifakeCode string
	QRCode       string
	IssuedDate   string
}
