package model

// Product is one entry of a T130 goods registration request.
type Product struct {
	OperationType       string `json:"operationType"` // 101=add, 102=update
	GoodsName           string `json:"goodsName"`
	GoodsCode           string `json:"goodsCode"`
	MeasureUnit         string `json:"measureUnit"`
	UnitPrice           string `json:"unitPrice"`
	Currency            string `json:"currency"`
	CommodityCategoryID string `json:"commodityCategoryId"`
	HaveExciseTax       string `json:"haveExciseTax"` // 101=yes, 102=no
	Description         string `json:"description"`
	StockPrewarning     string `json:"stockPrewarning"`
	PieceMeasureUnit    string `json:"pieceMeasureUnit"`
	HavePieceUnit       string `json:"havePieceUnit"`
	PieceUnitPrice      string `json:"pieceUnitPrice"`
	PackageScaledValue  string `json:"packageScaledValue"`
	PieceScaledValue    string `json:"pieceScaledValue"`
	ExciseDutyCode      string `json:"exciseDutyCode"`
}

// StockOperation is the header of a T131/T132 request.
type StockOperation struct {
	OperationType     string `json:"operationType"`
	SupplierTIN       string `json:"supplierTin,omitempty"`
	SupplierName      string `json:"supplierName,omitempty"`
	AdjustType        string `json:"adjustType,omitempty"`
	Remarks           string `json:"remarks"`
	StockInDate       string `json:"stockInDate,omitempty"`
	StockInType       string `json:"stockInType,omitempty"`
	ProductionBatchNo string `json:"productionBatchNo,omitempty"`
	ProductionDate    string `json:"productionDate,omitempty"`
}

type StockItem struct {
	GoodsCode string `json:"goodsCode"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

type StockRequest struct {
	GoodsStockIn     StockOperation `json:"goodsStockIn"`
	GoodsStockInItem []StockItem    `json:"goodsStockInItem"`
}

// ExciseDuty is one entry of the T125 reference list, the source of the
// excise metadata the invoice mapper consumes.
type ExciseDuty struct {
	ExciseDutyCode string `json:"exciseDutyCode"`
	ExciseDutyName string `json:"exciseDutyName"`
	ExciseRate     string `json:"exciseRate"`
	RateType       string `json:"rateType"` // 1=percentage, 2=fixed
	Unit           string `json:"unit"`
	Currency       string `json:"currency"`
	EffectiveDate  string `json:"effectiveDate"`
}

type ExciseDutyQuery struct {
	ExciseDutyCode string `json:"exciseDutyCode,omitempty"`
	ExciseDutyName string `json:"exciseDutyName,omitempty"`
}

// DictEntry is one code/name pair of the T115 system dictionary.
type DictEntry struct {
	Code string `json:"value"`
	Name string `json:"name"`
}

// Dictionary carries the T115 subsets this client uses: units of
// measure, currencies and excise rate types.
type Dictionary struct {
	RateUnit               []DictEntry `json:"rateUnit"`
	CurrencyType           []DictEntry `json:"currencyType"`
	ExciseStandardRateType []DictEntry `json:"exciseStandardRateType"`
}

type GoodsQuery struct {
	PageNo    string `json:"pageNo"`
	PageSize  string `json:"pageSize"`
	GoodsCode string `json:"goodsCode,omitempty"`
	GoodsName string `json:"goodsName,omitempty"`
}

type GoodsRecord struct {
	ID                  string `json:"id"`
	GoodsName           string `json:"goodsName"`
	GoodsCode           string `json:"goodsCode"`
	MeasureUnit         string `json:"measureUnit"`
	UnitPrice           string `json:"unitPrice"`
	CommodityCategoryID string `json:"commodityCategoryId"`
	HaveExciseTax       string `json:"haveExciseTax"`
	ExciseDutyCode      string `json:"exciseDutyCode"`
	Stock               string `json:"stock"`
}

type GoodsPage struct {
	Page    PageInfo      `json:"page"`
	Records []GoodsRecord `json:"records"`
}

type PageInfo struct {
	PageNo    string `json:"pageNo"`
	PageSize  string `json:"pageSize"`
	PageCount string `json:"pageCount"`
	TotalSize string `json:"totalSize"`
}

type InvoiceQuery struct {
	BuyerLegalName string `json:"buyerLegalName,omitempty"`
	InvoiceNo      string `json:"invoiceNo,omitempty"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	InvoiceKind    string `json:"invoiceKind"`
	PageNo         string `json:"pageNo"`
	PageSize       string `json:"pageSize"`
}

type InvoiceRecord struct {
	ID             string `json:"id"`
	InvoiceNo      string `json:"invoiceNo"`
	OriInvoiceNo   string `json:"oriInvoiceNo"`
	IssuedDate     string `json:"issuedDate"`
	BuyerLegalName string `json:"buyerLegalName"`
	GrossAmount    string `json:"grossAmount"`
	InvoiceKind    string `json:"invoiceKind"`
	InvoiceType    string `json:"invoiceType"`
}

type InvoicePage struct {
	Page    PageInfo        `json:"page"`
	Records []InvoiceRecord `json:"records"`
}

// GoodsUploadResult is the per-item outcome of a T130 upload; the
// gateway accepts the batch and reports failures item by item.
type GoodsUploadResult struct {
	Index         string `json:"index"`
	ReturnCode    string `json:"returnCode"`
	ReturnMessage string `json:"returnMessage"`
}

// CommodityCategory is one node of the T123 commodity classification
// tree; leaf codes are what goods registration references.
type CommodityCategory struct {
	ID             string `json:"id"`
	Code           string `json:"commodityCategoryCode"`
	Name           string `json:"commodityCategoryName"`
	ParentCode     string `json:"parentCode"`
	CommodityLevel string `json:"commodityCategoryLevel"`
	IsLeaf         string `json:"isLeafNode"`
	Rate           string `json:"rate"`
	IsExempt       string `json:"isExempt"`
	IsZeroRate     string `json:"isZeroRate"`
}

type CommodityCategoryQuery struct {
	PageNo   string `json:"pageNo"`
	PageSize string `json:"pageSize"`
}

type CommodityCategoryPage struct {
	Page    PageInfo            `json:"page"`
	Records []CommodityCategory `json:"records"`
}

// TaxpayerQuery is the T119 request content.
type TaxpayerQuery struct {
	TIN    string `json:"tin"`
	NinBrn string `json:"ninBrn"`
}
