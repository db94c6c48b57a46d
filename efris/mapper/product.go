package mapper

import (
	"github.com/efrisio/go-efris-client/efris/erp"
	"github.com/efrisio/go-efris-client/efris/model"
)

// currencyCodes maps ISO currency names to the gateway's currencyType
// dictionary codes.
var currencyCodes = map[string]string{
	"UGX": "101",
	"USD": "102",
	"EUR": "103",
	"GBP": "104",
}

func currencyCode(name string) string {
	if code, ok := currencyCodes[name]; ok {
		return code
	}
	return "101"
}

// MapItem builds a T130 product registration from an ERP item and its
// fiscal metadata. update switches the operation from add to update.
func (m *Mapper) MapItem(item erp.Item, meta erp.ItemMeta, update bool) model.Product {

	operation := "101"
	if update {
		operation = "102"
	}

	commodity := meta.CommodityCategory
	if commodity == "" {
		commodity = item.Sku
	}
	if commodity == "" {
		commodity = defaultCommodityCategory
	}

	goodsCode := meta.GoodsCode
	if goodsCode == "" {
		goodsCode = item.Code
	}

	unit := meta.UnitOfMeasure
	if unit == "" {
		unit = erp.UnitCode(item.Unit)
	}

	p := model.Product{
		OperationType:       operation,
		GoodsName:           item.Name,
		GoodsCode:           goodsCode,
		MeasureUnit:         unit,
		UnitPrice:           item.UnitPrice.String(),
		Currency:            currencyCode(m.company.Currency),
		CommodityCategoryID: commodity,
		HaveExciseTax:       yesNo(meta.HasExcise),
		Description:         item.Description,
		StockPrewarning:     "10",
		PieceMeasureUnit:    unit,
		HavePieceUnit:       no,
		PieceUnitPrice:      item.UnitPrice.String(),
		PackageScaledValue:  "1",
		PieceScaledValue:    "1",
	}
	if meta.HasExcise {
		p.ExciseDutyCode = meta.ExciseCode
	}
	return p
}
