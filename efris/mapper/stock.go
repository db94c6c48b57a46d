package mapper

import (
	"github.com/efrisio/go-efris-client/efris/erp"
	"github.com/efrisio/go-efris-client/efris/model"
)

const dateLayout = "2006-01-02"

// MapPurchase builds a T131 stock increase from an ERP purchase
// document.
func (m *Mapper) MapPurchase(p *erp.Purchase) (*model.StockRequest, error) {

	if p == nil || len(p.Lines) == 0 {
		return nil, &MappingError{Reason: "purchase has no lines"}
	}

	stockInDate := p.TxnDate
	if stockInDate.IsZero() {
		stockInDate = m.clock.Now()
	}

	remarks := p.Memo
	if remarks == "" {
		remarks = "Stock purchase"
	}

	items := make([]model.StockItem, 0, len(p.Lines))
	for i, l := range p.Lines {
		if l.ItemCode == "" {
			return nil, &MappingError{Line: i + 1, Reason: "purchase line has no item code"}
		}
		if !l.Qty.IsPositive() {
			return nil, &MappingError{Line: i + 1, Reason: "quantity must be positive"}
		}
		items = append(items, model.StockItem{
			GoodsCode: l.ItemCode,
			Quantity:  l.Qty.String(),
			UnitPrice: l.UnitPrice.String(),
		})
	}

	return &model.StockRequest{
		GoodsStockIn: model.StockOperation{
			OperationType: "101",
			SupplierTIN:   p.Supplier.TIN,
			SupplierName:  p.Supplier.Name,
			Remarks:       remarks,
			StockInDate:   stockInDate.Format(dateLayout),
			StockInType:   "102", // purchase
		},
		GoodsStockInItem: items,
	}, nil
}
