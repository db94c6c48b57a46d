// Package mapper turns ERP sales documents into fiscal documents the
// gateway accepts: VAT extraction from inclusive amounts, excise
// back-calculation, discount pairing and per-category tax aggregation.
package mapper

import (
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/efrisio/go-efris-client/efris/config"
	"github.com/efrisio/go-efris-client/efris/erp"
	"github.com/efrisio/go-efris-client/efris/model"
)

var (
	one          = decimal.NewFromInt(1)
	hundred      = decimal.NewFromInt(100)
	cent         = decimal.RequireFromString("0.01")
	standardRate = decimal.RequireFromString("0.18")
)

const (
	yes = "101"
	no  = "102"

	defaultCommodityCategory = "50202306"
	issuedDateLayout         = "2006-01-02 15:04:05"
)

type Mapper struct {
	company *config.Company
	catalog erp.Catalog
	clock   clockwork.Clock
	log     *log.Entry
}

func New(company *config.Company, catalog erp.Catalog, clock clockwork.Clock) *Mapper {
	return &Mapper{
		company: company,
		catalog: catalog,
		clock:   clock,
		log:     log.WithField("component", "efris.mapper"),
	}
}

// line is one resolved product line before emission: gross figures with
// excise stripped out and the discount it will carry.
type line struct {
	src      erp.Line
	meta     erp.ItemMeta
	category string
	rate     decimal.Decimal
	qty      decimal.Decimal
	unit     decimal.Decimal // excise-exclusive unit price
	total    decimal.Decimal // qty * unit
	amount   decimal.Decimal // resolved gross line amount from the ERP
	discount decimal.Decimal
	excise   decimal.Decimal
}

// calc carries the figures of one emitted goods line for aggregation.
type calc struct {
	category string
	rate     decimal.Decimal
	total    decimal.Decimal
	tax      decimal.Decimal
	excise   decimal.Decimal
}

// MapInvoice builds a T109 invoice from an ERP sales document.
func (m *Mapper) MapInvoice(inv *erp.Invoice) (*model.Invoice, error) {

	if inv == nil || len(inv.Lines) == 0 {
		return nil, &MappingError{Reason: "document has no lines"}
	}

	currency := inv.Currency
	if currency == "" {
		currency = m.company.Currency
	}

	hasInvoiceDiscount := inv.DiscountTotal.GreaterThan(cent)

	mode, err := m.pricingFor(inv)
	if err != nil {
		return nil, err
	}

	lines := make([]*line, 0, len(inv.Lines))
	for i, src := range inv.Lines {
		l, err := m.prepareLine(i+1, src, mode, hasInvoiceDiscount)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	if hasInvoiceDiscount {
		if err := distributeDiscount(lines, inv.DiscountTotal); err != nil {
			return nil, err
		}
	}

	goods, calcs := emitLines(lines)
	taxDetails, totals := aggregate(calcs, currency)

	productLines := 0
	for _, g := range goods {
		if g.DiscountFlag != model.DiscountFlagDetail {
			productLines++
		}
	}

	return &model.Invoice{
		SellerDetails:    m.sellerDetails(inv.DocNumber),
		BasicInformation: m.basicInformation(inv, currency),
		BuyerDetails:     buyerDetails(inv.Customer),
		GoodsDetails:     goods,
		TaxDetails:       taxDetails,
		Summary: model.Summary{
			NetAmount:   money(totals.net),
			TaxAmount:   money(totals.tax),
			GrossAmount: money(totals.gross),
			ItemCount:   strconv.Itoa(productLines),
			ModeCode:    "0",
			Remarks:     inv.Memo,
			QRCode:      "",
		},
		PayWay: []model.PayWay{{
			PaymentMode:   model.PaymentModeCash,
			PaymentAmount: money(totals.gross),
			OrderNumber:   "a",
		}},
		Extend: model.Extend{},
	}, nil
}

func (m *Mapper) prepareLine(n int, src erp.Line, mode pricing, hasInvoiceDiscount bool) (*line, error) {

	meta, ok := m.catalog.Lookup(src.ItemCode)
	if !ok {
		return nil, &MappingError{Line: n, Reason: "item " + src.ItemCode + " is not registered"}
	}
	if !src.Qty.IsPositive() {
		return nil, &MappingError{Line: n, Reason: "quantity must be positive"}
	}

	category, rate := classify(src, meta)

	price, amount := resolvePricing(src, rate, mode)

	// The ERP selling price includes excise duty; the gateway wants the
	// line priced without it and the duty reported separately.
	unit := price
	excise := decimal.Zero
	if meta.HasExcise {
		switch meta.ExciseRule {
		case model.ExciseRulePercentage:
			unit = price.Div(one.Add(meta.ExciseRate.Div(hundred)))
			excise = unit.Mul(src.Qty).Mul(meta.ExciseRate).Div(hundred).Round(2)
		default:
			unit = price.Sub(meta.ExciseRate)
			excise = meta.ExciseRate.Mul(src.Qty).Round(2)
		}
		if !unit.IsPositive() {
			return nil, &MappingError{Line: n, Reason: "excise duty exceeds the unit price"}
		}
	}

	total := unit.Mul(src.Qty).Round(2)

	discount := src.DiscountAmount
	if discount.IsZero() && !hasInvoiceDiscount && !meta.HasExcise {
		// An amount below qty*price is an implicit line discount.
		if implicit := total.Sub(amount); implicit.GreaterThan(cent) {
			discount = implicit.Round(2)
		}
	}

	return &line{
		src:      src,
		meta:     meta,
		category: category,
		rate:     rate,
		qty:      src.Qty,
		unit:     unit,
		total:    total,
		amount:   amount,
		discount: discount,
		excise:   excise,
	}, nil
}

// classify picks the tax category and VAT rate for a line. A per-line
// override wins, then catalog metadata, then ERP tax-code names.
func classify(src erp.Line, meta erp.ItemMeta) (string, decimal.Decimal) {

	rate := standardRate
	if meta.TaxRate != nil {
		rate = *meta.TaxRate
	}

	switch src.TaxCategory {
	case model.TaxCategoryExempt:
		return model.TaxCategoryExempt, decimal.Zero
	case model.TaxCategoryZeroRated:
		return model.TaxCategoryZeroRated, decimal.Zero
	case model.TaxCategoryStandard:
		return model.TaxCategoryStandard, rate
	}

	switch {
	case meta.IsExempt:
		return model.TaxCategoryExempt, decimal.Zero
	case meta.IsZeroRated:
		return model.TaxCategoryZeroRated, decimal.Zero
	}

	code := strings.ToUpper(src.TaxCode)
	switch {
	case strings.Contains(code, "EXEMPT"):
		return model.TaxCategoryExempt, decimal.Zero
	case strings.Contains(code, "ZERO"):
		return model.TaxCategoryZeroRated, decimal.Zero
	}
	return model.TaxCategoryStandard, rate
}

// pricing is the resolved amount convention for a whole invoice.
type pricing int

const (
	// priceGross: unit prices and amounts are VAT-inclusive as sent.
	priceGross pricing = iota
	// priceNet: unit prices and amounts are VAT-exclusive and both
	// need grossing up.
	priceNet
	// priceNetUnitGrossAmount: net unit prices with already grossed-up
	// amounts.
	priceNetUnitGrossAmount
)

// pricingFor resolves the invoice's amount convention. Detect mode
// reads the whole document one way; a line that contradicts the rest
// is a caller configuration error, never silently normalized alone.
func (m *Mapper) pricingFor(inv *erp.Invoice) (pricing, error) {

	switch m.company.PricingMode {
	case config.PricingInclusive:
		return priceGross, nil
	case config.PricingExclusive:
		return priceNet, nil
	}

	resolved := pricing(-1)
	for i, src := range inv.Lines {
		meta, ok := m.catalog.Lookup(src.ItemCode)
		if !ok {
			// Unknown items fail later with the proper line number.
			continue
		}
		_, rate := classify(src, meta)
		expected := src.Qty.Mul(src.UnitPrice)

		// Zero-rate and zero-value lines look the same either way.
		if !rate.IsPositive() || !expected.IsPositive() {
			continue
		}

		var vote pricing
		switch {
		case src.Amount.Sub(expected).Abs().LessThanOrEqual(cent):
			vote = priceGross
		case src.Amount.Sub(expected.Mul(one.Add(rate))).Abs().LessThanOrEqual(cent):
			vote = priceNetUnitGrossAmount
		case src.Amount.LessThan(expected):
			// Below qty*price reads as an implicit discount on
			// inclusive figures.
			vote = priceGross
		default:
			return 0, &MappingError{
				Line:   i + 1,
				Reason: "cannot tell whether amounts include VAT; set pricingMode explicitly",
			}
		}

		if resolved == -1 {
			resolved = vote
		} else if resolved != vote {
			return 0, &MappingError{
				Line:   i + 1,
				Reason: "lines mix VAT-inclusive and VAT-exclusive amounts; set pricingMode explicitly",
			}
		}
	}
	if resolved == -1 {
		resolved = priceGross
	}
	return resolved, nil
}

// resolvePricing normalizes one line to VAT-inclusive figures under
// the invoice's resolved convention.
func resolvePricing(src erp.Line, rate decimal.Decimal, mode pricing) (price, amount decimal.Decimal) {

	if !rate.IsPositive() || mode == priceGross {
		return src.UnitPrice, src.Amount
	}
	factor := one.Add(rate)
	if mode == priceNet {
		return src.UnitPrice.Mul(factor), src.Amount.Mul(factor)
	}
	return src.UnitPrice.Mul(factor), src.Amount
}

// distributeDiscount spreads a document-level discount across lines in
// proportion to their totals. The last line absorbs the rounding
// remainder so the parts always sum to the whole.
func distributeDiscount(lines []*line, total decimal.Decimal) error {

	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.total)
	}
	if !sum.IsPositive() {
		return &MappingError{Reason: "cannot distribute discount over zero-valued lines"}
	}

	remaining := total
	for i, l := range lines {
		var share decimal.Decimal
		if i == len(lines)-1 {
			share = remaining
		} else {
			share = l.total.Div(sum).Mul(total).Round(2)
			remaining = remaining.Sub(share)
		}
		l.discount = l.discount.Add(share)
	}
	return nil
}

// emitLines produces the wire goods lines. A discounted line is a pair:
// the product line with discountFlag 1 carrying the full price, then a
// detail line with discountFlag 0 holding the negative discount. Order
// numbers are assigned sequentially over the final list.
func emitLines(lines []*line) ([]model.GoodsLine, []calc) {

	goods := make([]model.GoodsLine, 0, len(lines))
	calcs := make([]calc, 0, len(lines))

	for _, l := range lines {
		hasDiscount := l.discount.GreaterThan(cent)

		tax := decimal.Zero
		if l.rate.IsPositive() {
			tax = l.total.Mul(l.rate).Div(one.Add(l.rate)).Round(2)
		}

		g := l.wireLine(tax, hasDiscount)
		g.OrderNumber = strconv.Itoa(len(goods))
		goods = append(goods, g)
		calcs = append(calcs, calc{category: l.category, rate: l.rate, total: l.total, tax: tax, excise: l.excise})

		if !hasDiscount {
			continue
		}

		detailTax := decimal.Zero
		if l.rate.IsPositive() {
			detailTax = l.discount.Mul(l.rate).Div(one.Add(l.rate)).Round(2).Neg()
		}

		d := l.discountLine(detailTax)
		d.OrderNumber = strconv.Itoa(len(goods))
		goods = append(goods, d)
		calcs = append(calcs, calc{category: l.category, rate: l.rate, total: l.discount.Neg(), tax: detailTax})
	}
	return goods, calcs
}

func (l *line) wireLine(tax decimal.Decimal, hasDiscount bool) model.GoodsLine {

	meta := l.meta

	unitOfMeasure := meta.UnitOfMeasure
	if meta.HasExcise && meta.ExciseUnit != "" {
		// Excisable goods must be invoiced in the unit their duty is
		// registered under.
		unitOfMeasure = meta.ExciseUnit
	}
	if unitOfMeasure == "" {
		unitOfMeasure = erp.UnitCode("")
	}

	commodity := meta.CommodityCategory
	if commodity == "" {
		commodity = defaultCommodityCategory
	}

	g := model.GoodsLine{
		Item:              l.itemName(),
		ItemCode:          l.src.ItemCode,
		Qty:               l.qty.String(),
		UnitOfMeasure:     unitOfMeasure,
		UnitPrice:         l.unit.Round(2).String(),
		Total:             money(l.total),
		TaxRate:           rateString(l.category, l.rate),
		Tax:               money(tax),
		DiscountFlag:      model.DiscountFlagNone,
		DeemedFlag:        model.DeemedFlagNo,
		ExciseFlag:        model.ExciseFlagNo,
		GoodsCategoryID:   commodity,
		GoodsCategoryName: "General goods",
		ExciseRule:        model.ExciseRuleFixed,
		Pack:              "1",
		Stick:             "1",
		TaxCategoryCode:   l.category,
		IsZeroRate:        yesNo(l.category == model.TaxCategoryZeroRated),
		IsExempt:          yesNo(l.category == model.TaxCategoryExempt),
		VatApplicableFlag: "2",
	}

	if l.rate.IsPositive() {
		g.VatApplicableFlag = "1"
	}

	if hasDiscount {
		g.DiscountFlag = model.DiscountFlagDiscounted
		g.DiscountTotal = money(l.discount.Neg())
		if l.rate.IsPositive() {
			g.DiscountTaxRate = l.rate.String()
		}
	}

	if meta.DeemedVAT {
		g.DeemedFlag = model.DeemedFlagYes
		g.VatProjectID = meta.VATProjectID
		g.VatProjectName = meta.VATProjectName
	}

	if meta.HasExcise {
		g.ExciseFlag = model.ExciseFlagYes
		g.CategoryID = meta.ExciseCode
		g.ExciseRate = meta.ExciseRate.String()
		g.ExciseRule = meta.ExciseRule
		g.ExciseUnit = meta.ExciseUnit
		g.ExciseCurrency = "UGX"
		g.ExciseTax = money(l.excise)
	}

	return g
}

func (l *line) discountLine(tax decimal.Decimal) model.GoodsLine {

	d := model.GoodsLine{
		Item:              l.itemName() + " (Discount)",
		ItemCode:          l.src.ItemCode,
		Total:             money(l.discount.Neg()),
		DiscountFlag:      model.DiscountFlagDetail,
		DeemedFlag:        model.DeemedFlagNo,
		ExciseFlag:        model.ExciseFlagNo,
		GoodsCategoryID:   l.meta.CommodityCategory,
		GoodsCategoryName: "General goods",
		TaxCategoryCode:   l.category,
		IsZeroRate:        yesNo(l.category == model.TaxCategoryZeroRated),
		IsExempt:          yesNo(l.category == model.TaxCategoryExempt),
	}
	if d.GoodsCategoryID == "" {
		d.GoodsCategoryID = defaultCommodityCategory
	}
	if l.meta.DeemedVAT {
		d.DeemedFlag = model.DeemedFlagYes
	}
	if l.rate.IsPositive() {
		d.TaxRate = l.rate.String()
		d.Tax = money(tax)
	}
	return d
}

func (l *line) itemName() string {
	if l.src.Description != "" {
		return l.src.Description
	}
	return l.meta.GoodsName
}

type invoiceTotals struct {
	net, tax, gross decimal.Decimal
}

// aggregate folds emitted lines into one taxDetails entry per category.
// Excise duty is applied as a waterfall: VAT on the duty joins both the
// category's taxAmount and its grossAmount, and the duty itself joins
// grossAmount and the combined tax figure.
func aggregate(calcs []calc, currency string) ([]model.TaxDetail, invoiceTotals) {

	type agg struct {
		gross, vat, excise, rate decimal.Decimal
	}

	var order []string
	byCategory := map[string]*agg{}

	for _, c := range calcs {
		a, ok := byCategory[c.category]
		if !ok {
			a = &agg{}
			byCategory[c.category] = a
			order = append(order, c.category)
		}
		a.gross = a.gross.Add(c.total)
		a.vat = a.vat.Add(c.tax)
		a.excise = a.excise.Add(c.excise)
		if c.rate.IsPositive() {
			a.rate = c.rate
		}
	}

	details := make([]model.TaxDetail, 0, len(order))
	var totals invoiceTotals

	for _, category := range order {
		a := byCategory[category]

		exciseVat := decimal.Zero
		if a.excise.IsPositive() && a.rate.IsPositive() {
			exciseVat = a.excise.Mul(a.rate).Round(2)
		}

		gross := a.gross.Add(a.excise).Add(exciseVat).Round(2)
		tax := a.vat.Add(exciseVat).Round(2)
		net := gross.Sub(tax)

		details = append(details, model.TaxDetail{
			TaxCategoryCode: category,
			NetAmount:       money(net),
			TaxRate:         rateString(category, a.rate),
			TaxAmount:       money(tax),
			GrossAmount:     money(gross),
			Tax:             money(tax.Add(a.excise)),
			CurrencyType:    currency,
		})

		totals.net = totals.net.Add(net)
		totals.tax = totals.tax.Add(tax)
		totals.gross = totals.gross.Add(gross)
	}

	return details, totals
}

func (m *Mapper) sellerDetails(docNumber string) model.SellerDetails {
	c := m.company
	return model.SellerDetails{
		TIN:             c.TIN,
		LegalName:       c.LegalName,
		BusinessName:    businessName(c),
		Address:         c.Address,
		MobilePhone:     c.Phone,
		EmailAddress:    c.Email,
		PlaceOfBusiness: c.PlaceOfBusiness,
		ReferenceNo:     docNumber,
	}
}

func businessName(c *config.Company) string {
	if c.BusinessName != "" {
		return c.BusinessName
	}
	return c.LegalName
}

func (m *Mapper) basicInformation(inv *erp.Invoice, currency string) model.BasicInformation {

	issued := inv.TxnDate
	if issued.IsZero() {
		issued = m.clock.Now()
	} else {
		// The ERP date has no time of day; stamp it with the current
		// one, the gateway rejects midnight-only dates in the future.
		now := m.clock.Now()
		issued = time.Date(issued.Year(), issued.Month(), issued.Day(),
			now.Hour(), now.Minute(), now.Second(), 0, now.Location())
	}

	return model.BasicInformation{
		InvoiceNo:           "",
		AntifakeCode:        "",
		DeviceNo:            m.company.DeviceNo,
		IssuedDate:          issued.Format(issuedDateLayout),
		Operator:            m.company.Operator,
		Currency:            currency,
		OriInvoiceID:        "",
		InvoiceType:         "1",
		InvoiceKind:         "1",
		DataSource:          "106",
		InvoiceIndustryCode: "101",
		IsBatch:             "0",
	}
}

func buyerDetails(c erp.Customer) model.BuyerDetails {

	buyerType := model.BuyerTypeIndividual
	if c.IsBusiness && c.TIN != "" {
		// Business buyers need a TIN; without one the gateway only
		// accepts the buyer as an individual.
		buyerType = model.BuyerTypeBusiness
	}

	return model.BuyerDetails{
		BuyerTIN:         c.TIN,
		BuyerPassportNum: c.PassportNum,
		BuyerLegalName:   c.Name,
		BuyerAddress:     c.Address,
		BuyerMobilePhone: c.Phone,
		BuyerEmail:       c.Email,
		BuyerType:        buyerType,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func rateString(category string, rate decimal.Decimal) string {
	if category == model.TaxCategoryExempt {
		return model.TaxRateExempt
	}
	return rate.String()
}

func yesNo(b bool) string {
	if b {
		return yes
	}
	return no
}
