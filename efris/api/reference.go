package api

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/efrisio/go-efris-client/efris"
	"github.com/efrisio/go-efris-client/efris/model"
)

// ReferenceService covers the gateway's reference data and goods
// management interfaces: dictionaries, excise duty rates, the taxpayer
// registry, and the registered goods list with its stock levels.
type ReferenceService interface {
	// Dictionary fetches the system dictionary (T115).
	Dictionary() (*model.Dictionary, error)

	// ExciseDuties lists excise duty rates (T125), optionally filtered.
	ExciseDuties(query model.ExciseDutyQuery) ([]model.ExciseDuty, error)

	// QueryTaxpayer looks up a taxpayer by TIN or NIN/BRN (T119).
	QueryTaxpayer(query model.TaxpayerQuery) (*model.Taxpayer, error)

	// QueryCommodityCategories pages through the commodity
	// classification tree (T123).
	QueryCommodityCategories(query model.CommodityCategoryQuery) (*model.CommodityCategoryPage, error)

	// QueryGoods pages through the company's registered goods (T127).
	QueryGoods(query model.GoodsQuery) (*model.GoodsPage, error)

	// UploadGoods registers or updates products (T130). The returned
	// slice holds per-item failures; empty means the whole batch passed.
	UploadGoods(products []model.Product) ([]model.GoodsUploadResult, error)

	// StockIncrease books stock in (T131).
	StockIncrease(request model.StockRequest) error

	// StockDecrease books stock out (T132).
	StockDecrease(request model.StockRequest) error
}

type referenceService struct {
	sender *Sender
	log    *log.Entry
}

func NewReferenceService(sender *Sender) ReferenceService {
	return &referenceService{
		sender: sender,
		log:    log.WithField("component", "efris.reference"),
	}
}

func (s *referenceService) Dictionary() (*model.Dictionary, error) {

	out, err := s.sender.Send(model.InterfaceDictionary, nil, EncryptAES)
	if err != nil {
		return nil, err
	}

	var dict model.Dictionary
	if err := json.Unmarshal(out, &dict); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	return &dict, nil
}

func (s *referenceService) ExciseDuties(query model.ExciseDutyQuery) ([]model.ExciseDuty, error) {

	out, err := s.sender.Send(model.InterfaceExciseDuty, query, EncryptAES)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Duties []model.ExciseDuty `json:"exciseDutyList"`
	}
	if err := json.Unmarshal(out, &wrapper); err != nil {
		return nil, fmt.Errorf("decode excise duties: %w", err)
	}
	return wrapper.Duties, nil
}

func (s *referenceService) QueryTaxpayer(query model.TaxpayerQuery) (*model.Taxpayer, error) {

	// T119 is available before key exchange; it runs signed but not
	// encrypted so onboarding flows can validate a TIN first.
	content, err := CanonicalJSON(query)
	if err != nil {
		return nil, err
	}
	out, err := s.sender.Transport.Exchange(model.InterfaceTaxpayerQuery, content, EncryptSigned, nil)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Taxpayer model.Taxpayer `json:"taxpayer"`
	}
	if err := json.Unmarshal(out, &wrapper); err != nil {
		return nil, fmt.Errorf("decode taxpayer: %w", err)
	}
	return &wrapper.Taxpayer, nil
}

func (s *referenceService) QueryCommodityCategories(query model.CommodityCategoryQuery) (*model.CommodityCategoryPage, error) {

	out, err := s.sender.Send(model.InterfaceCommodityQuery, query, EncryptAES)
	if err != nil {
		return nil, err
	}

	var page model.CommodityCategoryPage
	if err := json.Unmarshal(out, &page); err != nil {
		return nil, fmt.Errorf("decode commodity categories: %w", err)
	}
	return &page, nil
}

func (s *referenceService) QueryGoods(query model.GoodsQuery) (*model.GoodsPage, error) {

	out, err := s.sender.Send(model.InterfaceGoodsQuery, query, EncryptAES)
	if err != nil {
		return nil, err
	}

	var page model.GoodsPage
	if err := json.Unmarshal(out, &page); err != nil {
		return nil, fmt.Errorf("decode goods page: %w", err)
	}
	return &page, nil
}

func (s *referenceService) UploadGoods(products []model.Product) ([]model.GoodsUploadResult, error) {

	s.log.Debugf("uploading %d products", len(products))

	out, err := s.sender.Send(model.InterfaceGoodsUpload, products, EncryptAES)
	if err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, nil
	}
	var results []model.GoodsUploadResult
	if err := json.Unmarshal(out, &results); err != nil {
		return nil, fmt.Errorf("decode upload results: %w", err)
	}

	failed := results[:0]
	for _, r := range results {
		if r.ReturnCode != efris.CodeSuccess {
			failed = append(failed, r)
		}
	}
	return failed, nil
}

func (s *referenceService) StockIncrease(request model.StockRequest) error {
	_, err := s.sender.Send(model.InterfaceStockIncrease, request, EncryptAES)
	return err
}

func (s *referenceService) StockDecrease(request model.StockRequest) error {
	_, err := s.sender.Send(model.InterfaceStockDecrease, request, EncryptAES)
	return err
}
