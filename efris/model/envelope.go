package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Interface codes consumed by this client.
const (
	InterfaceTimeSync        = "T101"
	InterfaceRegistration    = "T103"
	InterfaceKeyExchange     = "T104"
	InterfaceInvoiceQuery    = "T106"
	InterfaceInvoiceDetails  = "T108"
	InterfaceInvoiceUpload   = "T109"
	InterfaceCreditNote      = "T110"
	InterfaceCreditNoteQuery = "T112"
	InterfaceDictionary      = "T115"
	InterfaceTaxpayerQuery   = "T119"
	InterfaceCommodityQuery  = "T123"
	InterfaceExciseDuty      = "T125"
	InterfaceGoodsQuery      = "T127"
	InterfaceGoodsUpload     = "T130"
	InterfaceStockIncrease   = "T131"
	InterfaceStockDecrease   = "T132"
)

// encryptCode values declared in dataDescription.
const (
	EncryptCodePlain  = "0" // content as-is, no signature
	EncryptCodeSigned = "1" // base64 content, RSA signature
	EncryptCodeAES    = "2" // AES content, base64, RSA signature
)

const requestTimeLayout = "2006-01-02 15:04:05"

// GlobalInfo is the routing/metadata block of every envelope. Field
// values other than the identity triple (tin, deviceNo, dataExchangeId)
// are fixed by the interface documentation.
type GlobalInfo struct {
	AppID          string      `json:"appId"`
	Version        string      `json:"version"`
	DataExchangeID string      `json:"dataExchangeId"`
	InterfaceCode  string      `json:"interfaceCode"`
	RequestCode    string      `json:"requestCode"`
	RequestTime    string      `json:"requestTime"`
	ResponseCode   string      `json:"responseCode"`
	UserName       string      `json:"userName"`
	DeviceMAC      string      `json:"deviceMAC"`
	DeviceNo       string      `json:"deviceNo"`
	TIN            string      `json:"tin"`
	BRN            string      `json:"brn"`
	TaxpayerID     string      `json:"taxpayerID"`
	Longitude      string      `json:"longitude"`
	Latitude       string      `json:"latitude"`
	AgentType      string      `json:"agentType"`
	ExtendField    ExtendField `json:"extendField"`
}

type ExtendField struct {
	ResponseDateFormat string `json:"responseDateFormat"`
	ResponseTimeFormat string `json:"responseTimeFormat"`
	ReferenceNo        string `json:"referenceNo"`
	OperatorName       string `json:"operatorName"`
}

type DataDescription struct {
	CodeType    string `json:"codeType"`
	EncryptCode string `json:"encryptCode"`
	ZipCode     string `json:"zipCode"`
}

type Data struct {
	Content         string          `json:"content"`
	Signature       string          `json:"signature"`
	DataDescription DataDescription `json:"dataDescription"`
}

type ReturnStateInfo struct {
	ReturnCode    string `json:"returnCode"`
	ReturnMessage string `json:"returnMessage"`
}

// Envelope is the wire message posted to the single gateway endpoint;
// the response reuses the same shape with returnStateInfo populated.
type Envelope struct {
	Data            Data            `json:"data"`
	GlobalInfo      GlobalInfo      `json:"globalInfo"`
	ReturnStateInfo ReturnStateInfo `json:"returnStateInfo"`
}

// NewGlobalInfo builds the routing block for one request. The
// dataExchangeId is a fresh UUID without dashes, as the gateway expects.
func NewGlobalInfo(tin, deviceNo, interfaceCode, operator string, now time.Time) GlobalInfo {
	return GlobalInfo{
		AppID:          "AP04",
		Version:        "1.1.20191201",
		DataExchangeID: strings.ReplaceAll(uuid.NewString(), "-", ""),
		InterfaceCode:  interfaceCode,
		RequestCode:    "TP",
		RequestTime:    now.Format(requestTimeLayout),
		ResponseCode:   "TA",
		UserName:       operator,
		DeviceMAC:      "FFFFFFFFFFFF",
		DeviceNo:       deviceNo,
		TIN:            tin,
		BRN:            "",
		TaxpayerID:     "1",
		Longitude:      "32.582520",
		Latitude:       "0.347596",
		AgentType:      "0",
		ExtendField: ExtendField{
			ResponseDateFormat: "dd/MM/yyyy",
			ResponseTimeFormat: "dd/MM/yyyy HH:mm:ss",
			ReferenceNo:        "",
			OperatorName:       operator,
		},
	}
}
