package model

// TimeSyncContent is the decoded T101 response content.
type TimeSyncContent struct {
	CurrentTime string `json:"currentTime"`
}

// KeyExchangeContent is the decoded T104 response content. The JSON key
// "passowrdDes" is a typo in the gateway itself and must not be fixed
// on our side.
type KeyExchangeContent struct {
	PasswordDes string `json:"passowrdDes"`
	Sign        string `json:"sign"`
}

// RegistrationDetails is the taxpayer profile returned by T103.
type RegistrationDetails struct {
	Taxpayer         Taxpayer         `json:"taxpayer"`
	TaxpayerBranches []TaxpayerBranch `json:"taxpayerBranch"`
}

type Taxpayer struct {
	TIN             string `json:"tin"`
	NinBrn          string `json:"ninBrn"`
	LegalName       string `json:"legalName"`
	BusinessName    string `json:"businessName"`
	Address         string `json:"address"`
	ContactNumber   string `json:"contactNumber"`
	ContactEmail    string `json:"contactEmail"`
	TaxpayerType    string `json:"taxpayerType"`
	GovernmentTIN   string `json:"governmentTIN"`
	IsExemptionUnit string `json:"isExemptionUnit"`
}

type TaxpayerBranch struct {
	BranchID   string `json:"branchId"`
	BranchCode string `json:"branchCode"`
	BranchName string `json:"branchName"`
	BranchType string `json:"branchType"`
}
