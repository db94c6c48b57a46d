package efris

const (
	// CodeSuccess is the only returnCode that carries a usable response.
	CodeSuccess = "00"

	// CodeKeyExpired means the symmetric key from T104 is stale or unknown
	// to the gateway; a new key exchange fixes it.
	CodeKeyExpired = "09"

	// CodeServerBusy and CodeCacheLimit are the two transient rejections
	// that are safe to retry with backoff.
	CodeServerBusy = "9901"
	CodeCacheLimit = "9902"
)

// returnCodeText is a subset of the gateway's return-code taxonomy, the
// entries this client acts on or that show up routinely during invoice
// fiscalization. Unknown codes are still surfaced verbatim inside
// ApiError; this table only improves the message when the gateway sends
// an empty returnMessage.
var returnCodeText = map[string]string{
	CodeSuccess:    "SUCCESS",
	"01":           "Request parameter cannot be parsed",
	"02":           "Interface code does not exist",
	"03":           "Signature verification failed",
	CodeKeyExpired: "Symmetric key expired or not issued, key exchange required",
	"99":           "Unknown system error",
	"1001":         "Mandatory field is missing",
	"1011":         "Record does not exist",
	"2075":         "goodsDetails-->itemCode: item code not registered",
	"2085":         "goodsDetails-->qty: cannot be negative",
	"2102":         "goodsDetails-->discountTotal: must equal total of the discount line",
	"2111":         "taxDetails-->taxAmount: netAmount + taxAmount must equal grossAmount",
	"2132":         "summary-->grossAmount: must equal the sum of taxDetails grossAmount",
	"2167":         "basicInformation-->deviceNo: does not match request deviceNo",
	CodeServerBusy: "Server is busy, please try again later",
	CodeCacheLimit: "Request cache limit exceeded, please try again later",
}

// DescribeCode returns the catalogued description for a returnCode, or
// an empty string when the code is not in the local subset.
func DescribeCode(code string) string {
	return returnCodeText[code]
}
