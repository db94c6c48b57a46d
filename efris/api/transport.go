package api

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/efrisio/go-efris-client/efris"
	"github.com/efrisio/go-efris-client/efris/cipher"
	"github.com/efrisio/go-efris-client/efris/model"
)

// EncryptionMode selects the envelope's encryptCode.
type EncryptionMode int

const (
	// EncryptNone sends content as plain JSON without a signature; only
	// T101 and T104 use it.
	EncryptNone EncryptionMode = iota
	// EncryptSigned base64-encodes content and signs it; with empty
	// content it declares the code on an empty, unsigned body (T103).
	EncryptSigned
	// EncryptAES encrypts content with the session key, then signs the
	// base64 ciphertext. All business interfaces use it.
	EncryptAES
)

func (m EncryptionMode) code() string {
	switch m {
	case EncryptSigned:
		return model.EncryptCodeSigned
	case EncryptAES:
		return model.EncryptCodeAES
	}
	return model.EncryptCodePlain
}

// Transport turns a request body into a signed envelope, posts it and
// decodes the response body. It is stateless; the session key, when one
// is needed, comes from the caller.
type Transport struct {
	client   Client
	key      *rsa.PrivateKey
	tin      string
	deviceNo string
	operator string
	clock    clockwork.Clock
	log      *log.Entry
}

func NewTransport(client Client, key *rsa.PrivateKey, tin, deviceNo, operator string, clock clockwork.Clock) *Transport {
	return &Transport{
		client:   client,
		key:      key,
		tin:      tin,
		deviceNo: deviceNo,
		operator: operator,
		clock:    clock,
		log:      log.WithField("component", "efris.transport"),
	}
}

// Exchange performs one request/response cycle for the given interface.
// plain is the serialized request content, empty for the handshake
// interfaces. The returned bytes are the decoded response content.
func (t *Transport) Exchange(interfaceCode string, plain []byte, mode EncryptionMode, aesKey []byte) ([]byte, error) {

	content, signature, err := t.encode(plain, mode, aesKey)
	if err != nil {
		return nil, err
	}

	envelope := &model.Envelope{
		Data: model.Data{
			Content:   content,
			Signature: signature,
			DataDescription: model.DataDescription{
				// The gateway expects codeType 0 on every request,
				// whatever the encryptCode says.
				CodeType:    "0",
				EncryptCode: mode.code(),
				ZipCode:     "0",
			},
		},
		GlobalInfo: model.NewGlobalInfo(t.tin, t.deviceNo, interfaceCode, t.operator, t.clock.Now()),
	}

	t.log.Debugf("%s request, encryptCode=%s", interfaceCode, mode.code())

	resp, err := t.client.PostEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	if code := resp.ReturnStateInfo.ReturnCode; code != efris.CodeSuccess {
		msg := resp.ReturnStateInfo.ReturnMessage
		if msg == "" {
			msg = efris.DescribeCode(code)
		}
		return nil, &efris.ApiError{Interface: interfaceCode, Code: code, Message: msg}
	}

	return cipher.DecodeContent(resp.Data.Content, aesKey)
}

func (t *Transport) encode(plain []byte, mode EncryptionMode, aesKey []byte) (content, signature string, err error) {
	switch mode {
	case EncryptNone:
		return string(plain), "", nil

	case EncryptSigned:
		if len(plain) == 0 {
			// The registration fetch declares encryptCode 1 but carries
			// neither content nor a signature.
			return "", "", nil
		}
		content = base64.StdEncoding.EncodeToString(plain)

	case EncryptAES:
		if aesKey == nil {
			return "", "", efris.ErrNoSessionKey
		}
		content, err = cipher.EncryptContent(plain, aesKey)
		if err != nil {
			return "", "", err
		}

	default:
		return "", "", fmt.Errorf("unknown encryption mode %d", mode)
	}

	if t.key == nil {
		return "", "", efris.ErrNoPrivateKey
	}
	signature, err = cipher.SignSHA1(t.key, []byte(content))
	return content, signature, err
}

// CanonicalJSON serializes a request content value with object keys
// sorted, the form the gateway signs and verifies against. A nil value
// yields empty bytes for the no-content handshake interfaces.
func CanonicalJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}
	var tree any
	if err := json.Unmarshal(b, &tree); err != nil {
		return nil, fmt.Errorf("canonicalize content: %w", err)
	}
	return json.Marshal(tree)
}

// Sender is the full request path used by the business services:
// canonical serialization, session key management, one forced key
// refresh on an expired-key rejection, and bounded retry on the
// gateway's transient errors.
type Sender struct {
	Transport *Transport
	Sessions  *SessionManager
}

func (s *Sender) Send(interfaceCode string, content any, mode EncryptionMode) ([]byte, error) {

	plain, err := CanonicalJSON(content)
	if err != nil {
		return nil, err
	}

	var out []byte
	err = withRetry(func() error {
		var callErr error
		out, callErr = s.sendOnce(interfaceCode, plain, mode)
		return callErr
	})
	return out, err
}

func (s *Sender) sendOnce(interfaceCode string, plain []byte, mode EncryptionMode) ([]byte, error) {

	var key []byte
	var err error
	if mode == EncryptAES {
		key, err = s.Sessions.Ensure()
		if err != nil {
			return nil, err
		}
	}

	out, err := s.Transport.Exchange(interfaceCode, plain, mode, key)
	if mode == EncryptAES && efris.IsKeyExpired(err) {
		// The gateway no longer accepts our cached key; refresh it and
		// retry exactly once.
		s.Sessions.Invalidate()
		key, err = s.Sessions.Ensure()
		if err != nil {
			return nil, err
		}
		return s.Transport.Exchange(interfaceCode, plain, mode, key)
	}
	return out, err
}
