package api

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efrisio/go-efris-client/efris"
	"github.com/efrisio/go-efris-client/efris/cipher"
	"github.com/efrisio/go-efris-client/efris/model"
)

// fakeGateway is an in-process stand-in for the EFRIS endpoint: it
// serves the handshake interfaces out of the box and lets tests plug in
// handlers for business interfaces.
type fakeGateway struct {
	t      *testing.T
	rsaKey *rsa.PrivateKey
	aesKey []byte
	server *httptest.Server

	mu           sync.Mutex
	keyExchanges int
	requests     map[string]int
	handlers     map[string]func(env *model.Envelope) (string, model.ReturnStateInfo)
}

func newFakeGateway(t *testing.T) *fakeGateway {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	aesKey, err := cipher.GenerateKey(16)
	require.NoError(t, err)

	g := &fakeGateway{
		t:        t,
		rsaKey:   rsaKey,
		aesKey:   aesKey,
		requests: map[string]int{},
		handlers: map[string]func(env *model.Envelope) (string, model.ReturnStateInfo){},
	}
	g.server = httptest.NewServer(http.HandlerFunc(g.handle))
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGateway) handle(w http.ResponseWriter, r *http.Request) {
	var env model.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ic := env.GlobalInfo.InterfaceCode

	g.mu.Lock()
	g.requests[ic]++
	handler := g.handlers[ic]
	g.mu.Unlock()

	content := ""
	state := model.ReturnStateInfo{ReturnCode: efris.CodeSuccess, ReturnMessage: "SUCCESS"}

	switch {
	case handler != nil:
		content, state = handler(&env)

	case ic == model.InterfaceTimeSync:
		payload, _ := json.Marshal(model.TimeSyncContent{CurrentTime: "2025-03-01 10:00:00"})
		content = base64.StdEncoding.EncodeToString(payload)

	case ic == model.InterfaceKeyExchange:
		g.mu.Lock()
		g.keyExchanges++
		g.mu.Unlock()
		inner := base64.StdEncoding.EncodeToString(g.aesKey)
		wrapped, err := rsa.EncryptPKCS1v15(rand.Reader, &g.rsaKey.PublicKey, []byte(inner))
		require.NoError(g.t, err)
		payload, _ := json.Marshal(model.KeyExchangeContent{
			PasswordDes: base64.StdEncoding.EncodeToString(wrapped),
			Sign:        "server-sign",
		})
		content = base64.StdEncoding.EncodeToString(payload)

	case ic == model.InterfaceRegistration:
		payload, _ := json.Marshal(model.RegistrationDetails{
			Taxpayer: model.Taxpayer{TIN: "1014409290", LegalName: "Acme Uganda Ltd"},
		})
		content = g.encrypt(payload)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(model.Envelope{
		Data:            model.Data{Content: content},
		ReturnStateInfo: state,
	})
}

func (g *fakeGateway) encrypt(payload []byte) string {
	ct, err := cipher.EncryptECB(payload, g.aesKey)
	require.NoError(g.t, err)
	return base64.StdEncoding.EncodeToString(ct)
}

func (g *fakeGateway) decrypt(content string) []byte {
	raw, err := base64.StdEncoding.DecodeString(content)
	require.NoError(g.t, err)
	plain, err := cipher.DecryptECB(raw, g.aesKey)
	require.NoError(g.t, err)
	return plain
}

func (g *fakeGateway) on(interfaceCode string, h func(env *model.Envelope) (string, model.ReturnStateInfo)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers[interfaceCode] = h
}

func (g *fakeGateway) count(interfaceCode string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[interfaceCode]
}

func (g *fakeGateway) exchanges() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.keyExchanges
}

func newTestStack(t *testing.T, g *fakeGateway, clock clockwork.Clock) *Sender {
	client := New(efris.Test, WithEndpoint(g.server.URL), WithTimeout(5*time.Second))
	transport := NewTransport(client, g.rsaKey, "1014409290", "1014409290_02", "admin", clock)
	sessions := NewSessionManager(transport, 24*time.Hour, clock)
	return &Sender{Transport: transport, Sessions: sessions}
}

func TestEnsureRunsHandshakeOnce(t *testing.T) {
	g := newFakeGateway(t)
	clock := clockwork.NewFakeClock()
	sender := newTestStack(t, g, clock)

	key, err := sender.Sessions.Ensure()
	require.NoError(t, err)
	assert.Equal(t, g.aesKey, key)
	assert.Equal(t, 1, g.exchanges())

	// A second Ensure within the TTL reuses the cached key.
	key2, err := sender.Sessions.Ensure()
	require.NoError(t, err)
	assert.Equal(t, key, key2)
	assert.Equal(t, 1, g.exchanges())
	assert.Equal(t, 1, g.count(model.InterfaceRegistration))
}

func TestEnsureRefreshesExpiredKey(t *testing.T) {
	g := newFakeGateway(t)
	clock := clockwork.NewFakeClock()
	sender := newTestStack(t, g, clock)

	_, err := sender.Sessions.Ensure()
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)

	_, err = sender.Sessions.Ensure()
	require.NoError(t, err)
	assert.Equal(t, 2, g.exchanges())
}

func TestRegistrationComesFromHandshake(t *testing.T) {
	g := newFakeGateway(t)
	sender := newTestStack(t, g, clockwork.NewFakeClock())

	reg, err := sender.Sessions.Registration()
	require.NoError(t, err)
	assert.Equal(t, "1014409290", reg.Taxpayer.TIN)
	assert.Equal(t, "Acme Uganda Ltd", reg.Taxpayer.LegalName)
}

func TestRegistrationRequestWireFormat(t *testing.T) {
	g := newFakeGateway(t)
	sender := newTestStack(t, g, clockwork.NewFakeClock())

	// T103 declares encryptCode 1 but goes out with empty content and
	// no signature; the handshake interfaces all use codeType 0.
	g.on(model.InterfaceRegistration, func(env *model.Envelope) (string, model.ReturnStateInfo) {
		assert.Equal(t, model.EncryptCodeSigned, env.Data.DataDescription.EncryptCode)
		assert.Equal(t, "0", env.Data.DataDescription.CodeType)
		assert.Empty(t, env.Data.Content)
		assert.Empty(t, env.Data.Signature)

		payload, _ := json.Marshal(model.RegistrationDetails{
			Taxpayer: model.Taxpayer{TIN: "1014409290"},
		})
		return g.encrypt(payload), model.ReturnStateInfo{ReturnCode: efris.CodeSuccess, ReturnMessage: "SUCCESS"}
	})
	g.on(model.InterfaceTimeSync, func(env *model.Envelope) (string, model.ReturnStateInfo) {
		assert.Equal(t, model.EncryptCodePlain, env.Data.DataDescription.EncryptCode)
		assert.Equal(t, "0", env.Data.DataDescription.CodeType)

		payload, _ := json.Marshal(model.TimeSyncContent{CurrentTime: "2025-03-01 10:00:00"})
		return base64.StdEncoding.EncodeToString(payload), model.ReturnStateInfo{ReturnCode: efris.CodeSuccess, ReturnMessage: "SUCCESS"}
	})

	reg, err := sender.Sessions.Registration()
	require.NoError(t, err)
	assert.Equal(t, "1014409290", reg.Taxpayer.TIN)
}

func TestHandshakeFailureLeavesNoSession(t *testing.T) {
	g := newFakeGateway(t)
	sender := newTestStack(t, g, clockwork.NewFakeClock())

	g.on(model.InterfaceRegistration, func(*model.Envelope) (string, model.ReturnStateInfo) {
		return "", model.ReturnStateInfo{ReturnCode: "99", ReturnMessage: "Unknown system error"}
	})

	_, err := sender.Sessions.Ensure()
	var hsErr *efris.HandshakeError
	require.ErrorAs(t, err, &hsErr)
	assert.Equal(t, "registration", hsErr.Step)

	// Recovery: once the gateway behaves, the next Ensure runs a full
	// fresh handshake.
	g.on(model.InterfaceRegistration, nil)
	key, err := sender.Sessions.Ensure()
	require.NoError(t, err)
	assert.Equal(t, g.aesKey, key)
	assert.Equal(t, 2, g.exchanges())
}

func TestConcurrentEnsureSingleHandshake(t *testing.T) {
	g := newFakeGateway(t)
	sender := newTestStack(t, g, clockwork.NewFakeClock())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sender.Sessions.Ensure()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, g.exchanges())
}
