package api

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/efrisio/go-efris-client/efris"
	"github.com/efrisio/go-efris-client/efris/cipher"
	"github.com/efrisio/go-efris-client/efris/model"
)

const (
	serverTimeLayout = "2006-01-02 15:04:05"

	// maxClockSkew is how far local time may drift from the gateway's
	// before requests start failing signature and timestamp checks.
	maxClockSkew = 10 * time.Minute
)

// Session is one issued symmetric key with its lifetime. The gateway
// does not report the key's expiry, so the TTL is enforced locally and
// the expired-key return code covers the cases where the gateway
// retires it earlier.
type Session struct {
	Key        []byte
	ServerSign string
	ExpiresAt  time.Time
}

func (s *Session) Valid(now time.Time) bool {
	return s != nil && len(s.Key) > 0 && now.Before(s.ExpiresAt)
}

// SessionManager caches the symmetric key for one device and runs the
// three-step handshake (time sync, key exchange, registration) when no
// valid key exists. Concurrent callers hitting an expired key trigger
// exactly one handshake; the rest wait and reuse its result.
type SessionManager struct {
	transport *Transport
	ttl       time.Duration
	clock     clockwork.Clock
	log       *log.Entry

	mu           sync.RWMutex
	current      *Session
	registration *model.RegistrationDetails
}

func NewSessionManager(transport *Transport, ttl time.Duration, clock clockwork.Clock) *SessionManager {
	return &SessionManager{
		transport: transport,
		ttl:       ttl,
		clock:     clock,
		log:       log.WithField("component", "efris.session"),
	}
}

// Ensure returns a valid symmetric key, running the handshake if the
// cached one is missing or expired.
func (m *SessionManager) Ensure() ([]byte, error) {

	m.mu.RLock()
	if m.current.Valid(m.clock.Now()) {
		key := m.current.Key
		m.mu.RUnlock()
		return key, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have finished the handshake while we waited
	// for the write lock.
	if m.current.Valid(m.clock.Now()) {
		return m.current.Key, nil
	}

	return m.handshake()
}

// Invalidate drops the cached key so the next Ensure performs a fresh
// handshake. Called when the gateway rejects the key as expired.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}

// Registration returns the taxpayer profile fetched during the
// handshake, running one if no session exists yet.
func (m *SessionManager) Registration() (*model.RegistrationDetails, error) {
	if _, err := m.Ensure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registration, nil
}

// handshake runs T101, T104 and T103 in order. It is all-or-nothing: a
// failure at any step leaves no cached session behind.
func (m *SessionManager) handshake() ([]byte, error) {

	m.current = nil
	m.registration = nil

	m.log.Debug("starting session handshake")

	if err := m.timeSync(); err != nil {
		return nil, &efris.HandshakeError{Step: "time sync", Err: err}
	}

	session, err := m.keyExchange()
	if err != nil {
		return nil, &efris.HandshakeError{Step: "key exchange", Err: err}
	}

	registration, err := m.fetchRegistration(session.Key)
	if err != nil {
		return nil, &efris.HandshakeError{Step: "registration", Err: err}
	}

	m.current = session
	m.registration = registration

	m.log.Infof("session established, key valid until %s", session.ExpiresAt.Format(serverTimeLayout))
	return session.Key, nil
}

func (m *SessionManager) timeSync() error {

	out, err := m.transport.Exchange(model.InterfaceTimeSync, nil, EncryptNone, nil)
	if err != nil {
		return err
	}

	var ts model.TimeSyncContent
	if err := json.Unmarshal(out, &ts); err != nil {
		return err
	}

	serverTime, err := time.ParseInLocation(serverTimeLayout, ts.CurrentTime, time.Local)
	if err != nil {
		return err
	}

	if skew := m.clock.Now().Sub(serverTime).Abs(); skew > maxClockSkew {
		m.log.Warnf("local clock differs from gateway by %s", skew)
	}
	return nil
}

func (m *SessionManager) keyExchange() (*Session, error) {

	out, err := m.transport.Exchange(model.InterfaceKeyExchange, nil, EncryptNone, nil)
	if err != nil {
		return nil, err
	}

	var kx model.KeyExchangeContent
	if err := json.Unmarshal(out, &kx); err != nil {
		return nil, err
	}

	key, err := cipher.UnwrapKey(m.transport.key, kx.PasswordDes)
	if err != nil {
		return nil, err
	}

	return &Session{
		Key:        key,
		ServerSign: kx.Sign,
		ExpiresAt:  m.clock.Now().Add(m.ttl),
	}, nil
}

func (m *SessionManager) fetchRegistration(key []byte) (*model.RegistrationDetails, error) {

	// T103 goes out with encryptCode 1 on an empty, unsigned body; the
	// response comes back encrypted under the fresh session key.
	out, err := m.transport.Exchange(model.InterfaceRegistration, nil, EncryptSigned, key)
	if err != nil {
		return nil, err
	}

	var details model.RegistrationDetails
	if err := json.Unmarshal(out, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
