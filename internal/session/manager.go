package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
	"github.com/wolfeidau/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Backend is the subset of client.Client used for the auth endpoints.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, in, out any) error
}

// ErrEmailNotVerified is returned by Login when the backend refuses an account
// whose email address has not been confirmed yet.
var ErrEmailNotVerified = errors.New("email address has not been verified")

// unverifiedEmailMessages are the fragments of the backend's login rejection
// for an unconfirmed address.
var unverifiedEmailMessages = []string{
	"vérifier votre email",
	"email avant de vous connecter",
	"verify your email",
	"email not verified",
}

// RegistrationResult is returned by Register. Accounts must verify their
// email before they can log in, so no session is created.
type RegistrationResult struct {
	Email                string
	Message              string
	VerificationRequired bool
}

// Manager owns the session. It is the only writer of the token store and
// publishes every change of the signed-in profile to subscribers.
type Manager struct {
	store   *Store
	backend Backend

	mu    sync.RWMutex
	token string
	user  *models.Profile

	subsMu  sync.Mutex
	subs    map[int]func(*models.Profile)
	nextSub int
}

// NewManager restores any session persisted in store. A token without a
// profile, or a profile without a token, restores as signed out.
func NewManager(store *Store) *Manager {
	m := &Manager{
		store: store,
		subs:  map[int]func(*models.Profile){},
	}

	sess := m.readStore()
	m.token, m.user = sess.Token, sess.User

	log.Debug().
		Bool("loggedIn", m.user != nil).
		Str("path", store.Path()).
		Msg("session restored")

	return m
}

// SetBackend attaches the backend used by the auth operations.
func (m *Manager) SetBackend(b Backend) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backend = b
}

func (m *Manager) getBackend() (Backend, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.backend == nil {
		return nil, errors.New("session manager has no backend")
	}
	return m.backend, nil
}

// readStore loads a consistent token and profile pair. Anything less is an
// empty session.
func (m *Manager) readStore() models.Session {
	entries, err := m.store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load session, starting signed out")
		return models.Session{}
	}

	token := entries[KeyToken]
	rawUser, ok := entries[KeyCurrentUser]
	if !client.ValidToken(token) || !ok {
		return models.Session{}
	}

	var user models.Profile
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || !user.Valid() {
		log.Warn().Err(err).Msg("stored profile is unreadable, starting signed out")
		return models.Session{}
	}

	return models.Session{Token: token, User: &user}
}

// Token returns the bearer token when signed in, otherwise "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil || !client.ValidToken(m.token) {
		return ""
	}
	return m.token
}

// CurrentUser returns a copy of the signed-in profile, nil when signed out.
func (m *Manager) CurrentUser() *models.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil || !client.ValidToken(m.token) {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) IsLoggedIn() bool {
	return m.CurrentUser() != nil
}

func (m *Manager) IsAdmin() bool {
	return m.CurrentUser().IsAdmin()
}

// Login exchanges credentials for a session. On any failure the previous
// session, if any, is left as it was.
func (m *Manager) Login(ctx context.Context, req models.LoginRequest) (*models.Profile, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, client.NewError(client.KindValidation, "email and password are required")
	}

	b, err := m.getBackend()
	if err != nil {
		return nil, err
	}

	metrics := telemetry.GetMetrics()

	var raw json.RawMessage
	if err := b.Post(ctx, "/Auth/login", req, &raw); err != nil {
		metrics.LoginFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "rejected")))
		return nil, asAuthentication(err)
	}

	sess, err := NormalizeAuthResponse(raw)
	if err != nil {
		metrics.LoginFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "malformed")))
		return nil, client.WrapError(client.KindAuthentication, err.Error(), err)
	}

	if err := m.establish(sess); err != nil {
		return nil, err
	}

	metrics.LoginsTotal.Add(ctx, 1)

	log.Info().
		Int("userID", sess.User.UserID).
		Str("role", sess.User.Role).
		Str("token", client.Fingerprint(sess.Token)).
		Msg("logged in")

	return m.CurrentUser(), nil
}

// asAuthentication reclassifies a backend rejection of the credentials.
// Transport failures and server errors keep their kind.
func asAuthentication(err error) error {
	var cerr *client.Error
	if !errors.As(err, &cerr) {
		return err
	}
	if cerr.Status < 400 || cerr.Status >= 500 {
		return err
	}
	if unverifiedEmail(cerr.Message) {
		e := client.WrapError(client.KindAuthentication, cerr.Message, ErrEmailNotVerified)
		e.Status = cerr.Status
		return e
	}
	out := *cerr
	out.Kind = client.KindAuthentication
	return &out
}

func unverifiedEmail(message string) bool {
	message = strings.ToLower(message)
	for _, fragment := range unverifiedEmailMessages {
		if strings.Contains(message, fragment) {
			return true
		}
	}
	return false
}

// establish persists and publishes a new session. The store write happens
// first so a failed write leaves memory untouched.
func (m *Manager) establish(sess *models.Session) error {
	if !sess.Complete() || !client.ValidToken(sess.Token) {
		return client.NewError(client.KindAuthentication, "login response did not contain a session")
	}

	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}

	m.mu.Lock()
	err = m.store.SetAll(map[string]string{
		KeyToken:       sess.Token,
		KeyCurrentUser: string(rawUser),
	})
	if err != nil {
		m.mu.Unlock()
		return err
	}
	user := *sess.User
	m.token, m.user = sess.Token, &user
	m.mu.Unlock()

	m.publish(&user)

	return nil
}

// Register creates an account. Mismatched passwords fail before any request
// is made.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (*RegistrationResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Password != req.ConfirmPassword {
		return nil, client.NewError(client.KindValidation, "passwords do not match")
	}
	if req.Email == "" || req.Password == "" {
		return nil, client.NewError(client.KindValidation, "email and password are required")
	}
	if req.PhoneNumber != "" && !models.ValidPhone(req.PhoneNumber) {
		return nil, client.NewError(client.KindValidation, "phone number is invalid")
	}

	b, err := m.getBackend()
	if err != nil {
		return nil, err
	}

	var resp models.MessageResponse
	if err := b.Post(ctx, "/Auth/register", req, &resp); err != nil {
		return nil, err
	}

	msg := resp.Message
	if msg == "" {
		msg = "Registration successful. Please check your email to verify your account."
	}

	return &RegistrationResult{Email: req.Email, Message: msg, VerificationRequired: true}, nil
}

// Logout clears the session. Calling it while signed out is harmless. The
// in-memory session is always cleared even if the store cannot be updated.
func (m *Manager) Logout() error {
	m.mu.Lock()
	wasLoggedIn := m.user != nil
	m.token, m.user = "", nil
	err := m.store.Remove(KeyToken, KeyCurrentUser)
	m.mu.Unlock()

	if wasLoggedIn {
		telemetry.GetMetrics().LogoutsTotal.Add(context.Background(), 1)
		log.Info().Msg("logged out")
	}

	m.publish(nil)

	return err
}

// UpdatePhone changes the phone number and merges it into the stored profile.
// The token is not touched.
func (m *Manager) UpdatePhone(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" || !models.ValidPhone(phone) {
		return client.NewError(client.KindValidation, "phone number is invalid")
	}

	current := m.CurrentUser()
	if current == nil {
		return client.NewError(client.KindAuthentication, "you must be logged in")
	}

	b, err := m.getBackend()
	if err != nil {
		return err
	}

	if err := b.Post(ctx, "/Auth/update-phone", models.UpdatePhoneRequest{PhoneNumber: phone}, nil); err != nil {
		return err
	}

	return m.updateProfile(current.UserID, func(p *models.Profile) {
		p.PhoneNumber = phone
	})
}

// RefreshProfile reloads the profile from /Auth/me, keeping the token.
func (m *Manager) RefreshProfile(ctx context.Context) (*models.Profile, error) {
	current := m.CurrentUser()
	if current == nil {
		return nil, client.NewError(client.KindAuthentication, "you must be logged in")
	}

	b, err := m.getBackend()
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := b.Get(ctx, "/Auth/me", nil, &raw); err != nil {
		return nil, err
	}

	fresh, err := NormalizeProfile(raw)
	if err != nil {
		return nil, client.WrapError(client.KindUnexpected, err.Error(), err)
	}

	if err := m.updateProfile(current.UserID, func(p *models.Profile) { *p = *fresh }); err != nil {
		return nil, err
	}

	return m.CurrentUser(), nil
}

// updateProfile applies fn to the stored profile if the same user is still
// signed in. A session that ended or changed while a request was in flight is
// left alone.
func (m *Manager) updateProfile(userID int, fn func(*models.Profile)) error {
	m.mu.Lock()
	if m.user == nil || m.user.UserID != userID {
		m.mu.Unlock()
		log.Debug().Int("userID", userID).Msg("session changed during profile update, skipping")
		return nil
	}

	updated := *m.user
	fn(&updated)

	rawUser, err := json.Marshal(&updated)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if err := m.store.SetAll(map[string]string{KeyCurrentUser: string(rawUser)}); err != nil {
		m.mu.Unlock()
		return err
	}
	m.user = &updated
	m.mu.Unlock()

	published := updated
	m.publish(&published)

	return nil
}

// ChangePassword updates the password. The local session is unchanged.
func (m *Manager) ChangePassword(ctx context.Context, current, newPassword, confirm string) error {
	if current == "" || newPassword == "" {
		return client.NewError(client.KindValidation, "current and new password are required")
	}
	if newPassword != confirm {
		return client.NewError(client.KindValidation, "passwords do not match")
	}

	b, err := m.getBackend()
	if err != nil {
		return err
	}

	return b.Post(ctx, "/Auth/change-password", models.ChangePasswordRequest{
		CurrentPassword:    current,
		NewPassword:        newPassword,
		ConfirmNewPassword: confirm,
	}, nil)
}

// VerifyEmail confirms an address with the token sent by email.
func (m *Manager) VerifyEmail(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", client.NewError(client.KindValidation, "verification token is required")
	}

	b, err := m.getBackend()
	if err != nil {
		return "", err
	}

	var resp models.MessageResponse
	if err := b.Post(ctx, "/Auth/verify-email", models.VerifyEmailRequest{Token: token}, &resp); err != nil {
		return "", err
	}

	return resp.Message, nil
}

// ResendVerification asks the backend to send a new verification email.
func (m *Manager) ResendVerification(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", client.NewError(client.KindValidation, "email is required")
	}

	b, err := m.getBackend()
	if err != nil {
		return "", err
	}

	var resp models.MessageResponse
	if err := b.Post(ctx, "/Auth/resend-verification", models.ResendVerificationRequest{Email: email}, &resp); err != nil {
		return "", err
	}

	return resp.Message, nil
}

// Subscribe calls fn with the current profile and again after every change,
// nil meaning signed out. Call the returned func to stop receiving updates.
func (m *Manager) Subscribe(fn func(*models.Profile)) (unsubscribe func()) {
	m.subsMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subsMu.Unlock()

	fn(m.CurrentUser())

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subsMu.Lock()
			delete(m.subs, id)
			m.subsMu.Unlock()
		})
	}
}

func (m *Manager) publish(user *models.Profile) {
	m.subsMu.Lock()
	fns := make([]func(*models.Profile), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subsMu.Unlock()

	for _, fn := range fns {
		if user == nil {
			fn(nil)
			continue
		}
		u := *user
		fn(&u)
	}
}

// compile time checks
var (
	_ client.Session = (*Manager)(nil)
	_ Backend        = (*client.Client)(nil)
)
