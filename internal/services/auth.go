package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"medadmit/internal/config"
	"medadmit/internal/domain"
	"medadmit/internal/logging"
	"medadmit/internal/metrics"
	"medadmit/internal/session"
	"medadmit/internal/store"
	"medadmit/internal/util"
	apperrors "medadmit/pkg/errors"
)

var errInvalidCredentials = apperrors.New(apperrors.ErrCodeUnauthorized, "Invalid username or password")

// RequestMeta identifies the client behind an admin action for the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
}

func (m RequestMeta) audit(action, actor string) *domain.AuditLog {
	return &domain.AuditLog{
		Action:    action,
		Actor:     actor,
		IPAddress: m.IP,
		UserAgent: m.UserAgent,
	}
}

// AuthService gates the admin area behind a single configured account
type AuthService struct {
	admin    config.AdminConfig
	sessions session.Store
	signer   *util.TokenSigner
	audit    *store.AuditRepository
	now      func() time.Time
	log      *logrus.Entry
}

// NewAuthService creates a new auth service
func NewAuthService(admin config.AdminConfig, sessions session.Store, signer *util.TokenSigner, audit *store.AuditRepository) *AuthService {
	return &AuthService{
		admin:    admin,
		sessions: sessions,
		signer:   signer,
		audit:    audit,
		now:      time.Now,
		log:      logging.For("auth"),
	}
}

// Login checks the credentials and opens a session. It returns the signed
// cookie value and its expiry.
func (s *AuthService) Login(ctx context.Context, username, password string, meta RequestMeta) (string, time.Time, error) {
	username = strings.TrimSpace(username)
	log := s.log.WithFields(logrus.Fields{"username": username, "ip": meta.IP})

	if !s.checkCredentials(username, password) {
		log.Warn("Login failed: invalid credentials")
		metrics.RecordAuthAttempt(false)
		s.record(ctx, meta.audit(domain.AuditActionLoginFailed, username))
		return "", time.Time{}, errInvalidCredentials
	}

	sess := session.NewAdmin(s.admin.Username, s.signer.TTL(), s.now())
	id, err := s.sessions.Create(ctx, sess)
	if err != nil {
		log.WithError(err).Error("Login failed: session store error")
		return "", time.Time{}, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to create session", err)
	}

	token, expires, err := s.signer.Sign(id, s.admin.Username)
	if err != nil {
		log.WithError(err).Error("Login failed: token generation error")
		_ = s.sessions.Delete(ctx, id)
		return "", time.Time{}, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to create session", err)
	}

	log.Info("Login successful")
	metrics.RecordAuthAttempt(true)
	s.record(ctx, meta.audit(domain.AuditActionLogin, s.admin.Username))

	return token, expires, nil
}

// checkCredentials always runs bcrypt so a wrong username costs as much as a
// wrong password.
func (s *AuthService) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1
	passOK := util.CheckPasswordHash(password, s.admin.PasswordHash)
	return userOK && passOK && s.admin.Username != ""
}

// Authenticate resolves a cookie value to a live admin session
func (s *AuthService) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "Authentication required")
	}

	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnauthorized, "Invalid or expired session", err)
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrCodeUnauthorized, "Invalid or expired session", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to load session", err)
	}

	if !sess.IsAdmin || sess.Expired(s.now()) {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "Invalid or expired session")
	}
	return sess, nil
}

// Logout destroys the session behind token. Unknown or invalid tokens are
// ignored.
func (s *AuthService) Logout(ctx context.Context, token string, meta RequestMeta) error {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to destroy session", err)
	}

	s.log.WithField("username", sess.Username).Info("Logout")
	s.record(ctx, meta.audit(domain.AuditActionLogout, sess.Username))
	return nil
}

// record writes an audit entry; failures are logged, not returned.
func (s *AuthService) record(ctx context.Context, entry *domain.AuditLog) {
	if err := s.audit.Record(ctx, entry); err != nil {
		s.log.WithError(err).WithField("action", entry.Action).Warn("Failed to write audit entry")
	}
}
