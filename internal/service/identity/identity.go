// Package identity owns credential accounts, the admin console session held
// in Redis, and password-reset mail.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mvillanueva/dentaladmin_backend/config"
	"github.com/mvillanueva/dentaladmin_backend/internal/model"
	"github.com/mvillanueva/dentaladmin_backend/pkg/email"
	pasetotoken "github.com/mvillanueva/dentaladmin_backend/pkg/paseto"
	"github.com/mvillanueva/dentaladmin_backend/pkg/util/password"
)

const (
	sessionKeyPrefix  = "session:"
	defaultSessionTTL = time.Hour
)

// Mailer sends transactional mail. Satisfied by *email.Client.
type Mailer interface {
	Send(ctx context.Context, m email.Message) error
	ResetURL() string
}

// Session is the console session stored in Redis for its TTL.
type Session struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	db         *gorm.DB
	rdb        *goredis.Client
	tokens     *pasetotoken.Manager
	mailer     Mailer
	logger     *slog.Logger
	adminEmail string
	sessionTTL time.Duration
	hashParams *password.Params

	mu          sync.Mutex
	nextSubID   int
	subscribers map[int]func(Event)
}

func New(db *gorm.DB, rdb *goredis.Client, tokens *pasetotoken.Manager, mailer Mailer, cfg *config.Config) *Service {
	ttl := time.Duration(cfg.Authentication.SessionTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	// nil params fall back to the package defaults.
	var hashParams *password.Params
	if cfg.Password.MemoryKiB > 0 {
		hashParams = password.FromCentralConfig(cfg.Password).ToParams()
	}

	return &Service{
		db:          db,
		rdb:         rdb,
		tokens:      tokens,
		mailer:      mailer,
		logger:      slog.Default().With("service", "identity"),
		adminEmail:  strings.ToLower(strings.TrimSpace(cfg.Admin.Email)),
		sessionTTL:  ttl,
		hashParams:  hashParams,
		subscribers: make(map[int]func(Event)),
	}
}

// SignUp registers a credential account. It does not start a session; only
// the configured admin email ever gets one.
func (s *Service) SignUp(ctx context.Context, emailAddr, pass string) (*model.Account, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || pass == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&model.Account{}).
		Where("email = ?", emailAddr).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check account: %w", err)
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := password.HashWithParams(pass, s.hashParams)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := model.Account{Email: emailAddr, PasswordHash: hash}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.InfoContext(ctx, "account created", "account_id", account.ID)
	return &account, nil
}

// SignIn authenticates the admin credential and opens a console session.
// Non-admin credentials fail with ErrNotAdmin even when the password is
// correct; secretaries authenticate against the booking app, not this one.
func (s *Service) SignIn(ctx context.Context, emailAddr, pass string) (*Session, string, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	var account model.Account
	err := s.db.WithContext(ctx).Where("email = ?", emailAddr).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("load account: %w", err)
	}

	if err := password.Verify(account.PasswordHash, pass); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if emailAddr != s.adminEmail {
		return nil, "", ErrNotAdmin
	}

	now := time.Now()
	session := &Session{
		ID:        uuid.New(),
		AccountID: account.ID,
		Email:     account.Email,
		IsAdmin:   true,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.storeSession(ctx, session); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.IssueAccess(account.ID, &session.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "admin signed in", "session_id", session.ID)
	s.notify(Event{Type: EventSignedIn, Session: session})
	return session, token, nil
}

// VerifyAccess resolves a bearer token to its live session.
func (s *Service) VerifyAccess(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != pasetotoken.TokenTypeAccess || claims.SessionID == nil {
		return nil, ErrInvalidToken
	}
	return s.SessionByID(ctx, *claims.SessionID)
}

func (s *Service) SessionByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+id.String()).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *Service) SignOut(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.SessionByID(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}

	if err := s.rdb.Del(ctx, sessionKeyPrefix+sessionID.String()).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.InfoContext(ctx, "signed out", "session_id", sessionID)
	s.notify(Event{Type: EventSignedOut, Session: session})
	return nil
}

// SendPasswordReset mails a reset link if the address has an account.
// Unknown addresses are ignored so the endpoint does not reveal which
// emails are registered.
func (s *Service) SendPasswordReset(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	var existing int64
	if err := s.db.WithContext(ctx).Model(&model.Account{}).
		Where("email = ?", emailAddr).Count(&existing).Error; err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	if existing == 0 {
		s.logger.InfoContext(ctx, "password reset requested for unknown email")
		return nil
	}

	msg := email.BuildPasswordResetEmail(email.PasswordResetData{
		Email:    emailAddr,
		ResetURL: s.mailer.ResetURL(),
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		var disabled email.ErrDisabled
		if errors.As(err, &disabled) {
			s.logger.WarnContext(ctx, "password reset mail skipped, email disabled")
			return nil
		}
		return fmt.Errorf("send reset mail: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset mail sent")
	return nil
}

func (s *Service) storeSession(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+session.ID.String(), raw, s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
