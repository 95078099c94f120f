package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mvillanueva/dentaladmin_backend/config"
	"github.com/mvillanueva/dentaladmin_backend/internal/model"
	"github.com/mvillanueva/dentaladmin_backend/pkg/email"
	pasetotoken "github.com/mvillanueva/dentaladmin_backend/pkg/paseto"
)

const adminEmail = "admin@clinic.example"

type fakeMailer struct {
	sent []email.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, m email.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeMailer) ResetURL() string { return "https://clinic.example/reset" }

func newTestService(t *testing.T) (*Service, *fakeMailer, *miniredis.Miniredis) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Account{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	keys, err := pasetotoken.LoadKeys(pasetotoken.KeyStrings{
		Mode:         pasetotoken.ModeLocal,
		SymmetricHex: strings.Repeat("ab", 32),
	})
	if err != nil {
		t.Fatalf("load keys: %v", err)
	}
	tokens, err := pasetotoken.New(pasetotoken.Config{
		Mode:      pasetotoken.ModeLocal,
		Issuer:    "dentaladmin-test",
		Audience:  "console",
		AccessTTL: 15 * time.Minute,
	}, keys)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}

	mailer := &fakeMailer{}
	cfg := &config.Config{}
	cfg.Admin.Email = adminEmail
	cfg.Authentication.SessionTTLMinutes = 30

	return New(db, rdb, tokens, mailer, cfg), mailer, mr
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	account, err := svc.SignUp(ctx, adminEmail, "hunter22")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if account.PasswordHash == "hunter22" {
		t.Fatal("password stored in plaintext")
	}

	session, token, err := svc.SignIn(ctx, adminEmail, "hunter22")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if !session.IsAdmin {
		t.Error("session not marked admin")
	}
	if token == "" {
		t.Error("no access token issued")
	}

	resolved, err := svc.VerifyAccess(ctx, token)
	if err != nil {
		t.Fatalf("VerifyAccess() error = %v", err)
	}
	if resolved.ID != session.ID {
		t.Errorf("resolved session %s, want %s", resolved.ID, session.ID)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "mia@example.com", "secret1"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if _, err := svc.SignUp(ctx, "MIA@example.com", "secret2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("SignUp() error = %v, want ErrEmailTaken", err)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, adminEmail, "hunter22"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if _, _, err := svc.SignIn(ctx, adminEmail, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn() error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.SignIn(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn() unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignInNonAdminRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "mia@example.com", "secret1"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if _, _, err := svc.SignIn(ctx, "mia@example.com", "secret1"); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("SignIn() error = %v, want ErrNotAdmin", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, adminEmail, "hunter22"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	session, token, err := svc.SignIn(ctx, adminEmail, "hunter22")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	mr.FastForward(31 * time.Minute)

	if _, err := svc.SessionByID(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SessionByID() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.VerifyAccess(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("VerifyAccess() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSignOutNotifiesSubscribers(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	var events []Event
	unsubscribe := svc.Subscribe(func(ev Event) { events = append(events, ev) })

	if _, err := svc.SignUp(ctx, adminEmail, "hunter22"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	session, _, err := svc.SignIn(ctx, adminEmail, "hunter22")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if err := svc.SignOut(ctx, session.ID); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Type != EventSignedIn || events[1].Type != EventSignedOut {
		t.Errorf("event order = %v, %v", events[0].Type, events[1].Type)
	}
	if events[1].Session == nil || events[1].Session.ID != session.ID {
		t.Error("sign-out event missing session")
	}

	// Session is gone after sign-out.
	if _, err := svc.SessionByID(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SessionByID() after sign-out error = %v, want ErrSessionNotFound", err)
	}

	unsubscribe()
	if _, _, err := svc.SignIn(ctx, adminEmail, "hunter22"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if len(events) != 2 {
		t.Errorf("unsubscribed callback still invoked, events = %d", len(events))
	}
}

func TestSendPasswordReset(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "mia@example.com", "secret1"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if err := svc.SendPasswordReset(ctx, "mia@example.com"); err != nil {
		t.Fatalf("SendPasswordReset() error = %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if len(msg.To) != 1 || msg.To[0] != "mia@example.com" {
		t.Errorf("mail recipients = %v", msg.To)
	}
	if !strings.Contains(msg.TextBody, mailer.ResetURL()) {
		t.Error("mail body missing reset link")
	}

	// Unknown addresses are silently ignored.
	if err := svc.SendPasswordReset(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("SendPasswordReset() unknown email error = %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("mails sent = %d after unknown address, want 1", len(mailer.sent))
	}
}

func TestSendPasswordResetEmailDisabled(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "mia@example.com", "secret1"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	mailer.err = email.ErrDisabled{}
	if err := svc.SendPasswordReset(ctx, "mia@example.com"); err != nil {
		t.Errorf("SendPasswordReset() error = %v, want nil when email disabled", err)
	}
}
