// Package registration gates account creation behind a one-time code mailed
// to the address being registered.
package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bomberman-api/internal/domain"
	"github.com/bomberman-api/internal/infrastructure/smtp"
	"github.com/bomberman-api/internal/pkg/code"
	"github.com/bomberman-api/internal/pkg/logx"
	"github.com/bomberman-api/internal/pkg/password"
	"github.com/bomberman-api/internal/pkg/validate"
)

const (
	defaultOTPTTL = 10 * time.Minute

	// maxFriendCodeAttempts bounds the collision retries when assigning a friend code.
	maxFriendCodeAttempts = 10

	otpSubject = "Your Bomberman Verification Code"
)

type Service interface {
	SendOTP(ctx context.Context, req domain.SendOTPRequest) error
	VerifyAndRegister(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByFriendCode(ctx context.Context, code string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

type otpStore interface {
	Upsert(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, email string) error
}

type ServiceDeps struct {
	UserRepo userStore
	OTPRepo  otpStore
	Mailer   smtp.Mailer
	OTPTTL   time.Duration

	// Optional overrides, used by tests.
	Now           func() time.Time
	NewOTP        func() (string, error)
	NewFriendCode func() (string, error)
}

type service struct {
	users         userStore
	otps          otpStore
	mailer        smtp.Mailer
	ttl           time.Duration
	now           func() time.Time
	newOTP        func() (string, error)
	newFriendCode func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		users:         deps.UserRepo,
		otps:          deps.OTPRepo,
		mailer:        deps.Mailer,
		ttl:           deps.OTPTTL,
		now:           deps.Now,
		newOTP:        deps.NewOTP,
		newFriendCode: deps.NewFriendCode,
	}
	if s.ttl <= 0 {
		s.ttl = defaultOTPTTL
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newOTP == nil {
		s.newOTP = code.NewOTP
	}
	if s.newFriendCode == nil {
		s.newFriendCode = code.NewFriendCode
	}
	return s
}

// SendOTP issues a fresh code for req.Email, replacing any earlier one, and
// mails it. If the mail relay fails the stored code is left in place.
func (s *service) SendOTP(ctx context.Context, req domain.SendOTPRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	_, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return fmt.Errorf("account exists for %s: %w", req.Email, domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("check existing account: %w: %w", domain.ErrPersistence, err)
	}

	otp, err := s.newOTP()
	if err != nil {
		return err
	}
	rec := &domain.OTPRecord{
		Email:     req.Email,
		OTP:       otp,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.otps.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("store otp: %w: %w", domain.ErrPersistence, err)
	}

	expiry := expiryText(s.ttl)
	msg := smtp.Message{
		To:      req.Email,
		Subject: otpSubject,
		Text:    fmt.Sprintf("Your verification code is: %s\nThis code will expire in %s.", otp, expiry),
		HTML:    fmt.Sprintf("<p>Your verification code is: <b>%s</b></p><p>This code will expire in %s.</p>", otp, expiry),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send otp mail: %w: %w", domain.ErrDelivery, err)
	}
	return nil
}

// VerifyAndRegister consumes the code on record for req.Email and creates the
// account. The user is inserted before the code is deleted, so a failure in
// between leaves a code that can still be verified.
func (s *service) VerifyAndRegister(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	rec, err := s.otps.Get(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no otp on record: %w", domain.ErrInvalidOTP)
	}
	if err != nil {
		return nil, fmt.Errorf("load otp: %w: %w", domain.ErrPersistence, err)
	}
	if !rec.Valid(req.OTP, s.now()) {
		return nil, domain.ErrInvalidOrExpiredOTP
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.createUser(ctx, req.Email, hash)
	if err != nil {
		return nil, err
	}
	if err := s.otps.Delete(ctx, req.Email); err != nil {
		// The account exists; the leftover record expires through the store TTL.
		logx.FromContext(ctx).Warn("failed to delete consumed otp record", "email", req.Email, "err", err)
	}
	return u, nil
}

// createUser inserts a user under a fresh friend code. A code seen in use, or
// one that loses an insert race, is redrawn; after maxFriendCodeAttempts
// draws it gives up.
func (s *service) createUser(ctx context.Context, email, hash string) (*domain.User, error) {
	for range maxFriendCodeAttempts {
		c, err := s.newFriendCode()
		if err != nil {
			return nil, err
		}
		_, err = s.users.GetByFriendCode(ctx, c)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("check friend code: %w: %w", domain.ErrPersistence, err)
		}

		u := domain.NewUser(email, hash, c)
		err = s.users.Create(ctx, u)
		switch {
		case err == nil:
			return u, nil
		case errors.Is(err, domain.ErrFriendCodeTaken):
			continue
		case errors.Is(err, domain.ErrConflict):
			return nil, err
		default:
			return nil, fmt.Errorf("create user: %w: %w", domain.ErrPersistence, err)
		}
	}
	return nil, fmt.Errorf("no free friend code after %d attempts: %w", maxFriendCodeAttempts, domain.ErrKeyspaceExhausted)
}

// expiryText renders ttl for the mail body, e.g. "10 minutes" or "45 seconds".
func expiryText(ttl time.Duration) string {
	switch {
	case ttl%time.Minute == 0:
		return plural(int(ttl/time.Minute), "minute")
	case ttl%time.Second == 0:
		return plural(int(ttl/time.Second), "second")
	default:
		return ttl.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
