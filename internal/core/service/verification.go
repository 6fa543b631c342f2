package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

// CodeIssuer gates privileged actions (admin self-registration, password
// reset) behind proof of email ownership via a short-lived 6-digit code.
type CodeIssuer struct {
	repo ports.VerificationRepository
	mail ports.MailDispatcher
	log  zerolog.Logger
}

func NewCodeIssuer(repo ports.VerificationRepository, mail ports.MailDispatcher, log zerolog.Logger) *CodeIssuer {
	return &CodeIssuer{repo: repo, mail: mail, log: log}
}

// Issue generates and persists a fresh code for (email, purpose) and emails
// it to the address. Every prior unused code for the pair is superseded
// first, so at most one code can validate at any time. Delivery is
// asynchronous and best-effort: a failed send does not void the code.
func (ci *CodeIssuer) Issue(ctx context.Context, email string, purpose domain.CodePurpose) (string, error) {
	if err := ci.repo.SupersedeUnused(ctx, email, purpose); err != nil {
		return "", fmt.Errorf("supersede codes: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	vc := &domain.VerificationCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		CreatedAt: time.Now().UTC(),
	}
	if err := ci.repo.Insert(ctx, vc); err != nil {
		return "", fmt.Errorf("insert code: %w", err)
	}

	ci.log.Info().Str("email", email).Str("purpose", string(purpose)).Msg("verification code issued")
	ci.mail.Enqueue(codeMail(email, purpose, code))

	return code, nil
}

// Validate checks code against the newest unused code for (email, purpose).
// A code validates iff it matches and is strictly younger than
// domain.CodeTTL at now. Validation does not consume the code; callers
// call Consume only after the downstream action has committed.
func (ci *CodeIssuer) Validate(ctx context.Context, email, code string, purpose domain.CodePurpose, now time.Time) (*domain.VerificationCode, error) {
	vc, err := ci.repo.FindLatestUnused(ctx, email, purpose)
	if err != nil {
		return nil, domain.ErrCodeInvalid
	}
	if vc.Code != code || vc.ExpiredAt(now) {
		return nil, domain.ErrCodeInvalid
	}
	return vc, nil
}

// Consume marks a validated code as used.
func (ci *CodeIssuer) Consume(ctx context.Context, id string) error {
	return ci.repo.MarkUsed(ctx, id)
}

// generateCode draws a uniformly random 6-digit code from a CSPRNG.
// Leading zeros are permitted: the full range is 000000-999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
