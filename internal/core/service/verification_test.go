package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

func newTestCodeIssuer() (*CodeIssuer, *stubVerificationRepo, *stubMailDispatcher) {
	repo := newStubVerificationRepo()
	mail := &stubMailDispatcher{}
	return NewCodeIssuer(repo, mail, zerolog.Nop()), repo, mail
}

func TestCodeIssuerIssueFormat(t *testing.T) {
	issuer, _, mail := newTestCodeIssuer()

	code, err := issuer.Issue(context.Background(), "ops@fleetgate.example", domain.PurposeAdminRegistration)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !regexp.MustCompile(`^\d{6}$`).MatchString(code) {
		t.Errorf("expected a 6-digit code, got %q", code)
	}

	sent := mail.sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 mail enqueued, got %d", len(sent))
	}
	if sent[0].To != "ops@fleetgate.example" {
		t.Errorf("mail addressed to %q", sent[0].To)
	}
}

func TestCodeIssuerValidateHappyPath(t *testing.T) {
	issuer, _, _ := newTestCodeIssuer()
	ctx := context.Background()

	code, err := issuer.Issue(ctx, "user@example.com", domain.PurposePasswordReset)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	vc, err := issuer.Validate(ctx, "user@example.com", code, domain.PurposePasswordReset, time.Now().UTC())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if vc.Code != code {
		t.Errorf("validated code %q, want %q", vc.Code, code)
	}
}

func TestCodeIssuerValidateWrongCode(t *testing.T) {
	issuer, _, _ := newTestCodeIssuer()
	ctx := context.Background()

	code, err := issuer.Issue(ctx, "user@example.com", domain.PurposePasswordReset)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	if _, err := issuer.Validate(ctx, "user@example.com", wrong, domain.PurposePasswordReset, time.Now().UTC()); !errors.Is(err, domain.ErrCodeInvalid) {
		t.Errorf("expected ErrCodeInvalid, got %v", err)
	}
}

func TestCodeIssuerSupersedesPriorCodes(t *testing.T) {
	issuer, _, _ := newTestCodeIssuer()
	ctx := context.Background()

	first, err := issuer.Issue(ctx, "user@example.com", domain.PurposePasswordReset)
	if err != nil {
		t.Fatalf("Issue first: %v", err)
	}
	second, err := issuer.Issue(ctx, "user@example.com", domain.PurposePasswordReset)
	if err != nil {
		t.Fatalf("Issue second: %v", err)
	}

	if first != second {
		if _, err := issuer.Validate(ctx, "user@example.com", first, domain.PurposePasswordReset, time.Now().UTC()); !errors.Is(err, domain.ErrCodeInvalid) {
			t.Errorf("superseded code still validates, err=%v", err)
		}
	}
	if _, err := issuer.Validate(ctx, "user@example.com", second, domain.PurposePasswordReset, time.Now().UTC()); err != nil {
		t.Errorf("latest code should validate, got %v", err)
	}
}

func TestCodeIssuerExpiryBoundary(t *testing.T) {
	issuer, repo, _ := newTestCodeIssuer()
	ctx := context.Background()

	code, err := issuer.Issue(ctx, "user@example.com", domain.PurposePasswordReset)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id := repo.latestID()

	// One second inside the window still validates.
	repo.backdate(id, domain.CodeTTL-time.Second)
	if _, err := issuer.Validate(ctx, "user@example.com", code, domain.PurposePasswordReset, time.Now().UTC()); err != nil {
		t.Errorf("code inside the validity window rejected: %v", err)
	}

	// Exactly at the boundary the code is already expired.
	repo.backdate(id, time.Second)
	if _, err := issuer.Validate(ctx, "user@example.com", code, domain.PurposePasswordReset, time.Now().UTC()); !errors.Is(err, domain.ErrCodeInvalid) {
		t.Errorf("code at the expiry boundary should be invalid, got %v", err)
	}
}

func TestCodeIssuerConsumeIsTerminal(t *testing.T) {
	issuer, _, _ := newTestCodeIssuer()
	ctx := context.Background()

	code, err := issuer.Issue(ctx, "user@example.com", domain.PurposePasswordReset)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	vc, err := issuer.Validate(ctx, "user@example.com", code, domain.PurposePasswordReset, time.Now().UTC())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := issuer.Consume(ctx, vc.ID); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	if _, err := issuer.Validate(ctx, "user@example.com", code, domain.PurposePasswordReset, time.Now().UTC()); !errors.Is(err, domain.ErrCodeInvalid) {
		t.Errorf("consumed code should not validate again, got %v", err)
	}
}

func TestCodeIssuerConcurrentIssue(t *testing.T) {
	issuer, repo, _ := newTestCodeIssuer()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := issuer.Issue(ctx, "user@example.com", domain.PurposePasswordReset); err != nil {
				t.Errorf("Issue: %v", err)
			}
		}()
	}
	wg.Wait()

	// Whatever the interleaving, validation only honors the newest code.
	latest, err := repo.FindLatestUnused(ctx, "user@example.com", domain.PurposePasswordReset)
	if err != nil {
		t.Fatalf("FindLatestUnused: %v", err)
	}
	if _, err := issuer.Validate(ctx, "user@example.com", latest.Code, domain.PurposePasswordReset, time.Now().UTC()); err != nil {
		t.Errorf("newest code should validate, got %v", err)
	}
}
