package domain

import "time"

// CodePurpose tags what a verification code is allowed to unlock.
type CodePurpose string

const (
	PurposeAdminRegistration CodePurpose = "admin_registration"
	PurposePasswordReset     CodePurpose = "password_reset"
)

// CodeTTL is the validity window of a verification code, measured from
// issuance. The boundary is strict: a code aged exactly CodeTTL is expired.
const CodeTTL = 10 * time.Minute

// VerificationCode is one issued 6-digit code. Rows are never deleted;
// superseded or consumed codes are flipped to Used and kept as an audit
// trail.
type VerificationCode struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Code      string      `json:"code"`
	Purpose   CodePurpose `json:"purpose"`
	CreatedAt time.Time   `json:"created_at"`
	Used      bool        `json:"used"`
}

// ExpiredAt reports whether the code is past its validity window at now.
func (v *VerificationCode) ExpiredAt(now time.Time) bool {
	return now.Sub(v.CreatedAt) >= CodeTTL
}
