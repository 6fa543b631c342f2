package service

import (
	"fmt"

	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

const mailFooter = `<div style="background:#f1f5f9;padding:12px;text-align:center;color:#64748b;font-size:13px;">
This email was sent automatically. Please do not reply.</div>`

func mailShell(title, inner string) string {
	return fmt.Sprintf(`<html><body style="font-family:Arial,sans-serif;background:#f8fafc;color:#232946;padding:24px;">
<div style="max-width:480px;margin:auto;background:#fff;border-radius:12px;border:1px solid #e0e7ef;">
<div style="background:linear-gradient(90deg,#6366f1 0%%,#38bdf8 100%%);padding:18px 0;border-radius:12px 12px 0 0;text-align:center;">
<h2 style="color:#fff;margin:0;">%s</h2></div>
<div style="padding:24px;">%s</div>
%s</div></body></html>`, title, inner, mailFooter)
}

func codeMail(email string, purpose domain.CodePurpose, code string) ports.MailMessage {
	switch purpose {
	case domain.PurposeAdminRegistration:
		return ports.MailMessage{
			To:      email,
			Subject: "Your admin registration code",
			Body: mailShell("Admin Registration",
				fmt.Sprintf(`<p>Your verification code for admin registration is <b>%s</b>.</p>
<p>The code is valid for 10 minutes.</p>`, code)),
		}
	default:
		return ports.MailMessage{
			To:      email,
			Subject: "Your password reset code",
			Body: mailShell("Password Reset",
				fmt.Sprintf(`<p>Your password reset code is <b>%s</b>.</p>
<p>The code is valid for 10 minutes. If you did not request a reset, you can ignore this email.</p>`, code)),
		}
	}
}

func reservationCreatedMail(to, username string, r *domain.Reservation, v *domain.Vehicle, d *domain.Driver) ports.MailMessage {
	inner := fmt.Sprintf(`<p>Hello <b>%s</b>,</p><p>Your reservation request was received:</p>
<table style="width:100%%;border-collapse:collapse;margin:16px 0;">
<tr><td style="font-weight:bold;padding:6px;">Date:</td><td style="padding:6px;">%s</td></tr>
<tr><td style="font-weight:bold;padding:6px;">Vehicle:</td><td style="padding:6px;">%s %s %s</td></tr>
<tr><td style="font-weight:bold;padding:6px;">Driver:</td><td style="padding:6px;">%s</td></tr>
<tr><td style="font-weight:bold;padding:6px;">Company:</td><td style="padding:6px;">%s</td></tr>
</table><p>You will be notified once an administrator has reviewed it.</p>`,
		username, r.ReservationDate.Format("2006-01-02 15:04"),
		v.PlateNumber, v.Brand, v.Model, d.FullName, r.TenantName)

	return ports.MailMessage{
		To:      to,
		Subject: "Your reservation request was received",
		Body:    mailShell("Reservation Received", inner),
	}
}

func reservationApprovalMail(to string, r *domain.Reservation, v *domain.Vehicle, d *domain.Driver, approveURL, rejectURL string) ports.MailMessage {
	inner := fmt.Sprintf(`<table style="width:100%%;border-collapse:collapse;margin:16px 0;">
<tr><td style="font-weight:bold;padding:8px;">Company:</td><td style="padding:8px;">%s</td></tr>
<tr><td style="font-weight:bold;padding:8px;">Date:</td><td style="padding:8px;">%s</td></tr>
<tr><td style="font-weight:bold;padding:8px;">Vehicle:</td><td style="padding:8px;">%s %s %s</td></tr>
<tr><td style="font-weight:bold;padding:8px;">Driver:</td><td style="padding:8px;">%s - %s - %s</td></tr>
</table>
<div style="text-align:center;margin-top:32px;">
<a href="%s" style="display:inline-block;padding:14px 32px;background:#22c55e;color:#fff;border-radius:8px;text-decoration:none;font-weight:bold;">Approve</a>
<a href="%s" style="display:inline-block;padding:14px 32px;background:#ef4444;color:#fff;border-radius:8px;text-decoration:none;font-weight:bold;margin-left:16px;">Reject</a>
</div>
<p style="margin-top:24px;color:#6366f1;font-size:14px;">Each link works exactly once. You can also decide from the admin panel.</p>`,
		r.TenantName, r.ReservationDate.Format("2006-01-02 15:04"),
		v.PlateNumber, v.Brand, v.Model,
		d.FullName, d.PhoneNumber, d.LicenseNumber,
		approveURL, rejectURL)

	return ports.MailMessage{
		To:      to,
		Subject: "New reservation request",
		Body:    mailShell("New Reservation Request", inner),
	}
}

func reservationDecidedMail(to string, r *domain.Reservation) ports.MailMessage {
	verdict := "approved"
	if r.Status == domain.ReservationRejected {
		verdict = "rejected"
	}
	inner := fmt.Sprintf(`<p>Your reservation for %s has been <b>%s</b>.</p>`,
		r.ReservationDate.Format("2006-01-02 15:04"), verdict)

	return ports.MailMessage{
		To:      to,
		Subject: fmt.Sprintf("Reservation %s", verdict),
		Body:    mailShell("Reservation Update", inner),
	}
}
