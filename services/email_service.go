package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/smtp"

	"screenai/config"
	"screenai/utils"
)

// EmailService delivers candidate IDs and admin payment notifications over
// SMTP (STARTTLS). When SMTP credentials are absent the message is logged
// instead of sent, so requests never fail on mail configuration.
type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) configured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != ""
}

func (s *EmailService) send(to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	return smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, msg)
}

// SendCandidateID mails a freshly generated candidate ID. Called only when
// the ID was just created, never for an existing one.
func (s *EmailService) SendCandidateID(to, candidateID string) error {
	body := fmt.Sprintf(
		"Hello,\r\n\r\nYour Candidate ID for AI Resume Builder is: %s\r\n\r\n"+
			"Use this ID to analyze your resumes.\r\n\r\nThank you!\r\nAI Resume Builder Team\r\n",
		candidateID)

	if !s.configured() {
		utils.LogInfo("SMTP not configured, candidate ID email suppressed", map[string]string{"to": to})
		return nil
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: Your Candidate ID - AI Resume Builder\r\n")
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	return s.send(to, msg.Bytes())
}

// SendPaymentNotification mails the admin a pending-verification notice for
// a paid resume request, attaching the payment proof image when present.
func (s *EmailService) SendPaymentNotification(html, proofName string, proof []byte) error {
	if !s.configured() {
		utils.LogInfo("SMTP not configured, payment notification suppressed", map[string]string{"to": s.cfg.AdminEmail})
		return nil
	}

	const boundary = "screenai-mail-boundary"

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", s.cfg.AdminEmail)
	fmt.Fprintf(&msg, "Subject: New Resume Payment (Proof Attached)\r\n")
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	msg.WriteString(html)
	msg.WriteString("\r\n")

	if len(proof) > 0 {
		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		fmt.Fprintf(&msg, "Content-Type: application/octet-stream\r\n")
		fmt.Fprintf(&msg, "Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&msg, "Content-Disposition: attachment; filename=%q\r\n\r\n", proofName)

		encoded := base64.StdEncoding.EncodeToString(proof)
		// RFC 2045 line length
		for len(encoded) > 76 {
			msg.WriteString(encoded[:76])
			msg.WriteString("\r\n")
			encoded = encoded[76:]
		}
		msg.WriteString(encoded)
		msg.WriteString("\r\n")
	}

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return s.send(s.cfg.AdminEmail, msg.Bytes())
}

// PaymentNotificationHTML renders the admin notification body for a resume
// request.
func PaymentNotificationHTML(upiPayee, name, email, phone, senderNumber, role, skills, projects, achievements string) string {
	return fmt.Sprintf(`<h2>New Resume Request Received (Pending Verification)</h2>
<p><b>Payment Receiver UPI:</b> %s</p>
<p><b>Sender UPI Mobile Number:</b> %s</p>
<hr>
<p><b>Name:</b> %s</p>
<p><b>Email:</b> %s</p>
<p><b>Phone:</b> %s</p>
<p><b>Desired Role:</b> %s</p>
<p><b>Skills:</b><br>%s</p>
<p><b>Projects:</b><br>%s</p>
<p><b>Achievements:</b><br>%s</p>
<hr>
<p style="color:gray;">Payment screenshot attached (if uploaded).</p>`,
		upiPayee, senderNumber, name, email, phone, role, skills, projects, achievements)
}
