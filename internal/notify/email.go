package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/satuatap/credit-decision-service/internal/config"
	"github.com/satuatap/credit-decision-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Sender handles sending decision notifications via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendDecisionNotification mails the outcome of a credit decision to the
// applicant. Only the user-facing summary and reasons are included.
func (s *Sender) SendDecisionNotification(to string, result *models.DecisionResult) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if result.Decision == models.DecisionApprove {
		e.Subject = "Hasil Pengajuan Kredit: Disetujui"
	} else {
		e.Subject = "Hasil Pengajuan Kredit: Belum Dapat Disetujui"
	}

	var body strings.Builder
	body.WriteString("Yth. Pemohon,\n\n")
	body.WriteString(result.Summary)
	body.WriteString("\n\nRingkasan pertimbangan:\n")
	for _, reason := range result.Reasons {
		body.WriteString("- " + reason + "\n")
	}
	body.WriteString("\nHormat kami,\nTim Kredit")
	e.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
