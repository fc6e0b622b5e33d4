package mailer

import (
	"fmt"
	"net/smtp"

	"service-booking/pkg/utils"

	"go.uber.org/zap"
)

// Mailer mengirim email notifikasi. Semua pemanggilan dari core bersifat
// best-effort: error hanya dilog, tidak pernah menggagalkan transaksi utama.
type Mailer interface {
	SendMail(to, subject, body string) error
}

type smtpMailer struct {
	addr     string
	from     string
	disabled bool
	log      *zap.Logger
}

func NewSMTPMailer(config utils.EmailConfig, log *zap.Logger) Mailer {
	return &smtpMailer{
		addr:     config.Host + ":" + config.Port,
		from:     config.From,
		disabled: config.Disabled,
		log:      log.With(zap.String("mailer", "smtp")),
	}
}

func (m *smtpMailer) SendMail(to, subject, body string) error {
	if m.disabled {
		m.log.Debug("Mail delivery disabled, skipping",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, to, subject, body))

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, msg); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}
