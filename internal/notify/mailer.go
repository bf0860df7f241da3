package notify

import (
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"go-ats/internal/events"
)

// Mailer sends the claim notification to the team lead.
type Mailer interface {
	SendClaimNotice(event events.AssignmentClaimed) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	cfg    SMTPConfig
	logger *zap.Logger
}

func NewSMTPMailer(cfg SMTPConfig, logger ...*zap.Logger) Mailer {
	l := zap.L().Named("notify.mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.mailer")
	}
	return &smtpMailer{cfg: cfg, logger: l}
}

func (m *smtpMailer) SendClaimNotice(event events.AssignmentClaimed) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(event.TLEmail); err != nil {
		return err
	}

	msg.Subject(fmt.Sprintf("Applicant assigned: %s (%s)", event.ApplicantName, event.Position))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hi %s,\n\n%s has been assigned to you for the %s position by %s on %s.\n\nAssignment #%d against manpower request #%d.\n",
		event.TLName,
		event.ApplicantName,
		event.Position,
		event.AssignedBy,
		event.AssignedDate,
		event.AssignmentID,
		event.RequestID,
	))

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return err
	}

	if err := client.DialAndSend(msg); err != nil {
		return err
	}

	m.logger.Info("claim notice sent",
		zap.String("tl_email", event.TLEmail),
		zap.Int("assignment_id", event.AssignmentID),
	)
	return nil
}
