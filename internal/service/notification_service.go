package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"medbridge-api/config"
	"medbridge-api/internal/domain/entity"
	"medbridge-api/pkg/timeutil"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// MailSender delivers prepared messages. *gomail.Dialer satisfies it.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// StatusNotifier tells patients about consultation status changes.
type StatusNotifier interface {
	NotifyStatusChange(consultation *entity.Consultation, recipient *entity.User, from entity.ConsultationStatus)
}

// NotificationService sends e-mails in the background on a best-effort basis.
// Delivery failures are logged and never affect the originating request.
type NotificationService struct {
	sender   MailSender
	from     string
	timeout  time.Duration
	location *time.Location
	log      *logrus.Logger
	wg       sync.WaitGroup
}

func NewNotificationService(cfg config.SMTPConfig, location *time.Location, log *logrus.Logger) *NotificationService {
	var sender MailSender
	if cfg.Enabled {
		dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		dialer.SSL = cfg.UseTLS
		sender = dialer
	}
	return NewNotificationServiceWithSender(sender, cfg.From, cfg.Timeout, location, log)
}

// NewNotificationServiceWithSender builds the service around any sender.
// A nil sender disables delivery.
func NewNotificationServiceWithSender(sender MailSender, from string, timeout time.Duration, location *time.Location, log *logrus.Logger) *NotificationService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if location == nil {
		location = time.UTC
	}
	return &NotificationService{
		sender:   sender,
		from:     from,
		timeout:  timeout,
		location: location,
		log:      log,
	}
}

func (s *NotificationService) NotifyStatusChange(consultation *entity.Consultation, recipient *entity.User, from entity.ConsultationStatus) {
	if s.sender == nil || recipient == nil || strings.TrimSpace(recipient.Email) == "" {
		return
	}

	msg := s.buildStatusMessage(consultation, recipient, from)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.send(ctx, msg); err != nil {
			s.log.Warnf("Failed to send status notification for consultation %d: %+v", consultation.ID, err)
			return
		}
		s.log.Infof("Status notification sent: consultation=%d, status=%s", consultation.ID, consultation.Status)
	}()
}

// Wait blocks until in-flight notifications finish, including SMTP
// attempts that outlived their timeout.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

// Shutdown is Wait bounded by ctx. gomail cannot cancel a stalled SMTP
// exchange, so an attempt still running when ctx expires is abandoned.
func (s *NotificationService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *NotificationService) send(ctx context.Context, msg *gomail.Message) error {
	done := make(chan error, 1)
	// Counted separately: DialAndSend keeps running after ctx expires.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		done <- s.sender.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *NotificationService) buildStatusMessage(consultation *entity.Consultation, recipient *entity.User, from entity.ConsultationStatus) *gomail.Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", recipient.FullName())
	fmt.Fprintf(&body, "The status of your consultation #%d changed from %s to %s.\n",
		consultation.ID, from.Label(), consultation.Status.Label())
	if consultation.Doctor != nil {
		fmt.Fprintf(&body, "Doctor: %s, %s\n", consultation.Doctor.Name, consultation.Doctor.Hospital)
	}
	if consultation.ScheduledAt != nil {
		at := timeutil.Normalize(*consultation.ScheduledAt, s.location)
		fmt.Fprintf(&body, "Scheduled for: %s\n", at.Format("Mon, 02 Jan 2006 15:04 MST"))
	}
	body.WriteString("\nMedBridge Care Team\n")

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", recipient.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Consultation #%d is now %s", consultation.ID, consultation.Status.Label()))
	msg.SetBody("text/plain", body.String())
	return msg
}
