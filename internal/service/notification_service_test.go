package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"medbridge-api/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []*gomail.Message
	err  error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, m...)
	return s.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNotifyStatusChangeSendsMail(t *testing.T) {
	sender := &recordingSender{}
	svc := NewNotificationServiceWithSender(sender, "care@medbridge.test", time.Second, time.UTC, quietLogger())

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	consultation := &entity.Consultation{
		ID:          42,
		Status:      entity.ConsultationStatusConfirmed,
		ScheduledAt: &at,
		Doctor:      &entity.ChinaDoctor{Name: "Dr. Li Wei", Hospital: "Peking Union Medical College Hospital"},
	}
	recipient := &entity.User{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}

	svc.NotifyStatusChange(consultation, recipient, entity.ConsultationStatusPending)
	svc.Wait()

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "jane@example.com" {
		t.Errorf("To = %v", got)
	}
	if got := msg.GetHeader("Subject"); len(got) != 1 || !strings.Contains(got[0], "Confirmed") {
		t.Errorf("Subject = %v", got)
	}

	var body bytes.Buffer
	if _, err := msg.WriteTo(&body); err != nil {
		t.Fatalf("render message: %v", err)
	}
	if !strings.Contains(body.String(), "Dr. Li Wei") {
		t.Error("body should mention the doctor")
	}
}

func TestNotifyStatusChangeDisabled(t *testing.T) {
	svc := NewNotificationServiceWithSender(nil, "", 0, nil, quietLogger())

	// Must not panic or block without a sender.
	svc.NotifyStatusChange(&entity.Consultation{ID: 1}, &entity.User{Email: "a@b.c"}, entity.ConsultationStatusPending)
	svc.Wait()
}

func TestNotifyStatusChangeSwallowsSendErrors(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp: 550 mailbox unavailable")}
	svc := NewNotificationServiceWithSender(sender, "care@medbridge.test", time.Second, time.UTC, quietLogger())

	svc.NotifyStatusChange(&entity.Consultation{ID: 1, Status: entity.ConsultationStatusCancelled}, &entity.User{Email: "a@b.c"}, entity.ConsultationStatusPending)
	svc.Wait()

	if len(sender.sent) != 1 {
		t.Fatalf("expected one delivery attempt, got %d", len(sender.sent))
	}
}

// blockingSender holds DialAndSend until release is closed.
type blockingSender struct {
	started  chan struct{}
	release  chan struct{}
	returned atomic.Bool
}

func (s *blockingSender) DialAndSend(m ...*gomail.Message) error {
	s.started <- struct{}{}
	<-s.release
	s.returned.Store(true)
	return nil
}

func TestShutdownWaitsForTimedOutDelivery(t *testing.T) {
	sender := &blockingSender{started: make(chan struct{}, 1), release: make(chan struct{})}
	svc := NewNotificationServiceWithSender(sender, "care@medbridge.test", 10*time.Millisecond, time.UTC, quietLogger())

	svc.NotifyStatusChange(&entity.Consultation{ID: 1, Status: entity.ConsultationStatusConfirmed}, &entity.User{Email: "a@b.c"}, entity.ConsultationStatusPending)
	<-sender.started

	// The per-message timeout fires long before this deadline; the SMTP
	// attempt itself is still running and must keep Shutdown waiting.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := svc.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Shutdown err = %v, want deadline exceeded while delivery is stuck", err)
	}

	close(sender.release)
	if err := svc.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown after release: %v", err)
	}
	if !sender.returned.Load() {
		t.Error("Shutdown returned before DialAndSend finished")
	}
}

func TestSlotLockKeyIsZoneIndependent(t *testing.T) {
	utc := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	shanghai := utc.In(time.FixedZone("CST", 8*3600))

	if SlotLockKey(7, utc) != SlotLockKey(7, shanghai) {
		t.Error("same instant must map to the same lock key")
	}
	if SlotLockKey(7, utc) == SlotLockKey(8, utc) {
		t.Error("different doctors must not share a lock key")
	}
}
