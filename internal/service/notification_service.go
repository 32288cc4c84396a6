package service

import (
	"context"
	"fmt"

	"go-clinical-records/config"
	"go-clinical-records/internal/domain/entity"
	"go-clinical-records/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// Notifier delivers user-facing notifications. Best-effort from the caller's
// perspective: the outbox row is persisted and delivery failures are only
// logged.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind entity.NotificationKind, payload entity.JSON)
}

// Mailer is the email delivery seam behind the notifier.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer sends mail through the configured SMTP relay via gomail.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	return dialer.DialAndSend(msg)
}

var notificationSubjects = map[entity.NotificationKind]string{
	entity.NotifyAppointmentCreated:   "Appointment request received",
	entity.NotifyAppointmentConfirmed: "Your appointment is confirmed",
	entity.NotifyAppointmentRejected:  "Your appointment request was declined",
	entity.NotifyAppointmentCancelled: "Appointment cancelled",
	entity.NotifyRescheduleProposed:   "Reschedule proposed for your appointment",
	entity.NotifyRescheduleResolved:   "Your reschedule request was resolved",
	entity.NotifyDayWithdrawal:        "Your appointment needs a new time",
}

type notificationService struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	mailer           Mailer // nil when SMTP is not configured
}

func NewNotificationService(
	db *gorm.DB,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	mailer Mailer,
) Notifier {
	return &notificationService{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		mailer:           mailer,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, kind entity.NotificationKind, payload entity.JSON) {
	notification := &entity.Notification{
		UserID:  userID,
		Kind:    kind,
		Payload: payload,
	}

	if err := s.notificationRepo.Create(s.db.WithContext(ctx), notification); err != nil {
		s.log.Warnf("Failed to persist notification %s for user %s: %+v", kind, userID, err)
		return
	}

	if s.mailer == nil {
		return
	}

	// Email delivery happens outside the request's transaction and outside
	// its deadline.
	go s.deliver(notification)
}

func (s *notificationService) deliver(notification *entity.Notification) {
	user, err := s.userRepo.FindByID(s.db, notification.UserID)
	if err != nil || user == nil {
		s.log.Warnf("Failed to load user %s for notification delivery: %+v", notification.UserID, err)
		return
	}

	subject, ok := notificationSubjects[notification.Kind]
	if !ok {
		subject = string(notification.Kind)
	}

	body := fmt.Sprintf("Hello %s,\n\nThere is an update on your clinical records account: %s.\nPlease sign in to review the details.\n", user.FullName, subject)
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		s.log.Warnf("Failed to send notification email to %s (non-fatal): %+v", user.Email, err)
		return
	}

	if err := s.notificationRepo.MarkSent(s.db, notification.ID); err != nil {
		s.log.Warnf("Failed to mark notification %s as sent: %+v", notification.ID, err)
	}
}
