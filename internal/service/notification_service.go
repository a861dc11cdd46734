package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-pms-api/internal/models"
	"github.com/noah-isme/campus-pms-api/pkg/jobs"
	"github.com/noah-isme/campus-pms-api/pkg/mailer"
)

// EvaluationNotice carries the details of a freshly issued mentor link.
type EvaluationNotice struct {
	MentorName     string
	MentorEmail    string
	StudentID      string
	Company        string
	Role           string
	EvaluationLink string
	ExpiresAt      time.Time
}

// StatusNotice informs a student that their passport moved.
type StatusNotice struct {
	IppID     string
	StudentID string
	Status    models.PassportStatus
	Message   string
}

// NotificationService turns workflow events into emails, delivered through a
// background queue. Enqueue failures are logged and dropped: notification is
// best-effort and never fails the request that triggered it.
type NotificationService struct {
	sender   mailer.Sender
	students studentStore
	queue    *jobs.Queue
	logger   *zap.Logger
}

// NewNotificationService constructs the service and its delivery queue.
func NewNotificationService(sender mailer.Sender, students studentStore, workers, maxRetries int, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{
		sender:   sender,
		students: students,
		logger:   logger,
	}
	s.queue = jobs.NewQueue("notifications", s.handle, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: maxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains the delivery workers.
func (s *NotificationService) Stop() { s.queue.Stop() }

// EvaluationRequested emails the mentor their single-use evaluation link.
func (s *NotificationService) EvaluationRequested(ctx context.Context, notice EvaluationNotice) {
	studentName := s.studentName(ctx, notice.StudentID)
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"%s has completed an internship as %s at %s and requests your evaluation.\n\n"+
			"Please use the link below to submit it. The link is valid until %s and can be used once.\n\n"+
			"%s\n\n"+
			"Thank you,\nPlacement Cell",
		notice.MentorName, studentName, notice.Role, notice.Company,
		notice.ExpiresAt.Format("2 January 2006"), notice.EvaluationLink,
	)
	s.enqueue(mailer.Message{
		To:      notice.MentorEmail,
		Subject: fmt.Sprintf("Internship evaluation request for %s", studentName),
		Body:    body,
	})
}

// PassportAdvanced emails the owning student about a status change.
func (s *NotificationService) PassportAdvanced(ctx context.Context, notice StatusNotice) {
	email, name := s.studentContact(ctx, notice.StudentID)
	if email == "" {
		s.logger.Warn("no student email for notification",
			zap.String("ipp_id", notice.IppID), zap.String("student_id", notice.StudentID))
		return
	}
	body := fmt.Sprintf(
		"Dear %s,\n\n%s\n\nPassport: %s\nStatus: %s\n\nPlacement Cell",
		name, notice.Message, notice.IppID, notice.Status,
	)
	s.enqueue(mailer.Message{
		To:      email,
		Subject: fmt.Sprintf("Internship passport update: %s", notice.Status),
		Body:    body,
	})
}

func (s *NotificationService) enqueue(msg mailer.Message) {
	if s.sender == nil {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "email",
		Payload: msg,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue notification", zap.String("to", msg.To), zap.Error(err))
	}
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mailer.Message)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.sender.Send(ctx, msg)
}

func (s *NotificationService) studentName(ctx context.Context, studentID string) string {
	_, name := s.studentContact(ctx, studentID)
	return name
}

func (s *NotificationService) studentContact(ctx context.Context, studentID string) (email, name string) {
	if s.students == nil {
		return "", studentID
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load student for notification", zap.String("student_id", studentID), zap.Error(err))
		}
		return "", studentID
	}
	return student.Email, student.FullName
}
