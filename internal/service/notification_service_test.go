package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-pms-api/internal/models"
	"github.com/noah-isme/campus-pms-api/pkg/mailer"
)

type channelSender struct {
	sent chan mailer.Message
}

func (s *channelSender) Send(ctx context.Context, msg mailer.Message) error {
	s.sent <- msg
	return nil
}

func receiveMessage(t *testing.T, ch chan mailer.Message) mailer.Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
		return mailer.Message{}
	}
}

func TestNotificationServiceEvaluationRequested(t *testing.T) {
	sender := &channelSender{sent: make(chan mailer.Message, 1)}
	students := &mockStudentStore{student: &models.Student{
		ID: "stu-1", FullName: "Priya Sharma", Email: "priya@example.edu",
	}}

	svc := NewNotificationService(sender, students, 1, 1, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.EvaluationRequested(context.Background(), EvaluationNotice{
		MentorName:     "Rahul Verma",
		MentorEmail:    "rahul@acme.example",
		StudentID:      "stu-1",
		Company:        "Acme Corp",
		Role:           "Backend Engineering Intern",
		EvaluationLink: "http://localhost:5174/mentor/evaluate/IPP-X?token=abc",
		ExpiresAt:      time.Now().Add(time.Hour),
	})

	msg := receiveMessage(t, sender.sent)
	assert.Equal(t, "rahul@acme.example", msg.To)
	assert.Contains(t, msg.Subject, "Priya Sharma")
	assert.Contains(t, msg.Body, "http://localhost:5174/mentor/evaluate/IPP-X?token=abc")
	assert.Contains(t, msg.Body, "Acme Corp")
}

func TestNotificationServicePassportAdvanced(t *testing.T) {
	sender := &channelSender{sent: make(chan mailer.Message, 1)}
	students := &mockStudentStore{student: &models.Student{
		ID: "stu-1", FullName: "Priya Sharma", Email: "priya@example.edu",
	}}

	svc := NewNotificationService(sender, students, 1, 1, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.PassportAdvanced(context.Background(), StatusNotice{
		IppID:     "IPP-STU1-INT1-2026",
		StudentID: "stu-1",
		Status:    models.PassportStatusPublished,
		Message:   "Your internship passport has been published.",
	})

	msg := receiveMessage(t, sender.sent)
	assert.Equal(t, "priya@example.edu", msg.To)
	assert.Contains(t, msg.Body, "IPP-STU1-INT1-2026")
	assert.Contains(t, msg.Body, "published")
}

func TestNotificationServiceSkipsUnknownStudent(t *testing.T) {
	sender := &channelSender{sent: make(chan mailer.Message, 1)}
	students := &mockStudentStore{}

	svc := NewNotificationService(sender, students, 1, 1, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.PassportAdvanced(context.Background(), StatusNotice{
		IppID:     "IPP-STU1-INT1-2026",
		StudentID: "stu-missing",
		Status:    models.PassportStatusVerified,
	})

	select {
	case msg := <-sender.sent:
		t.Fatalf("unexpected delivery to %s", msg.To)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotificationServiceNilSenderNoPanic(t *testing.T) {
	svc := NewNotificationService(nil, nil, 1, 1, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	require.NotPanics(t, func() {
		svc.PassportAdvanced(context.Background(), StatusNotice{StudentID: "stu-1"})
	})
}
