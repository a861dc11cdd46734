package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionLegalChain(t *testing.T) {
	chain := []PassportStatus{
		PassportStatusDraft,
		PassportStatusPendingMentorEval,
		PassportStatusPendingStudentSub,
		PassportStatusPendingFacultyAppr,
		PassportStatusVerified,
		PassportStatusPublished,
	}
	for i := 0; i < len(chain)-1; i++ {
		assert.True(t, CanTransition(chain[i], chain[i+1]), "%s -> %s", chain[i], chain[i+1])
	}
}

func TestCanTransitionRejectionFromEveryActiveStatus(t *testing.T) {
	active := []PassportStatus{
		PassportStatusDraft,
		PassportStatusPendingMentorEval,
		PassportStatusPendingStudentSub,
		PassportStatusPendingFacultyAppr,
		PassportStatusVerified,
	}
	for _, from := range active {
		assert.True(t, CanTransition(from, PassportStatusRejected), "%s -> rejected", from)
	}
}

func TestCanTransitionTerminalStatusesAreFinal(t *testing.T) {
	all := []PassportStatus{
		PassportStatusDraft,
		PassportStatusPendingMentorEval,
		PassportStatusPendingStudentSub,
		PassportStatusPendingFacultyAppr,
		PassportStatusVerified,
		PassportStatusPublished,
		PassportStatusRejected,
	}
	for _, terminal := range []PassportStatus{PassportStatusPublished, PassportStatusRejected} {
		assert.True(t, terminal.Terminal())
		for _, to := range all {
			assert.False(t, CanTransition(terminal, to), "%s -> %s", terminal, to)
		}
	}
}

func TestCanTransitionRefusesSkips(t *testing.T) {
	assert.False(t, CanTransition(PassportStatusDraft, PassportStatusVerified))
	assert.False(t, CanTransition(PassportStatusDraft, PassportStatusPublished))
	assert.False(t, CanTransition(PassportStatusPendingMentorEval, PassportStatusVerified))
	assert.False(t, CanTransition(PassportStatusVerified, PassportStatusDraft))
	assert.False(t, CanTransition(PassportStatus("bogus"), PassportStatusDraft))
}
