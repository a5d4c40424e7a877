package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatusTransitions(t *testing.T) {
	cases := []struct {
		from    JobStatus
		to      JobStatus
		allowed bool
	}{
		{JobStatusOpen, JobStatusInProgress, true},
		{JobStatusOpen, JobStatusCancelled, true},
		{JobStatusOpen, JobStatusCompleted, false},
		{JobStatusInProgress, JobStatusCompleted, true},
		{JobStatusInProgress, JobStatusCancelled, true},
		{JobStatusInProgress, JobStatusOpen, false},
		{JobStatusCompleted, JobStatusOpen, false},
		{JobStatusCompleted, JobStatusCancelled, false},
		{JobStatusCancelled, JobStatusInProgress, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestBidStatusTransitions(t *testing.T) {
	assert.True(t, BidStatusPending.CanTransitionTo(BidStatusAccepted))
	assert.True(t, BidStatusPending.CanTransitionTo(BidStatusRejected))
	assert.False(t, BidStatusAccepted.CanTransitionTo(BidStatusRejected))
	assert.False(t, BidStatusRejected.CanTransitionTo(BidStatusAccepted))
	assert.False(t, BidStatusAccepted.CanTransitionTo(BidStatusPending))
}

func TestProjectStatusTransitions(t *testing.T) {
	assert.True(t, ProjectStatusNotStarted.CanTransitionTo(ProjectStatusInProgress))
	assert.True(t, ProjectStatusNotStarted.CanTransitionTo(ProjectStatusCancelled))
	assert.False(t, ProjectStatusNotStarted.CanTransitionTo(ProjectStatusCompleted))
	assert.True(t, ProjectStatusInProgress.CanTransitionTo(ProjectStatusCompleted))
	assert.True(t, ProjectStatusInProgress.CanTransitionTo(ProjectStatusCancelled))
	assert.False(t, ProjectStatusCompleted.CanTransitionTo(ProjectStatusInProgress))
	assert.False(t, ProjectStatusCancelled.CanTransitionTo(ProjectStatusInProgress))

	assert.True(t, ProjectStatusCompleted.IsTerminal())
	assert.True(t, ProjectStatusCancelled.IsTerminal())
	assert.False(t, ProjectStatusInProgress.IsTerminal())
}

func TestMilestoneStatusTransitions(t *testing.T) {
	assert.True(t, MilestoneStatusPending.CanTransitionTo(MilestoneStatusInProgress))
	assert.True(t, MilestoneStatusPending.CanTransitionTo(MilestoneStatusSubmitted))
	assert.True(t, MilestoneStatusInProgress.CanTransitionTo(MilestoneStatusSubmitted))
	assert.True(t, MilestoneStatusSubmitted.CanTransitionTo(MilestoneStatusApproved))
	assert.True(t, MilestoneStatusSubmitted.CanTransitionTo(MilestoneStatusRejected))

	// Возврат в работу после отклонения.
	assert.True(t, MilestoneStatusRejected.CanTransitionTo(MilestoneStatusInProgress))

	// Повторное одобрение невозможно.
	assert.False(t, MilestoneStatusApproved.CanTransitionTo(MilestoneStatusApproved))
	assert.False(t, MilestoneStatusApproved.CanTransitionTo(MilestoneStatusSubmitted))
	assert.False(t, MilestoneStatusApproved.CanTransitionTo(MilestoneStatusRejected))
}

func TestNewStatusParsing(t *testing.T) {
	s, err := NewProjectStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, ProjectStatusCompleted, s)

	_, err = NewProjectStatus("done")
	assert.Error(t, err)

	m, err := NewMilestoneStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, MilestoneStatusApproved, m)

	_, err = NewMilestoneStatus("paid")
	assert.Error(t, err)

	_, err = NewJobStatus("archived")
	assert.Error(t, err)
}
