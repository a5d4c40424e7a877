package models

import "github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"

// Статусные перечисления и таблицы допустимых переходов.
// Весь код рабочих процессов проверяет переходы только через CanTransitionTo.

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusOpen:       {JobStatusInProgress, JobStatusCancelled},
	JobStatusInProgress: {JobStatusCompleted, JobStatusCancelled},
	JobStatusCompleted:  {},
	JobStatusCancelled:  {},
}

func (s JobStatus) IsValid() bool {
	_, ok := jobTransitions[s]
	return ok
}

func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	return containsStatus(jobTransitions[s], next)
}

func NewJobStatus(raw string) (JobStatus, error) {
	s := JobStatus(raw)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус работы")
	}
	return s, nil
}

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
)

var bidTransitions = map[BidStatus][]BidStatus{
	BidStatusPending:  {BidStatusAccepted, BidStatusRejected},
	BidStatusAccepted: {},
	BidStatusRejected: {},
}

func (s BidStatus) IsValid() bool {
	_, ok := bidTransitions[s]
	return ok
}

func (s BidStatus) CanTransitionTo(next BidStatus) bool {
	return containsStatus(bidTransitions[s], next)
}

type ProjectStatus string

const (
	ProjectStatusNotStarted ProjectStatus = "not_started"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectStatusNotStarted: {ProjectStatusInProgress, ProjectStatusCancelled},
	ProjectStatusInProgress: {ProjectStatusCompleted, ProjectStatusCancelled},
	ProjectStatusCompleted:  {},
	ProjectStatusCancelled:  {},
}

func (s ProjectStatus) IsValid() bool {
	_, ok := projectTransitions[s]
	return ok
}

func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	return containsStatus(projectTransitions[s], next)
}

func (s ProjectStatus) IsTerminal() bool {
	return len(projectTransitions[s]) == 0 && s.IsValid()
}

func NewProjectStatus(raw string) (ProjectStatus, error) {
	s := ProjectStatus(raw)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус проекта")
	}
	return s, nil
}

type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "pending"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusSubmitted  MilestoneStatus = "submitted"
	MilestoneStatusApproved   MilestoneStatus = "approved"
	MilestoneStatusRejected   MilestoneStatus = "rejected"
)

// approved — терминальный статус: повторное одобрение (и повторная выплата)
// невозможны по построению таблицы. rejected возвращает этап в работу.
var milestoneTransitions = map[MilestoneStatus][]MilestoneStatus{
	MilestoneStatusPending:    {MilestoneStatusInProgress, MilestoneStatusSubmitted},
	MilestoneStatusInProgress: {MilestoneStatusSubmitted},
	MilestoneStatusSubmitted:  {MilestoneStatusApproved, MilestoneStatusRejected},
	MilestoneStatusApproved:   {},
	MilestoneStatusRejected:   {MilestoneStatusInProgress},
}

func (s MilestoneStatus) IsValid() bool {
	_, ok := milestoneTransitions[s]
	return ok
}

func (s MilestoneStatus) CanTransitionTo(next MilestoneStatus) bool {
	return containsStatus(milestoneTransitions[s], next)
}

func NewMilestoneStatus(raw string) (MilestoneStatus, error) {
	s := MilestoneStatus(raw)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус этапа")
	}
	return s, nil
}

func containsStatus[T comparable](allowed []T, next T) bool {
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}
