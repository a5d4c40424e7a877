package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
)

func TestMilestoneActionMatrix(t *testing.T) {
	clientID := uuid.New()
	engineerID := uuid.New()
	adminID := uuid.New()
	project := &models.Project{ClientID: clientID, EngineerID: engineerID}

	client := Caller{ID: clientID, Role: models.RoleClient}
	engineer := Caller{ID: engineerID, Role: models.RoleEngineer}
	admin := Caller{ID: adminID, Role: models.RoleAdmin}
	stranger := Caller{ID: uuid.New(), Role: models.RoleEngineer}

	cases := []struct {
		name    string
		caller  Caller
		target  models.MilestoneStatus
		allowed bool
	}{
		{"инженер начинает этап", engineer, models.MilestoneStatusInProgress, true},
		{"инженер сдает этап", engineer, models.MilestoneStatusSubmitted, true},
		{"инженер не может одобрить", engineer, models.MilestoneStatusApproved, false},
		{"инженер не может отклонить", engineer, models.MilestoneStatusRejected, false},
		{"заказчик одобряет", client, models.MilestoneStatusApproved, true},
		{"заказчик отклоняет", client, models.MilestoneStatusRejected, true},
		{"заказчик не сдает этап", client, models.MilestoneStatusSubmitted, false},
		{"админ одобряет", admin, models.MilestoneStatusApproved, true},
		{"админ не сдает этап", admin, models.MilestoneStatusSubmitted, false},
		{"посторонний не делает ничего", stranger, models.MilestoneStatusSubmitted, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanActOnMilestone(tc.caller, project, tc.target))
		})
	}
}

func TestProjectAccess(t *testing.T) {
	clientID := uuid.New()
	engineerID := uuid.New()
	project := &models.Project{ClientID: clientID, EngineerID: engineerID}

	client := Caller{ID: clientID, Role: models.RoleClient}
	engineer := Caller{ID: engineerID, Role: models.RoleEngineer}
	admin := Caller{ID: uuid.New(), Role: models.RoleAdmin}
	stranger := Caller{ID: uuid.New(), Role: models.RoleClient}

	assert.True(t, CanViewProject(client, project))
	assert.True(t, CanViewProject(engineer, project))
	assert.True(t, CanViewProject(admin, project))
	assert.False(t, CanViewProject(stranger, project))

	assert.True(t, CanTransitionProject(client, project))
	assert.True(t, CanTransitionProject(admin, project))
	assert.False(t, CanTransitionProject(engineer, project))

	// Админ не сторона проекта: писать и оставлять отзывы не может.
	assert.False(t, CanMessageProject(admin, project))
	assert.False(t, CanReview(admin, project))
	assert.True(t, CanReview(client, project))
	assert.True(t, CanReview(engineer, project))
}

func TestOtherParty(t *testing.T) {
	clientID := uuid.New()
	engineerID := uuid.New()
	project := &models.Project{ClientID: clientID, EngineerID: engineerID}

	assert.Equal(t, engineerID, OtherParty(Caller{ID: clientID}, project))
	assert.Equal(t, clientID, OtherParty(Caller{ID: engineerID}, project))
}

func TestCanManageJob(t *testing.T) {
	ownerID := uuid.New()
	job := &models.Job{ClientID: ownerID}

	assert.True(t, CanManageJob(Caller{ID: ownerID, Role: models.RoleClient}, job))
	assert.True(t, CanManageJob(Caller{ID: uuid.New(), Role: models.RoleAdmin}, job))
	assert.False(t, CanManageJob(Caller{ID: uuid.New(), Role: models.RoleClient}, job))

	assert.True(t, CanAcceptBid(Caller{ID: ownerID}, job))
	assert.False(t, CanAcceptBid(Caller{ID: uuid.New(), Role: models.RoleAdmin}, job))
}
