package dto

import (
	"github.com/ignatzorin/levkonnect-backend/internal/models"
)

type AuthResponse struct {
	Message      string       `json:"message"`
	User         *models.User `json:"user,omitempty"`
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
}

type JobResponse struct {
	Job  *models.Job              `json:"job"`
	Bids []models.BidWithEngineer `json:"bids,omitempty"`
}

type AcceptBidResponse struct {
	Message string          `json:"message"`
	Bid     *models.Bid     `json:"bid"`
	Project *models.Project `json:"project"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
