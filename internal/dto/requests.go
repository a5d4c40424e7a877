package dto

import "time"

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type UpdateProfileRequest struct {
	Username    string  `json:"username"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`

	// Анкета инженера.
	Title           *string  `json:"title"`
	Bio             *string  `json:"bio"`
	Skills          []string `json:"skills"`
	ExperienceYears *int     `json:"experience_years"`
	HourlyRate      *float64 `json:"hourly_rate"`
	Availability    *string  `json:"availability"`

	// Анкета заказчика.
	CompanyName *string `json:"company_name"`
	CompanySize *string `json:"company_size"`
	Industry    *string `json:"industry"`
	Description *string `json:"description"`
	Website     *string `json:"website"`

	Location *string `json:"location"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type JobRequest struct {
	Title          string     `json:"title" binding:"required"`
	Category       string     `json:"category" binding:"required"`
	Description    string     `json:"description" binding:"required"`
	Budget         *float64   `json:"budget"`
	Location       *string    `json:"location"`
	DurationDays   *int       `json:"duration_days"`
	RequiredSkills []string   `json:"required_skills"`
	Deadline       *time.Time `json:"deadline"`
}

type BidRequest struct {
	JobID        string  `json:"job_id" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
	DeliveryDays int     `json:"delivery_days" binding:"required"`
	CoverLetter  string  `json:"cover_letter" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type MilestoneRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Amount      float64    `json:"amount" binding:"required"`
	DueDate     *time.Time `json:"due_date"`
}

type MessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type ReviewRequest struct {
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment"`
}

type ContactRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
	Message  string `json:"message" binding:"required"`
	UserType string `json:"user_type"`
}
