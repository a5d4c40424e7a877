package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/levkonnect-backend/internal/goroutine"
	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/validation"
)

// ContactRepo — контракт хранилища обращений.
type ContactRepo interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	List(ctx context.Context, limit, offset int) ([]models.ContactMessage, error)
}

// ContactMailer — часть почтовика для контактной формы.
type ContactMailer interface {
	SendContactForm(name, email, subject, message, userType string)
}

// ContactService — публичная контактная форма.
type ContactService struct {
	contacts ContactRepo
	mail     ContactMailer
}

func NewContactService(contacts ContactRepo, mail ContactMailer) *ContactService {
	return &ContactService{contacts: contacts, mail: mail}
}

type ContactInput struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	UserType string
}

// Submit сохраняет обращение и best-effort шлет письма в поддержку и автору.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	if err := validation.Required("name", in.Name); err != nil {
		return nil, err
	}
	if err := validation.Email(in.Email); err != nil {
		return nil, err
	}
	if err := validation.Required("subject", in.Subject); err != nil {
		return nil, err
	}
	if err := validation.Required("message", in.Message); err != nil {
		return nil, err
	}
	if in.UserType == "" {
		in.UserType = models.ContactTypeGeneral
	}
	if !models.ValidContactTypes[in.UserType] {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный тип обращения")
	}

	m := &models.ContactMessage{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		UserType:  in.UserType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.contacts.Create(ctx, m); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "сохранение обращения")
	}

	goroutine.SafeGo("contact.emails", func() {
		s.mail.SendContactForm(m.Name, m.Email, m.Subject, m.Message, m.UserType)
	})

	return m, nil
}

// List — административная выдача обращений.
func (s *ContactService) List(ctx context.Context, limit, offset int) ([]models.ContactMessage, error) {
	list, err := s.contacts.List(ctx, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "список обращений")
	}
	return list, nil
}
