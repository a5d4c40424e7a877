package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/levkonnect-backend/internal/http/middleware"
	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
)

type fakeContactRepo struct {
	mu      sync.Mutex
	created []models.ContactMessage
}

func (f *fakeContactRepo) Create(_ context.Context, m *models.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *m)
	return nil
}

func (f *fakeContactRepo) List(_ context.Context, _, _ int) ([]models.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created, nil
}

type noopContactMailer struct{}

func (noopContactMailer) SendContactForm(_, _, _, _, _ string) {}

func newContactRouter(repo *fakeContactRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewContactHandler(service.NewContactService(repo, noopContactMailer{}))
	r.POST("/api/contact", h.Submit)
	return r
}

func TestContactSubmit(t *testing.T) {
	repo := &fakeContactRepo{}
	router := newContactRouter(repo)

	body := `{"name":"Анна","email":"anna@example.com","subject":"Вопрос","message":"Как зарегистрироваться?","user_type":"client"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "anna@example.com", repo.created[0].Email)
	assert.Equal(t, models.ContactTypeClient, repo.created[0].UserType)
}

func TestContactSubmitValidation(t *testing.T) {
	router := newContactRouter(&fakeContactRepo{})

	cases := []struct {
		name string
		body string
	}{
		{"пустое тело", `{}`},
		{"некорректный email", `{"name":"Анна","email":"not-an-email","subject":"Тема","message":"Текст"}`},
		{"неизвестный тип", `{"name":"Анна","email":"anna@example.com","subject":"Тема","message":"Текст","user_type":"robot"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestContactSubmitDefaultsUserType(t *testing.T) {
	repo := &fakeContactRepo{}
	router := newContactRouter(repo)

	body := `{"name":"Олег","email":"oleg@example.com","subject":"Партнерство","message":"Предложение"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.ContactTypeGeneral, repo.created[0].UserType)
}
