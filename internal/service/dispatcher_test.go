package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
)

type fakeOutboxRepo struct {
	mu        sync.Mutex
	events    []models.OutboxEvent
	processed map[uuid.UUID]bool
}

func newFakeOutboxRepo(events ...models.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{events: events, processed: make(map[uuid.UUID]bool)}
}

func (f *fakeOutboxRepo) ListUnprocessed(_ context.Context, limit int) ([]models.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.OutboxEvent{}
	for _, ev := range f.events {
		if !f.processed[ev.ID] && len(out) < limit {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeOutboxRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed[id] = true
	return nil
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []models.Notification
	failOn  bool
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn {
		return errors.New("db down")
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Notification{}
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, _, _ uuid.UUID) error  { return nil }
func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, _ uuid.UUID) error  { return nil }
func (f *fakeNotificationRepo) CountUnread(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

type fakePusher struct {
	mu     sync.Mutex
	pushed []uuid.UUID
}

func (f *fakePusher) Push(userID uuid.UUID, _ *models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, userID)
}

type fakeEventMailer struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
}

func (f *fakeEventMailer) SendEvent(to, kind, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, to+":"+kind)
	return nil
}

func mustEvent(t *testing.T, topic string, payload models.EventPayload) models.OutboxEvent {
	t.Helper()
	ev, err := models.NewOutboxEvent(topic, payload)
	require.NoError(t, err)
	return ev
}

func TestDispatcherDeliversEvent(t *testing.T) {
	userID := uuid.New()
	outbox := newFakeOutboxRepo(mustEvent(t, models.EventBidAccepted, models.EventPayload{
		UserID:     userID,
		Title:      "Ставка принята",
		Message:    "Ваша ставка принята",
		Email:      "eng@example.com",
		EmailKind:  "bid_accepted",
		EntityName: "Электромонтаж",
	}))
	notifications := &fakeNotificationRepo{}
	pusher := &fakePusher{}
	mail := &fakeEventMailer{}

	d := NewEventDispatcher(outbox, notifications, pusher, mail, time.Second)
	d.Tick(context.Background())

	require.Len(t, notifications.created, 1)
	assert.Equal(t, userID, notifications.created[0].UserID)
	assert.Equal(t, "Ставка принята", notifications.created[0].Title)
	assert.Equal(t, []uuid.UUID{userID}, pusher.pushed)
	assert.Equal(t, []string{"eng@example.com:bid_accepted"}, mail.sent)
	assert.True(t, outbox.processed[outbox.events[0].ID])

	// Повторный тик не доставляет событие второй раз.
	d.Tick(context.Background())
	assert.Len(t, notifications.created, 1)
}

func TestDispatcherMarksProcessedOnMailFailure(t *testing.T) {
	outbox := newFakeOutboxRepo(mustEvent(t, models.EventProjectStatus, models.EventPayload{
		UserID:    uuid.New(),
		Title:     "Проект завершен",
		Message:   "Проект закрыт",
		Email:     "eng@example.com",
		EmailKind: "project_completed",
	}))
	notifications := &fakeNotificationRepo{}
	d := NewEventDispatcher(outbox, notifications, &fakePusher{}, &fakeEventMailer{fail: true}, time.Second)

	d.Tick(context.Background())

	// Письмо не ушло, но уведомление записано и событие закрыто:
	// одна попытка на событие.
	assert.Len(t, notifications.created, 1)
	assert.True(t, outbox.processed[outbox.events[0].ID])
}

func TestDispatcherSkipsPushWhenNotificationFails(t *testing.T) {
	outbox := newFakeOutboxRepo(mustEvent(t, models.EventMessageSent, models.EventPayload{
		UserID:  uuid.New(),
		Title:   "Новое сообщение",
		Message: "Сообщение в проекте",
	}))
	pusher := &fakePusher{}
	d := NewEventDispatcher(outbox, &fakeNotificationRepo{failOn: true}, pusher, &fakeEventMailer{}, time.Second)

	d.Tick(context.Background())

	assert.Empty(t, pusher.pushed)
	assert.True(t, outbox.processed[outbox.events[0].ID])
}
