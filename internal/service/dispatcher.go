package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/levkonnect-backend/internal/logger"
	"github.com/ignatzorin/levkonnect-backend/internal/models"
)

// OutboxRepo — контракт очереди событий для диспетчера.
type OutboxRepo interface {
	ListUnprocessed(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
}

// NotificationPusher — push в реальном времени (ws-хаб).
type NotificationPusher interface {
	Push(userID uuid.UUID, n *models.Notification)
}

// EventMailer — почтовая часть доставки событий.
type EventMailer interface {
	SendEvent(to, kind, entityName string) error
}

// EventDispatcher опрашивает outbox и доставляет события: запись в ленту
// уведомлений, push по ws и письмо. Доставка best-effort, одна попытка:
// ошибка логируется, событие все равно помечается обработанным.
type EventDispatcher struct {
	outbox        OutboxRepo
	notifications NotificationRepo
	pusher        NotificationPusher
	mail          EventMailer
	interval      time.Duration
	batchSize     int
}

func NewEventDispatcher(outbox OutboxRepo, notifications NotificationRepo, pusher NotificationPusher, mail EventMailer, interval time.Duration) *EventDispatcher {
	return &EventDispatcher{
		outbox:        outbox,
		notifications: notifications,
		pusher:        pusher,
		mail:          mail,
		interval:      interval,
		batchSize:     50,
	}
}

// Run крутит цикл опроса до отмены контекста.
func (d *EventDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick обрабатывает одну пачку событий. Вынесен отдельно для тестов.
func (d *EventDispatcher) Tick(ctx context.Context) {
	events, err := d.outbox.ListUnprocessed(ctx, d.batchSize)
	if err != nil {
		logger.Log.WithError(err).Error("чтение outbox")
		return
	}

	for _, ev := range events {
		d.deliver(ctx, ev)
		if err := d.outbox.MarkProcessed(ctx, ev.ID); err != nil {
			logger.Log.WithError(err).WithField("event", ev.ID).Error("отметка события")
		}
	}
}

func (d *EventDispatcher) deliver(ctx context.Context, ev models.OutboxEvent) {
	var payload models.EventPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		logger.Log.WithError(err).WithField("event", ev.ID).Error("разбор события")
		return
	}

	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    payload.UserID,
		Title:     payload.Title,
		Message:   payload.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.notifications.Create(ctx, n); err != nil {
		logger.Log.WithError(err).WithField("event", ev.ID).Error("запись уведомления")
	} else {
		d.pusher.Push(payload.UserID, n)
	}

	if payload.Email != "" && payload.EmailKind != "" {
		if err := d.mail.SendEvent(payload.Email, payload.EmailKind, payload.EntityName); err != nil {
			logger.Log.WithError(err).WithField("event", ev.ID).Warn("письмо по событию не отправлено")
		}
	}
}
