package repository

import (
	"taqsit/internal/model"
	"time"

	"gorm.io/gorm"
)

type WebhookEventRepository interface {
	// MarkProcessed inserts the idempotency record. A gorm.ErrDuplicatedKey
	// result means the event was already processed.
	MarkProcessed(tx *gorm.DB, eventID, eventType string) error
	Exists(eventID string) (bool, error)
}

type webhookEventRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryImpl{db: db}
}

func (r *webhookEventRepositoryImpl) MarkProcessed(tx *gorm.DB, eventID string, eventType string) error {
	return tx.Create(&model.WebhookEvent{
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: time.Now(),
	}).Error
}

func (r *webhookEventRepositoryImpl) Exists(eventID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error

	return count > 0, err
}
