// Package outboxrepo stores serialized domain events next to the state change
// that produced them, for later relay to the message broker.
package outboxrepo

import (
	"context"
	"encoding/json"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutboxMessageDTO struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	EventID    uuid.UUID  `gorm:"size:36;not null;uniqueIndex"`
	Name       string     `gorm:"size:64;not null"`
	Key        string     `gorm:"column:event_key;size:64;not null"`
	Payload    string     `gorm:"type:text;not null"`
	OccurredAt time.Time  `gorm:"not null"`
	SentAt     *time.Time `gorm:"index"`
}

func (OutboxMessageDTO) TableName() string {
	return "outbox_messages"
}

type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Add(ctx context.Context, events ...kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]OutboxMessageDTO, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		dtos = append(dtos, OutboxMessageDTO{
			EventID:    event.EventID().Raw(),
			Name:       event.EventName(),
			Key:        event.EventKey(),
			Payload:    string(payload),
			OccurredAt: event.OccurredAt(),
		})
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return errs.NewUnavailableErrorWithCause("insert outbox messages", err)
	}
	return nil
}

// FetchPending locks the claimed rows with FOR UPDATE SKIP LOCKED so that relays
// running in parallel take disjoint batches.
func (r *GormOutboxRepository) FetchPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var dtos []OutboxMessageDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate, Options: clause.LockingOptionsSkipLocked}).
		Where("sent_at IS NULL").
		Order("id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewUnavailableErrorWithCause("fetch outbox messages", err)
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		eventID, err := kernel.UUIDFromString(dto.EventID.String())
		if err != nil {
			return nil, err
		}
		messages = append(messages, ports.OutboxMessage{
			ID:         dto.ID,
			EventID:    eventID,
			Name:       dto.Name,
			Key:        dto.Key,
			Payload:    []byte(dto.Payload),
			OccurredAt: dto.OccurredAt,
		})
	}
	return messages, nil
}

func (r *GormOutboxRepository) MarkSent(ctx context.Context, ids []int64, sentAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&OutboxMessageDTO{}).
		Where("id IN ?", ids).
		Update("sent_at", sentAt).Error
	if err != nil {
		return errs.NewUnavailableErrorWithCause("mark outbox messages sent", err)
	}
	return nil
}
