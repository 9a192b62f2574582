package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rookery/contexts/social-graph/relationship-service/domain/entities"
	domainerrors "rookery/contexts/social-graph/relationship-service/domain/errors"
	"rookery/contexts/social-graph/relationship-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// CreateRequest runs the pair lookup, the conflict policy, the relationship
// insert, and the notification append inside one transaction. The locked
// read plus the unique index on (actor_low, actor_high) guarantee at most
// one row per unordered pair even when requests race on both orderings.
func (r *Repository) CreateRequest(
	ctx context.Context,
	relationship entities.Relationship,
	notification entities.Notification,
) (entities.Relationship, error) {
	var persisted entities.Relationship
	low, high := entities.PairKey(relationship.RequesterID, relationship.AddresseeID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row relationshipModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("actor_low = ? AND actor_high = ?", low, high).
			First(&row).
			Error
		switch {
		case err == nil:
			existing := row.toEntity()
			if conflictErr := entities.RequestConflict(existing, relationship.RequesterID); conflictErr != nil {
				return conflictErr
			}
			// Rejected history: revive the same row as a fresh pending
			// request, keeping the one-row-per-pair invariant.
			updatedAt := relationship.UpdatedAt.UTC()
			if err := tx.Model(&relationshipModel{}).
				Where("id = ?", row.ID).
				Updates(map[string]any{
					"requester_id": strings.TrimSpace(relationship.RequesterID),
					"addressee_id": strings.TrimSpace(relationship.AddresseeID),
					"status":       string(entities.StatusPending),
					"updated_at":   updatedAt,
				}).Error; err != nil {
				return err
			}
			row.RequesterID = strings.TrimSpace(relationship.RequesterID)
			row.AddresseeID = strings.TrimSpace(relationship.AddresseeID)
			row.Status = string(entities.StatusPending)
			row.UpdatedAt = updatedAt
			persisted = row.toEntity()
		case errors.Is(err, gorm.ErrRecordNotFound):
			newRow := relationshipModelFromEntity(relationship)
			if err := tx.Create(&newRow).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrRelationshipExists
				}
				return err
			}
			persisted = newRow.toEntity()
		default:
			return err
		}

		noteRow, err := notificationModelFromEntity(notification)
		if err != nil {
			return err
		}
		return tx.Create(&noteRow).Error
	})
	if err != nil {
		return entities.Relationship{}, r.mapTxError("relationship_repo_create_request_failed", err,
			"requester_id", strings.TrimSpace(relationship.RequesterID),
			"addressee_id", strings.TrimSpace(relationship.AddresseeID),
		)
	}
	return persisted, nil
}

func (r *Repository) ResolveRequest(
	ctx context.Context,
	addresseeID string,
	requesterID string,
	toStatus entities.RelationshipStatus,
	notification *entities.Notification,
	now time.Time,
) (entities.Relationship, error) {
	var persisted entities.Relationship
	low, high := entities.PairKey(addresseeID, requesterID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row relationshipModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("actor_low = ? AND actor_high = ?", low, high).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRelationshipNotFound
			}
			return err
		}
		// Only the addressee of the pending request may resolve it.
		if row.AddresseeID != strings.TrimSpace(addresseeID) || row.RequesterID != strings.TrimSpace(requesterID) {
			return domainerrors.ErrRelationshipNotFound
		}
		if row.Status != string(entities.StatusPending) {
			return domainerrors.ErrRequestNotPending
		}

		updatedAt := now.UTC()
		if err := tx.Model(&relationshipModel{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"status":     string(toStatus),
				"updated_at": updatedAt,
			}).Error; err != nil {
			return err
		}
		row.Status = string(toStatus)
		row.UpdatedAt = updatedAt
		persisted = row.toEntity()

		if notification == nil {
			return nil
		}
		noteRow, err := notificationModelFromEntity(*notification)
		if err != nil {
			return err
		}
		return tx.Create(&noteRow).Error
	})
	if err != nil {
		return entities.Relationship{}, r.mapTxError("relationship_repo_resolve_request_failed", err,
			"addressee_id", strings.TrimSpace(addresseeID),
			"requester_id", strings.TrimSpace(requesterID),
			"to_status", string(toStatus),
		)
	}
	return persisted, nil
}

func (r *Repository) UpsertBlock(ctx context.Context, block entities.Relationship) (entities.Relationship, error) {
	var persisted entities.Relationship
	low, high := entities.PairKey(block.RequesterID, block.AddresseeID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row relationshipModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("actor_low = ? AND actor_high = ?", low, high).
			First(&row).
			Error
		switch {
		case err == nil:
			updatedAt := block.UpdatedAt.UTC()
			if err := tx.Model(&relationshipModel{}).
				Where("id = ?", row.ID).
				Updates(map[string]any{
					"requester_id": strings.TrimSpace(block.RequesterID),
					"addressee_id": strings.TrimSpace(block.AddresseeID),
					"status":       string(entities.StatusBlocked),
					"updated_at":   updatedAt,
				}).Error; err != nil {
				return err
			}
			row.RequesterID = strings.TrimSpace(block.RequesterID)
			row.AddresseeID = strings.TrimSpace(block.AddresseeID)
			row.Status = string(entities.StatusBlocked)
			row.UpdatedAt = updatedAt
			persisted = row.toEntity()
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			newRow := relationshipModelFromEntity(block)
			if err := tx.Create(&newRow).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrRelationshipExists
				}
				return err
			}
			persisted = newRow.toEntity()
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return entities.Relationship{}, r.mapTxError("relationship_repo_upsert_block_failed", err,
			"blocker_id", strings.TrimSpace(block.RequesterID),
			"target_id", strings.TrimSpace(block.AddresseeID),
		)
	}
	return persisted, nil
}

func (r *Repository) GetByPair(ctx context.Context, actorA string, actorB string) (entities.Relationship, bool, error) {
	low, high := entities.PairKey(actorA, actorB)
	var row relationshipModel
	err := r.db.WithContext(ctx).
		Where("actor_low = ? AND actor_high = ?", low, high).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Relationship{}, false, nil
		}
		return entities.Relationship{}, false, r.mapTxError("relationship_repo_get_by_pair_failed", err,
			"actor_low", low,
			"actor_high", high,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListByActor(
	ctx context.Context,
	actorID string,
	status entities.RelationshipStatus,
) ([]entities.Relationship, error) {
	actorID = strings.TrimSpace(actorID)
	tx := r.db.WithContext(ctx).Model(&relationshipModel{}).
		Where("requester_id = ? OR addressee_id = ?", actorID, actorID)
	if status != "" {
		tx = tx.Where("status = ?", string(status))
	}
	var rows []relationshipModel
	if err := tx.Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, r.mapTxError("relationship_repo_list_by_actor_failed", err,
			"actor_id", actorID,
			"status", string(status),
		)
	}
	items := make([]entities.Relationship, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListByRecipient(ctx context.Context, recipientID string) ([]entities.Notification, error) {
	var rows []notificationModel
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ?", strings.TrimSpace(recipientID)).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.mapTxError("relationship_repo_list_notifications_failed", err,
			"recipient_id", strings.TrimSpace(recipientID),
		)
	}
	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, r.mapTxError("relationship_repo_decode_notification_failed", err,
				"notification_id", row.ID,
			)
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("relationship_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("relationship_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).Error; err != nil {
		return r.logError("relationship_repo_append_outbox_load_existing_failed", err,
			"outbox_id", row.OutboxID,
		)
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrRelationshipExists
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("relationship_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("relationship_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRelationshipNotFound
	}
	return nil
}

// mapTxError keeps domain sentinels intact and wraps everything else as a
// store availability failure so callers can branch with errors.Is.
func (r *Repository) mapTxError(event string, err error, attrs ...any) error {
	if isDomainError(err) {
		return err
	}
	wrapped := fmt.Errorf("%w: %v", domainerrors.ErrStoreUnavailable, err)
	_ = r.logError(event, err, attrs...)
	return wrapped
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "social-graph/relationship-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("relationship repository operation failed", fields...)
	return err
}

func isDomainError(err error) bool {
	for _, sentinel := range []error{
		domainerrors.ErrAlreadyFriends,
		domainerrors.ErrRequestAlreadyPending,
		domainerrors.ErrSelfBlocked,
		domainerrors.ErrBlockedByAddressee,
		domainerrors.ErrRelationshipExists,
		domainerrors.ErrRelationshipNotFound,
		domainerrors.ErrRequestNotPending,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

type relationshipModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	RequesterID string    `gorm:"column:requester_id"`
	AddresseeID string    `gorm:"column:addressee_id"`
	ActorLow    string    `gorm:"column:actor_low;uniqueIndex:idx_relationships_pair"`
	ActorHigh   string    `gorm:"column:actor_high;uniqueIndex:idx_relationships_pair"`
	Status      string    `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (relationshipModel) TableName() string {
	return "relationships"
}

func relationshipModelFromEntity(relationship entities.Relationship) relationshipModel {
	low, high := entities.PairKey(relationship.RequesterID, relationship.AddresseeID)
	row := relationshipModel{
		ID:          strings.TrimSpace(relationship.RelationshipID),
		RequesterID: strings.TrimSpace(relationship.RequesterID),
		AddresseeID: strings.TrimSpace(relationship.AddresseeID),
		ActorLow:    low,
		ActorHigh:   high,
		Status:      string(relationship.Status),
		CreatedAt:   relationship.CreatedAt.UTC(),
		UpdatedAt:   relationship.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m relationshipModel) toEntity() entities.Relationship {
	return entities.Relationship{
		RelationshipID: m.ID,
		RequesterID:    m.RequesterID,
		AddresseeID:    m.AddresseeID,
		Status:         entities.RelationshipStatus(m.Status),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type notificationModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	RecipientID string    `gorm:"column:recipient_id;index"`
	Kind        string    `gorm:"column:kind"`
	Title       string    `gorm:"column:title"`
	Body        string    `gorm:"column:body"`
	Payload     []byte    `gorm:"column:payload"`
	Read        bool      `gorm:"column:read"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromEntity(notification entities.Notification) (notificationModel, error) {
	payload, err := json.Marshal(notification.Payload)
	if err != nil {
		return notificationModel{}, err
	}
	row := notificationModel{
		ID:          strings.TrimSpace(notification.NotificationID),
		RecipientID: strings.TrimSpace(notification.RecipientID),
		Kind:        strings.TrimSpace(notification.Kind),
		Title:       notification.Title,
		Body:        notification.Body,
		Payload:     payload,
		Read:        notification.Read,
		CreatedAt:   notification.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row, nil
}

func (m notificationModel) toEntity() (entities.Notification, error) {
	payload := map[string]any{}
	if len(m.Payload) > 0 {
		if err := json.Unmarshal(m.Payload, &payload); err != nil {
			return entities.Notification{}, err
		}
	}
	return entities.Notification{
		NotificationID: m.ID,
		RecipientID:    m.RecipientID,
		Kind:           m.Kind,
		Title:          m.Title,
		Body:           m.Body,
		Payload:        payload,
		Read:           m.Read,
		CreatedAt:      m.CreatedAt.UTC(),
	}, nil
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "relationship_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.RelationshipRepository = (*Repository)(nil)
var _ ports.NotificationRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
