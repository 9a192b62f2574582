package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rookery/contexts/social-graph/voting-engine/domain/entities"
	domainerrors "rookery/contexts/social-graph/voting-engine/domain/errors"
	"rookery/contexts/social-graph/voting-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

// ApplyVote runs the whole cast as one transaction: subject existence check,
// locked read of the current vote, transition write, and aggregate recount.
// The unique index on (subject_id, actor_id) turns a racing double-insert
// into ErrDuplicateVote for the losing transaction.
func (r *Repository) ApplyVote(ctx context.Context, input ports.ApplyVoteInput) (ports.ApplyVoteResult, error) {
	var result ports.ApplyVoteResult
	subjectID := strings.TrimSpace(input.SubjectID)
	actorID := strings.TrimSpace(input.ActorID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subject subjectProjectionModel
		if err := tx.Where("subject_id = ?", subjectID).First(&subject).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrSubjectNotFound
			}
			return err
		}

		var row voteModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("subject_id = ? AND actor_id = ?", subjectID, actorID).
			First(&row).
			Error
		hasExisting := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		action := entities.DecideTransition(entities.VoteType(row.VoteType), hasExisting, input.VoteType)
		now := input.Now.UTC()
		switch action {
		case entities.VoteActionInsert:
			newRow := voteModel{
				ID:        strings.TrimSpace(input.NewVoteID),
				SubjectID: subjectID,
				ActorID:   actorID,
				VoteType:  string(input.VoteType),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(&newRow).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrDuplicateVote
				}
				return err
			}
		case entities.VoteActionDelete:
			if err := tx.Where("id = ?", row.ID).Delete(&voteModel{}).Error; err != nil {
				return err
			}
		case entities.VoteActionUpdate:
			if err := tx.Model(&voteModel{}).
				Where("id = ?", row.ID).
				Updates(map[string]any{
					"vote_type":  string(input.VoteType),
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
		}

		aggregate, err := countVotesTx(tx, subjectID)
		if err != nil {
			return err
		}
		result = ports.ApplyVoteResult{
			Action:    action,
			Aggregate: aggregate,
		}
		return nil
	})
	if err != nil {
		return ports.ApplyVoteResult{}, r.mapTxError("voting_repo_apply_vote_failed", err,
			"subject_id", subjectID,
			"actor_id", actorID,
			"vote_type", string(input.VoteType),
		)
	}
	return result, nil
}

func (r *Repository) GetVoteByIdentity(ctx context.Context, subjectID string, actorID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("subject_id = ? AND actor_id = ?", strings.TrimSpace(subjectID), strings.TrimSpace(actorID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.mapTxError("voting_repo_get_vote_by_identity_failed", err,
			"subject_id", strings.TrimSpace(subjectID),
			"actor_id", strings.TrimSpace(actorID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CountVotes(ctx context.Context, subjectID string) (entities.VoteAggregate, error) {
	aggregate, err := countVotesTx(r.db.WithContext(ctx), strings.TrimSpace(subjectID))
	if err != nil {
		return entities.VoteAggregate{}, r.mapTxError("voting_repo_count_votes_failed", err,
			"subject_id", strings.TrimSpace(subjectID),
		)
	}
	return aggregate, nil
}

func (r *Repository) SubjectExists(ctx context.Context, subjectID string) (bool, error) {
	var row subjectProjectionModel
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", strings.TrimSpace(subjectID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, r.mapTxError("voting_repo_subject_exists_failed", err,
			"subject_id", strings.TrimSpace(subjectID),
		)
	}
	return true, nil
}

func countVotesTx(tx *gorm.DB, subjectID string) (entities.VoteAggregate, error) {
	aggregate := entities.VoteAggregate{SubjectID: subjectID}
	var upvotes int64
	if err := tx.Model(&voteModel{}).
		Where("subject_id = ? AND vote_type = ?", subjectID, string(entities.VoteTypeUp)).
		Count(&upvotes).Error; err != nil {
		return entities.VoteAggregate{}, err
	}
	var downvotes int64
	if err := tx.Model(&voteModel{}).
		Where("subject_id = ? AND vote_type = ?", subjectID, string(entities.VoteTypeDown)).
		Count(&downvotes).Error; err != nil {
		return entities.VoteAggregate{}, err
	}
	aggregate.Upvotes = int(upvotes)
	aggregate.Downvotes = int(downvotes)
	return aggregate, nil
}

func (r *Repository) mapTxError(event string, err error, attrs ...any) error {
	if errors.Is(err, domainerrors.ErrSubjectNotFound) || errors.Is(err, domainerrors.ErrDuplicateVote) {
		return err
	}
	wrapped := fmt.Errorf("%w: %v", domainerrors.ErrStoreUnavailable, err)
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "social-graph/voting-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("voting repository operation failed", fields...)
	return wrapped
}

type voteModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	SubjectID string    `gorm:"column:subject_id;uniqueIndex:idx_votes_identity"`
	ActorID   string    `gorm:"column:actor_id;uniqueIndex:idx_votes_identity"`
	VoteType  string    `gorm:"column:vote_type"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:    m.ID,
		SubjectID: m.SubjectID,
		ActorID:   m.ActorID,
		VoteType:  entities.VoteType(m.VoteType),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type subjectProjectionModel struct {
	SubjectID string `gorm:"column:subject_id;primaryKey"`
	AuthorID  string `gorm:"column:author_id"`
	Status    string `gorm:"column:status"`
}

func (subjectProjectionModel) TableName() string {
	return "subjects"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.VoteRepository = (*Repository)(nil)
