package persistent

import (
	"context"
	"errors"
	"fmt"

	"blog-api/pkg/models"
	"blog-api/services/blog/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository interface {
	// Upsert records the user's decision on the post. created is true when
	// no vote existed for the pair before this call.
	Upsert(ctx context.Context, userID, postID uint, isLike bool) (created bool, err error)
	Counts(ctx context.Context, postID uint) (entity.VoteCounts, error)
	Get(ctx context.Context, userID, postID uint) (*entity.Vote, error)
	PostIDsByUser(ctx context.Context, userID uint) ([]uint, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Upsert(ctx context.Context, userID, postID uint, isLike bool) (bool, error) {
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vote := &models.Vote{UserID: userID, PostID: postID, IsLike: isLike}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).Omit(clause.Associations).Create(vote)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			created = true
			return nil
		}

		// The pair already had a vote; the update runs even when the
		// decision is unchanged so updated_at moves.
		return tx.Model(&models.Vote{}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Update("is_like", isLike).Error
	})

	switch {
	case err == nil:
		return created, nil
	case isForeignKeyViolation(err):
		return false, r.missingParent(ctx, userID)
	case isRetryable(err):
		return false, fmt.Errorf("upsert vote user=%d post=%d: %w: %v", userID, postID, entity.ErrVoteConflict, err)
	default:
		return false, fmt.Errorf("upsert vote user=%d post=%d: %w", userID, postID, err)
	}
}

// missingParent tells which side of a rejected vote is gone. The voter can be
// deleted between authentication and the insert.
func (r *voteRepository) missingParent(ctx context.Context, userID uint) error {
	var users int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&users).Error
	if err == nil && users == 0 {
		return fmt.Errorf("user %d no longer exists: %w", userID, entity.ErrUnauthenticated)
	}
	return entity.ErrPostNotFound
}

type voteCountsRow struct {
	Likes    int64
	Dislikes int64
}

func (r *voteRepository) Counts(ctx context.Context, postID uint) (entity.VoteCounts, error) {
	var row voteCountsRow
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select("COALESCE(SUM(CASE WHEN is_like THEN 1 ELSE 0 END), 0) AS likes, "+
			"COALESCE(SUM(CASE WHEN is_like THEN 0 ELSE 1 END), 0) AS dislikes").
		Where("post_id = ?", postID).
		Scan(&row).Error
	if err != nil {
		return entity.VoteCounts{}, fmt.Errorf("count votes post=%d: %w", postID, err)
	}

	return entity.NewVoteCounts(row.Likes, row.Dislikes), nil
}

func (r *voteRepository) Get(ctx context.Context, userID, postID uint) (*entity.Vote, error) {
	var m models.Vote
	err := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToVoteEntity(&m), nil
}

func (r *voteRepository) PostIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &ids).Error
	return ids, err
}
