package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/prepnexus/learning-service/internal/models"
	"github.com/prepnexus/learning-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LearningPostgreSQL struct {
	db *gorm.DB
}

func NewLearningPostgreSQL(db *gorm.DB) repositories.LearningRepository {
	return &LearningPostgreSQL{db: db}
}

func (l *LearningPostgreSQL) GetMastery(ctx context.Context, userID uint, topic string) (*models.TopicMastery, error) {
	var mastery models.TopicMastery
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND topic = ?", userID, topic).
		First(&mastery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &mastery, nil
}

func (l *LearningPostgreSQL) ListMastery(ctx context.Context, userID uint) ([]*models.TopicMastery, error) {
	var records []*models.TopicMastery
	if err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("topic asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// UpsertMastery overwrites the (user, topic) score inside a transaction
// holding a row-level lock, so concurrent submissions for the same pair
// serialize instead of clobbering each other.
func (l *LearningPostgreSQL) UpsertMastery(ctx context.Context, userID uint, topic string, score float64) (*models.TopicMastery, error) {
	var result *models.TopicMastery
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mastery models.TopicMastery
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND topic = ?", userID, topic).
			First(&mastery).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			mastery = models.TopicMastery{
				UserID:       userID,
				Topic:        topic,
				MasteryScore: score,
			}
			if err := tx.Create(&mastery).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			mastery.MasteryScore = score
			if err := tx.Save(&mastery).Error; err != nil {
				return err
			}
		}

		result = &mastery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *LearningPostgreSQL) CreateQuizAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return l.db.WithContext(ctx).Create(attempt).Error
}

func (l *LearningPostgreSQL) ListQuizAttempts(ctx context.Context, userID uint) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	if err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (l *LearningPostgreSQL) LatestQuizAttempt(ctx context.Context, userID uint, topic string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND topic = ?", userID, topic).
		Order("created_at desc").
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

func (l *LearningPostgreSQL) CountQuizAttemptsSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

func (l *LearningPostgreSQL) GetResumeData(ctx context.Context, userID uint) (*models.UserResumeData, error) {
	var data models.UserResumeData
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&data).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &data, nil
}

func (l *LearningPostgreSQL) SaveResumeData(ctx context.Context, data *models.UserResumeData) error {
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(data).Error
}
