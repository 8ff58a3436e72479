package repository

import (
	"context"
	"errors"
	"time"

	"medbot-backend/internal/medical/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MedicalRepository defines the interface for medical profile persistence
type MedicalRepository interface {
	// Replace stores profile as the user's only profile, overwriting every field
	Replace(ctx context.Context, profile *domain.MedicalProfile) error
	// FindByUserID returns nil, nil when the user has no profile
	FindByUserID(ctx context.Context, userID string) (*domain.MedicalProfile, error)
}

type medicalRepository struct {
	db *gorm.DB
}

func NewMedicalRepository(db *gorm.DB) MedicalRepository {
	return &medicalRepository{
		db: db,
	}
}

func (r *medicalRepository) Replace(ctx context.Context, profile *domain.MedicalProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		var existing domain.MedicalProfile
		err := tx.Select("id", "created_at").Where("user_id = ?", profile.UserID).First(&existing).Error
		switch {
		case err == nil:
			profile.ID = existing.ID
			profile.CreatedAt = existing.CreatedAt
			profile.UpdatedAt = now
			// A map so that cleared fields are written too
			return tx.Model(&domain.MedicalProfile{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
				"email":              profile.Email,
				"age":                profile.Age,
				"gender":             profile.Gender,
				"medical_conditions": profile.MedicalConditions,
				"allergies":          profile.Allergies,
				"medications":        profile.Medications,
				"updated_at":         now,
			}).Error
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		profile.ID = uuid.New().String()
		profile.CreatedAt = now
		profile.UpdatedAt = now

		// A concurrent first submission can still win the insert; overwrite its fields
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "age", "gender", "medical_conditions", "allergies", "medications", "updated_at",
			}),
		}).Create(profile).Error
	})
}

func (r *medicalRepository) FindByUserID(ctx context.Context, userID string) (*domain.MedicalProfile, error) {
	var profile domain.MedicalProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
