package repository

import (
	"context"
	"path/filepath"
	"testing"

	"medbot-backend/internal/medical/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "medical.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MedicalProfile{}))
	return db
}

func TestMedicalRepository_ReplaceKeepsIdentity(t *testing.T) {
	db := newTestDB(t)
	repo := NewMedicalRepository(db)
	ctx := context.Background()

	first := &domain.MedicalProfile{
		UserID:            "u1",
		Email:             "jane@example.com",
		Age:               45,
		Gender:            "Male",
		MedicalConditions: "Diabetes",
		Allergies:         "Penicillin",
		Medications:       "Metformin",
	}
	require.NoError(t, repo.Replace(ctx, first))
	require.NotEmpty(t, first.ID)

	stored, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	createdAt := stored.CreatedAt

	second := &domain.MedicalProfile{
		UserID:            "u1",
		Email:             "jane@example.com",
		Age:               46,
		Gender:            "Female",
		MedicalConditions: "Diabetes, hypertension",
		Allergies:         "",
		Medications:       "Metformin, lisinopril",
	}
	require.NoError(t, repo.Replace(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	stored, err = repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first.ID, stored.ID)
	assert.True(t, createdAt.Equal(stored.CreatedAt))
	assert.Equal(t, 46, stored.Age)
	assert.Equal(t, "Female", stored.Gender)
	assert.Equal(t, "Diabetes, hypertension", stored.MedicalConditions)
	assert.Empty(t, stored.Allergies)
	assert.Equal(t, "Metformin, lisinopril", stored.Medications)

	var count int64
	require.NoError(t, db.Model(&domain.MedicalProfile{}).Where("user_id = ?", "u1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMedicalRepository_FindMissing(t *testing.T) {
	repo := NewMedicalRepository(newTestDB(t))

	profile, err := repo.FindByUserID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, profile)
}
