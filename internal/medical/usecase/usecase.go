package usecase

import (
	"context"
	"fmt"

	authdomain "medbot-backend/internal/auth/domain"
	"medbot-backend/internal/medical/domain"
	"medbot-backend/internal/medical/dto"
	"medbot-backend/internal/medical/repository"
)

// MedicalUsecase defines the interface for intake form use cases
type MedicalUsecase interface {
	// Save replaces the user's profile and marks their form as filled
	Save(ctx context.Context, req *dto.SaveRequest) (*domain.MedicalProfile, error)
	GetByEmail(ctx context.Context, email string) (*domain.MedicalProfile, error)
	// Exists reports whether the user has submitted the form
	Exists(ctx context.Context, email string) (bool, error)
}

// UserLookup is the part of the user repository this package needs
type UserLookup interface {
	FindByEmail(email string) (*authdomain.User, error)
	SetMedicalFormFilled(userID string, filled bool) error
}

type medicalUsecase struct {
	repo  repository.MedicalRepository
	users UserLookup
}

func NewMedicalUsecase(repo repository.MedicalRepository, users UserLookup) MedicalUsecase {
	return &medicalUsecase{
		repo:  repo,
		users: users,
	}
}

func (u *medicalUsecase) findUser(email string) (*authdomain.User, error) {
	user, err := u.users.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (u *medicalUsecase) Save(ctx context.Context, req *dto.SaveRequest) (*domain.MedicalProfile, error) {
	user, err := u.findUser(req.Email)
	if err != nil {
		return nil, err
	}

	profile := &domain.MedicalProfile{
		UserID:            user.ID,
		Email:             user.Email,
		Age:               int(req.Age),
		Gender:            req.Gender,
		MedicalConditions: req.MedicalConditions,
		Allergies:         req.Allergies,
		Medications:       req.Medications,
	}
	if err := u.repo.Replace(ctx, profile); err != nil {
		return nil, fmt.Errorf("save medical profile: %w", err)
	}

	if !user.MedicalFormFilled {
		if err := u.users.SetMedicalFormFilled(user.ID, true); err != nil {
			return nil, fmt.Errorf("mark form filled: %w", err)
		}
	}
	return profile, nil
}

func (u *medicalUsecase) GetByEmail(ctx context.Context, email string) (*domain.MedicalProfile, error) {
	user, err := u.findUser(email)
	if err != nil {
		return nil, err
	}

	profile, err := u.repo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (u *medicalUsecase) Exists(ctx context.Context, email string) (bool, error) {
	user, err := u.users.FindByEmail(email)
	if err != nil {
		return false, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return false, nil
	}
	if user.MedicalFormFilled {
		return true, nil
	}

	profile, err := u.repo.FindByUserID(ctx, user.ID)
	if err != nil {
		return false, err
	}
	return profile != nil, nil
}
