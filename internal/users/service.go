package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("user not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register creates a new user record. profileImage is the public URL of an
// already-uploaded profile picture, or nil when none was provided.
func (s *Service) Register(ctx context.Context, name string, profileImage *string) (*Person, error) {
	person := &Person{
		Name:         name,
		ProfileImage: profileImage,
	}
	if err := s.db.WithContext(ctx).Create(person).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return person, nil
}

// List returns a page of users along with the total count.
func (s *Service) List(ctx context.Context, offset, limit int) ([]Person, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Person{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var people []Person
	if err := s.db.WithContext(ctx).Offset(offset).Limit(limit).Order("created_at").Find(&people).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return people, total, nil
}

// Get returns the user with the given ID, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Person, error) {
	var person Person
	if err := s.db.WithContext(ctx).First(&person, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &person, nil
}

// UpdateProfileImage replaces the user's profile image URL.
func (s *Service) UpdateProfileImage(ctx context.Context, id uuid.UUID, url string) (*Person, error) {
	person, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	person.ProfileImage = &url
	if err := s.db.WithContext(ctx).Model(person).Update("profile_image", url).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile image: %w", err)
	}
	return person, nil
}
