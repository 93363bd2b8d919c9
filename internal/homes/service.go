package homes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("home not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create inserts a new home record. imageURLs are the public URLs of the
// already-uploaded photos.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, address string, imageURLs []string) (*Home, error) {
	home := &Home{
		OwnerID: ownerID,
		Address: address,
		Images:  imageURLs,
	}
	if err := s.db.WithContext(ctx).Create(home).Error; err != nil {
		return nil, fmt.Errorf("failed to create home: %w", err)
	}
	return home, nil
}

// List returns a page of homes along with the total count.
func (s *Service) List(ctx context.Context, offset, limit int) ([]Home, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Home{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count homes: %w", err)
	}

	var list []Home
	if err := s.db.WithContext(ctx).Offset(offset).Limit(limit).Order("created_at").Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list homes: %w", err)
	}
	return list, total, nil
}

// Get returns the home with the given ID, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Home, error) {
	var home Home
	if err := s.db.WithContext(ctx).First(&home, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get home: %w", err)
	}
	return &home, nil
}

// AddImages appends uploaded image URLs to an existing home.
func (s *Service) AddImages(ctx context.Context, id uuid.UUID, imageURLs []string) (*Home, error) {
	home, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	home.Images = append(home.Images, imageURLs...)
	if err := s.db.WithContext(ctx).Model(home).Update("images", home.Images).Error; err != nil {
		return nil, fmt.Errorf("failed to update home images: %w", err)
	}
	return home, nil
}
