package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"valkyrie/internal/cache"
	"valkyrie/internal/model"
	"valkyrie/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// stored value untouched.
type ProfileUpdate struct {
	Tagline *string
	Bio     *string
	Avatar  *string
}

// ProfileService handles profile reads and mutations.
type ProfileService interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.Profile, error)
	ClearAvatar(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	cache    *cache.Client
}

// NewProfileService creates a new profile service.
func NewProfileService(profiles repository.ProfileRepository, cache *cache.Client) ProfileService {
	return &profileService{
		profiles: profiles,
		cache:    cache,
	}
}

func (s *profileService) cacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("profile:%s", userID.String())
}

// GetOrCreate returns the user's profile, creating an empty one on first
// read. Reads go through the cache; the upsert path does not.
func (s *profileService) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(userID)); data != nil {
		var cached model.Profile
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find profile: %w", err)
		}
		profile = &model.Profile{UserID: userID}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
	}

	if payload, err := json.Marshal(profile); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(userID), payload, profileCacheTTL)
	}
	return profile, nil
}

// Update applies the provided fields and invalidates the cached profile.
func (s *profileService) Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.Profile, error) {
	profile, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Tagline != nil {
		profile.Tagline = *update.Tagline
	}
	if update.Bio != nil {
		profile.Bio = *update.Bio
	}
	if update.Avatar != nil {
		profile.Avatar = *update.Avatar
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return profile, nil
}

// ClearAvatar removes the stored avatar path.
func (s *profileService) ClearAvatar(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	empty := ""
	return s.Update(ctx, userID, ProfileUpdate{Avatar: &empty})
}
