package user

import (
	"context"
	"fmt"
	"time"

	"github.com/go-account-api/internal/domain"
	"github.com/go-account-api/internal/pkg/id"
	"github.com/go-account-api/internal/pkg/password"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName         = "name"
	fieldEmail        = "email"
	fieldPasswordHash = "password_hash"
)

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type service struct {
	repo   userStore
	hasher *password.Hasher
}

func NewService(repo userStore, hasher *password.Hasher) Service {
	return &service{repo: repo, hasher: hasher}
}

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	if _, err := s.repo.GetByPhone(ctx, req.Phone); err == nil {
		return nil, fmt.Errorf("phone already registered: %w", domain.ErrConflict)
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	if !id.Valid(userID) {
		return nil, fmt.Errorf("invalid user id: %w", domain.ErrBadRequest)
	}
	return s.repo.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	if !id.Valid(userID) {
		return nil, fmt.Errorf("invalid user id: %w", domain.ErrBadRequest)
	}
	existing, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Email != nil && *req.Email != existing.Email {
		if _, err := s.repo.GetByEmail(ctx, *req.Email); err == nil {
			return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		updates[fieldEmail] = *req.Email
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		updates[fieldPasswordHash] = hash
	}
	if len(updates) == 0 {
		return existing, nil
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID string) error {
	if !id.Valid(userID) {
		return fmt.Errorf("invalid user id: %w", domain.ErrBadRequest)
	}
	return s.repo.Delete(ctx, userID)
}
