// Package users manages console user accounts.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/codr1/wfxconsole/internal/db"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	Roles    = []string{"admin", "manager", "user", "guest"}
	Statuses = []string{"active", "inactive", "pending", "suspended"}
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("email already in use")
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type Filters struct {
	Search   string `json:"search"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager user guest"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive pending suspended"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Role      string `json:"role" validate:"required,oneof=admin manager user guest"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive pending suspended"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Role      string `json:"role" validate:"required,oneof=admin manager user guest"`
	Status    string `json:"status" validate:"required,oneof=active inactive pending suspended"`
}

type userQueries interface {
	ListUsers(ctx context.Context, arg db.ListUsersParams) ([]db.User, error)
	CountUsers(ctx context.Context, arg db.ListUsersParams) (int64, error)
	GetUser(ctx context.Context, id string) (db.User, error)
	GetUserByEmail(ctx context.Context, email string) (db.User, error)
	CreateUser(ctx context.Context, u db.User) error
	UpdateUser(ctx context.Context, u db.User) (int64, error)
	DeleteUser(ctx context.Context, id string) (int64, error)
}

type Service struct {
	queries  userQueries
	validate *validator.Validate
	now      func() time.Time
}

func NewService(queries userQueries) *Service {
	return &Service{
		queries:  queries,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context, filters Filters) (Page[User], error) {
	if err := s.Validate(filters); err != nil {
		return Page[User]{}, err
	}
	page, size := normalizePage(filters.Page, filters.PageSize)

	params := db.ListUsersParams{
		Search: filters.Search,
		Role:   filters.Role,
		Status: filters.Status,
		Limit:  int64(size),
		Offset: int64((page - 1) * size),
	}
	total, err := s.queries.CountUsers(ctx, params)
	if err != nil {
		return Page[User]{}, fmt.Errorf("count users: %w", err)
	}
	rows, err := s.queries.ListUsers(ctx, params)
	if err != nil {
		return Page[User]{}, fmt.Errorf("list users: %w", err)
	}

	items := make([]User, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromRow(row))
	}
	return Page[User]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return page, size
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	row, err := s.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return fromRow(row), nil
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Status == "" {
		req.Status = "pending"
	}
	if err := s.Validate(req); err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	row := db.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Status:       req.Status,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.queries.CreateUser(ctx, row); err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrDuplicate
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	log.Ctx(ctx).Info().Str("user_id", row.ID).Str("role", row.Role).Msg("User created")
	return fromRow(row), nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateUserRequest) (User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := s.Validate(req); err != nil {
		return User{}, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	updated, err := s.queries.UpdateUser(ctx, db.User{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Status:    req.Status,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	if updated == 0 {
		return User{}, ErrNotFound
	}

	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.Role = req.Role
	existing.Status = req.Status
	existing.UpdatedAt = s.now().UTC()
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.queries.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	log.Ctx(ctx).Info().Str("user_id", id).Msg("User deleted")
	return nil
}

// CheckPassword reports whether password matches the stored hash for email.
// Users without a password hash never match.
func (s *Service) CheckPassword(ctx context.Context, email, password string) (User, bool, error) {
	row, err := s.queries.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("find user: %w", err)
	}
	if row.PasswordHash == "" {
		return User{}, false, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return User{}, false, nil
	}
	return fromRow(row), true, nil
}

func fromRow(row db.User) User {
	return User{
		ID:        row.ID,
		Email:     row.Email,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Role:      row.Role,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
