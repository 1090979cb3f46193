package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store implements the Database interface on top of gorm. The dialect is
// chosen by NewDatabase.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ Database = (*Store)(nil)

// DB exposes the underlying gorm handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return getDBFromContext(ctx, s.db)
}

// translate maps gorm errors onto the shared sentinels
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, cnst.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, cnst.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// affected turns a zero-row update into ErrNotFound
func affected(res *gorm.DB, what string) error {
	if res.Error != nil {
		return translate(res.Error, what)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, cnst.ErrNotFound)
	}
	return nil
}

func first[T any](ctx context.Context, db *gorm.DB, what string, query string, args ...any) (*T, error) {
	var out T
	if err := db.WithContext(ctx).Where(query, args...).First(&out).Error; err != nil {
		return nil, translate(err, what)
	}
	return &out, nil
}

func (s *Store) CreateOrganization(ctx context.Context, org *Organization) error {
	return translate(s.conn(ctx).Create(org).Error, "failed to create organization")
}

func (s *Store) GetOrganization(ctx context.Context, id uint) (*Organization, error) {
	return first[Organization](ctx, s.conn(ctx), "organization", "id = ?", id)
}

func (s *Store) GetOrganizationByName(ctx context.Context, name string) (*Organization, error) {
	return first[Organization](ctx, s.conn(ctx), "organization", "name = ?", name)
}

func (s *Store) ListOrganizations(ctx context.Context) ([]*Organization, error) {
	var orgs []*Organization
	err := s.conn(ctx).Order("name asc").Find(&orgs).Error
	return orgs, translate(err, "failed to list organizations")
}

func (s *Store) UpdateOrganizationTier(ctx context.Context, id uint, tier string) error {
	res := s.conn(ctx).Model(&Organization{}).Where("id = ?", id).Update("tier", tier)
	return affected(res, "organization")
}

func (s *Store) CreateUser(ctx context.Context, user *User) error {
	return translate(s.conn(ctx).Create(user).Error, "failed to create user")
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*User, error) {
	return first[User](ctx, s.conn(ctx), "user", "id = ?", id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return first[User](ctx, s.conn(ctx), "user", "username = ?", username)
}

func (s *Store) ListUsers(ctx context.Context, orgID uint) ([]*User, error) {
	var users []*User
	q := s.conn(ctx).Order("username asc")
	if orgID != 0 {
		q = q.Where("org_id = ?", orgID)
	}
	err := q.Find(&users).Error
	return users, translate(err, "failed to list users")
}

func (s *Store) UpdateUser(ctx context.Context, user *User) error {
	res := s.conn(ctx).Model(&User{}).Where("id = ?", user.ID).
		Select("email", "full_name", "password", "role", "is_active").
		Updates(user)
	return affected(res, "user")
}
