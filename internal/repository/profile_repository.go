package repository

import (
	"context"
	"strings"

	"restaurant-pos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type profileRepository struct {
	db     DBTX
	logger zerolog.Logger
}

// NewProfileRepository creates a new PostgreSQL-backed profile repository.
func NewProfileRepository(db DBTX, logger zerolog.Logger) ProfileRepository {
	return &profileRepository{
		db:     db,
		logger: logger.With().Str("repository", "profile").Logger(),
	}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var (
		p    model.Profile
		role string
	)
	err := r.db.QueryRow(ctx, `SELECT id, role FROM profiles WHERE id = $1`, id).Scan(&p.ID, &role)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query profile")
		return nil, model.NewStoreError("select", "profiles", err)
	}
	p.Role = model.Role(role)
	return &p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile model.Profile) error {
	query := `
		INSERT INTO profiles (id, role) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role
	`
	if _, err := r.db.Exec(ctx, query, profile.ID, string(profile.Role)); err != nil {
		r.logger.Error().Err(err).Str("user_id", profile.ID.String()).Msg("failed to upsert profile")
		return model.NewStoreError("upsert", "profiles", err)
	}
	return nil
}

type userRepository struct {
	db     DBTX
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DBTX, logger zerolog.Logger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, user.ID, strings.ToLower(user.Email), user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrEmailTaken
		}
		r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to create user")
		return model.NewStoreError("insert", "users", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`,
		strings.ToLower(email),
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user")
		return nil, model.NewStoreError("select", "users", err)
	}
	return &u, nil
}
