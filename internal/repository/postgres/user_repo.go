package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"jwtauth/internal/domain"
	"jwtauth/internal/port"
)

const uniqueViolation = "23505"

type userRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new PostgreSQL-backed UserRepository.
func NewUserRepo(db *sqlx.DB) port.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, email, first_name, last_name, is_social_auth, created_at, updated_at
		 FROM users WHERE LOWER(email) = LOWER($1)`, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.FindByEmail: %w", err)
	}
	return &user, nil
}

func (r *userRepo) Register(ctx context.Context, firstName, lastName, email string, isSocialAuth bool) (*domain.User, error) {
	user, err := newUser(firstName, lastName, email, isSocialAuth)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO users (id, email, first_name, last_name, is_social_auth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.IsSocialAuth,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("userRepo.Register: %w", err)
	}
	return user, nil
}

func newUser(firstName, lastName, email string, isSocialAuth bool) (*domain.User, error) {
	email = strings.TrimSpace(email)
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrRegistrationInvalid)
	}
	if firstName == "" {
		return nil, fmt.Errorf("%w: first name is required", domain.ErrRegistrationInvalid)
	}

	now := time.Now().UTC()
	return &domain.User{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		IsSocialAuth: isSocialAuth,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return strings.Contains(err.Error(), "duplicate key")
}
