package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

func toUpperTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, password_hash, role, first_name, last_name,
	normalized_first_name, normalized_last_name, city, postal_code, avatar_path,
	is_deactivated, is_profile_private, onboarding_completed, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName,
		&u.NormalizedFirstName, &u.NormalizedLastName, &u.City, &u.PostalCode, &u.AvatarPath,
		&u.IsDeactivated, &u.IsProfilePrivate, &u.OnboardingCompleted, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	user.NormalizeNames()
	query := `
		INSERT INTO users (id, email, password_hash, role, first_name, last_name,
			normalized_first_name, normalized_last_name, city, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role, user.FirstName, user.LastName,
		user.NormalizedFirstName, user.NormalizedLastName, user.City, user.PostalCode,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("User with this email already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	// Normalized mirrors are recomputed on every write so they can never
	// drift from the display names.
	user.NormalizeNames()
	query := `
		UPDATE users SET
			first_name = $2, last_name = $3,
			normalized_first_name = $4, normalized_last_name = $5,
			city = $6, postal_code = $7,
			is_deactivated = $8, is_profile_private = $9, onboarding_completed = $10,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName,
		user.NormalizedFirstName, user.NormalizedLastName,
		user.City, user.PostalCode,
		user.IsDeactivated, user.IsProfilePrivate, user.OnboardingCompleted,
	)
	return err
}

func (r *userRepo) UpdateAvatar(ctx context.Context, userID, avatarPath string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET avatar_path = $2, updated_at = NOW() WHERE id = $1`,
		userID, avatarPath,
	)
	return err
}

// Search lists public, active users for the directory. The free-text query
// matches the normalized name mirrors and city, so it is case-insensitive
// without needing ILIKE on the display columns.
func (r *userRepo) Search(ctx context.Context, filter domain.UserSearchFilter) ([]domain.UserSummary, int, error) {
	where := `u.is_deactivated = FALSE AND u.is_profile_private = FALSE`
	args := []interface{}{}
	argN := 1

	if filter.Query != "" {
		where += fmt.Sprintf(` AND (u.normalized_first_name LIKE $%d OR u.normalized_last_name LIKE $%d OR UPPER(u.city) LIKE $%d)`, argN, argN, argN)
		args = append(args, "%"+toUpperTrim(filter.Query)+"%")
		argN++
	}
	if filter.City != "" {
		where += fmt.Sprintf(` AND UPPER(u.city) = $%d`, argN)
		args = append(args, toUpperTrim(filter.City))
		argN++
	}
	if filter.CompetenceID > 0 {
		where += fmt.Sprintf(` AND EXISTS (SELECT 1 FROM user_competences uc WHERE uc.user_id = u.id AND uc.competence_id = $%d)`, argN)
		args = append(args, filter.CompetenceID)
		argN++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users u WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.first_name, u.last_name, u.city, u.avatar_path,
			COALESCE(p.headline, '')
		FROM users u
		LEFT JOIN user_profiles up ON up.user_id = u.id
		LEFT JOIN profiles p ON p.id = up.profile_id
		WHERE %s
		ORDER BY u.normalized_last_name, u.normalized_first_name
		LIMIT $%d OFFSET $%d`, where, argN, argN+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.UserSummary
	for rows.Next() {
		var s domain.UserSummary
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.City, &s.AvatarPath, &s.Headline); err != nil {
			return nil, 0, err
		}
		users = append(users, s)
	}
	return users, total, rows.Err()
}

func (r *userRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at`, userColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName,
			&u.NormalizedFirstName, &u.NormalizedLastName, &u.City, &u.PostalCode, &u.AvatarPath,
			&u.IsDeactivated, &u.IsProfilePrivate, &u.OnboardingCompleted, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
