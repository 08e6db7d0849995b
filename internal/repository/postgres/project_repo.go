package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type projectRepo struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) domain.ProjectRepository {
	return &projectRepo{db: db}
}

const projectColumns = `id, title, short_description, long_description, image_path,
	tech_stack_csv, creator_user_id, created_at, updated_at`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.ShortDescription, &p.LongDescription, &p.ImagePath,
		&p.TechStackCSV, &p.CreatorUserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts the project and auto-joins the creator in one transaction.
func (r *projectRepo) Create(ctx context.Context, project *domain.Project) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO projects (title, short_description, long_description, tech_stack_csv, creator_user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		project.Title, project.ShortDescription, project.LongDescription,
		project.TechStackCSV, project.CreatorUserID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO project_users (project_id, user_id) VALUES ($1, $2)`,
		project.ID, project.CreatorUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to join creator: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *projectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)
	return scanProject(r.db.QueryRow(ctx, query, id))
}

func (r *projectRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Project, error) {
	if len(ids) == 0 {
		return []domain.Project{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = ANY($1) ORDER BY created_at DESC`, projectColumns)
	return r.queryProjects(ctx, query, ids)
}

func (r *projectRepo) List(ctx context.Context, limit, offset int) ([]domain.Project, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT %s FROM projects ORDER BY created_at DESC LIMIT $1 OFFSET $2`, projectColumns)
	projects, err := r.queryProjects(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepo) ListByMember(ctx context.Context, userID string) ([]domain.Project, error) {
	query := `
		SELECT p.id, p.title, p.short_description, p.long_description, p.image_path,
			p.tech_stack_csv, p.creator_user_id, p.created_at, p.updated_at
		FROM projects p
		JOIN project_users pu ON pu.project_id = p.id
		WHERE pu.user_id = $1
		ORDER BY pu.joined_at DESC`
	return r.queryProjects(ctx, query, userID)
}

func (r *projectRepo) queryProjects(ctx context.Context, query string, args ...interface{}) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Project{}
	for rows.Next() {
		var p domain.Project
		err := rows.Scan(
			&p.ID, &p.Title, &p.ShortDescription, &p.LongDescription, &p.ImagePath,
			&p.TechStackCSV, &p.CreatorUserID, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *projectRepo) Update(ctx context.Context, project *domain.Project) error {
	query := `
		UPDATE projects SET
			title = $2, short_description = $3, long_description = $4,
			tech_stack_csv = $5, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		project.ID, project.Title, project.ShortDescription,
		project.LongDescription, project.TechStackCSV,
	)
	return err
}

func (r *projectRepo) UpdateImage(ctx context.Context, projectID int64, imagePath string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE projects SET image_path = $2, updated_at = NOW() WHERE id = $1`,
		projectID, imagePath,
	)
	return err
}

// Delete removes memberships before the project row (FK order) and hands
// back the image path for best-effort file cleanup.
func (r *projectRepo) Delete(ctx context.Context, projectID int64) (string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var imagePath string
	err = tx.QueryRow(ctx, `SELECT image_path FROM projects WHERE id = $1`, projectID).Scan(&imagePath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM project_users WHERE project_id = $1`, projectID); err != nil {
		return "", fmt.Errorf("failed to delete memberships: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID); err != nil {
		return "", fmt.Errorf("failed to delete project: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return imagePath, nil
}

func (r *projectRepo) Join(ctx context.Context, projectID int64, userID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO project_users (project_id, user_id) VALUES ($1, $2)`,
		projectID, userID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("Already a member of this project")
		}
		return err
	}
	return nil
}

func (r *projectRepo) Leave(ctx context.Context, projectID int64, userID string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM project_users WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NotFound("Not a member of this project")
	}
	return nil
}

func (r *projectRepo) ListMembers(ctx context.Context, projectID int64) ([]domain.ProjectMemberInfo, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.avatar_path, pu.joined_at
		FROM project_users pu
		JOIN users u ON u.id = pu.user_id
		WHERE pu.project_id = $1
		ORDER BY pu.joined_at`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.ProjectMemberInfo{}
	for rows.Next() {
		var m domain.ProjectMemberInfo
		if err := rows.Scan(&m.UserID, &m.FirstName, &m.LastName, &m.AvatarPath, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *projectRepo) IsMember(ctx context.Context, projectID int64, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM project_users WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID,
	).Scan(&exists)
	return exists, err
}
