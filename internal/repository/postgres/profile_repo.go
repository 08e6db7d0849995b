package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `id, owner_user_id, headline, about_me, avatar_path,
	skills_csv, selected_projects_json, is_public, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.OwnerUserID, &p.Headline, &p.AboutMe, &p.AvatarPath,
		&p.SkillsCSV, &p.SelectedProjectsJSON, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) GetLinkByUserID(ctx context.Context, userID string) (*domain.ProfileLink, error) {
	var link domain.ProfileLink
	err := r.db.QueryRow(ctx,
		`SELECT user_id, profile_id FROM user_profiles WHERE user_id = $1`, userID,
	).Scan(&link.UserID, &link.ProfileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *profileRepo) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = $1`, profileColumns)
	return scanProfile(r.db.QueryRow(ctx, query, id))
}

// GetOrCreateByUserID implements lazy profile creation: nothing is created
// at registration, the first CV touch materializes the profile and its link.
// The unique constraint on user_profiles.user_id guards concurrent first
// touches; on conflict we re-read the winner's row instead of failing.
func (r *profileRepo) GetOrCreateByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	link, err := r.GetLinkByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if link != nil {
		return r.GetByID(ctx, link.ProfileID)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Profile first to obtain its generated id, then the link referencing it.
	// New profiles start public with empty placeholder collections.
	var profileID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO profiles (owner_user_id, is_public, skills_csv, selected_projects_json)
		VALUES ($1, TRUE, '', '[]')
		RETURNING id`, userID,
	).Scan(&profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO user_profiles (user_id, profile_id) VALUES ($1, $2)`,
		userID, profileID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// Lost the race: another request created the link first.
			// Abandon our profile row (rolled back) and read theirs.
			_ = tx.Rollback(ctx)
			link, err := r.GetLinkByUserID(ctx, userID)
			if err != nil {
				return nil, err
			}
			if link == nil {
				return nil, errors.New("profile link vanished after conflict")
			}
			return r.GetByID(ctx, link.ProfileID)
		}
		return nil, fmt.Errorf("failed to insert profile link: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, profileID)
}

func (r *profileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles SET
			headline = $2, about_me = $3, skills_csv = $4,
			selected_projects_json = $5, is_public = $6, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.Headline, profile.AboutMe, profile.SkillsCSV,
		profile.SelectedProjectsJSON, profile.IsPublic,
	)
	return err
}

func (r *profileRepo) UpdateAvatar(ctx context.Context, profileID int64, avatarPath string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE profiles SET avatar_path = $2, updated_at = NOW() WHERE id = $1`,
		profileID, avatarPath,
	)
	return err
}

// ==========================================================================
// Education
// ==========================================================================

func (r *profileRepo) ListEducations(ctx context.Context, profileID int64) ([]domain.Education, error) {
	query := `
		SELECT id, profile_id, school, degree, field_of_study, start_year, end_year,
			description, sort_order, created_at, updated_at
		FROM educations WHERE profile_id = $1
		ORDER BY sort_order, id`

	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Education{}
	for rows.Next() {
		var e domain.Education
		err := rows.Scan(&e.ID, &e.ProfileID, &e.School, &e.Degree, &e.FieldOfStudy,
			&e.StartYear, &e.EndYear, &e.Description, &e.SortOrder, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *profileRepo) AddEducation(ctx context.Context, e *domain.Education) error {
	query := `
		INSERT INTO educations (profile_id, school, degree, field_of_study, start_year,
			end_year, description, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		e.ProfileID, e.School, e.Degree, e.FieldOfStudy, e.StartYear,
		e.EndYear, e.Description, e.SortOrder,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *profileRepo) UpdateEducation(ctx context.Context, e *domain.Education) error {
	query := `
		UPDATE educations SET
			school = $3, degree = $4, field_of_study = $5, start_year = $6,
			end_year = $7, description = $8, sort_order = $9, updated_at = NOW()
		WHERE id = $1 AND profile_id = $2`
	cmdTag, err := r.db.Exec(ctx, query,
		e.ID, e.ProfileID, e.School, e.Degree, e.FieldOfStudy, e.StartYear,
		e.EndYear, e.Description, e.SortOrder,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NotFound("Education entry not found")
	}
	return nil
}

func (r *profileRepo) DeleteEducation(ctx context.Context, profileID, id int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM educations WHERE id = $1 AND profile_id = $2`, id, profileID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NotFound("Education entry not found")
	}
	return nil
}

// ==========================================================================
// Work Experience
// ==========================================================================

func (r *profileRepo) ListWorkExperiences(ctx context.Context, profileID int64) ([]domain.WorkExperience, error) {
	query := `
		SELECT id, profile_id, company_name, job_title, location, start_date, end_date,
			description, sort_order, created_at, updated_at
		FROM work_experiences WHERE profile_id = $1
		ORDER BY sort_order, start_date DESC`

	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.WorkExperience{}
	for rows.Next() {
		w, err := scanWorkExperience(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *w)
	}
	return list, rows.Err()
}

func scanWorkExperience(row pgx.Row) (*domain.WorkExperience, error) {
	var w domain.WorkExperience
	var startDate, endDate *time.Time
	err := row.Scan(&w.ID, &w.ProfileID, &w.CompanyName, &w.JobTitle, &w.Location,
		&startDate, &endDate, &w.Description, &w.SortOrder, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	// Dates go out as YYYY-MM-DD strings
	if startDate != nil {
		w.StartDate = startDate.Format("2006-01-02")
	}
	if endDate != nil {
		ed := endDate.Format("2006-01-02")
		w.EndDate = &ed
	}
	return &w, nil
}

func parseWorkDates(w *domain.WorkExperience) (time.Time, *time.Time, error) {
	start, err := time.Parse("2006-01-02", w.StartDate)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid start date %q: %w", w.StartDate, err)
	}
	var end *time.Time
	if w.EndDate != nil && *w.EndDate != "" {
		t, err := time.Parse("2006-01-02", *w.EndDate)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("invalid end date %q: %w", *w.EndDate, err)
		}
		end = &t
	}
	return start, end, nil
}

func (r *profileRepo) AddWorkExperience(ctx context.Context, w *domain.WorkExperience) error {
	start, end, err := parseWorkDates(w)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO work_experiences (profile_id, company_name, job_title, location,
			start_date, end_date, description, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		w.ProfileID, w.CompanyName, w.JobTitle, w.Location,
		start, end, w.Description, w.SortOrder,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

func (r *profileRepo) UpdateWorkExperience(ctx context.Context, w *domain.WorkExperience) error {
	start, end, err := parseWorkDates(w)
	if err != nil {
		return err
	}
	query := `
		UPDATE work_experiences SET
			company_name = $3, job_title = $4, location = $5, start_date = $6,
			end_date = $7, description = $8, sort_order = $9, updated_at = NOW()
		WHERE id = $1 AND profile_id = $2`
	cmdTag, err := r.db.Exec(ctx, query,
		w.ID, w.ProfileID, w.CompanyName, w.JobTitle, w.Location,
		start, end, w.Description, w.SortOrder,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NotFound("Work experience entry not found")
	}
	return nil
}

func (r *profileRepo) DeleteWorkExperience(ctx context.Context, profileID, id int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM work_experiences WHERE id = $1 AND profile_id = $2`, id, profileID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NotFound("Work experience entry not found")
	}
	return nil
}
