package postgres

import (
	"context"

	"go-cvnetwork-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type visitRepo struct {
	db *pgxpool.Pool
}

func NewVisitRepository(db *pgxpool.Pool) domain.VisitRepository {
	return &visitRepo{db: db}
}

func (r *visitRepo) Create(ctx context.Context, visit *domain.ProfileVisit) error {
	query := `
		INSERT INTO profile_visits (profile_id, visitor_id, visitor_ip)
		VALUES ($1, $2, $3)
		RETURNING id, visited_at`
	return r.db.QueryRow(ctx, query,
		visit.ProfileID, visit.VisitorID, visit.VisitorIP,
	).Scan(&visit.ID, &visit.VisitedAt)
}

func (r *visitRepo) ListByProfile(ctx context.Context, profileID int64, limit int) ([]domain.ProfileVisit, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	// Visitor display info survives only while the visitor account exists
	query := `
		SELECT v.id, v.profile_id, v.visitor_id, v.visited_at,
			COALESCE(u.first_name, ''), COALESCE(u.last_name, '')
		FROM profile_visits v
		LEFT JOIN users u ON u.id = v.visitor_id
		WHERE v.profile_id = $1
		ORDER BY v.visited_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visits := []domain.ProfileVisit{}
	for rows.Next() {
		var v domain.ProfileVisit
		err := rows.Scan(&v.ID, &v.ProfileID, &v.VisitorID, &v.VisitedAt,
			&v.VisitorFirstName, &v.VisitorLastName)
		if err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
