package postgres

import (
	"context"
	"fmt"

	"go-cvnetwork-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type competenceRepo struct {
	db *pgxpool.Pool
}

func NewCompetenceRepository(db *pgxpool.Pool) domain.CompetenceRepository {
	return &competenceRepo{db: db}
}

func (r *competenceRepo) List(ctx context.Context) ([]domain.Competence, error) {
	query := `
		SELECT id, name, category, normalized_name, is_top_list, sort_order
		FROM competences
		ORDER BY is_top_list DESC, category, sort_order, name`
	return r.queryCompetences(ctx, query)
}

func (r *competenceRepo) ListByUser(ctx context.Context, userID string) ([]domain.Competence, error) {
	query := `
		SELECT c.id, c.name, c.category, c.normalized_name, c.is_top_list, c.sort_order
		FROM user_competences uc
		JOIN competences c ON c.id = uc.competence_id
		WHERE uc.user_id = $1
		ORDER BY c.is_top_list DESC, c.category, c.sort_order, c.name`
	return r.queryCompetences(ctx, query, userID)
}

func (r *competenceRepo) queryCompetences(ctx context.Context, query string, args ...interface{}) ([]domain.Competence, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Competence{}
	for rows.Next() {
		var c domain.Competence
		if err := rows.Scan(&c.ID, &c.Name, &c.Category, &c.NormalizedName, &c.IsTopList, &c.SortOrder); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ReplaceUserSelection swaps the user's competence set in one transaction.
// ON CONFLICT DO NOTHING makes re-selecting an already-selected competence a
// no-op rather than an error.
func (r *competenceRepo) ReplaceUserSelection(ctx context.Context, userID string, competenceIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM user_competences WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear competences: %w", err)
	}

	insert := `
		INSERT INTO user_competences (user_id, competence_id)
		SELECT $1, id FROM competences WHERE id = $2
		ON CONFLICT (user_id, competence_id) DO NOTHING`
	for _, id := range competenceIDs {
		if _, err := tx.Exec(ctx, insert, userID, id); err != nil {
			return fmt.Errorf("failed to insert competence %d: %w", id, err)
		}
	}

	return tx.Commit(ctx)
}

// Deduplicate merges catalog rows whose trimmed upper-cased names collide.
// For each group the lowest id survives as the master row; the master keeps
// the top-list flag if any duplicate had it and a non-default category if
// any duplicate had one. Dependent user_competences rows are repointed to
// the master before the duplicates are deleted, so the many-to-many
// relation is never orphaned.
func (r *competenceRepo) Deduplicate(ctx context.Context) ([]domain.CompetenceMerge, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Recompute normalized names first: historical rows may predate the
	// normalization rule.
	_, err = tx.Exec(ctx, `UPDATE competences SET normalized_name = UPPER(BTRIM(name)) WHERE normalized_name <> UPPER(BTRIM(name))`)
	if err != nil {
		return nil, fmt.Errorf("failed to renormalize names: %w", err)
	}

	// Find duplicate groups with their merged attributes.
	groupQuery := `
		SELECT MIN(id) AS master_id,
			ARRAY_AGG(id ORDER BY id) AS ids,
			BOOL_OR(is_top_list) AS any_top_list,
			COALESCE(MIN(category) FILTER (WHERE category <> $1), $1) AS kept_category
		FROM competences
		GROUP BY normalized_name
		HAVING COUNT(*) > 1`

	rows, err := tx.Query(ctx, groupQuery, domain.CategoryGeneral)
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicates: %w", err)
	}

	var merges []domain.CompetenceMerge
	for rows.Next() {
		var m domain.CompetenceMerge
		var ids []int64
		if err := rows.Scan(&m.MasterID, pq.Array(&ids), &m.KeptTopList, &m.KeptCategory); err != nil {
			rows.Close()
			return nil, err
		}
		for _, id := range ids {
			if id != m.MasterID {
				m.MergedIDs = append(m.MergedIDs, id)
			}
		}
		merges = append(merges, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range merges {
		m := &merges[i]

		// Preserve merged attributes on the master row.
		_, err = tx.Exec(ctx,
			`UPDATE competences SET is_top_list = $2, category = $3 WHERE id = $1`,
			m.MasterID, m.KeptTopList, m.KeptCategory,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update master %d: %w", m.MasterID, err)
		}

		// Repoint dependents, skipping users who already reference the
		// master (the unique pair constraint would reject the duplicate).
		_, err = tx.Exec(ctx, `
			UPDATE user_competences uc SET competence_id = $1
			WHERE uc.competence_id = ANY($2)
			AND NOT EXISTS (
				SELECT 1 FROM user_competences x
				WHERE x.user_id = uc.user_id AND x.competence_id = $1
			)`, m.MasterID, m.MergedIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to repoint dependents of %d: %w", m.MasterID, err)
		}

		// Leftover rows still referencing a duplicate belong to users who
		// already had the master selected; drop them.
		_, err = tx.Exec(ctx,
			`DELETE FROM user_competences WHERE competence_id = ANY($1)`, m.MergedIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to clear duplicate selections: %w", err)
		}

		_, err = tx.Exec(ctx, `DELETE FROM competences WHERE id = ANY($1)`, m.MergedIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to delete duplicates of %d: %w", m.MasterID, err)
		}

		if err := tx.QueryRow(ctx,
			`SELECT name FROM competences WHERE id = $1`, m.MasterID,
		).Scan(&m.Name); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return merges, nil
}
