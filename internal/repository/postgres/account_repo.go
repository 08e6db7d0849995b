package postgres

import (
	"context"
	"fmt"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

type accountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) domain.AccountRepository {
	return &accountRepo{db: db}
}

// DeleteUserData removes every row owned by the user in one transaction,
// children strictly before parents. It returns the upload paths referenced
// by the deleted rows so the caller can clean files up after commit; only
// paths under the uploads prefix are collected. Any database error rolls
// the entire operation back - there is no partial deletion.
func (r *accountRepo) DeleteUserData(ctx context.Context, userID string) ([]string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var files []string
	collect := func(path string) {
		if path != "" && storage.IsManagedPath(path) {
			files = append(files, path)
		}
	}

	// 1. Resolve owned profile ids. A profile can be owned two ways: via
	// the user_profiles link (authoritative) or via the legacy owner
	// column. Both are honored.
	profileIDs := []int64{}
	rows, err := tx.Query(ctx, `
		SELECT profile_id FROM user_profiles WHERE user_id = $1
		UNION
		SELECT id FROM profiles WHERE owner_user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve profiles: %w", err)
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		profileIDs = append(profileIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 2. Collect avatar files referenced by those profiles.
	if len(profileIDs) > 0 {
		rows, err := tx.Query(ctx,
			`SELECT avatar_path FROM profiles WHERE id = ANY($1)`, profileIDs)
		if err != nil {
			return nil, fmt.Errorf("collect profile files: %w", err)
		}
		for rows.Next() {
			var path string
			if err := rows.Scan(&path); err != nil {
				rows.Close()
				return nil, err
			}
			collect(path)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		// 3. Children of the profiles.
		if _, err := tx.Exec(ctx, `DELETE FROM educations WHERE profile_id = ANY($1)`, profileIDs); err != nil {
			return nil, fmt.Errorf("delete educations: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM work_experiences WHERE profile_id = ANY($1)`, profileIDs); err != nil {
			return nil, fmt.Errorf("delete work experiences: %w", err)
		}
	}

	// 4. Visit log: rows on the user's profiles AND rows the user left on
	// other profiles - their visit history disappears everywhere.
	if _, err := tx.Exec(ctx, `
		DELETE FROM profile_visits
		WHERE visitor_id = $1 OR profile_id = ANY($2)`, userID, profileIDs); err != nil {
		return nil, fmt.Errorf("delete profile visits: %w", err)
	}

	// 5. Link rows first, then the profiles themselves.
	if _, err := tx.Exec(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("delete profile link: %w", err)
	}
	if len(profileIDs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE id = ANY($1)`, profileIDs); err != nil {
			return nil, fmt.Errorf("delete profiles: %w", err)
		}
	}

	// 6. Inbox messages, sent or received.
	if _, err := tx.Exec(ctx, `
		DELETE FROM user_messages
		WHERE recipient_id = $1 OR sender_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("delete messages: %w", err)
	}

	// 7. Legacy thread model: messages in the user's conversations or sent
	// by the user, then the participant rows, then the conversations.
	convIDs := []int64{}
	rows, err = tx.Query(ctx,
		`SELECT conversation_id FROM conversation_participants WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve conversations: %w", err)
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		convIDs = append(convIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM direct_messages
		WHERE conversation_id = ANY($1) OR sender_id = $2`, convIDs, userID); err != nil {
		return nil, fmt.Errorf("delete direct messages: %w", err)
	}
	if len(convIDs) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM conversation_participants WHERE conversation_id = ANY($1)`, convIDs); err != nil {
			return nil, fmt.Errorf("delete conversation participants: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM conversations WHERE id = ANY($1)`, convIDs); err != nil {
			return nil, fmt.Errorf("delete conversations: %w", err)
		}
	}

	// 8. Projects created by the user: collect images, memberships before
	// the project rows.
	projectIDs := []int64{}
	rows, err = tx.Query(ctx,
		`SELECT id, image_path FROM projects WHERE creator_user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve projects: %w", err)
	}
	for rows.Next() {
		var id int64
		var imagePath string
		if err := rows.Scan(&id, &imagePath); err != nil {
			rows.Close()
			return nil, err
		}
		projectIDs = append(projectIDs, id)
		collect(imagePath)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(projectIDs) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM project_users WHERE project_id = ANY($1)`, projectIDs); err != nil {
			return nil, fmt.Errorf("delete project memberships: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM projects WHERE id = ANY($1)`, projectIDs); err != nil {
			return nil, fmt.Errorf("delete projects: %w", err)
		}
	}

	// 9. Memberships the user holds in other people's projects.
	if _, err := tx.Exec(ctx,
		`DELETE FROM project_users WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("delete foreign memberships: %w", err)
	}

	// Competence selections and the user row itself.
	if _, err := tx.Exec(ctx,
		`DELETE FROM user_competences WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("delete competence selections: %w", err)
	}

	var userAvatar string
	if err := tx.QueryRow(ctx,
		`SELECT avatar_path FROM users WHERE id = $1`, userID).Scan(&userAvatar); err == nil {
		collect(userAvatar)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return files, nil
}
