package domain

import "context"

// AccountRepository owns the transactional part of the account deletion
// workflow. DeleteUserData removes every row owned by the user across all
// aggregates in one transaction and returns the upload paths referenced by
// the deleted rows; any database error rolls the whole operation back.
type AccountRepository interface {
	DeleteUserData(ctx context.Context, userID string) (filePaths []string, err error)
}

// AccountUsecase orchestrates deletion: the transactional wipe first, then
// best-effort removal of the collected files (logged, never fatal).
type AccountUsecase interface {
	DeleteMyAccount(ctx context.Context) error
	// DeleteUser is the moderation path; it refuses protected-role targets.
	DeleteUser(ctx context.Context, targetUserID string) error
}

// AdminUsecase groups privileged maintenance operations.
type AdminUsecase interface {
	ExportUsersXLSX(ctx context.Context) ([]byte, error)
	DedupeCompetences(ctx context.Context) ([]CompetenceMerge, error)
}
