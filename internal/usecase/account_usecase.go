package usecase

import (
	"context"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"
	"go-cvnetwork-backend/pkg/audit"
	"go-cvnetwork-backend/pkg/storage"
)

type accountUsecase struct {
	accountRepo domain.AccountRepository
	userRepo    domain.UserRepository
	store       *storage.Store
}

func NewAccountUsecase(accountRepo domain.AccountRepository, userRepo domain.UserRepository, store *storage.Store) domain.AccountUsecase {
	return &accountUsecase{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		store:       store,
	}
}

func (u *accountUsecase) DeleteMyAccount(ctx context.Context) error {
	userID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || userID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	return u.deleteAccount(ctx, userID, userID)
}

func (u *accountUsecase) DeleteUser(ctx context.Context, targetUserID string) error {
	actorID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || actorID == "" {
		return apperror.Unauthorized("User not authenticated")
	}

	target, err := u.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperror.NotFound("User not found")
	}
	if target.Role == domain.RoleAdmin {
		return apperror.Forbidden("Admin accounts cannot be deleted through this endpoint")
	}

	return u.deleteAccount(ctx, targetUserID, actorID)
}

// deleteAccount runs the transactional wipe, then removes the collected
// files. File removal is best effort: the rows are already gone, so a
// failed unlink is recorded and skipped, never surfaced to the caller.
func (u *accountUsecase) deleteAccount(ctx context.Context, targetUserID, actorID string) error {
	files, err := u.accountRepo.DeleteUserData(ctx, targetUserID)
	if err != nil {
		audit.Default().Log(audit.Event{
			Event:   audit.EventAccountDeleteFail,
			UserID:  targetUserID,
			ActorID: actorID,
			Details: map[string]interface{}{"error": err.Error()},
		})
		return err
	}

	for _, path := range files {
		if err := u.store.Remove(path); err != nil {
			audit.Default().Log(audit.Event{
				Event:   audit.EventFileCleanupFailed,
				UserID:  targetUserID,
				Details: map[string]interface{}{"path": path, "error": err.Error()},
			})
		}
	}

	audit.Default().Log(audit.Event{
		Event:   audit.EventAccountDeleted,
		UserID:  targetUserID,
		ActorID: actorID,
	})
	return nil
}
