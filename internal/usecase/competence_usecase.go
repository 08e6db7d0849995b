package usecase

import (
	"context"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"
)

const maxSelectedCompetences = 50

type competenceUsecase struct {
	competenceRepo domain.CompetenceRepository
}

func NewCompetenceUsecase(competenceRepo domain.CompetenceRepository) domain.CompetenceUsecase {
	return &competenceUsecase{competenceRepo: competenceRepo}
}

func (u *competenceUsecase) Catalog(ctx context.Context) ([]domain.Competence, error) {
	return u.competenceRepo.List(ctx)
}

func (u *competenceUsecase) ListMine(ctx context.Context) ([]domain.Competence, error) {
	userID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || userID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	return u.competenceRepo.ListByUser(ctx, userID)
}

func (u *competenceUsecase) ReplaceMine(ctx context.Context, competenceIDs []int64) error {
	userID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || userID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if len(competenceIDs) > maxSelectedCompetences {
		return apperror.BadRequest("Too many competences selected")
	}

	// Duplicate ids in the request collapse to one selection row
	seen := make(map[int64]bool, len(competenceIDs))
	unique := make([]int64, 0, len(competenceIDs))
	for _, id := range competenceIDs {
		if id > 0 && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	return u.competenceRepo.ReplaceUserSelection(ctx, userID, unique)
}
