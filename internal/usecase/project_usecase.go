package usecase

import (
	"context"
	"strconv"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"
	"go-cvnetwork-backend/pkg/logger"
	"go-cvnetwork-backend/pkg/storage"
	"go-cvnetwork-backend/pkg/textlist"

	"github.com/go-playground/validator/v10"
)

type projectUsecase struct {
	projectRepo domain.ProjectRepository
	store       *storage.Store
	validate    *validator.Validate
}

func NewProjectUsecase(projectRepo domain.ProjectRepository, store *storage.Store, validate *validator.Validate) domain.ProjectUsecase {
	return &projectUsecase{
		projectRepo: projectRepo,
		store:       store,
		validate:    validate,
	}
}

func (u *projectUsecase) currentUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || userID == "" {
		return "", apperror.Unauthorized("User not authenticated")
	}
	return userID, nil
}

// techStackCSV normalizes the submitted stack: token cap first, then the
// usual trim/dedupe/byte-budget pass.
func techStackCSV(tokens []string) string {
	return textlist.Normalize(textlist.Limit(tokens, domain.TechStackMaxTokens), domain.TechStackMaxBytes)
}

func (u *projectUsecase) Create(ctx context.Context, input domain.ProjectInput) (*domain.Project, error) {
	userID, err := u.currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	project := &domain.Project{
		Title:            input.Title,
		ShortDescription: input.ShortDescription,
		LongDescription:  input.LongDescription,
		TechStackCSV:     techStackCSV(input.TechStack),
		CreatorUserID:    userID,
	}
	if err := u.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (u *projectUsecase) Get(ctx context.Context, id int64) (*domain.Project, []domain.ProjectMemberInfo, error) {
	project, err := u.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, apperror.NotFound("Project not found")
	}
	members, err := u.projectRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return project, members, nil
}

func (u *projectUsecase) List(ctx context.Context, limit, offset int) ([]domain.Project, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.projectRepo.List(ctx, limit, offset)
}

func (u *projectUsecase) ListMine(ctx context.Context) ([]domain.Project, error) {
	userID, err := u.currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return u.projectRepo.ListByMember(ctx, userID)
}

// ownedProject loads the project and verifies the caller created it.
func (u *projectUsecase) ownedProject(ctx context.Context, id int64) (*domain.Project, error) {
	userID, err := u.currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	project, err := u.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NotFound("Project not found")
	}
	if project.CreatorUserID != userID {
		return nil, apperror.Forbidden("Only the project creator can do this")
	}
	return project, nil
}

func (u *projectUsecase) Update(ctx context.Context, id int64, input domain.ProjectInput) (*domain.Project, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}
	project, err := u.ownedProject(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Title = input.Title
	project.ShortDescription = input.ShortDescription
	project.LongDescription = input.LongDescription
	project.TechStackCSV = techStackCSV(input.TechStack)

	if err := u.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (u *projectUsecase) Delete(ctx context.Context, id int64) error {
	if _, err := u.ownedProject(ctx, id); err != nil {
		return err
	}
	imagePath, err := u.projectRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if imagePath != "" {
		if err := u.store.Remove(imagePath); err != nil {
			logger.Log.Warn("Failed to remove project image", "path", imagePath, "error", err)
		}
	}
	return nil
}

func (u *projectUsecase) UploadImage(ctx context.Context, id int64, imageData []byte) (string, error) {
	project, err := u.ownedProject(ctx, id)
	if err != nil {
		return "", err
	}

	path, err := u.store.SaveImage(imageData, "projects/"+strconv.FormatInt(id, 10))
	if err != nil {
		return "", apperror.BadRequest(err.Error())
	}
	if err := u.projectRepo.UpdateImage(ctx, id, path); err != nil {
		return "", err
	}

	if old := project.ImagePath; old != "" && old != path {
		if err := u.store.Remove(old); err != nil {
			logger.Log.Warn("Failed to remove replaced project image", "path", old, "error", err)
		}
	}
	return path, nil
}

func (u *projectUsecase) Join(ctx context.Context, id int64) error {
	userID, err := u.currentUserID(ctx)
	if err != nil {
		return err
	}
	project, err := u.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return apperror.NotFound("Project not found")
	}
	return u.projectRepo.Join(ctx, id, userID)
}

func (u *projectUsecase) Leave(ctx context.Context, id int64) error {
	userID, err := u.currentUserID(ctx)
	if err != nil {
		return err
	}
	project, err := u.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return apperror.NotFound("Project not found")
	}
	// The creator's membership is structural; deleting the project is the
	// only way out.
	if project.CreatorUserID == userID {
		return apperror.BadRequest("The project creator cannot leave their own project")
	}
	return u.projectRepo.Leave(ctx, id, userID)
}
