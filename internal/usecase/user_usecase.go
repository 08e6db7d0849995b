package usecase

import (
	"context"
	"encoding/json"
	"strconv"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"
	"go-cvnetwork-backend/pkg/logger"
	"go-cvnetwork-backend/pkg/storage"
	"go-cvnetwork-backend/pkg/textlist"

	"github.com/go-playground/validator/v10"
)

type userUsecase struct {
	userRepo       domain.UserRepository
	profileRepo    domain.ProfileRepository
	competenceRepo domain.CompetenceRepository
	projectRepo    domain.ProjectRepository
	visitRepo      domain.VisitRepository
	store          *storage.Store
	validate       *validator.Validate
}

func NewUserUsecase(
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	competenceRepo domain.CompetenceRepository,
	projectRepo domain.ProjectRepository,
	visitRepo domain.VisitRepository,
	store *storage.Store,
	validate *validator.Validate,
) domain.UserUsecase {
	return &userUsecase{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		competenceRepo: competenceRepo,
		projectRepo:    projectRepo,
		visitRepo:      visitRepo,
		store:          store,
		validate:       validate,
	}
}

func (u *userUsecase) UpdateMe(ctx context.Context, input domain.UpdateUserInput) (*domain.User, error) {
	userID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || userID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	if err := u.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.City = input.City
	user.PostalCode = input.PostalCode
	if input.IsProfilePrivate != nil {
		user.IsProfilePrivate = *input.IsProfilePrivate
	}
	if input.OnboardingCompleted != nil {
		user.OnboardingCompleted = *input.OnboardingCompleted
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUsecase) UpdateAvatar(ctx context.Context, imageData []byte) (string, error) {
	userID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || userID == "" {
		return "", apperror.Unauthorized("User not authenticated")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperror.NotFound("User not found")
	}

	path, err := u.store.SaveImage(imageData, "avatars/"+userID)
	if err != nil {
		return "", apperror.BadRequest(err.Error())
	}

	if err := u.userRepo.UpdateAvatar(ctx, userID, path); err != nil {
		return "", err
	}

	// Keep the CV avatar in sync; the profile is the path the deletion
	// workflow collects from.
	profile, err := u.profileRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := u.profileRepo.UpdateAvatar(ctx, profile.ID, path); err != nil {
		return "", err
	}

	// The replaced avatar is not source-of-truth; a failed delete is logged
	// and forgotten.
	if old := user.AvatarPath; old != "" && old != path {
		if err := u.store.Remove(old); err != nil {
			logger.Log.Warn("Failed to remove replaced avatar", "path", old, "error", err)
		}
	}

	return path, nil
}

func (u *userUsecase) Browse(ctx context.Context, filter domain.UserSearchFilter) ([]domain.UserSummary, int, error) {
	return u.userRepo.Search(ctx, filter)
}

// GetCV assembles the full CV view and records the visit. Private CVs are
// only visible to their owner; the lookup answers 404 either way so privacy
// settings don't reveal existence.
func (u *userUsecase) GetCV(ctx context.Context, userID string, visitorIP string) (*domain.CVDetails, error) {
	viewerID, _ := ctx.Value(domain.KeyUserID).(string)
	isOwner := viewerID == userID

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDeactivated {
		return nil, apperror.NotFound("CV not found")
	}
	if user.IsProfilePrivate && !isOwner {
		return nil, apperror.NotFound("CV not found")
	}

	link, err := u.profileRepo.GetLinkByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		// Never touched their CV: nothing to show yet
		return nil, apperror.NotFound("CV not found")
	}

	profile, err := u.profileRepo.GetByID(ctx, link.ProfileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NotFound("CV not found")
	}
	if !profile.IsPublic && !isOwner {
		return nil, apperror.NotFound("CV not found")
	}

	cv := &domain.CVDetails{
		User: domain.UserSummary{
			ID:         user.ID,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			City:       user.City,
			AvatarPath: user.AvatarPath,
			Headline:   profile.Headline,
		},
		Profile: *profile,
		Skills:  textlist.Parse(profile.SkillsCSV),
	}

	if cv.Educations, err = u.profileRepo.ListEducations(ctx, profile.ID); err != nil {
		return nil, err
	}
	if cv.WorkExperiences, err = u.profileRepo.ListWorkExperiences(ctx, profile.ID); err != nil {
		return nil, err
	}
	if cv.Competences, err = u.competenceRepo.ListByUser(ctx, userID); err != nil {
		return nil, err
	}

	cv.SelectedProjects, err = u.projectRepo.GetByIDs(ctx, parseSelectedProjectIDs(profile.SelectedProjectsJSON))
	if err != nil {
		return nil, err
	}

	// Append-only visit log; owner self-visits are never recorded.
	if !isOwner {
		visit := &domain.ProfileVisit{
			ProfileID: profile.ID,
			VisitorIP: visitorIP,
		}
		if viewerID != "" {
			visit.VisitorID = &viewerID
		}
		if err := u.visitRepo.Create(ctx, visit); err != nil {
			// Analytics only: a failed insert must not break the page
			logger.Log.Warn("Failed to record profile visit", "profile_id", profile.ID, "error", err)
		}
	}

	return cv, nil
}

// parseSelectedProjectIDs decodes the stored JSON selection. Malformed JSON
// degrades to an empty selection instead of failing the read; ids may be
// stored as numbers or strings.
func parseSelectedProjectIDs(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var values []interface{}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		switch t := v.(type) {
		case float64:
			if t > 0 {
				ids = append(ids, int64(t))
			}
		case string:
			if id, err := strconv.ParseInt(t, 10, 64); err == nil && id > 0 {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
