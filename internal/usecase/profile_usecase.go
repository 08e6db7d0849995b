package usecase

import (
	"context"
	"encoding/json"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"
	"go-cvnetwork-backend/pkg/textlist"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	profileRepo domain.ProfileRepository
	visitRepo   domain.VisitRepository
	validate    *validator.Validate
}

func NewProfileUsecase(profileRepo domain.ProfileRepository, visitRepo domain.VisitRepository, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{
		profileRepo: profileRepo,
		visitRepo:   visitRepo,
		validate:    validate,
	}
}

func (u *profileUsecase) currentUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || userID == "" {
		return "", apperror.Unauthorized("User not authenticated")
	}
	return userID, nil
}

// myProfile resolves (lazily creating) the caller's profile.
func (u *profileUsecase) myProfile(ctx context.Context) (*domain.Profile, error) {
	userID, err := u.currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return u.profileRepo.GetOrCreateByUserID(ctx, userID)
}

func (u *profileUsecase) GetMine(ctx context.Context) (*domain.Profile, error) {
	return u.myProfile(ctx)
}

func (u *profileUsecase) UpdateCV(ctx context.Context, input domain.UpdateProfileInput) (*domain.Profile, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	profile, err := u.myProfile(ctx)
	if err != nil {
		return nil, err
	}

	profile.Headline = input.Headline
	profile.AboutMe = input.AboutMe
	if input.IsPublic != nil {
		profile.IsPublic = *input.IsPublic
	}
	profile.SkillsCSV = textlist.Normalize(input.Skills, domain.SkillsMaxBytes)
	profile.SelectedProjectsJSON = sanitizeSelectedProjects(input.SelectedProjectIDs)

	if err := u.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// sanitizeSelectedProjects re-encodes the submitted selection. Malformed
// JSON degrades silently to "no selection" rather than failing the save.
func sanitizeSelectedProjects(raw string) string {
	if raw == "" {
		return "[]"
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return "[]"
	}
	clean := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id > 0 && !seen[id] {
			seen[id] = true
			clean = append(clean, id)
		}
	}
	out, err := json.Marshal(clean)
	if err != nil {
		return "[]"
	}
	return string(out)
}

// ==========================================================================
// Education
// ==========================================================================

func (u *profileUsecase) AddEducation(ctx context.Context, e *domain.Education) (*domain.Education, error) {
	if err := u.validate.Struct(e); err != nil {
		return nil, invalidInput(err)
	}
	profile, err := u.myProfile(ctx)
	if err != nil {
		return nil, err
	}
	e.ProfileID = profile.ID
	if err := u.profileRepo.AddEducation(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (u *profileUsecase) UpdateEducation(ctx context.Context, e *domain.Education) (*domain.Education, error) {
	if err := u.validate.Struct(e); err != nil {
		return nil, invalidInput(err)
	}
	profile, err := u.myProfile(ctx)
	if err != nil {
		return nil, err
	}
	// Scoping the write to the caller's profile id is the ownership check
	e.ProfileID = profile.ID
	if err := u.profileRepo.UpdateEducation(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (u *profileUsecase) DeleteEducation(ctx context.Context, id int64) error {
	profile, err := u.myProfile(ctx)
	if err != nil {
		return err
	}
	if err := u.profileRepo.DeleteEducation(ctx, profile.ID, id); err != nil {
		return err
	}
	return nil
}

// ==========================================================================
// Work Experience
// ==========================================================================

func (u *profileUsecase) AddWorkExperience(ctx context.Context, w *domain.WorkExperience) (*domain.WorkExperience, error) {
	if err := u.validate.Struct(w); err != nil {
		return nil, invalidInput(err)
	}
	profile, err := u.myProfile(ctx)
	if err != nil {
		return nil, err
	}
	w.ProfileID = profile.ID
	if err := u.profileRepo.AddWorkExperience(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (u *profileUsecase) UpdateWorkExperience(ctx context.Context, w *domain.WorkExperience) (*domain.WorkExperience, error) {
	if err := u.validate.Struct(w); err != nil {
		return nil, invalidInput(err)
	}
	profile, err := u.myProfile(ctx)
	if err != nil {
		return nil, err
	}
	w.ProfileID = profile.ID
	if err := u.profileRepo.UpdateWorkExperience(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (u *profileUsecase) DeleteWorkExperience(ctx context.Context, id int64) error {
	profile, err := u.myProfile(ctx)
	if err != nil {
		return err
	}
	if err := u.profileRepo.DeleteWorkExperience(ctx, profile.ID, id); err != nil {
		return err
	}
	return nil
}

// ==========================================================================
// Visits
// ==========================================================================

func (u *profileUsecase) ListMyVisits(ctx context.Context, limit int) ([]domain.ProfileVisit, error) {
	userID, err := u.currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	link, err := u.profileRepo.GetLinkByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		// No profile yet means no visits either
		return []domain.ProfileVisit{}, nil
	}
	return u.visitRepo.ListByProfile(ctx, link.ProfileID, limit)
}
