package domain

import (
	"context"
	"time"
)

// SkillsMaxBytes bounds the denormalized comma-separated skills column.
const SkillsMaxBytes = 2000

type Profile struct {
	ID int64 `json:"id"`
	// Legacy direct owner column. The user_profiles link is authoritative,
	// but both paths are honored when resolving ownership for deletion.
	OwnerUserID          *string   `json:"owner_user_id,omitempty"`
	Headline             string    `json:"headline" validate:"max=120,no_emoji"`
	AboutMe              string    `json:"about_me" validate:"max=4000"`
	AvatarPath           string    `json:"avatar_path"`
	SkillsCSV            string    `json:"-"` // denormalized storage form, see pkg/textlist
	SelectedProjectsJSON string    `json:"-"` // JSON array of project ids
	IsPublic             bool      `json:"is_public"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ProfileLink establishes the 1:1 user-profile relationship (unique user_id).
type ProfileLink struct {
	UserID    string `json:"user_id"`
	ProfileID int64  `json:"profile_id"`
}

type Education struct {
	ID           int64     `json:"id"`
	ProfileID    int64     `json:"profile_id"`
	School       string    `json:"school" validate:"required,max=200,no_emoji"`
	Degree       string    `json:"degree" validate:"max=120"`
	FieldOfStudy string    `json:"field_of_study" validate:"max=120"`
	StartYear    int       `json:"start_year" validate:"omitempty,min=1900,max=2100"`
	EndYear      int       `json:"end_year" validate:"omitempty,min=1900,max=2100"`
	Description  string    `json:"description" validate:"max=2000"`
	SortOrder    int       `json:"sort_order"` // lower = displayed first
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type WorkExperience struct {
	ID          int64      `json:"id"`
	ProfileID   int64      `json:"profile_id"`
	CompanyName string     `json:"company_name" validate:"required,max=200,no_emoji"`
	JobTitle    string     `json:"job_title" validate:"required,max=120,no_emoji"`
	Location    string     `json:"location" validate:"max=120"`
	StartDate   string     `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate     *string    `json:"end_date,omitempty"`             // nil = ongoing
	Description string     `json:"description" validate:"max=2000"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CVDetails is the full public CV view of a user.
type CVDetails struct {
	User             UserSummary      `json:"user"`
	Profile          Profile          `json:"profile"`
	Skills           []string         `json:"skills"`
	Educations       []Education      `json:"educations"`
	WorkExperiences  []WorkExperience `json:"work_experiences"`
	Competences      []Competence     `json:"competences"`
	SelectedProjects []Project        `json:"selected_projects"`
}

// UpdateProfileInput is the CV edit payload. Skills arrive as free-text
// tokens; SelectedProjectIDs is raw JSON which degrades to an empty
// selection when malformed.
type UpdateProfileInput struct {
	Headline           string   `json:"headline" validate:"max=120,no_emoji"`
	AboutMe            string   `json:"about_me" validate:"max=4000"`
	IsPublic           *bool    `json:"is_public"`
	Skills             []string `json:"skills"`
	SelectedProjectIDs string   `json:"selected_project_ids"`
}

type ProfileRepository interface {
	// GetOrCreateByUserID ensures exactly one profile + link row exists for
	// the user. Concurrent first-touches resolve via the unique constraint
	// on the link's user_id (conflict is answered by re-reading).
	GetOrCreateByUserID(ctx context.Context, userID string) (*Profile, error)
	GetLinkByUserID(ctx context.Context, userID string) (*ProfileLink, error)
	GetByID(ctx context.Context, id int64) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	UpdateAvatar(ctx context.Context, profileID int64, avatarPath string) error

	ListEducations(ctx context.Context, profileID int64) ([]Education, error)
	AddEducation(ctx context.Context, e *Education) error
	UpdateEducation(ctx context.Context, e *Education) error
	DeleteEducation(ctx context.Context, profileID, id int64) error

	ListWorkExperiences(ctx context.Context, profileID int64) ([]WorkExperience, error)
	AddWorkExperience(ctx context.Context, w *WorkExperience) error
	UpdateWorkExperience(ctx context.Context, w *WorkExperience) error
	DeleteWorkExperience(ctx context.Context, profileID, id int64) error
}

type ProfileUsecase interface {
	GetMine(ctx context.Context) (*Profile, error)
	UpdateCV(ctx context.Context, input UpdateProfileInput) (*Profile, error)

	AddEducation(ctx context.Context, e *Education) (*Education, error)
	UpdateEducation(ctx context.Context, e *Education) (*Education, error)
	DeleteEducation(ctx context.Context, id int64) error

	AddWorkExperience(ctx context.Context, w *WorkExperience) (*WorkExperience, error)
	UpdateWorkExperience(ctx context.Context, w *WorkExperience) (*WorkExperience, error)
	DeleteWorkExperience(ctx context.Context, id int64) error

	ListMyVisits(ctx context.Context, limit int) ([]ProfileVisit, error)
}
