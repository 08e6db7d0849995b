package domain

import (
	"context"
	"time"
)

const (
	// TechStackMaxTokens caps the number of technology keys per project;
	// excess tokens are dropped per-token, never corrupting accepted ones.
	TechStackMaxTokens = 12
	// TechStackMaxBytes bounds the denormalized CSV column.
	TechStackMaxBytes = 500
)

type Project struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title" validate:"required,min=3,max=120,no_emoji"`
	ShortDescription string    `json:"short_description" validate:"required,max=280"`
	LongDescription  string    `json:"long_description" validate:"max=8000"`
	ImagePath        string    `json:"image_path"`
	TechStackCSV     string    `json:"-"`
	CreatorUserID    string    `json:"creator_user_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ProjectMember struct {
	ProjectID int64     `json:"project_id"`
	UserID    string    `json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// ProjectMemberInfo is the member listing projection.
type ProjectMemberInfo struct {
	UserID     string    `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	AvatarPath string    `json:"avatar_path"`
	JoinedAt   time.Time `json:"joined_at"`
}

type ProjectInput struct {
	Title            string   `json:"title" validate:"required,min=3,max=120,no_emoji"`
	ShortDescription string   `json:"short_description" validate:"required,max=280"`
	LongDescription  string   `json:"long_description" validate:"max=8000"`
	TechStack        []string `json:"tech_stack"`
}

type ProjectRepository interface {
	// Create inserts the project and the creator's membership row in one
	// transaction (the creator is always a member of their own project).
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id int64) (*Project, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Project, error)
	List(ctx context.Context, limit, offset int) ([]Project, int, error)
	ListByMember(ctx context.Context, userID string) ([]Project, error)
	Update(ctx context.Context, project *Project) error
	UpdateImage(ctx context.Context, projectID int64, imagePath string) error
	// Delete removes the project with its membership rows and returns the
	// stored image path (empty when none) for best-effort file cleanup.
	Delete(ctx context.Context, projectID int64) (string, error)

	Join(ctx context.Context, projectID int64, userID string) error
	Leave(ctx context.Context, projectID int64, userID string) error
	ListMembers(ctx context.Context, projectID int64) ([]ProjectMemberInfo, error)
	IsMember(ctx context.Context, projectID int64, userID string) (bool, error)
}

type ProjectUsecase interface {
	Create(ctx context.Context, input ProjectInput) (*Project, error)
	Get(ctx context.Context, id int64) (*Project, []ProjectMemberInfo, error)
	List(ctx context.Context, limit, offset int) ([]Project, int, error)
	ListMine(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, id int64, input ProjectInput) (*Project, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, imageData []byte) (string, error)
	Join(ctx context.Context, id int64) error
	Leave(ctx context.Context, id int64) error
}
