package domain

import (
	"context"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string `json:"id"` // UUID
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	FirstName    string `json:"first_name" validate:"required,max=100,valid_name,no_emoji"`
	LastName     string `json:"last_name" validate:"required,max=100,valid_name,no_emoji"`
	// Upper-cased mirrors of the display names, maintained on every write and
	// used for case-insensitive search.
	NormalizedFirstName string     `json:"-"`
	NormalizedLastName  string     `json:"-"`
	City                string     `json:"city" validate:"max=100,no_emoji"`
	PostalCode          string     `json:"postal_code" validate:"max=12,valid_postal_code"`
	AvatarPath          string     `json:"avatar_path"`
	IsDeactivated       bool       `json:"is_deactivated"`
	IsProfilePrivate    bool       `json:"is_profile_private"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NormalizeNames recomputes the upper-cased search mirrors.
func (u *User) NormalizeNames() {
	u.NormalizedFirstName = strings.ToUpper(strings.TrimSpace(u.FirstName))
	u.NormalizedLastName = strings.ToUpper(strings.TrimSpace(u.LastName))
}

// UserSummary is the directory/browse projection of a user.
type UserSummary struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	City       string `json:"city"`
	AvatarPath string `json:"avatar_path"`
	Headline   string `json:"headline"`
}

// UserSearchFilter narrows the browse listing.
type UserSearchFilter struct {
	Query        string // matched against normalized names and city
	City         string
	CompetenceID int64
	Limit        int
	Offset       int
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateAvatar(ctx context.Context, userID, avatarPath string) error
	Search(ctx context.Context, filter UserSearchFilter) ([]UserSummary, int, error)
	ListAll(ctx context.Context) ([]User, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=100,valid_name,no_emoji"`
	LastName  string `json:"last_name" validate:"required,max=100,valid_name,no_emoji"`
}

type UserUsecase interface {
	UpdateMe(ctx context.Context, input UpdateUserInput) (*User, error)
	UpdateAvatar(ctx context.Context, imageData []byte) (string, error)
	Browse(ctx context.Context, filter UserSearchFilter) ([]UserSummary, int, error)
	GetCV(ctx context.Context, userID string, visitorIP string) (*CVDetails, error)
}

type UpdateUserInput struct {
	FirstName           string `json:"first_name" validate:"required,max=100,valid_name,no_emoji"`
	LastName            string `json:"last_name" validate:"required,max=100,valid_name,no_emoji"`
	City                string `json:"city" validate:"max=100,no_emoji"`
	PostalCode          string `json:"postal_code" validate:"max=12,valid_postal_code"`
	IsProfilePrivate    *bool  `json:"is_profile_private"`
	OnboardingCompleted *bool  `json:"onboarding_completed"`
}
