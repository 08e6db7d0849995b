package usecase

import (
	"context"
	"time"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"
	"go-cvnetwork-backend/pkg/audit"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 7 * 24 * time.Hour

type authUsecase struct {
	userRepo  domain.UserRepository
	validate  *validator.Validate
	jwtSecret string
}

func NewAuthUsecase(userRepo domain.UserRepository, validate *validator.Validate, jwtSecret string) domain.AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		validate:  validate,
		jwtSecret: jwtSecret,
	}
}

func (u *authUsecase) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, apperror.Internal(err)
	}
	if user == nil {
		// Same message as a wrong password: don't leak which emails exist
		return "", nil, apperror.Unauthorized("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		audit.Default().Log(audit.Event{
			Event:  audit.EventLoginFailed,
			UserID: user.ID,
		})
		return "", nil, apperror.Unauthorized("Invalid email or password")
	}

	if user.IsDeactivated {
		return "", nil, apperror.Forbidden("This account has been deactivated")
	}

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(tokenLifetime).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.jwtSecret))
	if err != nil {
		return "", nil, apperror.Internal(err)
	}

	return signed, user, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}
