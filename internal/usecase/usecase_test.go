package usecase_test

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"strings"
	"testing"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/internal/usecase"
	"go-cvnetwork-backend/pkg/apperror"
	"go-cvnetwork-backend/pkg/storage"
	"go-cvnetwork-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func authedCtx(userID string) context.Context {
	return context.WithValue(context.Background(), domain.KeyUserID, userID)
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// Mock Repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) UpdateAvatar(ctx context.Context, userID, avatarPath string) error {
	return m.Called(ctx, userID, avatarPath).Error(0)
}
func (m *MockUserRepo) Search(ctx context.Context, filter domain.UserSearchFilter) ([]domain.UserSummary, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.UserSummary), args.Int(1), args.Error(2)
}
func (m *MockUserRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetOrCreateByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) GetLinkByUserID(ctx context.Context, userID string) (*domain.ProfileLink, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileLink), args.Error(1)
}
func (m *MockProfileRepo) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockProfileRepo) UpdateAvatar(ctx context.Context, profileID int64, avatarPath string) error {
	return m.Called(ctx, profileID, avatarPath).Error(0)
}
func (m *MockProfileRepo) ListEducations(ctx context.Context, profileID int64) ([]domain.Education, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]domain.Education), args.Error(1)
}
func (m *MockProfileRepo) AddEducation(ctx context.Context, e *domain.Education) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockProfileRepo) UpdateEducation(ctx context.Context, e *domain.Education) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockProfileRepo) DeleteEducation(ctx context.Context, profileID, id int64) error {
	return m.Called(ctx, profileID, id).Error(0)
}
func (m *MockProfileRepo) ListWorkExperiences(ctx context.Context, profileID int64) ([]domain.WorkExperience, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]domain.WorkExperience), args.Error(1)
}
func (m *MockProfileRepo) AddWorkExperience(ctx context.Context, w *domain.WorkExperience) error {
	return m.Called(ctx, w).Error(0)
}
func (m *MockProfileRepo) UpdateWorkExperience(ctx context.Context, w *domain.WorkExperience) error {
	return m.Called(ctx, w).Error(0)
}
func (m *MockProfileRepo) DeleteWorkExperience(ctx context.Context, profileID, id int64) error {
	return m.Called(ctx, profileID, id).Error(0)
}

type MockCompetenceRepo struct {
	mock.Mock
}

func (m *MockCompetenceRepo) List(ctx context.Context) ([]domain.Competence, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Competence), args.Error(1)
}
func (m *MockCompetenceRepo) ListByUser(ctx context.Context, userID string) ([]domain.Competence, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Competence), args.Error(1)
}
func (m *MockCompetenceRepo) ReplaceUserSelection(ctx context.Context, userID string, competenceIDs []int64) error {
	return m.Called(ctx, userID, competenceIDs).Error(0)
}
func (m *MockCompetenceRepo) Deduplicate(ctx context.Context) ([]domain.CompetenceMerge, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CompetenceMerge), args.Error(1)
}

type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	return m.Called(ctx, project).Error(0)
}
func (m *MockProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Project, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *MockProjectRepo) List(ctx context.Context, limit, offset int) ([]domain.Project, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Project), args.Int(1), args.Error(2)
}
func (m *MockProjectRepo) ListByMember(ctx context.Context, userID string) ([]domain.Project, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *MockProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	return m.Called(ctx, project).Error(0)
}
func (m *MockProjectRepo) UpdateImage(ctx context.Context, projectID int64, imagePath string) error {
	return m.Called(ctx, projectID, imagePath).Error(0)
}
func (m *MockProjectRepo) Delete(ctx context.Context, projectID int64) (string, error) {
	args := m.Called(ctx, projectID)
	return args.String(0), args.Error(1)
}
func (m *MockProjectRepo) Join(ctx context.Context, projectID int64, userID string) error {
	return m.Called(ctx, projectID, userID).Error(0)
}
func (m *MockProjectRepo) Leave(ctx context.Context, projectID int64, userID string) error {
	return m.Called(ctx, projectID, userID).Error(0)
}
func (m *MockProjectRepo) ListMembers(ctx context.Context, projectID int64) ([]domain.ProjectMemberInfo, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]domain.ProjectMemberInfo), args.Error(1)
}
func (m *MockProjectRepo) IsMember(ctx context.Context, projectID int64, userID string) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.UserMessage) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockMessageRepo) GetByID(ctx context.Context, id int64) (*domain.UserMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserMessage), args.Error(1)
}
func (m *MockMessageRepo) ListInbox(ctx context.Context, recipientID string, limit, offset int) ([]domain.UserMessage, error) {
	args := m.Called(ctx, recipientID, limit, offset)
	return args.Get(0).([]domain.UserMessage), args.Error(1)
}
func (m *MockMessageRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	args := m.Called(ctx, recipientID)
	return args.Int(0), args.Error(1)
}
func (m *MockMessageRepo) MarkRead(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockMessageRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) DeleteUserData(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockVisitRepo struct {
	mock.Mock
}

func (m *MockVisitRepo) Create(ctx context.Context, visit *domain.ProfileVisit) error {
	return m.Called(ctx, visit).Error(0)
}
func (m *MockVisitRepo) ListByProfile(ctx context.Context, profileID int64, limit int) ([]domain.ProfileVisit, error) {
	args := m.Called(ctx, profileID, limit)
	return args.Get(0).([]domain.ProfileVisit), args.Error(1)
}

// Auth

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)

	t.Run("Should not reveal whether the email exists", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(mockRepo, newValidator(), "secret")

		mockRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
		_, _, errMissing := uc.Login(context.Background(), "ghost@example.com", "whatever")

		mockRepo.On("GetByEmail", mock.Anything, "real@example.com").Return(&domain.User{
			ID: "u1", Email: "real@example.com", PasswordHash: string(hash),
		}, nil)
		_, _, errWrongPw := uc.Login(context.Background(), "real@example.com", "wrong")

		assert.Error(t, errMissing)
		assert.Error(t, errWrongPw)
		assert.Equal(t, errMissing.Error(), errWrongPw.Error())
	})

	t.Run("Should reject deactivated accounts", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(mockRepo, newValidator(), "secret")

		mockRepo.On("GetByEmail", mock.Anything, "off@example.com").Return(&domain.User{
			ID: "u1", Email: "off@example.com", PasswordHash: string(hash), IsDeactivated: true,
		}, nil)

		_, _, err := uc.Login(context.Background(), "off@example.com", "correct-horse")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "deactivated")
	})

	t.Run("Should issue a token on valid credentials", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(mockRepo, newValidator(), "secret")

		mockRepo.On("GetByEmail", mock.Anything, "ok@example.com").Return(&domain.User{
			ID: "u1", Email: "ok@example.com", PasswordHash: string(hash), Role: domain.RoleUser,
		}, nil)

		token, user, err := uc.Login(context.Background(), "ok@example.com", "correct-horse")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "u1", user.ID)
	})
}

func TestRegisterValidation(t *testing.T) {
	mockRepo := new(MockUserRepo)
	uc := usecase.NewAuthUsecase(mockRepo, newValidator(), "secret")

	_, err := uc.Register(context.Background(), domain.RegisterInput{
		Email:     "not-an-email",
		Password:  "short",
		FirstName: "Anna",
		LastName:  "Svensson",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Email is not a valid email address")
	mockRepo.AssertNotCalled(t, "Create")
}

// Messages

func TestMessageSend(t *testing.T) {
	recipient := &domain.User{ID: "11111111-1111-1111-1111-111111111111", FirstName: "Erik", LastName: "Larsson"}

	t.Run("Anonymous sender must supply a name", func(t *testing.T) {
		msgRepo := new(MockMessageRepo)
		userRepo := new(MockUserRepo)
		uc := usecase.NewMessageUsecase(msgRepo, userRepo, newValidator())

		userRepo.On("GetByID", mock.Anything, recipient.ID).Return(recipient, nil)

		_, err := uc.Send(context.Background(), domain.SendMessageInput{
			RecipientID: recipient.ID,
			Body:        "Hello!",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Sender name is required")
		msgRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Anonymous sender with name is stored without sender id", func(t *testing.T) {
		msgRepo := new(MockMessageRepo)
		userRepo := new(MockUserRepo)
		uc := usecase.NewMessageUsecase(msgRepo, userRepo, newValidator())

		userRepo.On("GetByID", mock.Anything, recipient.ID).Return(recipient, nil)
		msgRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.UserMessage")).Return(nil)

		msg, err := uc.Send(context.Background(), domain.SendMessageInput{
			RecipientID: recipient.ID,
			Body:        "Hello!",
			SenderName:  "Visitor",
		})
		assert.NoError(t, err)
		assert.Nil(t, msg.SenderID)
		assert.Equal(t, "Visitor", msg.SenderName)
	})

	t.Run("Authenticated sender is identified by account, not payload", func(t *testing.T) {
		msgRepo := new(MockMessageRepo)
		userRepo := new(MockUserRepo)
		uc := usecase.NewMessageUsecase(msgRepo, userRepo, newValidator())

		sender := &domain.User{ID: "u2", FirstName: "Maja", LastName: "Berg", Email: "maja@example.com"}
		userRepo.On("GetByID", mock.Anything, recipient.ID).Return(recipient, nil)
		userRepo.On("GetByID", mock.Anything, "u2").Return(sender, nil)
		msgRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.UserMessage")).Return(nil)

		msg, err := uc.Send(authedCtx("u2"), domain.SendMessageInput{
			RecipientID: recipient.ID,
			Body:        "Hi!",
			SenderName:  "Spoofed Name",
		})
		assert.NoError(t, err)
		assert.Equal(t, "u2", *msg.SenderID)
		assert.Equal(t, "Maja Berg", msg.SenderName)
	})

	t.Run("Cannot message yourself", func(t *testing.T) {
		msgRepo := new(MockMessageRepo)
		userRepo := new(MockUserRepo)
		uc := usecase.NewMessageUsecase(msgRepo, userRepo, newValidator())

		userRepo.On("GetByID", mock.Anything, recipient.ID).Return(recipient, nil)

		_, err := uc.Send(authedCtx(recipient.ID), domain.SendMessageInput{
			RecipientID: recipient.ID,
			Body:        "Note to self",
		})
		assert.Error(t, err)
		msgRepo.AssertNotCalled(t, "Create")
	})
}

func TestMessageOwnership(t *testing.T) {
	t.Run("Foreign messages answer not found", func(t *testing.T) {
		msgRepo := new(MockMessageRepo)
		uc := usecase.NewMessageUsecase(msgRepo, new(MockUserRepo), newValidator())

		msgRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.UserMessage{
			ID: 7, RecipientID: "someone-else",
		}, nil)

		err := uc.MarkRead(authedCtx("me"), 7)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
		msgRepo.AssertNotCalled(t, "MarkRead")
	})

	t.Run("Marking an already-read message keeps the first timestamp", func(t *testing.T) {
		msgRepo := new(MockMessageRepo)
		uc := usecase.NewMessageUsecase(msgRepo, new(MockUserRepo), newValidator())

		msgRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.UserMessage{
			ID: 7, RecipientID: "me", IsRead: true,
		}, nil)

		err := uc.MarkRead(authedCtx("me"), 7)
		assert.NoError(t, err)
		msgRepo.AssertNotCalled(t, "MarkRead")
	})
}

// Projects

func TestProjectCreatorRules(t *testing.T) {
	project := &domain.Project{ID: 3, Title: "Portfolio Site", ShortDescription: "A site", CreatorUserID: "creator"}

	t.Run("Only the creator can update", func(t *testing.T) {
		projRepo := new(MockProjectRepo)
		uc := usecase.NewProjectUsecase(projRepo, storage.NewStore(t.TempDir(), 0), newValidator())

		projRepo.On("GetByID", mock.Anything, int64(3)).Return(project, nil)

		_, err := uc.Update(authedCtx("intruder"), 3, domain.ProjectInput{
			Title: "Hijacked", ShortDescription: "x",
		})
		assert.Error(t, err)
		projRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Creator cannot leave their own project", func(t *testing.T) {
		projRepo := new(MockProjectRepo)
		uc := usecase.NewProjectUsecase(projRepo, storage.NewStore(t.TempDir(), 0), newValidator())

		projRepo.On("GetByID", mock.Anything, int64(3)).Return(project, nil)

		err := uc.Leave(authedCtx("creator"), 3)
		assert.Error(t, err)
		projRepo.AssertNotCalled(t, "Leave")
	})

	t.Run("Images are stored under the project's own directory", func(t *testing.T) {
		projRepo := new(MockProjectRepo)
		uc := usecase.NewProjectUsecase(projRepo, storage.NewStore(t.TempDir(), 0), newValidator())

		projRepo.On("GetByID", mock.Anything, int64(3)).Return(project, nil)
		projRepo.On("UpdateImage", mock.Anything, int64(3), mock.AnythingOfType("string")).Return(nil)

		path, err := uc.UploadImage(authedCtx("creator"), 3, testJPEG(t))
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(path, "/uploads/projects/3/"), path)
	})

	t.Run("Tech stack is capped and deduplicated", func(t *testing.T) {
		projRepo := new(MockProjectRepo)
		uc := usecase.NewProjectUsecase(projRepo, storage.NewStore(t.TempDir(), 0), newValidator())

		tokens := []string{"Go", " go ", "Postgres", "Redis", "Gin", "Docker", "K8s", "AWS", "Terraform", "React", "Vue", "Svelte", "Rust", "Zig"}
		projRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Project")).Return(nil).Run(func(args mock.Arguments) {
			p := args.Get(1).(*domain.Project)
			// The cap is applied before dedupe, so the duplicate " go "
			// costs one of the twelve slots
			assert.Equal(t, "Go,Postgres,Redis,Gin,Docker,K8s,AWS,Terraform,React,Vue,Svelte", p.TechStackCSV)
		})

		_, err := uc.Create(authedCtx("creator"), domain.ProjectInput{
			Title:            "Portfolio Site",
			ShortDescription: "A site",
			TechStack:        tokens,
		})
		assert.NoError(t, err)
	})
}

// Profile / CV

func TestUpdateCV(t *testing.T) {
	t.Run("Skills are normalized into the stored CSV", func(t *testing.T) {
		profRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profRepo, new(MockVisitRepo), newValidator())

		profRepo.On("GetOrCreateByUserID", mock.Anything, "u1").Return(&domain.Profile{ID: 1}, nil)
		profRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)

		profile, err := uc.UpdateCV(authedCtx("u1"), domain.UpdateProfileInput{
			Skills: []string{"C#", " sql ", "SQL", ""},
		})
		assert.NoError(t, err)
		assert.Equal(t, "C#,sql", profile.SkillsCSV)
	})

	t.Run("Malformed project selection degrades to empty", func(t *testing.T) {
		profRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profRepo, new(MockVisitRepo), newValidator())

		profRepo.On("GetOrCreateByUserID", mock.Anything, "u1").Return(&domain.Profile{ID: 1}, nil)
		profRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)

		profile, err := uc.UpdateCV(authedCtx("u1"), domain.UpdateProfileInput{
			SelectedProjectIDs: `{"oops": true}`,
		})
		assert.NoError(t, err)
		assert.Equal(t, "[]", profile.SelectedProjectsJSON)
	})

	t.Run("Unauthenticated callers are rejected", func(t *testing.T) {
		profRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profRepo, new(MockVisitRepo), newValidator())

		_, err := uc.UpdateCV(context.Background(), domain.UpdateProfileInput{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not authenticated")
	})
}

func TestGetMine(t *testing.T) {
	t.Run("Repeated calls resolve to the same profile", func(t *testing.T) {
		profRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profRepo, new(MockVisitRepo), newValidator())

		profRepo.On("GetOrCreateByUserID", mock.Anything, "u1").Return(&domain.Profile{ID: 42}, nil).Twice()

		first, err := uc.GetMine(authedCtx("u1"))
		assert.NoError(t, err)
		second, err := uc.GetMine(authedCtx("u1"))
		assert.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		profRepo.AssertExpectations(t)
	})
}

func TestEducationErrors(t *testing.T) {
	t.Run("Rows outside the caller's profile answer not found", func(t *testing.T) {
		profRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profRepo, new(MockVisitRepo), newValidator())

		profRepo.On("GetOrCreateByUserID", mock.Anything, "u1").Return(&domain.Profile{ID: 1}, nil)
		profRepo.On("UpdateEducation", mock.Anything, mock.AnythingOfType("*domain.Education")).
			Return(apperror.NotFound("Education entry not found"))

		_, err := uc.UpdateEducation(authedCtx("u1"), &domain.Education{ID: 9, School: "KTH"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("Database failures are not masked as not found", func(t *testing.T) {
		profRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profRepo, new(MockVisitRepo), newValidator())

		profRepo.On("GetOrCreateByUserID", mock.Anything, "u1").Return(&domain.Profile{ID: 1}, nil)
		profRepo.On("DeleteEducation", mock.Anything, int64(1), int64(9)).Return(assert.AnError)

		err := uc.DeleteEducation(authedCtx("u1"), 9)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

// Users / CV view

func TestGetCV(t *testing.T) {
	const ownerID = "owner-1"

	setup := func() (*MockVisitRepo, domain.UserUsecase) {
		userRepo := new(MockUserRepo)
		profRepo := new(MockProfileRepo)
		compRepo := new(MockCompetenceRepo)
		projRepo := new(MockProjectRepo)
		visitRepo := new(MockVisitRepo)
		uc := usecase.NewUserUsecase(userRepo, profRepo, compRepo, projRepo, visitRepo,
			storage.NewStore(t.TempDir(), 0), newValidator())

		userRepo.On("GetByID", mock.Anything, ownerID).Return(&domain.User{
			ID: ownerID, FirstName: "Nils", LastName: "Ek",
		}, nil)
		profRepo.On("GetLinkByUserID", mock.Anything, ownerID).Return(&domain.ProfileLink{
			UserID: ownerID, ProfileID: 10,
		}, nil)
		profRepo.On("GetByID", mock.Anything, int64(10)).Return(&domain.Profile{
			ID: 10, IsPublic: true, SelectedProjectsJSON: "[]",
		}, nil)
		profRepo.On("ListEducations", mock.Anything, int64(10)).Return([]domain.Education{}, nil)
		profRepo.On("ListWorkExperiences", mock.Anything, int64(10)).Return([]domain.WorkExperience{}, nil)
		compRepo.On("ListByUser", mock.Anything, ownerID).Return([]domain.Competence{}, nil)
		projRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Project{}, nil)
		return visitRepo, uc
	}

	t.Run("Anonymous views are recorded without a visitor id", func(t *testing.T) {
		visitRepo, uc := setup()
		visitRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ProfileVisit")).
			Return(nil).Run(func(args mock.Arguments) {
			v := args.Get(1).(*domain.ProfileVisit)
			assert.Equal(t, int64(10), v.ProfileID)
			assert.Nil(t, v.VisitorID)
			assert.Equal(t, "203.0.113.9", v.VisitorIP)
		})

		_, err := uc.GetCV(context.Background(), ownerID, "203.0.113.9")
		assert.NoError(t, err)
		visitRepo.AssertExpectations(t)
	})

	t.Run("Logged-in views carry the viewer's id", func(t *testing.T) {
		visitRepo, uc := setup()
		visitRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ProfileVisit")).
			Return(nil).Run(func(args mock.Arguments) {
			v := args.Get(1).(*domain.ProfileVisit)
			if assert.NotNil(t, v.VisitorID) {
				assert.Equal(t, "viewer-1", *v.VisitorID)
			}
		})

		_, err := uc.GetCV(authedCtx("viewer-1"), ownerID, "198.51.100.7")
		assert.NoError(t, err)
		visitRepo.AssertExpectations(t)
	})

	t.Run("Owner self-visits are never recorded", func(t *testing.T) {
		visitRepo, uc := setup()

		cv, err := uc.GetCV(authedCtx(ownerID), ownerID, "198.51.100.7")
		assert.NoError(t, err)
		assert.NotNil(t, cv)
		visitRepo.AssertNotCalled(t, "Create")
	})
}

// Competences

func TestReplaceCompetences(t *testing.T) {
	compRepo := new(MockCompetenceRepo)
	uc := usecase.NewCompetenceUsecase(compRepo)

	compRepo.On("ReplaceUserSelection", mock.Anything, "u1", []int64{1, 2, 3}).Return(nil)

	err := uc.ReplaceMine(authedCtx("u1"), []int64{1, 2, 2, 3, 0, -5, 1})
	assert.NoError(t, err)
	compRepo.AssertExpectations(t)
}

// Account deletion

func TestAccountDeletion(t *testing.T) {
	t.Run("Wipe errors are surfaced and nothing else happens", func(t *testing.T) {
		accRepo := new(MockAccountRepo)
		uc := usecase.NewAccountUsecase(accRepo, new(MockUserRepo), storage.NewStore(t.TempDir(), 0))

		accRepo.On("DeleteUserData", mock.Anything, "u1").Return(nil, assert.AnError)

		err := uc.DeleteMyAccount(authedCtx("u1"))
		assert.Error(t, err)
	})

	t.Run("Collected files are removed best-effort after the wipe", func(t *testing.T) {
		accRepo := new(MockAccountRepo)
		uc := usecase.NewAccountUsecase(accRepo, new(MockUserRepo), storage.NewStore(t.TempDir(), 0))

		// Files that no longer exist on disk must not fail the deletion
		accRepo.On("DeleteUserData", mock.Anything, "u1").Return([]string{
			"/uploads/avatars/gone.jpg",
			"/uploads/projects/also-gone.jpg",
		}, nil)

		err := uc.DeleteMyAccount(authedCtx("u1"))
		assert.NoError(t, err)
		accRepo.AssertExpectations(t)
	})

	t.Run("Admin accounts are refused on the moderation path", func(t *testing.T) {
		accRepo := new(MockAccountRepo)
		userRepo := new(MockUserRepo)
		uc := usecase.NewAccountUsecase(accRepo, userRepo, storage.NewStore(t.TempDir(), 0))

		userRepo.On("GetByID", mock.Anything, "admin-1").Return(&domain.User{
			ID: "admin-1", Role: domain.RoleAdmin,
		}, nil)

		err := uc.DeleteUser(authedCtx("actor"), "admin-1")
		assert.Error(t, err)
		accRepo.AssertNotCalled(t, "DeleteUserData")
	})
}

// Admin

func TestDedupeReportsMerges(t *testing.T) {
	compRepo := new(MockCompetenceRepo)
	uc := usecase.NewAdminUsecase(new(MockUserRepo), compRepo)

	compRepo.On("Deduplicate", mock.Anything).Return([]domain.CompetenceMerge{
		{MasterID: 1, Name: "Go", MergedIDs: []int64{4, 9}, KeptTopList: true, KeptCategory: "programming"},
	}, nil)

	merges, err := uc.DedupeCompetences(authedCtx("admin"))
	assert.NoError(t, err)
	assert.Len(t, merges, 1)
	assert.Equal(t, int64(1), merges[0].MasterID)
}
