package v1

import (
	"io"
	"net/http"
	"strconv"

	"go-cvnetwork-backend/config"
	"go-cvnetwork-backend/internal/delivery/http/middleware"
	"go-cvnetwork-backend/internal/delivery/http/response"
	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUC domain.UserUsecase
	config *config.Config
}

// NewUserHandler mounts the directory and CV routes. Browsing and CV views
// run with optional auth: anonymous viewers are allowed, logged-in viewers
// are identified for the visit log.
func NewUserHandler(optional *gin.RouterGroup, protected *gin.RouterGroup, userUC domain.UserUsecase, cfg *config.Config) {
	handler := &UserHandler{userUC: userUC, config: cfg}

	users := optional.Group("/users")
	{
		users.GET("", handler.Browse)
		users.GET("/:id/cv", handler.GetCV)
	}

	me := protected.Group("/users/me")
	{
		me.PUT("", handler.UpdateMe)
		me.POST("/avatar", middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig()), handler.UploadAvatar)
	}
}

// Browse godoc
// @Summary      Browse users
// @Description  Search the member directory by name, city or competence
// @Tags         users
// @Produce      json
// @Param        q              query  string  false  "Name or city search"
// @Param        city           query  string  false  "City filter"
// @Param        competence_id  query  int     false  "Competence filter"
// @Param        limit          query  int     false  "Page size"
// @Param        offset         query  int     false  "Page offset"
// @Success      200  {object}  response.Response{data=[]domain.UserSummary}
// @Router       /users [get]
func (h *UserHandler) Browse(c *gin.Context) {
	competenceID, _ := strconv.ParseInt(c.Query("competence_id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := domain.UserSearchFilter{
		Query:        c.Query("q"),
		City:         c.Query("city"),
		CompetenceID: competenceID,
		Limit:        limit,
		Offset:       offset,
	}

	users, total, err := h.userUC.Browse(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Users", gin.H{
		"users": users,
		"total": total,
	})
}

// GetCV godoc
// @Summary      View a CV
// @Description  Full CV of a user; private CVs answer 404 for everyone but the owner. The view is recorded in the owner's visit log.
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=domain.CVDetails}
// @Failure      404  {object}  response.Response
// @Router       /users/{id}/cv [get]
func (h *UserHandler) GetCV(c *gin.Context) {
	cv, err := h.userUC.GetCV(c.Request.Context(), c.Param("id"), c.ClientIP())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "CV", cv)
}

// UpdateMe godoc
// @Summary      Update my account
// @Description  Update display names, location and privacy flags
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body      domain.UpdateUserInput  true  "Account fields"
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      400  {object}  response.Response
// @Router       /users/me [put]
// @Security     BearerAuth
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var input domain.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	user, err := h.userUC.UpdateMe(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Account updated", user)
}

// UploadAvatar godoc
// @Summary      Upload my avatar
// @Description  Multipart upload; the image is recompressed server-side and replaces the previous avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Image file (JPEG, PNG, GIF or WebP)"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /users/me/avatar [post]
// @Security     BearerAuth
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	data, err := readUpload(c, "image", h.config.MaxUploadSize)
	if err != nil {
		c.Error(err)
		return
	}

	path, err := h.userUC.UpdateAvatar(c.Request.Context(), data)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Avatar updated", gin.H{"avatar_path": path})
}

// readUpload pulls one bounded file out of the multipart form.
func readUpload(c *gin.Context, field string, maxSize int64) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, apperror.BadRequest("Missing file upload: " + field)
	}
	if maxSize > 0 && fileHeader.Size > maxSize {
		return nil, apperror.BadRequest("File too large")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, apperror.BadRequest("Could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, apperror.BadRequest("Could not read uploaded file")
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, apperror.BadRequest("File too large")
	}
	return data, nil
}
