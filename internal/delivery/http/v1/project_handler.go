package v1

import (
	"net/http"
	"strconv"

	"go-cvnetwork-backend/config"
	"go-cvnetwork-backend/internal/delivery/http/middleware"
	"go-cvnetwork-backend/internal/delivery/http/response"
	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectUC domain.ProjectUsecase
	config    *config.Config
}

func NewProjectHandler(public *gin.RouterGroup, protected *gin.RouterGroup, projectUC domain.ProjectUsecase, cfg *config.Config) {
	handler := &ProjectHandler{projectUC: projectUC, config: cfg}

	public.GET("/projects", handler.List)
	public.GET("/projects/:id", handler.Get)

	projects := protected.Group("/projects")
	{
		projects.POST("", handler.Create)
		projects.GET("/mine", handler.ListMine)
		projects.PUT("/:id", handler.Update)
		projects.DELETE("/:id", handler.Delete)
		projects.POST("/:id/image", middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig()), handler.UploadImage)
		projects.POST("/:id/join", handler.Join)
		projects.POST("/:id/leave", handler.Leave)
	}
}

// List godoc
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Page offset"
// @Success      200  {object}  response.Response{data=[]domain.Project}
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	projects, total, err := h.projectUC.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Projects", gin.H{
		"projects": projects,
		"total":    total,
	})
}

// Get godoc
// @Summary      Project details
// @Description  One project with its member list
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	project, members, err := h.projectUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Project", gin.H{
		"project": project,
		"members": members,
	})
}

// ListMine godoc
// @Summary      My projects
// @Description  Projects the caller is a member of, own or joined
// @Tags         projects
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Project}
// @Router       /projects/mine [get]
// @Security     BearerAuth
func (h *ProjectHandler) ListMine(c *gin.Context) {
	projects, err := h.projectUC.ListMine(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "My projects", projects)
}

// Create godoc
// @Summary      Create project
// @Description  The creator automatically becomes the first member
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project  body      domain.ProjectInput  true  "Project fields"
// @Success      201  {object}  response.Response{data=domain.Project}
// @Failure      400  {object}  response.Response
// @Router       /projects [post]
// @Security     BearerAuth
func (h *ProjectHandler) Create(c *gin.Context) {
	var input domain.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	project, err := h.projectUC.Create(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Project created", project)
}

// Update godoc
// @Summary      Update project
// @Description  Creator only
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Project ID"
// @Param        project  body      domain.ProjectInput  true  "Project fields"
// @Success      200  {object}  response.Response{data=domain.Project}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /projects/{id} [put]
// @Security     BearerAuth
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var input domain.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	project, err := h.projectUC.Update(c.Request.Context(), id, input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project updated", project)
}

// Delete godoc
// @Summary      Delete project
// @Description  Creator only; removes memberships and the stored image with it
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /projects/{id} [delete]
// @Security     BearerAuth
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.projectUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project deleted", nil)
}

// UploadImage godoc
// @Summary      Upload project image
// @Description  Creator only; multipart upload, recompressed server-side
// @Tags         projects
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      int   true  "Project ID"
// @Param        image  formData  file  true  "Image file"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /projects/{id}/image [post]
// @Security     BearerAuth
func (h *ProjectHandler) UploadImage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	data, err := readUpload(c, "image", h.config.MaxUploadSize)
	if err != nil {
		c.Error(err)
		return
	}

	path, err := h.projectUC.UploadImage(c.Request.Context(), id, data)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project image updated", gin.H{"image_path": path})
}

// Join godoc
// @Summary      Join project
// @Description  Idempotent error on double-join (409)
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /projects/{id}/join [post]
// @Security     BearerAuth
func (h *ProjectHandler) Join(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.projectUC.Join(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Joined project", nil)
}

// Leave godoc
// @Summary      Leave project
// @Description  The creator cannot leave their own project
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /projects/{id}/leave [post]
// @Security     BearerAuth
func (h *ProjectHandler) Leave(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.projectUC.Leave(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Left project", nil)
}
