package v1

import (
	"net/http"
	"strconv"

	"go-cvnetwork-backend/internal/delivery/http/response"
	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	me := protected.Group("/profiles/me")
	{
		me.GET("", handler.GetMine)
		me.PUT("", handler.UpdateCV)
		me.GET("/visits", handler.ListVisits)

		me.POST("/educations", handler.AddEducation)
		me.PUT("/educations/:id", handler.UpdateEducation)
		me.DELETE("/educations/:id", handler.DeleteEducation)

		me.POST("/work-experiences", handler.AddWorkExperience)
		me.PUT("/work-experiences/:id", handler.UpdateWorkExperience)
		me.DELETE("/work-experiences/:id", handler.DeleteWorkExperience)
	}
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid id")
	}
	return id, nil
}

// GetMine godoc
// @Summary      My CV profile
// @Description  Returns the caller's profile, creating an empty one on first access
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Router       /profiles/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetMine(c *gin.Context) {
	profile, err := h.profileUC.GetMine(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", profile)
}

// UpdateCV godoc
// @Summary      Update my CV profile
// @Description  Updates headline, about text, visibility, skills and the selected project showcase
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.UpdateProfileInput  true  "Profile fields"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      400  {object}  response.Response
// @Router       /profiles/me [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateCV(c *gin.Context) {
	var input domain.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile, err := h.profileUC.UpdateCV(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// ListVisits godoc
// @Summary      My profile visits
// @Description  Recent visits to the caller's profile, newest first
// @Tags         profiles
// @Produce      json
// @Param        limit  query  int  false  "Max entries"
// @Success      200  {object}  response.Response{data=[]domain.ProfileVisit}
// @Router       /profiles/me/visits [get]
// @Security     BearerAuth
func (h *ProfileHandler) ListVisits(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	visits, err := h.profileUC.ListMyVisits(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile visits", visits)
}

// AddEducation godoc
// @Summary      Add education entry
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        education  body      domain.Education  true  "Education entry"
// @Success      201  {object}  response.Response{data=domain.Education}
// @Failure      400  {object}  response.Response
// @Router       /profiles/me/educations [post]
// @Security     BearerAuth
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var e domain.Education
	if err := c.ShouldBindJSON(&e); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	created, err := h.profileUC.AddEducation(c.Request.Context(), &e)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Education added", created)
}

// UpdateEducation godoc
// @Summary      Update education entry
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id         path      int               true  "Entry ID"
// @Param        education  body      domain.Education  true  "Education entry"
// @Success      200  {object}  response.Response{data=domain.Education}
// @Failure      404  {object}  response.Response
// @Router       /profiles/me/educations/{id} [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateEducation(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var e domain.Education
	if err := c.ShouldBindJSON(&e); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	e.ID = id

	updated, err := h.profileUC.UpdateEducation(c.Request.Context(), &e)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Education updated", updated)
}

// DeleteEducation godoc
// @Summary      Delete education entry
// @Tags         profiles
// @Produce      json
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/me/educations/{id} [delete]
// @Security     BearerAuth
func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.profileUC.DeleteEducation(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Education deleted", nil)
}

// AddWorkExperience godoc
// @Summary      Add work experience entry
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        experience  body      domain.WorkExperience  true  "Work experience entry"
// @Success      201  {object}  response.Response{data=domain.WorkExperience}
// @Failure      400  {object}  response.Response
// @Router       /profiles/me/work-experiences [post]
// @Security     BearerAuth
func (h *ProfileHandler) AddWorkExperience(c *gin.Context) {
	var w domain.WorkExperience
	if err := c.ShouldBindJSON(&w); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	created, err := h.profileUC.AddWorkExperience(c.Request.Context(), &w)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Work experience added", created)
}

// UpdateWorkExperience godoc
// @Summary      Update work experience entry
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id          path      int                    true  "Entry ID"
// @Param        experience  body      domain.WorkExperience  true  "Work experience entry"
// @Success      200  {object}  response.Response{data=domain.WorkExperience}
// @Failure      404  {object}  response.Response
// @Router       /profiles/me/work-experiences/{id} [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateWorkExperience(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var w domain.WorkExperience
	if err := c.ShouldBindJSON(&w); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	w.ID = id

	updated, err := h.profileUC.UpdateWorkExperience(c.Request.Context(), &w)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Work experience updated", updated)
}

// DeleteWorkExperience godoc
// @Summary      Delete work experience entry
// @Tags         profiles
// @Produce      json
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/me/work-experiences/{id} [delete]
// @Security     BearerAuth
func (h *ProfileHandler) DeleteWorkExperience(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.profileUC.DeleteWorkExperience(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Work experience deleted", nil)
}
