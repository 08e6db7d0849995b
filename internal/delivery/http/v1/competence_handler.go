package v1

import (
	"net/http"

	"go-cvnetwork-backend/internal/delivery/http/response"
	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CompetenceHandler struct {
	competenceUC domain.CompetenceUsecase
}

func NewCompetenceHandler(public *gin.RouterGroup, protected *gin.RouterGroup, competenceUC domain.CompetenceUsecase) {
	handler := &CompetenceHandler{competenceUC: competenceUC}

	public.GET("/competences", handler.Catalog)

	me := protected.Group("/competences/me")
	{
		me.GET("", handler.ListMine)
		me.PUT("", handler.ReplaceMine)
	}
}

// Catalog godoc
// @Summary      Competence catalog
// @Description  The full selectable competence catalog, top-list entries first
// @Tags         competences
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Competence}
// @Router       /competences [get]
func (h *CompetenceHandler) Catalog(c *gin.Context) {
	competences, err := h.competenceUC.Catalog(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Competences", competences)
}

// ListMine godoc
// @Summary      My competences
// @Tags         competences
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Competence}
// @Router       /competences/me [get]
// @Security     BearerAuth
func (h *CompetenceHandler) ListMine(c *gin.Context) {
	competences, err := h.competenceUC.ListMine(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "My competences", competences)
}

type ReplaceCompetencesRequest struct {
	CompetenceIDs []int64 `json:"competence_ids"`
}

// ReplaceMine godoc
// @Summary      Replace my competence selection
// @Description  Swaps the caller's competence set for the submitted ids; unknown ids are ignored
// @Tags         competences
// @Accept       json
// @Produce      json
// @Param        selection  body      ReplaceCompetencesRequest  true  "Competence ids"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /competences/me [put]
// @Security     BearerAuth
func (h *CompetenceHandler) ReplaceMine(c *gin.Context) {
	var req ReplaceCompetencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.competenceUC.ReplaceMine(c.Request.Context(), req.CompetenceIDs); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Competences updated", nil)
}
