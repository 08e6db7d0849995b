package v1

import (
	"fmt"
	"net/http"
	"time"

	"go-cvnetwork-backend/internal/delivery/http/middleware"
	"go-cvnetwork-backend/internal/delivery/http/response"
	"go-cvnetwork-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC   domain.AdminUsecase
	accountUC domain.AccountUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase, accountUC domain.AccountUsecase) {
	handler := &AdminHandler{adminUC: adminUC, accountUC: accountUC}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users/export", handler.ExportUsers)
		admin.DELETE("/users/:id", handler.DeleteUser)
		admin.POST("/competences/dedupe", handler.DedupeCompetences)
	}
}

// ExportUsers godoc
// @Summary      Export users
// @Description  Downloads the full user directory as an XLSX spreadsheet
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      403  {object}  response.Response
// @Router       /admin/users/export [get]
// @Security     BearerAuth
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	data, err := h.adminUC.ExportUsersXLSX(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("users-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// DeleteUser godoc
// @Summary      Delete a user account
// @Description  Moderation path of the account deletion workflow. Admin accounts cannot be deleted this way.
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/users/{id} [delete]
// @Security     BearerAuth
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.accountUC.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted", nil)
}

// DedupeCompetences godoc
// @Summary      Deduplicate the competence catalog
// @Description  Merges catalog rows whose normalized names collide and reports every merge performed
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.CompetenceMerge}
// @Failure      403  {object}  response.Response
// @Router       /admin/competences/dedupe [post]
// @Security     BearerAuth
func (h *AdminHandler) DedupeCompetences(c *gin.Context) {
	merges, err := h.adminUC.DedupeCompetences(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Competence catalog deduplicated", merges)
}
