package v1

import (
	"net/http"

	"go-cvnetwork-backend/internal/delivery/http/response"
	"go-cvnetwork-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountUC domain.AccountUsecase
}

func NewAccountHandler(protected *gin.RouterGroup, accountUC domain.AccountUsecase) {
	handler := &AccountHandler{accountUC: accountUC}

	protected.DELETE("/account", handler.DeleteMyAccount)
}

// DeleteMyAccount godoc
// @Summary      Delete my account
// @Description  Irreversibly removes the account and everything it owns: profile, CV entries, messages, created projects, memberships, visit history and uploaded files.
// @Tags         account
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /account [delete]
// @Security     BearerAuth
func (h *AccountHandler) DeleteMyAccount(c *gin.Context) {
	if err := h.accountUC.DeleteMyAccount(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}

	// The token is now orphaned; drop the cookie too
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", "", -1, "/", "", true, true)

	response.Success(c, http.StatusOK, "Account deleted", nil)
}
