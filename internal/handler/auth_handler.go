package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_records/internal/auth"
	"github.com/locvowork/employee_records/internal/service/serviceutils"
)

type AuthHandler struct {
	gate *auth.Gate
}

func NewAuthHandler(gate *auth.Gate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// TokenHandler issues a token for the "sub" query parameter.
func (h *AuthHandler) TokenHandler(c echo.Context) error {
	token, err := h.gate.Issue(c.QueryParam("sub"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to issue token", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Token issued", TokenResponse{Token: token})
}
