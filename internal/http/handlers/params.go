package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/http/response"
	"github.com/yungbote/classbridge-backend/internal/pkg/ctxutil"
)

func principal(c *gin.Context) types.Principal {
	return ctxutil.PrincipalFrom(c.Request.Context())
}

// uuidParam answers 400 and returns false when the path parameter is not a uuid.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid request body"))
		return false
	}
	return true
}
