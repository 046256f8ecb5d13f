package api

import (
	"github.com/labstack/echo/v4"

	models "RiskPulse/internal/domain/models"
	"RiskPulse/internal/usecase"
	xhttp "RiskPulse/pkg/http"
	xlogger "RiskPulse/pkg/logger"
)

// AdvisorHandler serves the comparison/recommendation endpoint.
type AdvisorHandler struct {
	logger  *xlogger.Logger
	advisor *usecase.AdvisorUseCase
}

func NewAdvisorHandler(logger *xlogger.Logger, advisor *usecase.AdvisorUseCase) *AdvisorHandler {
	return &AdvisorHandler{logger: logger, advisor: advisor}
}

func (h *AdvisorHandler) RegisterRoutes(e *echo.Echo) {
	e.Group("/api").POST("/recommend", h.Recommend)
}

func (h *AdvisorHandler) Recommend(c echo.Context) error {
	req := &models.RecommendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rec, err := h.advisor.Recommend(c.Request().Context(), req.Query)
	if err != nil {
		h.logger.Error("advisor usecase error", xlogger.Error(err))
		return domainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, rec)
}
