package api

import (
	"github.com/labstack/echo/v4"

	models "RiskPulse/internal/domain/models"
	domrepo "RiskPulse/internal/domain/repository"
	"RiskPulse/internal/usecase"
	xhttp "RiskPulse/pkg/http"
	xlogger "RiskPulse/pkg/logger"
)

// AnalysisHandler serves the analysis, quotes and health endpoints.
type AnalysisHandler struct {
	logger   *xlogger.Logger
	analysis *usecase.AnalysisUseCase
	quotes   *usecase.QuotesUseCase
	model    domrepo.ModelStore
}

func NewAnalysisHandler(
	logger *xlogger.Logger,
	analysis *usecase.AnalysisUseCase,
	quotes *usecase.QuotesUseCase,
	model domrepo.ModelStore,
) *AnalysisHandler {
	return &AnalysisHandler{logger: logger, analysis: analysis, quotes: quotes, model: model}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.GET("/analyze/:ticker", h.AnalyzeByPath)
	g.GET("/quotes", h.Quotes)
	g.GET("/health", h.Health)
}

func (h *AnalysisHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.analyze(c, req.Ticker)
}

func (h *AnalysisHandler) AnalyzeByPath(c echo.Context) error {
	ticker := c.Param("ticker")
	if ticker == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("ticker is required"))
	}
	return h.analyze(c, ticker)
}

func (h *AnalysisHandler) analyze(c echo.Context, ticker string) error {
	res, err := h.analysis.Analyze(c.Request().Context(), ticker, true)
	if err != nil {
		h.logger.Error("analysis usecase error",
			xlogger.String("ticker", ticker),
			xlogger.Error(err))
		return domainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Quotes(c echo.Context) error {
	quotes, err := h.quotes.Quotes(c.Request().Context())
	if err != nil {
		h.logger.Error("quotes usecase error", xlogger.Error(err))
		return domainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, quotes)
}

func (h *AnalysisHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":      "ok",
		"modelLoaded": h.model.Ready(),
	})
}
