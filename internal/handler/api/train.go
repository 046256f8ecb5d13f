package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	models "RiskPulse/internal/domain/models"
	"RiskPulse/internal/usecase"
	xhttp "RiskPulse/pkg/http"
	xlogger "RiskPulse/pkg/logger"
	"RiskPulse/pkg/queue"
)

// TrainHandler serves the retraining trigger. With a queue configured
// the request is enqueued and answered 202; without one training runs
// inline, which is mainly useful in development.
type TrainHandler struct {
	logger *xlogger.Logger
	train  *usecase.TrainModelUseCase
	queue  queue.QueueService // optional, may be nil
}

func NewTrainHandler(logger *xlogger.Logger, train *usecase.TrainModelUseCase, q queue.QueueService) *TrainHandler {
	return &TrainHandler{logger: logger, train: train, queue: q}
}

func (h *TrainHandler) RegisterRoutes(e *echo.Echo) {
	e.Group("/api").POST("/train", h.Train)
}

func (h *TrainHandler) Train(c echo.Context) error {
	req := &models.TrainRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if h.queue != nil {
		if err := h.queue.PublishMessage(c.Request().Context(), usecase.TrainJobType, req); err != nil {
			h.logger.Error("train enqueue failed", xlogger.Error(err))
			return xhttp.InternalServerErrorResponse(c)
		}
		return xhttp.DataResponse(c, http.StatusAccepted, map[string]string{
			"status": "queued",
			"ticker": req.Ticker,
		})
	}

	res, err := h.train.Run(c.Request().Context(), req.Ticker, models.Period(req.Period))
	if err != nil {
		h.logger.Error("inline training failed",
			xlogger.String("ticker", req.Ticker),
			xlogger.Error(err))
		return domainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":  "trained",
		"ticker":  res.Ticker,
		"samples": res.Samples,
		"cvScore": res.CVScore,
	})
}
