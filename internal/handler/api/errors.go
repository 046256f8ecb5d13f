package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"RiskPulse/internal/domain/models"
	xhttp "RiskPulse/pkg/http"
)

// domainErrorResponse maps typed domain failures to HTTP responses.
// Unclassified errors fall through to a plain 500.
func domainErrorResponse(c echo.Context, err error) error {
	switch models.KindOf(err) {
	case models.KindDataUnavailable:
		return xhttp.AppErrorResponse(c,
			xhttp.NotFoundError("no price history available for this ticker").WithError(err))
	case models.KindFeatureUndefined:
		return xhttp.AppErrorResponse(c,
			xhttp.BadRequestError("not enough price history to compute features").WithError(err))
	case models.KindModelUnavailable:
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_MODEL_UNAVAILABLE", "", "volatility model is not available", http.StatusServiceUnavailable).WithError(err))
	case models.KindUpstreamTimeout:
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_UPSTREAM_TIMEOUT", "", "market data provider timed out", http.StatusGatewayTimeout).WithError(err))
	case models.KindTrainingAborted:
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_TRAINING_ABORTED", "", "training input was unusable", http.StatusUnprocessableEntity).WithError(err))
	default:
		return xhttp.AppErrorResponse(c, err)
	}
}
