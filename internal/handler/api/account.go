package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	models "RiskPulse/internal/domain/models"
	domrepo "RiskPulse/internal/domain/repository"
	"RiskPulse/internal/service/ratelimit"
	"RiskPulse/internal/usecase"
	xhttp "RiskPulse/pkg/http"
	xlogger "RiskPulse/pkg/logger"
	"RiskPulse/pkg/util"
)

// AccountHandler serves registration, login, watchlist, portfolio and
// trade-log endpoints. Everything except register/login requires a
// bearer token.
type AccountHandler struct {
	logger    *xlogger.Logger
	accounts  *usecase.AccountUseCase
	watchlist *usecase.WatchlistUseCase
	portfolio *usecase.PortfolioUseCase
	tradeLog  domrepo.TradeLogStore
	limiter   *ratelimit.Limiter
}

func NewAccountHandler(
	logger *xlogger.Logger,
	accounts *usecase.AccountUseCase,
	watchlist *usecase.WatchlistUseCase,
	portfolio *usecase.PortfolioUseCase,
	tradeLog domrepo.TradeLogStore,
) *AccountHandler {
	return &AccountHandler{
		logger:    logger,
		accounts:  accounts,
		watchlist: watchlist,
		portfolio: portfolio,
		tradeLog:  tradeLog,
		limiter:   ratelimit.New(),
	}
}

func (h *AccountHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)

	auth := g.Group("", JWTMiddleware(h.accounts))
	auth.GET("/watchlist", h.Watchlist)
	auth.POST("/watchlist", h.WatchlistAdd)
	auth.DELETE("/watchlist/:ticker", h.WatchlistRemove)
	auth.GET("/portfolio", h.Portfolio)
	auth.POST("/portfolio", h.PortfolioUpsert)
	auth.DELETE("/portfolio/:ticker", h.PortfolioRemove)
	auth.GET("/signals", h.Signals)
	auth.GET("/executions", h.Executions)
}

func (h *AccountHandler) Register(c echo.Context) error {
	req := &models.RegisterRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	u, err := h.accounts.Register(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, usecase.ErrUsernameTaken) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("username already taken"))
	}
	if err != nil {
		h.logger.Error("register failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.CreatedResponse(c, u)
}

func (h *AccountHandler) Login(c echo.Context) error {
	req := &models.LoginRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// 5 attempts per username, refilling one every 10s
	if !h.limiter.Allow("login:"+req.Username, 5, 0.1) {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many login attempts", http.StatusTooManyRequests))
	}
	token, u, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("invalid username or password"))
	}
	if err != nil {
		h.logger.Error("login failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

func (h *AccountHandler) Watchlist(c echo.Context) error {
	tickers, err := h.watchlist.Tickers(c.Request().Context(), authedUserID(c))
	if err != nil {
		h.logger.Error("watchlist read failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, tickers)
}

func (h *AccountHandler) WatchlistAdd(c echo.Context) error {
	req := &models.WatchlistAddRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.watchlist.Add(c.Request().Context(), authedUserID(c), req.Ticker); err != nil {
		h.logger.Error("watchlist add failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.CreatedResponse(c, req.Ticker)
}

func (h *AccountHandler) WatchlistRemove(c echo.Context) error {
	ticker := c.Param("ticker")
	if err := h.watchlist.Remove(c.Request().Context(), authedUserID(c), ticker); err != nil {
		h.logger.Error("watchlist remove failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.NoContentResponse(c)
}

func (h *AccountHandler) Portfolio(c echo.Context) error {
	view, err := h.portfolio.View(c.Request().Context(), authedUserID(c))
	if err != nil {
		h.logger.Error("portfolio view failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, view)
}

func (h *AccountHandler) PortfolioUpsert(c echo.Context) error {
	req := &models.PositionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.portfolio.Upsert(c.Request().Context(), authedUserID(c), req); err != nil {
		h.logger.Error("portfolio upsert failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.CreatedResponse(c, req)
}

func (h *AccountHandler) PortfolioRemove(c echo.Context) error {
	ticker := c.Param("ticker")
	if err := h.portfolio.Remove(c.Request().Context(), authedUserID(c), ticker); err != nil {
		h.logger.Error("portfolio remove failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.NoContentResponse(c)
}

func (h *AccountHandler) Signals(c echo.Context) error {
	limit := util.ParseIntDefault(c.QueryParam("limit"), 100)
	signals, err := h.tradeLog.SignalsForUser(c.Request().Context(), authedUserID(c), limit)
	if err != nil {
		h.logger.Error("signals read failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.ListResponse(c, signals, int64(len(signals)))
}

func (h *AccountHandler) Executions(c echo.Context) error {
	limit := util.ParseIntDefault(c.QueryParam("limit"), 100)
	executions, err := h.tradeLog.ExecutionsForUser(c.Request().Context(), authedUserID(c), limit)
	if err != nil {
		h.logger.Error("executions read failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.ListResponse(c, executions, int64(len(executions)))
}
