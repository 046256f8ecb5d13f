package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"RiskPulse/internal/usecase"
	xlogger "RiskPulse/pkg/logger"
)

// TickerWSHandler pushes the quote strip to websocket clients on a fixed
// interval, so the frontend does not have to poll /api/quotes.
type TickerWSHandler struct {
	logger   *xlogger.Logger
	quotes   *usecase.QuotesUseCase
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewTickerWSHandler(logger *xlogger.Logger, quotes *usecase.QuotesUseCase, interval time.Duration) *TickerWSHandler {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &TickerWSHandler{
		logger:   logger,
		quotes:   quotes,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Same-origin enforcement happens at the CORS layer.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *TickerWSHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/ticker", h.Stream)
}

// Stream upgrades the connection and pushes quotes until the client goes
// away. Fetch failures skip a tick instead of closing the stream.
func (h *TickerWSHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()

	// reader goroutine: detect client close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func() error {
		quotes, err := h.quotes.Quotes(ctx)
		if err != nil {
			h.logger.Debug("ticker push skipped", xlogger.Error(err))
			return nil
		}
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(quotes)
	}

	if err := push(); err != nil {
		return nil
	}
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := push(); err != nil {
				return nil
			}
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}
