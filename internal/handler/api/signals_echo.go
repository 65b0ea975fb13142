package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
	domsvc "SignalForge/internal/domain/service"
	"SignalForge/internal/service/ratelimit"
	"SignalForge/internal/usecase"
	xhttp "SignalForge/pkg/http"
	xlogger "SignalForge/pkg/logger"
)

// HTTPObserver receives per-endpoint request timings.
type HTTPObserver interface {
	ObserveHTTP(endpoint string, seconds float64, failed bool)
}

// SignalsEchoHandler serves the latest analysis results and on-demand cycles.
type SignalsEchoHandler struct {
	logger        *xlogger.Logger
	analyzer      domsvc.SignalAnalyzer
	cache         domsvc.ResultCache
	history       domrepo.SignalStore
	limiter       *ratelimit.Limiter
	observer      HTTPObserver
	defaultSymbol string
}

func NewSignalsEchoHandler(
	logger *xlogger.Logger,
	analyzer domsvc.SignalAnalyzer,
	cache domsvc.ResultCache,
	history domrepo.SignalStore,
	limiter *ratelimit.Limiter,
	observer HTTPObserver,
	defaultSymbol string,
) *SignalsEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &SignalsEchoHandler{
		logger:        logger,
		analyzer:      analyzer,
		cache:         cache,
		history:       history,
		limiter:       limiter,
		observer:      observer,
		defaultSymbol: strings.ToUpper(defaultSymbol),
	}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/api", h.observe)
	g.GET("/signal", h.Signal)
	g.POST("/analyze", h.Analyze)
	g.GET("/report", h.Report)
	g.GET("/timeframes/:tf", h.Timeframe)
	g.GET("/history", h.History)
}

func (h *SignalsEchoHandler) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if h.observer != nil {
			failed := err != nil || c.Response().Status >= http.StatusInternalServerError
			h.observer.ObserveHTTP(c.Path(), time.Since(start).Seconds(), failed)
		}
		return err
	}
}

func (h *SignalsEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SignalsEchoHandler) symbol(s string) string {
	if s == "" {
		return h.defaultSymbol
	}
	return strings.ToUpper(s)
}

func (h *SignalsEchoHandler) latest(c echo.Context, symbol string) (*models.AnalysisResult, error) {
	res, ok, err := h.cache.Latest(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("result cache error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return nil, xhttp.ServiceUnavailableError("result cache unavailable").WithError(err)
	}
	if !ok {
		return nil, xhttp.NotFoundErrorf("no analysis yet for %s", symbol)
	}
	return res, nil
}

// Signal returns the latest cached AnalysisResult.
func (h *SignalsEchoHandler) Signal(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.latest(c, h.symbol(req.Symbol))
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

// Analyze runs one cycle now.
func (h *SignalsEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := h.symbol(req.Symbol)
	if h.limiter != nil && !h.limiter.Allow(symbol) {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_RATE_LIMITED", "symbol", "too many analyze requests", http.StatusTooManyRequests))
	}

	res, err := h.analyzer.Run(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("analyze usecase error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("analysis failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// Report renders the latest result as plain text.
func (h *SignalsEchoHandler) Report(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.latest(c, h.symbol(req.Symbol))
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return c.String(http.StatusOK, usecase.RenderReport(res))
}

// Timeframe returns one timeframe's breakdown from the latest result.
func (h *SignalsEchoHandler) Timeframe(c echo.Context) error {
	req := &models.TimeframeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := h.symbol(req.Symbol)
	res, err := h.latest(c, symbol)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	ta, ok := res.Timeframe(req.TF)
	if !ok {
		if msg, failed := res.Errors[req.TF]; failed {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError(msg).WithParam("timeframe", req.TF))
		}
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("timeframe %s not analyzed for %s", req.TF, symbol))
	}
	return xhttp.SuccessResponse(c, ta)
}

// History lists recent persisted final signals, newest first.
func (h *SignalsEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	recs, err := h.history.Recent(c.Request().Context(), h.symbol(req.Symbol), req.Limit)
	if err != nil {
		h.logger.Error("history query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("history unavailable").WithError(err))
	}
	return xhttp.ListResponse(c, recs, int64(len(recs)))
}
