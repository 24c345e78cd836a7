package api

import (
	models "SolPulse/internal/domain/models"
	"SolPulse/internal/usecase"
	xhttp "SolPulse/pkg/http"
	xlogger "SolPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler serves the prediction API: current state, per-horizon views,
// overview, trending tokens, insights and live-mode controls.
type MarketHandler struct {
	logger    *xlogger.Logger
	agg       *usecase.Aggregator
	refresher *usecase.Refresher
}

func NewMarketHandler(logger *xlogger.Logger, agg *usecase.Aggregator, refresher *usecase.Refresher) *MarketHandler {
	return &MarketHandler{logger: logger, agg: agg, refresher: refresher}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/prediction", h.Prediction)
	g.GET("/prediction/horizon", h.Horizon)
	g.GET("/overview", h.Overview)
	g.GET("/trending", h.Trending)
	g.GET("/insights", h.Insights)
	g.GET("/sentiment", h.Sentiment)
	g.POST("/refresh", h.Refresh)
	g.POST("/live", h.Live)
}

// Prediction returns the full prediction state: the current prediction (live
// or fixture), refresh status and provenance.
func (h *MarketHandler) Prediction(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.agg.State())
}

// Horizon returns the projection for a single horizon. Unknown horizons are
// rejected; the default is 60 minutes.
func (h *MarketHandler) Horizon(c echo.Context) error {
	req := &models.HorizonRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	st := h.agg.State()
	return xhttp.SuccessResponse(c, echo.Map{
		"horizon_minutes": req.Minutes,
		"view":            usecase.HorizonLookup(st.Prediction, req.Minutes),
		"source":          st.Prediction.Source,
	})
}

func (h *MarketHandler) Overview(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.agg.Overview())
}

func (h *MarketHandler) Trending(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.agg.Trending())
}

func (h *MarketHandler) Insights(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.agg.Insights())
}

// Sentiment returns the majority trend and risk grade over the current
// prediction set.
func (h *MarketHandler) Sentiment(c echo.Context) error {
	st := h.agg.State()
	var preds []models.HorizonPrediction
	if st.Prediction != nil {
		preds = st.Prediction.Predictions
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"sentiment": usecase.Sentiment(preds),
		"risk":      usecase.Risk(preds),
	})
}

// Refresh triggers a one-shot refresh. While one is already running this is
// a no-op; either way the resulting state is returned.
func (h *MarketHandler) Refresh(c echo.Context) error {
	if err := h.agg.Refresh(c.Request().Context()); err != nil {
		h.logger.Error("manual refresh failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("refresh aborted"))
	}
	return xhttp.SuccessResponse(c, h.agg.State())
}

// Live toggles the auto-refresh loop.
func (h *MarketHandler) Live(c echo.Context) error {
	req := &models.LiveRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	h.refresher.SetLive(req.Enabled)
	return xhttp.SuccessResponse(c, echo.Map{"is_live": h.refresher.IsLive()})
}
