// Package httpapi exposes the engine over HTTP for `meteofusion serve`: a
// thin transport in front of the Consumer contract, nothing more.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/skypulsear/meteofusion/internal/engine"
	"github.com/skypulsear/meteofusion/internal/metrics"
	"github.com/skypulsear/meteofusion/internal/risk"
)

// Server wraps an *engine.Engine with echo routing.
type Server struct {
	echo    *echo.Echo
	engine  *engine.Engine
	metrics *metrics.Registry
	log     zerolog.Logger
}

// New builds a Server with /forecast, /risk, /health/breakers, and /metrics
// wired in. gatherer serves /metrics and must be the registry m's collectors
// were registered against. Of those collectors, only the breaker_state gauge
// is updated, on each /health/breakers request.
func New(eng *engine.Engine, m *metrics.Registry, gatherer prometheus.Gatherer, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, engine: eng, metrics: m, log: log}

	e.GET("/forecast", s.handleForecast)
	e.GET("/risk", s.handleRisk)
	e.GET("/health/breakers", s.handleBreakerHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return s
}

// Start blocks serving on addr until the process is killed or ListenAndServe
// fails.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleForecast(c echo.Context) error {
	lat, lon, err := latLonParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hours, err := intParam(c, "hours", 24, 1, 336)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	forecasts, err := s.engine.GetUnifiedForecast(c.Request().Context(), lat, lon, hours, nil)
	if err != nil {
		if errors.Is(err, engine.ErrNoForecasts) {
			return c.JSON(http.StatusOK, map[string]any{"forecasts": []any{}})
		}
		s.log.Error().Err(err).Msg("forecast request failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal_error")
	}
	return c.JSON(http.StatusOK, map[string]any{"forecasts": forecasts})
}

func (s *Server) handleRisk(c echo.Context) error {
	lat, lon, err := latLonParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hoursAhead, err := intParam(c, "hours_ahead", 6, 1, 72)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	profile, err := profileParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	score, err := s.engine.GetRiskScore(c.Request().Context(), profile, lat, lon, hoursAhead)
	if err != nil {
		if errors.Is(err, engine.ErrNoForecasts) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "no forecast data available from any source")
		}
		s.log.Error().Err(err).Msg("risk request failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal_error")
	}
	return c.JSON(http.StatusOK, score)
}

func (s *Server) handleBreakerHealth(c echo.Context) error {
	states := s.engine.BreakerStates()
	if s.metrics != nil {
		s.metrics.SetBreakerStates(states)
	}
	return c.JSON(http.StatusOK, map[string]any{"breakers": states})
}

func latLonParam(c echo.Context) (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, errors.New("lat must be a number in [-90, 90]")
	}
	lon, err = strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, errors.New("lon must be a number in [-180, 180]")
	}
	return lat, lon, nil
}

func intParam(c echo.Context, name string, def, min, max int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, errors.New(name + " must be an integer in [" + strconv.Itoa(min) + ", " + strconv.Itoa(max) + "]")
	}
	return v, nil
}

func profileParam(c echo.Context) (risk.Profile, error) {
	raw := c.QueryParam("profile")
	if raw == "" {
		return risk.General, nil
	}
	p := risk.Profile(raw)
	for _, candidate := range risk.AllProfiles {
		if candidate == p {
			return p, nil
		}
	}
	return "", errors.New("unknown profile: " + raw)
}
