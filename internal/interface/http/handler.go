package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astrotune/backend/internal/domain/horoscope"
	"github.com/astrotune/backend/internal/domain/natal"
	apperrors "github.com/astrotune/backend/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	readingSvc horoscope.Service
	natalSvc   natal.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(readingSvc horoscope.Service, natalSvc natal.Service, logger *slog.Logger) *Handler {
	return &Handler{
		readingSvc: readingSvc,
		natalSvc:   natalSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// GetDailyReading returns the daily horoscope for a sun sign.
func (h *Handler) GetDailyReading(c *gin.Context) {
	var req horoscope.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	reading, err := h.readingSvc.DailyReading(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "reading_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "ephemeris_error"):
			status = http.StatusUnprocessableEntity
			code = "ephemeris_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, reading)
}

// GetTransits returns the raw transit snapshot without a generated reading.
func (h *Handler) GetTransits(c *gin.Context) {
	date := c.Query("date")
	tz := c.Query("tz")

	snapshot, err := h.readingSvc.Transits(c.Request.Context(), date, tz)
	if err != nil {
		status := http.StatusInternalServerError
		code := "transits_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "ephemeris_error"):
			status = http.StatusUnprocessableEntity
			code = "ephemeris_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// CreateBirthData stores a birth record and returns its natal chart.
func (h *Handler) CreateBirthData(c *gin.Context) {
	var req natal.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	profile, err := h.natalSvc.Create(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "birth_data_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "ephemeris_error"):
			status = http.StatusUnprocessableEntity
			code = "ephemeris_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	if subject, ok := getSubject(c); ok {
		h.logger.Info("birth record created", "id", profile.Record.ID, "subject", subject)
	}
	c.JSON(http.StatusCreated, profile)
}

// GetBirthData returns a stored birth record with its natal chart.
func (h *Handler) GetBirthData(c *gin.Context) {
	profile, err := h.natalSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		code := "birth_data_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "not_found"):
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
