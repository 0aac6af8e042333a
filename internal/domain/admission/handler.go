package admission

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wardops/wardops/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/admissions", h.CreateReservation)
	api.GET("/admissions", h.ListAdmissions)
	api.GET("/admissions/:id", h.GetAdmission)
	api.POST("/admissions/:id/confirm", h.Confirm)
	api.POST("/admissions/:id/cancel", h.Cancel)
	api.POST("/admissions/:id/discharge", h.Discharge)
}

func (h *Handler) CreateReservation(c echo.Context) error {
	var in CreateReservationInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.CreateReservation(c.Request().Context(), &in)
	if err != nil {
		var bue *BedUnavailableError
		switch {
		case errors.Is(err, ErrPatientNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrDuplicateLive):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.As(err, &bue):
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"error":      bue.Error(),
				"bed_status": bue.Status,
			})
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAdmission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetAdmission(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "admission not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAdmissions(c echo.Context) error {
	pg := pagination.FromContext(c)
	if patientID := c.QueryParam("patient_id"); patientID != "" {
		pid, err := uuid.Parse(patientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err := h.svc.ListAdmissionsByPatient(c.Request().Context(), pid, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	items, total, err := h.svc.ListAdmissions(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Confirm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Confirm(c.Request().Context(), id)
	if err != nil {
		var due *DepositUnpaidError
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "admission not found")
		case errors.Is(err, ErrInvalidState):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.As(err, &due):
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"error":     due.Error(),
				"remaining": due.Remaining,
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Cancel(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "admission not found")
		case errors.Is(err, ErrInvalidState):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

type dischargeRequest struct {
	Notes   string `json:"notes"`
	Outcome string `json:"outcome"`
}

func (h *Handler) Discharge(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req dischargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Discharge(c.Request().Context(), id, req.Notes, req.Outcome)
	if err != nil {
		var obe *OutstandingBalanceError
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "admission not found")
		case errors.Is(err, ErrInvalidState):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.As(err, &obe):
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"error":   obe.Error(),
				"balance": obe.Amount,
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}
