package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hospital-appointment-api/internal/middleware"
	"hospital-appointment-api/internal/model"
	"hospital-appointment-api/internal/store"
)

type bookRequest struct {
	Department string `json:"department"`
	Doctor     string `json:"doctor"`
	Date       string `json:"appointment_date"`
	Time       string `json:"appointment_time"`
}

// accepted formats for the free-text time label
var timeLayouts = []string{"3:04 PM", "15:04"}

// parseStartAt normalizes the (date, time label) pair into a single instant
// used for ordering. The label itself is stored as entered.
func parseStartAt(date, label string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(label)); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errors.New("unrecognized time label")
}

func appointmentJSON(a *model.Appointment) gin.H {
	return gin.H{
		"id":               a.ID,
		"department":       a.Department,
		"doctor":           a.Doctor,
		"appointment_date": a.Date,
		"appointment_time": a.TimeLabel,
		"created_at":       a.CreatedAt,
	}
}

func (h *Handler) bookAppointment(c *gin.Context) {
	userID := middleware.CurrentUser(c).ID

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Department = strings.TrimSpace(req.Department)
	req.Doctor = strings.TrimSpace(req.Doctor)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)

	if req.Department == "" || req.Doctor == "" || req.Date == "" || req.Time == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	startAt, err := parseStartAt(req.Date, req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment date or time"})
		return
	}

	apt := &model.Appointment{
		ID:         uuid.New().String(),
		UserID:     userID,
		Department: req.Department,
		Doctor:     req.Doctor,
		Date:       req.Date,
		TimeLabel:  req.Time,
		StartAt:    startAt,
	}

	if err := h.store.CreateAppointment(c.Request.Context(), apt); err != nil {
		h.log.WithError(err).Error("create appointment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Appointment booked successfully",
		"appointmentId": apt.ID,
		"appointment":   appointmentJSON(apt),
	})
}

func (h *Handler) listAppointments(c *gin.Context) {
	userID := middleware.CurrentUser(c).ID

	apts, err := h.store.ListAppointments(c.Request.Context(), userID)
	if err != nil {
		h.log.WithError(err).Error("list appointments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	// empty list is a 200 with [], not an error
	out := make([]gin.H, len(apts))
	for i := range apts {
		out[i] = appointmentJSON(&apts[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) cancelAppointment(c *gin.Context) {
	userID := middleware.CurrentUser(c).ID
	id := c.Param("id")

	err := h.store.DeleteAppointment(c.Request.Context(), id, userID)
	if errors.Is(err, store.ErrNotFound) {
		// also the answer when the row belongs to someone else
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("cancel appointment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment canceled successfully"})
}
