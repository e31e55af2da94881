// controllers/calendar_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/sunghoonkim81/sul-calendar-web/models"
	"github.com/sunghoonkim81/sul-calendar-web/services"

	"github.com/gin-gonic/gin"
)

type CalendarController struct {
	Records  *services.RecordService
	Calendar *services.CalendarService
	RT       *services.UpdateHub
}

func NewCalendarController(records *services.RecordService, calendar *services.CalendarService, rt *services.UpdateHub) *CalendarController {
	return &CalendarController{Records: records, Calendar: calendar, RT: rt}
}

// GetMonth serves /api/month?user=&year=&month= — the stored records of the
// month plus streaks, monthly totals, and rankings.
func (h *CalendarController) GetMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}

	view, err := h.Calendar.MonthView(c.Request.Context(), c.Query("user"), year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type updateRequest struct {
	User    string `json:"user"`
	Date    string `json:"date"`
	Coffee  *bool  `json:"coffee"`
	Alcohol *bool  `json:"alcohol"`

	Soju      *int `json:"soju"`
	Beer      *int `json:"beer"`
	Whisky    *int `json:"whisky"`
	Wine      *int `json:"wine"`
	Makgeolli *int `json:"makgeolli"`
}

func (r *updateRequest) patch() services.DayPatch {
	p := services.DayPatch{Coffee: r.Coffee, Alcohol: r.Alcohol, Amounts: map[string]int{}}
	for kind, v := range map[string]*int{
		models.KindSoju:      r.Soju,
		models.KindBeer:      r.Beer,
		models.KindWhisky:    r.Whisky,
		models.KindWine:      r.Wine,
		models.KindMakgeolli: r.Makgeolli,
	} {
		if v != nil {
			p.Amounts[kind] = *v
		}
	}
	return p
}

// UpdateDay applies a day observation, persists it, and notifies watchers.
func (h *CalendarController) UpdateDay(c *gin.Context) {
	var body updateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	day, removed, err := h.Records.ApplyUpdate(c.Request.Context(), body.User, body.Date, body.patch())
	if err != nil {
		writeError(c, err)
		return
	}

	user := services.NormalizeUser(body.User)
	if h.RT != nil {
		h.RT.BroadcastUpdate(services.DayUpdate{
			Kind:    "day.updated",
			User:    user,
			Date:    body.Date,
			Removed: removed,
			Day:     day,
		})
	}

	resp := gin.H{"ok": true, "removed": removed}
	if day != nil {
		resp["day"] = day
	}
	c.JSON(http.StatusOK, resp)
}

func writeError(c *gin.Context, err error) {
	switch {
	case services.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case services.IsStorageUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
