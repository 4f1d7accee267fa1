// Package api exposes the attendance store to HR clients over HTTP. This is
// the collaborator surface: it mints fully-formed punch records, applies the
// advisory workday gates, and reads aggregates back out of the store.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hronline/attendance-store/internal/attendance"
	"github.com/hronline/attendance-store/pkg/prefs"
	"github.com/hronline/attendance-store/pkg/schema"
	"github.com/hronline/attendance-store/pkg/sdk"
)

type Handler struct {
	Prefs prefs.Store
	// Now is the clock used when minting punch records. Defaults to time.Now.
	Now func() time.Time

	mu     sync.Mutex
	stores map[string]*attendance.Store
}

func NewHandler(store prefs.Store) *Handler {
	return &Handler{
		Prefs:  store,
		Now:    time.Now,
		stores: make(map[string]*attendance.Store),
	}
}

// store returns the employee's attendance store, creating it on first use.
// Stores are cached so Append's mutex actually serializes writers on the
// employee's single backing key.
func (h *Handler) store(employee string) *attendance.Store {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.stores[employee]
	if !ok {
		st = attendance.NewStore(h.Prefs.Scope(employee, attendance.PrefsNamespace))
		st.SetClock(func() time.Time { return h.Now() })
		h.stores[employee] = st
	}
	return st
}

// Routes mounts all handlers under the given group.
func (h *Handler) Routes(g *gin.RouterGroup) {
	g.GET("/employees", h.ListEmployees)
	g.POST("/employees/:employee/punch", h.Punch)
	g.POST("/employees/:employee/records", h.AppendRecord)
	g.GET("/employees/:employee/history", h.History)
	g.GET("/employees/:employee/today", h.Today)
	g.GET("/employees/:employee/status", h.Status)
	g.GET("/employees/:employee/months/:year/:month", h.MonthView)
	g.GET("/employees/:employee/profile", h.GetProfile)
	g.PUT("/employees/:employee/profile", h.PutProfile)
}

func (h *Handler) ListEmployees(c *gin.Context) {
	owners, err := h.Prefs.Owners()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, owners)
}

type punchRequest struct {
	Type         string `json:"type" binding:"required"`
	Location     string `json:"location"`
	FaceVerified *bool  `json:"face_verified"`
}

// Punch mints a record at the server clock and appends it. A check-out is
// refused while today has no open check-in; the workday window itself is
// advisory and never blocks.
func (h *Handler) Punch(c *gin.Context) {
	var req punchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	typ, ok := attendance.ParseType(req.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be CHECK_IN or CHECK_OUT"})
		return
	}

	st := h.store(c.Param("employee"))
	if typ == attendance.TypeCheckOut && !st.CanCheckOut() {
		c.JSON(http.StatusConflict, gin.H{"error": "no open check-in for today"})
		return
	}

	now := h.Now()
	record := attendance.Record{
		ID:           uuid.NewString(),
		Type:         typ,
		Date:         st.Cal.FormatDate(now),
		Time:         st.Cal.FormatTime(now),
		Location:     req.Location,
		Timestamp:    now.UnixMilli(),
		FaceVerified: req.FaceVerified == nil || *req.FaceVerified,
	}
	if err := st.Append(record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	clock := attendance.ClockOf(now)
	resp := gin.H{"status": "success", "record": record}
	switch typ {
	case attendance.TypeCheckIn:
		resp["late"] = st.Policy.IsLate(clock)
	case attendance.TypeCheckOut:
		resp["early_leave"] = st.Policy.IsEarlyLeave(clock)
	}
	c.JSON(http.StatusOK, resp)
}

// AppendRecord accepts a fully-formed record from a client that has already
// resolved date, time, and location itself.
func (h *Handler) AppendRecord(c *gin.Context) {
	var record attendance.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if record.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}
	if _, ok := attendance.ParseType(string(record.Type)); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be CHECK_IN or CHECK_OUT"})
		return
	}

	if err := h.store(c.Param("employee")).Append(record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) History(c *gin.Context) {
	c.JSON(http.StatusOK, h.store(c.Param("employee")).History())
}

func (h *Handler) Today(c *gin.Context) {
	c.JSON(http.StatusOK, h.store(c.Param("employee")).Today())
}

// Status reports the pieces the punch screen needs: whether check-out is
// open and the most recent check-in.
func (h *Handler) Status(c *gin.Context) {
	st := h.store(c.Param("employee"))
	resp := gin.H{"can_check_out": st.CanCheckOut()}
	if last, ok := st.LastCheckIn(); ok {
		resp["last_check_in"] = last
	}
	c.JSON(http.StatusOK, resp)
}

type monthDay struct {
	Date     string             `json:"date"`
	Weekend  bool               `json:"weekend"`
	CheckIn  *attendance.Record `json:"check_in,omitempty"`
	CheckOut *attendance.Record `json:"check_out,omitempty"`
}

// MonthView returns one month's records, the per-day pairs newest first with
// weekend tagging, and the summary counters.
func (h *Handler) MonthView(c *gin.Context) {
	var params struct {
		Year  int `uri:"year" binding:"required"`
		Month int `uri:"month" binding:"required,min=1,max=12"`
	}
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := h.store(c.Param("employee"))
	records := st.ByMonth(params.Month, params.Year)
	grouped := attendance.GroupByDate(records)

	days := make([]monthDay, 0, len(grouped))
	for _, date := range attendance.SortedDates(st.Cal, grouped) {
		pair := grouped[date]
		days = append(days, monthDay{
			Date:     date,
			Weekend:  st.Cal.IsWeekend(date),
			CheckIn:  pair.CheckIn,
			CheckOut: pair.CheckOut,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"days":    days,
		"summary": st.Policy.Summarize(grouped),
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := sdk.GetJSON[schema.EmployeeProfile](
		h.Prefs, c.Param("employee"), schema.ProfileNamespace, schema.ProfileKey)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) PutProfile(c *gin.Context) {
	var profile schema.EmployeeProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := sdk.PutJSON(h.Prefs, c.Param("employee"), schema.ProfileNamespace, schema.ProfileKey, profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
