package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/timezone"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

// --------------------------------------------------
// Path and query parsing
// --------------------------------------------------

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// skipLimit reads ?skip&limit, clamping limit to [1, max].
func skipLimit(c *gin.Context, def, max int) (int, int) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if skip < 0 {
		skip = 0
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if limit <= 0 || limit > max {
		limit = def
	}
	return skip, limit
}

// optionalDate returns the query value when it is empty or a valid
// YYYY-MM-DD; anything else is answered with 400.
func optionalDate(c *gin.Context, name string) (string, bool) {
	v := c.Query(name)
	if v != "" && !validators.IsDate(v) {
		httperr.BadRequest(c, "invalid_date", name+" must be YYYY-MM-DD.")
		return "", false
	}
	return v, true
}

// --------------------------------------------------
// Practice clock
// --------------------------------------------------

type clock struct {
	tz  string
	now func() time.Time
}

func newClock(tz string) clock {
	return clock{tz: tz, now: time.Now}
}

func (k clock) Now() time.Time {
	return k.now().In(timezone.Location(k.tz))
}

func (k clock) Today() string {
	return k.Now().Format(timezone.DateLayout)
}

func (k clock) MonthStart() string {
	return timezone.FirstOfMonth(k.Now())
}
