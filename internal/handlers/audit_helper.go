package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/psi-scheduler/internal/audit"
)

// originOf captures where a request came from for the audit trail.
func originOf(c *gin.Context) audit.Origin {
	return audit.Origin{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func dispatchAudit(d *audit.Dispatcher, c *gin.Context, userID uint, action, entity string, entityID uint) {
	d.Dispatch(originOf(c).Event(userID, action, entity, entityID))
}
