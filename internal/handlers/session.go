package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/currilab/curricula-backend/internal/services"
)

// SessionHeader carries the planning session id. Clients that omit it
// get a fresh session; the id is echoed back on every response.
const SessionHeader = "X-Session-ID"

func sessionID(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	return c.Query("session_id")
}

// bindSession resolves (or creates) the request's session and echoes
// its id on the response.
func bindSession(c *gin.Context, store *services.SessionStore) *services.PlanSession {
	s := store.GetOrCreate(sessionID(c))
	c.Header(SessionHeader, s.ID)
	return s
}
