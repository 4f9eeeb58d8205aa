package middleware

import (
	"regexp"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// SessionHeader carries the workspace id between client and server
const SessionHeader = "X-Session-ID"

// SessionLocal is the fiber Locals key holding the resolved session id
const SessionLocal = "sessionID"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Session resolves the caller's workspace id from the header or the
// "session" query parameter, generating one when absent or malformed.
// The id is echoed back in the response header. It outlives the request as
// a workspace key, so it is copied out of the request buffer.
func Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(SessionHeader)
		if id == "" {
			id = c.Query("session")
		}
		if sessionIDPattern.MatchString(id) {
			id = utils.CopyString(id)
		} else {
			id = uuid.New().String()
		}

		c.Locals(SessionLocal, id)
		c.Set(SessionHeader, id)

		return c.Next()
	}
}

// SessionID returns the id resolved by Session
func SessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(SessionLocal).(string); ok {
		return id
	}
	return ""
}
