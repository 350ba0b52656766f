package tenant

import (
	"github.com/labstack/echo/v4"
)

// contextKey is the echo context key the tenant context is stored under.
const contextKey = "tenant_context"

// Context is the request-scoped tenant identity, created once per request
// after successful resolution and validation. One per in-flight request,
// never shared.
type Context struct {
	WorkspaceID   string
	WorkspaceSlug string
	UserID        string
	UserRole      string
}

// SetContext attaches the tenant context to the request.
func SetContext(c echo.Context, tc *Context) {
	c.Set(contextKey, tc)
}

// FromEcho retrieves the tenant context from the request, or nil when the
// request never passed tenant validation.
func FromEcho(c echo.Context) *Context {
	tc, ok := c.Get(contextKey).(*Context)
	if !ok {
		return nil
	}
	return tc
}
