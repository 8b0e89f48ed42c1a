package usercontext

// Shared Locals keys used across controllers and middlewares
const (
	KeyUserContext   = "USER_CONTEXT"
	KeySubject       = "subject"
	KeyFromProtected = "from_protected"
)
