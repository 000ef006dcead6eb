// File: utils/constants.go
package utils

import "time"

// Gin context keys set by the auth middlewares.
const (
	ContextUserID  = "uid"
	ContextEmail   = "email"
	ContextIsAdmin = "isAdmin"
)

// AdminRole is the role claim required on admin tokens.
const AdminRole = "admin"

// AdminTokenTTL is the lifetime of issued admin tokens.
const AdminTokenTTL = 12 * time.Hour
