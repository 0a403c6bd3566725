package model

import "time"

const (
	BcryptCost = 12

	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxNameLength     = 100
)

// Login lockout
const (
	MaxFailedAttempts = 5
	AttemptWindow     = 15 * time.Minute
)
