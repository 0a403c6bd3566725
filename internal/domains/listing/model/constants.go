package model

import "time"

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100

	MaxImages      = 5
	MaxTitleLength = 200

	CatalogCacheTTL = 5 * time.Minute
)
