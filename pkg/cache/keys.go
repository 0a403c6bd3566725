package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

const (
	ServiceListPrefix    = "services:list:"
	ServiceListPattern   = ServiceListPrefix + "*"
	serviceDetailKey     = "services:detail:%s"
	ServiceDetailPattern = "services:detail:*"
	failedLoginKey       = "login_failed:%s"
)

// ServiceListKey derives the catalog cache key from the normalised filter.
func ServiceListKey(category, search string, page, limit int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%d|%d", category, search, page, limit)))
	return ServiceListPrefix + hex.EncodeToString(sum[:])
}

func ServiceDetailKey(serviceID string) string {
	return fmt.Sprintf(serviceDetailKey, serviceID)
}

func FailedLoginKey(email string) string {
	return fmt.Sprintf(failedLoginKey, email)
}
