package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

// NewOrderNumber returns ORD-<year>-<6 upper-case alphanumerics>.
func NewOrderNumber(now time.Time) string {
	// rand.Text is base32: A-Z and 2-7
	return fmt.Sprintf("ORD-%d-%s", now.Year(), rand.Text()[:6])
}
