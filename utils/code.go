package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// GenerateTableCode returns a 4-digit table access code, "0000".."9999",
// leading zeros significant. Collisions across tables are fine: a code is
// only ever checked against the one table it was issued to.
func GenerateTableCode() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

// GenerateSessionID mints an opaque session id. Access is already gated by
// the table code, so time prefix + random suffix is enough.
func GenerateSessionID() string {
	return fmt.Sprintf("sess-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
