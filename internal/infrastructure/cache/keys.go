package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	extractionPrefix = "skills:extract:"
	AlertCycleLock   = "dispatch:alerts:lock"
	DigestCycleLock  = "dispatch:digests:lock"
)

// ExtractionKey addresses the cached skill set of a text by registry
// fingerprint and content hash, so a reloaded registry never reads sets
// extracted against another one.
func ExtractionKey(registry, text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return extractionPrefix + registry + ":" + hex.EncodeToString(sum[:])
}

// AlertLockKey scopes a send lock to one alert and one due cycle, so a
// second worker reaching the same cycle skips it while the next cycle
// gets a fresh key.
func AlertLockKey(alertID uuid.UUID, lastSentAt *time.Time) string {
	cycle := "never"
	if lastSentAt != nil && !lastSentAt.IsZero() {
		cycle = lastSentAt.UTC().Format(time.RFC3339)
	}
	return "dispatch:alert:" + alertID.String() + ":" + cycle
}
