package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// RecordUUID identifies the live record for one (page, key, locale) tuple.
// Upserts converge on the same ID across processes and restarts.
func RecordUUID(pageName, contentKey, localeCode string) uuid.UUID {
	return UUID("go-editkit:content_record:" +
		strings.TrimSpace(pageName) + ":" +
		strings.TrimSpace(contentKey) + ":" +
		strings.ToLower(strings.TrimSpace(localeCode)))
}

// HistoryUUID identifies the history entry for one version of a record.
func HistoryUUID(contentID uuid.UUID, version int) uuid.UUID {
	return UUID("go-editkit:content_history:" + contentID.String() + ":" + strconv.Itoa(version))
}

// SlotUUID identifies a registered editable slot.
func SlotUUID(pageName, contentKey string) uuid.UUID {
	return UUID("go-editkit:slot:" + strings.TrimSpace(pageName) + ":" + strings.TrimSpace(contentKey))
}
