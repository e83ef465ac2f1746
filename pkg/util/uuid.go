package util

import (
	"crypto/md5"
	"encoding/json"

	"github.com/google/uuid"
)

// HashUUID derives a stable UUID from the JSON form of value, so the same
// rule set over the same files always gets the same report ID
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	hash := md5.Sum(raw)
	id, err := uuid.FromBytes(hash[:])
	if err != nil {
		return ""
	}
	return id.String()
}
