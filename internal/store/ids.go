package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync/atomic"
)

// TempIDPrefix marks entities created optimistically and not yet confirmed by
// the server. A temp id must never reach the remote client as a real entity
// id; it lives only until the create call resolves.
const TempIDPrefix = "tmp-"

var tempIDSeq atomic.Uint64

// NewTempID returns tmp-<kind>-<suffix>. The suffix is 8 base32 chars of
// crypto randomness (unique within a session for any realistic volume), with
// a sequential fallback if the random source fails.
func NewTempID(kind string) string {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%s%s-%d", TempIDPrefix, kind, tempIDSeq.Add(1))
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return TempIDPrefix + kind + "-" + suffix
}

// IsTempID reports whether id is a client-generated placeholder.
func IsTempID(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), TempIDPrefix)
}
