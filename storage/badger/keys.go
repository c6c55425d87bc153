package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/launchpad/core"
)

// Key prefixes for different data types
const (
	usagePrefix         = "usage:"
	selectionDatePrefix = "seldate:"
)

// makeUsageKey generates a key for the usage record of an application key.
func makeUsageKey(key string) []byte {
	buf := make([]byte, 0, len(usagePrefix)+len(key))
	buf = append(buf, usagePrefix...)
	return append(buf, key...)
}

// usageKeyName strips the prefix from a usage key.
func usageKeyName(key []byte) string {
	return string(key[len(usagePrefix):])
}

// makeSelectionKey generates a composite key ordered by selection time.
// Format: prefix:timestamp:id
func makeSelectionKey(timestamp time.Time, id core.ID) []byte {
	prefixBytes := []byte(selectionDatePrefix)
	buf := make([]byte, len(prefixBytes)+16) // 8 bytes for timestamp + 8 bytes for ID
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeSelectionSeekKey returns a key sorting after every selection key.
func makeSelectionSeekKey() []byte {
	buf := []byte(selectionDatePrefix)
	for range 16 {
		buf = append(buf, 0xff)
	}
	return buf
}
