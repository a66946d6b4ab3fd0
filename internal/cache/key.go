package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Key derives the stable, opaque cache key for a set of corpus items under a
// topic. Item order does not matter: IDs are sorted before hashing so the
// prefetch pipeline and the foreground path always agree on the key.
func Key(itemIDs []uuid.UUID, topic string) string {
	ids := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)

	sum := sha256.Sum256([]byte(topic + "\x00" + strings.Join(ids, "\x00")))
	return hex.EncodeToString(sum[:16])
}

// ItemKey derives the cache key for a single corpus item under a topic.
func ItemKey(itemID uuid.UUID, topic string) string {
	return Key([]uuid.UUID{itemID}, topic)
}
