package media

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// idTokenLen bounds the random suffix, matching the historical
// `<type>_<millis>_<token>` shape of record ids.
const idTokenLen = 9

var timeNow = time.Now

// NewID generates a record id of the form
// `<categoryToken>_<unixMillis>_<token>`. Uniqueness relies on the
// millisecond timestamp plus a random suffix; collisions are treated as
// negligible, not cryptographically impossible.
func NewID(c Category) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:idTokenLen]
	return fmt.Sprintf("%s_%d_%s", c.Token(), timeNow().UnixMilli(), token)
}
