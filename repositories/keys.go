package repositories

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Keyspace layout. Every record is a JSON document; keys carry the
// structure that a relational schema would otherwise provide:
//
//	conv:{id}                      conversation record
//	member:{convID}:{userID}       membership record (unique per pair)
//	userconv:{userID}:{convID}     membership index for per-user listing
//	direct:{lo}:{hi}               direct-pair index -> conversation id
//	msg:{convID}:{ts19}:{uuid}     message record, chronologically sorted
//	msgid:{uuid}                   message id -> ordered message key
//
// The member key makes duplicate joins naturally safe, and the direct
// index guarantees exactly-once creation of the conversation between two
// users. The 19-digit zero-padded timestamp keeps lexicographical order
// aligned with chronological order; the UUID suffix disambiguates two
// messages stored in the same nanosecond.
const (
	convPrefix     = "conv:"
	memberPrefix   = "member:"
	userConvPrefix = "userconv:"
	directPrefix   = "direct:"
	msgPrefix      = "msg:"
	msgIDPrefix    = "msgid:"
)

func convKey(id string) []byte {
	return []byte(convPrefix + id)
}

func memberKey(convID, userID string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", memberPrefix, convID, userID))
}

func userConvKey(userID, convID string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", userConvPrefix, userID, convID))
}

// directKey orders the pair so both (a,b) and (b,a) resolve to one key.
func directKey(a, b string) []byte {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return []byte(fmt.Sprintf("%s%s:%s", directPrefix, lo, hi))
}

func msgKey(convID string, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", msgPrefix, convID, at.UnixNano(), id))
}

func msgIDKey(id uuid.UUID) []byte {
	return []byte(msgIDPrefix + id.String())
}

// lastSegment extracts the trailing segment of a composite key.
func lastSegment(key []byte) string {
	s := string(key)
	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}
