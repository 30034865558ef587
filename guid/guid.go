package guid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hudsonventura/SnowflakeGuid/snowflake"
)

var ErrBadGUID = errors.New("guid: value is not a guid shaped container")

// Pack widens an identifier into the 16 byte container, epoch first so the
// value is self describing.
func Pack(ident snowflake.Identifier) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[0:8], uint64(ident.Epoch().UnixMilli()))
	binary.BigEndian.PutUint64(u[8:16], ident.ID())
	return u
}

// Unpack reconstructs the identifier, epoch included. Every container value
// decodes, Unpack never fails.
func Unpack(u uuid.UUID) snowflake.Identifier {
	epochMS := int64(binary.BigEndian.Uint64(u[0:8]))
	id := binary.BigEndian.Uint64(u[8:16])
	return snowflake.FromID(id, time.UnixMilli(epochMS).UTC())
}

// Format returns the canonical 36 character dashed hex form of the packed
// container.
func Format(ident snowflake.Identifier) string {
	return Pack(ident).String()
}

// Parse accepts the usual GUID string variants (dashed, bare hex, braced,
// urn prefixed) and reconstructs the identifier. Anything else wraps
// ErrBadGUID.
func Parse(s string) (snowflake.Identifier, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return snowflake.Identifier{}, fmt.Errorf("%v: %w", err, ErrBadGUID)
	}
	return Unpack(u), nil
}
