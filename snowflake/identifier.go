package snowflake

import (
	"errors"
	"fmt"
	"time"
)

// UnixEpoch is the reference epoch used when a caller does not supply one,
// 1970-01-01T00:00:00Z. Offsets measured from it remain in range until ~2109.
var UnixEpoch = time.UnixMilli(0).UTC()

var ErrEpochMismatch = errors.New("snowflake: identifiers built under different epochs have no defined order")

// Identifier is an issued or parsed snowflake id together with the epoch its
// timestamp offset is measured from. The epoch is not encoded in the 64 bits,
// it is carried alongside as out of band context. Identifiers are immutable
// values, the epoch operations return new ones.
type Identifier struct {
	id    uint64
	epoch time.Time
}

// NewIdentifier builds an Identifier from its three fields. Each field is
// range checked, a violation wraps ErrRange and names the field.
func NewIdentifier(epoch time.Time, timestampOffset, machineID, sequence uint64) (Identifier, error) {
	id, err := Pack(timestampOffset, machineID, sequence)
	if err != nil {
		return Identifier{}, err
	}
	return Identifier{id: id, epoch: epochMilliUTC(epoch)}, nil
}

// FromID interprets an existing 64 bit id against the given epoch. Any id is
// structurally valid so FromID never fails. Pass the zero time (or UnixEpoch)
// when the id was issued without an explicit epoch.
func FromID(id uint64, epoch time.Time) Identifier {
	return Identifier{id: id, epoch: epochMilliUTC(epoch)}
}

// FromCode parses a 20 digit code (padding optional) against the given epoch.
func FromCode(code string, epoch time.Time) (Identifier, error) {
	id, err := ParseCode(code)
	if err != nil {
		return Identifier{}, err
	}
	return FromID(id, epoch), nil
}

// ID returns the 64 bit packed value.
func (i Identifier) ID() uint64 { return i.id }

// Code returns the fixed width decimal form of the id.
func (i Identifier) Code() string { return FormatCode(i.id) }

// TimestampOffset returns the encoded milliseconds elapsed from the epoch.
func (i Identifier) TimestampOffset() uint64 {
	ts, _, _ := Unpack(i.id)
	return ts
}

// MachineID returns the number of the issuing machine.
func (i Identifier) MachineID() uint64 {
	_, machineID, _ := Unpack(i.id)
	return machineID
}

// Sequence returns the per millisecond sequence counter value.
func (i Identifier) Sequence() uint64 {
	_, _, seq := Unpack(i.id)
	return seq
}

// Epoch returns the reference epoch the offset is measured from, in UTC.
func (i Identifier) Epoch() time.Time { return i.epoch }

// UTC returns the wall clock instant the identifier represents, which is the
// epoch plus the encoded millisecond offset.
func (i Identifier) UTC() time.Time {
	return i.epoch.Add(time.Duration(i.TimestampOffset()) * time.Millisecond)
}

func (i Identifier) String() string { return i.Code() }

// Equal reports whether both the id and the epoch instant match. The same 64
// bits interpreted against two different epochs represent two different wall
// clock instants and therefore do not compare equal.
func (i Identifier) Equal(other Identifier) bool {
	return i.id == other.id && i.epoch.Equal(other.epoch)
}

// Compare orders two identifiers sharing an epoch, returning -1, 0 or 1 as i
// is before, equal to or after other. Identifiers built under different
// epochs have no well defined total order, comparing them wraps
// ErrEpochMismatch. Use Equal for the error free equality check.
func (i Identifier) Compare(other Identifier) (int, error) {
	if !i.epoch.Equal(other.epoch) {
		return 0, fmt.Errorf("%s vs %s: %w",
			i.epoch.Format(time.RFC3339), other.epoch.Format(time.RFC3339), ErrEpochMismatch)
	}
	switch {
	case i.id < other.id:
		return -1, nil
	case i.id > other.id:
		return 1, nil
	default:
		return 0, nil
	}
}

// ChangeEpoch reinterprets the same 64 bits against a different epoch. The
// encoded offset, and so the id and code, are unchanged but the represented
// instant shifts by the difference between the epochs. Never fails.
func (i Identifier) ChangeEpoch(newEpoch time.Time) Identifier {
	return Identifier{id: i.id, epoch: epochMilliUTC(newEpoch)}
}

// RebaseEpoch is the inverse of ChangeEpoch. The represented instant is kept
// fixed and the offset, and so the id and code, are recomputed against the
// new epoch. Fails with ErrRange when the instant falls outside the new
// epoch's addressable span.
func (i Identifier) RebaseEpoch(newEpoch time.Time) (Identifier, error) {
	epoch := epochMilliUTC(newEpoch)
	offset := i.UTC().Sub(epoch).Milliseconds()
	if offset < 0 {
		return Identifier{}, fmt.Errorf(
			"epoch %s is after the represented instant %s: %w",
			epoch.Format(time.RFC3339), i.UTC().Format(time.RFC3339), ErrRange)
	}
	_, machineID, sequence := Unpack(i.id)
	id, err := Pack(uint64(offset), machineID, sequence)
	if err != nil {
		return Identifier{}, err
	}
	return Identifier{id: id, epoch: epoch}, nil
}

// epochMilliUTC normalizes a caller supplied epoch to the representation used
// throughout: millisecond precision, UTC, no monotonic reading. The zero time
// means "no explicit epoch" and maps to UnixEpoch.
func epochMilliUTC(epoch time.Time) time.Time {
	if epoch.IsZero() {
		return UnixEpoch
	}
	return epoch.Truncate(time.Millisecond).UTC()
}
