package snowflake

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// TimestampBits is the width of the timestamp offset field. The offset
	// counts milliseconds from the epoch the id was issued against, so this
	// setting fixes the addressable span of a single epoch at ~139 years.
	TimestampBits = 42

	// MachineIDBits is the width of the issuing machine number.
	MachineIDBits = 10

	// SequenceBits is the width of the per millisecond sequence counter.
	SequenceBits = 12

	TimestampShift = MachineIDBits + SequenceBits
	MachineIDShift = SequenceBits

	MaxTimestampOffset uint64 = (1 << TimestampBits) - 1
	MaxMachineID       uint64 = (1 << MachineIDBits) - 1
	MaxSequence        uint64 = (1 << SequenceBits) - 1

	TimestampMask uint64 = MaxTimestampOffset << TimestampShift
	MachineIDMask uint64 = MaxMachineID << MachineIDShift
	SequenceMask  uint64 = MaxSequence

	// CodeWidth is the digit count of the maximum unsigned 64 bit value. All
	// codes are zero padded to exactly this many characters so that the
	// lexicographic order of codes matches the numeric order of ids.
	CodeWidth = 20
)

var (
	ErrRange   = errors.New("snowflake: field value out of range")
	ErrBadCode = errors.New("snowflake: code is not an unsigned 64 bit decimal")
)

// Pack assembles the three id fields into a single 64 bit value. Each field
// is validated against its bit width first, a violation reports the offending
// field and wraps ErrRange. The assembly itself masks each field to its width
// before shifting and so cannot overflow.
func Pack(timestampOffset, machineID, sequence uint64) (uint64, error) {
	if timestampOffset > MaxTimestampOffset {
		return 0, fmt.Errorf("timestampOffset %d exceeds %d: %w", timestampOffset, MaxTimestampOffset, ErrRange)
	}
	if machineID > MaxMachineID {
		return 0, fmt.Errorf("machineId %d exceeds %d: %w", machineID, MaxMachineID, ErrRange)
	}
	if sequence > MaxSequence {
		return 0, fmt.Errorf("sequence %d exceeds %d: %w", sequence, MaxSequence, ErrRange)
	}

	return (timestampOffset&MaxTimestampOffset)<<TimestampShift |
		(machineID&MaxMachineID)<<MachineIDShift |
		(sequence & MaxSequence), nil
}

// Unpack splits an id into its three fields. The fields occupy disjoint bit
// ranges so any 64 bit input is structurally valid and Unpack never fails.
func Unpack(id uint64) (timestampOffset, machineID, sequence uint64) {
	timestampOffset = (id & TimestampMask) >> TimestampShift
	machineID = (id & MachineIDMask) >> MachineIDShift
	sequence = id & SequenceMask
	return timestampOffset, machineID, sequence
}

// FormatCode returns the decimal string of id, left padded with '0' to
// CodeWidth characters.
func FormatCode(id uint64) string {
	return fmt.Sprintf("%020d", id)
}

// ParseCode parses a code back to its id. The zero padding is cosmetic and is
// accepted whether present or not. Anything that is not an unsigned 64 bit
// decimal wraps ErrBadCode.
func ParseCode(code string) (uint64, error) {
	id, err := strconv.ParseUint(code, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", err, ErrBadCode)
	}
	return id, nil
}
