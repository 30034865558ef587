package snowflake

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

var ErrBadRecord = errors.New("snowflake: record carries neither a code nor an id")

// Record is the structured external form of an Identifier. The id is a
// decimal string rather than a JSON number so consumers with 53 bit number
// precision cannot corrupt it. Times are RFC 3339.
type Record struct {
	Code            string    `json:"code"`
	ID              string    `json:"id"`
	TimestampOffset uint64    `json:"timestampOffset"`
	MachineID       uint64    `json:"machineId"`
	Sequence        uint64    `json:"sequence"`
	UTCDateTime     time.Time `json:"utcDateTime"`
	Epoch           time.Time `json:"epoch"`
}

// Record returns the fully populated external form.
func (i Identifier) Record() Record {
	timestampOffset, machineID, sequence := Unpack(i.id)
	return Record{
		Code:            i.Code(),
		ID:              strconv.FormatUint(i.id, 10),
		TimestampOffset: timestampOffset,
		MachineID:       machineID,
		Sequence:        sequence,
		UTCDateTime:     i.UTC(),
		Epoch:           i.epoch,
	}
}

// Identifier rebuilds the value from a decoded record. Only the code (or the
// id) and the epoch are read, the derived fields are recomputed rather than
// trusted. A missing epoch means UnixEpoch.
func (r Record) Identifier() (Identifier, error) {
	switch {
	case r.Code != "":
		return FromCode(r.Code, r.Epoch)
	case r.ID != "":
		return FromCode(r.ID, r.Epoch)
	default:
		return Identifier{}, ErrBadRecord
	}
}

func (i Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Record())
}

func (i *Identifier) UnmarshalJSON(data []byte) error {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	ident, err := r.Identifier()
	if err != nil {
		return err
	}
	*i = ident
	return nil
}
