package guid

import (
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/hudsonventura/SnowflakeGuid/snowflake"
)

func TestPackLayout(t *testing.T) {
	// check the expected byte positions given the big endian encoding
	ident := snowflake.FromID(1, time.UnixMilli(1))
	u := Pack(ident)
	assert.DeepEqual(t, u[:], []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1})

	// a pre 1970 epoch serializes as two's complement
	ident = snowflake.FromID(1, time.UnixMilli(-1))
	u = Pack(ident)
	assert.DeepEqual(t, u[:8], []byte{255, 255, 255, 255, 255, 255, 255, 255})
}

func TestPackUnpackRoundTrip(t *testing.T) {
	epochs := []time.Time{
		snowflake.UnixEpoch,
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC),
	}
	for _, epoch := range epochs {
		ident, err := snowflake.NewIdentifier(epoch, 123456, 77, 42)
		assert.NilError(t, err)

		got := Unpack(Pack(ident))
		assert.Assert(t, ident.Equal(got))
		assert.Equal(t, ident.Code(), got.Code())
		assert.Assert(t, ident.UTC().Equal(got.UTC()))
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	ident, err := snowflake.NewIdentifier(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 5000, 123, 7)
	assert.NilError(t, err)

	s := Format(ident)
	assert.Equal(t, len(s), 36)

	got, err := Parse(s)
	assert.NilError(t, err)
	assert.Assert(t, ident.Equal(got))

	// the undashed hex form is accepted too
	got, err = Parse(strings.ReplaceAll(s, "-", ""))
	assert.NilError(t, err)
	assert.Assert(t, ident.Equal(got))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("not a guid")
	assert.ErrorIs(t, err, ErrBadGUID)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrBadGUID)

	_, err = Parse("00000000000000000001") // a snowflake code is not a guid
	assert.ErrorIs(t, err, ErrBadGUID)
}

func TestStringOrderMatchesIDOrder(t *testing.T) {
	epoch := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	earlier, err := snowflake.NewIdentifier(epoch, 1000, 5, 0)
	assert.NilError(t, err)
	later, err := snowflake.NewIdentifier(epoch, 1000, 5, 1)
	assert.NilError(t, err)

	assert.Assert(t, Format(earlier) < Format(later))
}
