package guid

/*

# GUID shaped container for snowflake identifiers

A snowflake id alone does not say which epoch its offset is measured from.
When an identifier leaves the process that context has to travel with it.
This package widens the (epoch, id) pair into a 16 byte container rendered in
the familiar dashed hex GUID form, so the value fits anywhere a GUID sized
column or field already exists.

The layout is

	bytes [0:8[   epoch as a big endian unix millisecond count (two's
	              complement, epochs before 1970 survive)
	bytes [8:16[  the 64 bit id, big endian

The container is not an RFC 4122 UUID. No version or variant bits are
claimed, the bytes are exactly the two integers above. For identifiers
sharing an epoch the canonical string form sorts in id order.
*/
