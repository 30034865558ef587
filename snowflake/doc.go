package snowflake

/*

# Snowflake identifiers

This package generates and parses snowflake ids: 64 bit values that pack a
millisecond timestamp offset, the number of the issuing machine, and a per
millisecond sequence counter. Ids minted by independent machines are roughly
time ordered and collision free without any shared sequencer.

The bit layout, most significant first, is

	| 42 bits timestamp offset | 10 bits machine id | 12 bits sequence |

The following properties hold for the generated ids:

  - Ids from a single generator are strictly increasing, even under
    concurrent callers. The generator lock total orders all Issue calls.
  - The timestamp offset is measured from a caller chosen epoch. 42 bits of
    milliseconds gives each epoch an addressable span of about 139 years.
  - The fixed width 20 digit decimal code sorts identically as a string and
    as a number, which matters for storage systems that index ids as text.
  - The epoch is not part of the 64 bits. It travels alongside the value, and
    two ids are only comparable when they share one. See Identifier.

The generator deliberately blocks, sleeping in short increments, when a
millisecond's 4096 sequence slots are exhausted. That wait ends as soon as the
clock advances, so the worst case latency is on the order of the sleep
granularity. A clock observed to move backwards is surfaced as an error
immediately, no retry is attempted.

Epochs are handled with millisecond precision throughout.
*/
