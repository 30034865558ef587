package snowflake

import (
	"errors"
	"math"
	"testing"
)

func TestPack(t *testing.T) {
	type args struct {
		timestampOffset uint64
		machineID       uint64
		sequence        uint64
	}
	tests := []struct {
		name    string
		args    args
		want    uint64
		wantErr bool
	}{
		{"all zero", args{0, 0, 0}, 0, false},
		{"offset lands above the machine and sequence fields", args{1, 0, 0}, 1 << 22, false},
		{"machine lands above the sequence field", args{0, 1, 0}, 1 << 12, false},
		{"sequence lands in the low bits", args{0, 0, 1}, 1, false},
		{"one of each", args{1, 1, 1}, 1<<22 | 1<<12 | 1, false},
		{"all fields maxed fill the word", args{MaxTimestampOffset, MaxMachineID, MaxSequence}, math.MaxUint64, false},
		{"offset at 2^42-1", args{1<<42 - 1, 0, 0}, TimestampMask, false},

		{"offset at 2^42", args{1 << 42, 0, 0}, 0, true},
		{"machine 1023", args{0, 1023, 0}, MachineIDMask, false},
		{"machine 1024", args{0, 1024, 0}, 0, true},
		{"machine 1025", args{0, 1025, 0}, 0, true},
		{"machine 2025", args{0, 2025, 0}, 0, true},
		{"machine 20025", args{0, 20025, 0}, 0, true},
		{"sequence 4095", args{0, 0, 4095}, SequenceMask, false},
		{"sequence 4096", args{0, 0, 4096}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pack(tt.args.timestampOffset, tt.args.machineID, tt.args.sequence)
			if (err != nil) != tt.wantErr {
				t.Errorf("Pack() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && !errors.Is(err, ErrRange) {
				t.Errorf("Pack() error = %v, want ErrRange", err)
			}
			if got != tt.want {
				t.Errorf("Pack() = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	type fields struct {
		timestampOffset uint64
		machineID       uint64
		sequence        uint64
	}
	tests := []struct {
		name   string
		fields fields
	}{
		{"zero", fields{0, 0, 0}},
		{"small values", fields{1, 2, 3}},
		{"contemporary offset", fields{1766000000000, 123, 4095}},
		{"all maxed", fields{MaxTimestampOffset, MaxMachineID, MaxSequence}},
		{"offset only", fields{MaxTimestampOffset, 0, 0}},
		{"machine only", fields{0, MaxMachineID, 0}},
		{"sequence only", fields{0, 0, MaxSequence}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Pack(tt.fields.timestampOffset, tt.fields.machineID, tt.fields.sequence)
			if err != nil {
				t.Fatalf("Pack() error = %v", err)
			}
			gotTS, gotMachine, gotSeq := Unpack(id)
			if gotTS != tt.fields.timestampOffset {
				t.Errorf("Unpack() timestampOffset = %v, want %v", gotTS, tt.fields.timestampOffset)
			}
			if gotMachine != tt.fields.machineID {
				t.Errorf("Unpack() machineID = %v, want %v", gotMachine, tt.fields.machineID)
			}
			if gotSeq != tt.fields.sequence {
				t.Errorf("Unpack() sequence = %v, want %v", gotSeq, tt.fields.sequence)
			}
		})
	}
}

func TestFormatCode(t *testing.T) {
	tests := []struct {
		name string
		id   uint64
		want string
	}{
		{"zero pads to the full width", 0, "00000000000000000000"},
		{"small id", 1, "00000000000000000001"},
		{"max id needs no padding", math.MaxUint64, "18446744073709551615"},
		{"mid magnitude", 4198401, "00000000000004198401"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCode(tt.id)
			if got != tt.want {
				t.Errorf("FormatCode() = %v, want %v", got, tt.want)
			}
			if len(got) != CodeWidth {
				t.Errorf("FormatCode() width = %v, want %v", len(got), CodeWidth)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    uint64
		wantErr bool
	}{
		{"padded", "00000000000000000001", 1, false},
		{"unpadded", "1", 1, false},
		{"max", "18446744073709551615", math.MaxUint64, false},
		{"all zeros", "00000000000000000000", 0, false},

		{"overflows 64 bits", "18446744073709551616", 0, true},
		{"empty", "", 0, true},
		{"not decimal", "12ab", 0, true},
		{"negative", "-5", 0, true},
		{"hex form rejected", "0x10", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseCode() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && !errors.Is(err, ErrBadCode) {
				t.Errorf("ParseCode() error = %v, want ErrBadCode", err)
			}
			if got != tt.want {
				t.Errorf("ParseCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, id := range []uint64{0, 1, 4095, 1 << 22, 1<<42 - 1, 7401538371333157, math.MaxUint64} {
		got, err := ParseCode(FormatCode(id))
		if err != nil {
			t.Fatalf("ParseCode(FormatCode(%d)) error = %v", id, err)
		}
		if got != id {
			t.Errorf("ParseCode(FormatCode(%d)) = %d", id, got)
		}
	}
}
