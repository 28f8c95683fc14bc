package huff

import (
	"bytes"
	"errors"
	"testing"
)

func mustTree(t *testing.T, codes map[Symbol]string) *Tree {
	t.Helper()
	tree, err := BuildTreeFromTable(CodeTableOf(codes))
	if err != nil {
		t.Fatalf("BuildTreeFromTable: %v", err)
	}
	return tree
}

func TestDecoder_Decode(t *testing.T) {
	d := NewDecoder(mustTree(t, map[Symbol]string{0: "1100", 1: "1101", 2: "100", 3: "101", 4: "111", 5: "0"}))

	type testRow struct {
		bits   string
		expect []byte
	}

	testData := [...]testRow{
		{"", []byte{}},
		{"0", []byte{5}},
		{"11000111", []byte{0, 5, 4}},
		{"1101100101", []byte{1, 2, 3}},
		{"000000000", []byte{5, 5, 5, 5, 5, 5, 5, 5, 5}},
		{"111111111111", []byte{4, 4, 4, 4}},
	}
	for _, row := range testData {
		payload, bits := packBits(row.bits)
		actual, err := d.Decode(payload, bits)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", row.bits, err)
			continue
		}
		if !bytes.Equal(row.expect, actual) {
			t.Errorf("%q: wrong output:\n\texpect: %#v\n\tactual: %#v", row.bits, row.expect, actual)
		}
	}
}

func TestDecoder_StopsAtBitCount(t *testing.T) {
	d := NewDecoder(mustTree(t, map[Symbol]string{'a': "0", 'b': "11", 'c': "10"}))
	payload := []byte{0x0f, 0xe8}

	actual, err := d.Decode(payload, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expect := "aaaabbbcc"; string(actual) != expect {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expect, actual)
	}

	// The two padding bits are valid codes on their own, which is exactly
	// why the bit count is stored.
	actual, err = d.Decode(payload, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expect := "aaaabbbccaa"; string(actual) != expect {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expect, actual)
	}
}

func TestDecoder_SingleLeafRoot(t *testing.T) {
	d := NewDecoder(BuildTree(frequenciesOf(map[Symbol]uint64{'x': 3})))

	actual, err := d.Decode([]byte{0x00}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expect := "xxx"; string(actual) != expect {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expect, actual)
	}

	_, err = d.Decode([]byte{0x40}, 2)
	var cse *CorruptStreamError
	if !errors.As(err, &cse) {
		t.Fatalf("expected *CorruptStreamError, got %T: %v", err, err)
	}
	if cse.BitOffset != 1 {
		t.Errorf("expected bit offset 1, got %d", cse.BitOffset)
	}
}

func TestDecoder_Corrupt(t *testing.T) {
	type testRow struct {
		name      string
		codes     map[Symbol]string
		payload   []byte
		bits      uint64
		bitOffset uint64
	}

	testData := [...]testRow{
		{
			name:      "absent-child",
			codes:     map[Symbol]string{'a': "0"},
			payload:   []byte{0x80},
			bits:      1,
			bitOffset: 0,
		},
		{
			name:      "absent-child-deep",
			codes:     map[Symbol]string{'a': "0", 'b': "10"},
			payload:   []byte{0x30},
			bits:      4,
			bitOffset: 3,
		},
		{
			name:      "ends-mid-code",
			codes:     map[Symbol]string{'a': "0", 'b': "11", 'c': "10"},
			payload:   []byte{0x80},
			bits:      1,
			bitOffset: 1,
		},
		{
			name:      "payload-too-long",
			codes:     map[Symbol]string{'a': "0", 'b': "1"},
			payload:   []byte{0x00, 0x00},
			bits:      3,
			bitOffset: 0,
		},
		{
			name:      "payload-too-short",
			codes:     map[Symbol]string{'a': "0", 'b': "1"},
			payload:   []byte{0x00},
			bits:      9,
			bitOffset: 0,
		},
		{
			name:      "empty-table",
			codes:     map[Symbol]string{},
			payload:   []byte{0x00},
			bits:      1,
			bitOffset: 0,
		},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			d := NewDecoder(mustTree(t, row.codes))
			out, err := d.Decode(row.payload, row.bits)
			if err == nil {
				t.Fatalf("expected an error, got %#v", out)
			}
			var cse *CorruptStreamError
			if !errors.As(err, &cse) {
				t.Fatalf("expected *CorruptStreamError, got %T: %v", err, err)
			}
			if cse.BitOffset != row.bitOffset {
				t.Errorf("expected bit offset %d, got %d", row.bitOffset, cse.BitOffset)
			}
		})
	}
}

func TestEncodeDecode_LongCodes(t *testing.T) {
	counts := make(map[Symbol]uint64)
	a, b := uint64(1), uint64(1)
	for i := 0; i < 30; i++ {
		counts[Symbol('A'+i)] = a
		a, b = b, a+b
	}
	table := GenerateCodes(BuildTree(frequenciesOf(counts)))

	var data []byte
	for i := 0; i < 30; i++ {
		data = append(data, byte('A'+i), byte('A'+29-i), 'A')
	}

	payload, bits, err := NewEncoder(table).Encode(data, 3)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	tree, err := BuildTreeFromTable(table)
	if err != nil {
		t.Fatalf("BuildTreeFromTable: %v", err)
	}
	actual, err := NewDecoder(tree).Decode(payload, bits)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(data, actual) {
		t.Errorf("round trip failed:\n\texpect: %q\n\tactual: %q", data, actual)
	}
}
