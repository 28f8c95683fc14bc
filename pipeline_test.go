package huff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func allValues(n int) []byte {
	out := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		for j := 0; j <= i%3; j++ {
			out = append(out, byte(i))
		}
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	inputs := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"one-byte", []byte{'x'}},
		{"one-symbol", bytes.Repeat([]byte{'x'}, 1000)},
		{"two-symbols", []byte("abababababbbbbba")},
		{"scenario", []byte("aaaabbbcc")},
		{"255-values", allValues(255)},
		{"random", randomBytes(9, 65536, 255)},
		{"skewed", skewedBytes(10, 65536)},
		{"text", textBytes(12345)},
	}
	for _, in := range inputs {
		for _, workers := range []int{1, 2, 8} {
			name := fmt.Sprintf("%s/workers=%d", in.name, workers)
			t.Run(name, func(t *testing.T) {
				compressed, err := Compress(in.data, WithWorkers(workers), WithLogger(discardLogger()))
				if err != nil {
					t.Fatalf("Compress: %v", err)
				}
				actual, err := Decompress(compressed, WithLogger(discardLogger()))
				if err != nil {
					t.Fatalf("Decompress: %v", err)
				}
				if !bytes.Equal(in.data, actual) {
					t.Errorf("round trip changed %d bytes into %d bytes", len(in.data), len(actual))
				}
			})
		}
	}
}

func TestCompress_WorkersAgree(t *testing.T) {
	data := skewedBytes(11, 100000)
	expect, err := Compress(data, WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	for _, workers := range []int{2, 3, 8, 32} {
		actual, err := Compress(data, WithWorkers(workers), WithLogger(discardLogger()))
		if err != nil {
			t.Fatalf("workers=%d: Compress: %v", workers, err)
		}
		if !bytes.Equal(expect, actual) {
			t.Errorf("workers=%d: output differs from sequential result", workers)
		}
	}
}

func TestCompress_Scenario(t *testing.T) {
	actual, err := Compress([]byte("aaaabbbcc"), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	expect := []byte{
		0x03, 0x61, 0x01, 0x00, 0x62, 0x02, 0xc0, 0x63, 0x02, 0x80,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0e,
		0x0f, 0xe8,
	}
	if !bytes.Equal(expect, actual) {
		t.Errorf("wrong output:\n\texpect: %#v\n\tactual: %#v", expect, actual)
	}
}

func TestCompress_Empty(t *testing.T) {
	actual, err := Compress(nil, WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	expect := []byte{0x00, 0, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(expect, actual) {
		t.Errorf("wrong output:\n\texpect: %#v\n\tactual: %#v", expect, actual)
	}

	out, err := Decompress(actual, WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d bytes", len(out))
	}
}

func TestCompress_SingleSymbol(t *testing.T) {
	compressed, err := Compress(bytes.Repeat([]byte{'x'}, 1000), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	// 4 bytes of table, 8 bytes of bit count, 1000 one-bit codes.
	if expect := 4 + 8 + 125; len(compressed) != expect {
		t.Errorf("expected %d bytes, got %d", expect, len(compressed))
	}

	c, err := ParseContainer(compressed)
	if err != nil {
		t.Fatalf("ParseContainer: %v", err)
	}
	if hc, _ := c.Table.Lookup('x'); hc != MakeCode("0") || c.Table.Len() != 1 {
		t.Errorf("expected the single code \"0\", got %#v", c.Table)
	}
	if c.BitCount != 1000 {
		t.Errorf("expected 1000 bits, got %d", c.BitCount)
	}
}

func TestCompress_TableOverflow(t *testing.T) {
	out, err := Compress(allValues(256), WithWorkers(4), WithLogger(discardLogger()))
	if err == nil {
		t.Fatalf("expected an error, got %d bytes", len(out))
	}
	if out != nil {
		t.Errorf("expected no output on error")
	}
	var toe *TableOverflowError
	if !errors.As(err, &toe) {
		t.Fatalf("expected *TableOverflowError, got %T: %v", err, err)
	}
	if toe.Count != 256 {
		t.Errorf("expected count 256, got %d", toe.Count)
	}
}

func TestDecompress_Errors(t *testing.T) {
	valid, err := Compress([]byte("aaaabbbcc"), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	t.Run("truncated-table", func(t *testing.T) {
		_, err := Decompress(valid[:5], WithLogger(discardLogger()))
		var mte *MalformedTableError
		if !errors.As(err, &mte) {
			t.Fatalf("expected *MalformedTableError, got %T: %v", err, err)
		}
		if !strings.HasPrefix(err.Error(), "reading container: ") {
			t.Errorf("expected stage prefix, got %q", err.Error())
		}
	})

	t.Run("colliding-codes", func(t *testing.T) {
		data := []byte{0x02, 'a', 1, 0x00, 'b', 2, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}
		_, err := Decompress(data, WithLogger(discardLogger()))
		var mte *MalformedTableError
		if !errors.As(err, &mte) {
			t.Fatalf("expected *MalformedTableError, got %T: %v", err, err)
		}
		if mte.Symbol != 'b' {
			t.Errorf("expected symbol 'b', got %s", mte.Symbol)
		}
	})

	t.Run("truncated-payload", func(t *testing.T) {
		_, err := Decompress(valid[:len(valid)-1], WithLogger(discardLogger()))
		var cse *CorruptStreamError
		if !errors.As(err, &cse) {
			t.Fatalf("expected *CorruptStreamError, got %T: %v", err, err)
		}
	})

	t.Run("mid-code", func(t *testing.T) {
		// Same two payload bytes, but only 13 of the 14 bits are counted,
		// so the final 'c' is cut after its first bit.
		data := append([]byte(nil), valid...)
		data[len(data)-3] = 13
		_, err := Decompress(data, WithLogger(discardLogger()))
		var cse *CorruptStreamError
		if !errors.As(err, &cse) {
			t.Fatalf("expected *CorruptStreamError, got %T: %v", err, err)
		}
		if cse.BitOffset != 13 {
			t.Errorf("expected bit offset 13, got %d", cse.BitOffset)
		}
		if !strings.Contains(cse.Reason, "middle of a code") {
			t.Errorf("expected a mid-code error, got %q", cse.Reason)
		}
	})
}

func TestCompress_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Compress([]byte("aaaabbbcc"), WithLogger(logger)); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out := buf.String()
	for _, msg := range []string{"counted frequencies", "built tree", "generated codes", "packed payload"} {
		if !strings.Contains(out, msg) {
			t.Errorf("log is missing %q:\n%s", msg, out)
		}
	}
	if !strings.Contains(out, "mode=compress") {
		t.Errorf("log is missing mode attribute:\n%s", out)
	}
}
