package huff

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fxamacker/cbor/v2"
)

// previewBits is how much of the payload Report keeps as a bit string.
const previewBits = 512

// Report collects the intermediate results of one Compress or Decompress
// run.  It is filled in only when passed via WithReport and never affects
// the output.
type Report struct {
	Mode        string `cbor:"mode"`
	Workers     int    `cbor:"workers,omitempty"`
	InputSize   int    `cbor:"input_size"`
	OutputSize  int    `cbor:"output_size"`
	PayloadBits uint64 `cbor:"payload_bits"`

	// Frequencies is only known when compressing.
	Frequencies map[Symbol]uint64 `cbor:"frequencies,omitempty"`

	// Codes maps each symbol to its code as a string of '0' and '1'.
	Codes map[Symbol]string `cbor:"codes"`

	Tree           string `cbor:"tree"`
	PayloadPreview string `cbor:"payload_preview"`
}

func (r *Report) recordCompress(workers int, inputSize int, freq *Frequencies, tree *Tree, table *CodeTable) {
	r.Mode = "compress"
	r.Workers = workers
	r.InputSize = inputSize
	r.Frequencies = make(map[Symbol]uint64, freq.Distinct())
	for _, sc := range freq.Sorted() {
		r.Frequencies[sc.Symbol] = sc.Count
	}
	r.recordTable(tree, table)
}

func (r *Report) recordDecompress(inputSize int, tree *Tree, table *CodeTable) {
	r.Mode = "decompress"
	r.InputSize = inputSize
	r.recordTable(tree, table)
}

func (r *Report) recordTable(tree *Tree, table *CodeTable) {
	r.Tree = tree.DebugString()
	r.Codes = make(map[Symbol]string, table.Len())
	for _, symbol := range table.Symbols() {
		r.Codes[symbol] = table.codes[symbol].bitString()
	}
}

func (r *Report) recordOutput(outputSize int, payload []byte, bits uint64) {
	r.OutputSize = outputSize
	r.recordPayload(payload, bits)
}

func (r *Report) recordPayload(payload []byte, bits uint64) {
	r.PayloadBits = bits
	r.PayloadPreview = FormatBits(payload, bits, previewBits)
}

// String renders the report as the human-readable dump printed by --debug.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "mode: %s", r.Mode)
	if r.Workers != 0 {
		fmt.Fprintf(&sb, " (workers: %d)", r.Workers)
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "input: %s, output: %s, payload: %d bits\n",
		humanize.IBytes(uint64(r.InputSize)), humanize.IBytes(uint64(r.OutputSize)), r.PayloadBits)

	if r.Frequencies != nil {
		var freq Frequencies
		for symbol, count := range r.Frequencies {
			freq[symbol] = count
		}
		sb.WriteString("frequencies:\n")
		sb.WriteString(FormatFrequencies(&freq))
	}

	sb.WriteString("tree:\n")
	sb.WriteString(r.Tree)

	sb.WriteString("codes:\n")
	sb.WriteString(FormatCodeTable(CodeTableOf(r.Codes)))

	sb.WriteString("payload:\n")
	if r.PayloadPreview != "" {
		sb.WriteByte('\t')
		sb.WriteString(r.PayloadPreview)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatFrequencies lists the non-zero counts, one per line, by ascending
// count and then ascending symbol.
func FormatFrequencies(freq *Frequencies) string {
	var sb strings.Builder
	for _, sc := range freq.Sorted() {
		fmt.Fprintf(&sb, "\t%s %d\n", sc.Symbol, sc.Count)
	}
	return sb.String()
}

// FormatCodeTable lists the codes, one per line, shortest code first.
func FormatCodeTable(table *CodeTable) string {
	list := byCodeLength{symbols: table.Symbols(), table: table}
	sort.Sort(list)

	var sb strings.Builder
	for _, symbol := range list.symbols {
		fmt.Fprintf(&sb, "\t%s = %s\n", symbol, table.codes[symbol].bitString())
	}
	return sb.String()
}

// FormatBits renders the first bits of payload as '0' and '1' characters.
// At most limit bits are shown; the rest are summarized.
func FormatBits(payload []byte, bits uint64, limit int) string {
	shown := bits
	if limit >= 0 && shown > uint64(limit) {
		shown = uint64(limit)
	}

	var sb strings.Builder
	sb.Grow(int(shown) + 32)
	for i := uint64(0); i < shown; i++ {
		if payload[i>>3]&(0x80>>(i&7)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	if shown < bits {
		fmt.Fprintf(&sb, "... (%d more bits)", bits-shown)
	}
	return sb.String()
}

// Reports are serialized with Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys and smallest integer encodings, so the same run always
// produces the same bytes.
var (
	reportEncMode cbor.EncMode
	reportDecMode cbor.DecMode
)

func init() {
	var err error
	reportEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("huff: CBOR encoder initialization failed: " + err.Error())
	}
	reportDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("huff: CBOR decoder initialization failed: " + err.Error())
	}
}

// EncodeCBOR serializes the report as deterministic CBOR.
func (r *Report) EncodeCBOR() ([]byte, error) {
	return reportEncMode.Marshal(r)
}

// DecodeReport parses a report produced by EncodeCBOR.
func DecodeReport(data []byte) (*Report, error) {
	var r Report
	if err := reportDecMode.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &r, nil
}
