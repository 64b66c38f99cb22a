package report

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/generator"
	"github.com/Beastly713/codecprop/pkg/property"
	"github.com/Beastly713/codecprop/pkg/runner"
)

const shuffled = "QWERTYUIOPASDFGHJKLZXCVBNMqwertyuiopasdfghjklzxcvbnm0123456789+/"

func failedResult() *runner.Result {
	var table [codec.AlphabetSize]byte
	copy(table[:], shuffled)
	cfg := codec.Default().With(codec.CustomAlphabet(table), codec.RequireNone)

	return &runner.Result{
		Property:   property.InvalidSymbolDetection,
		Config:     codec.Default(),
		Seed:       42,
		Iterations: 17,
		Discarded:  2,
		Success:    false,
		State:      runner.Failed,
		Elapsed:    1500 * time.Millisecond,
		Counterexample: &runner.Counterexample{
			Iteration: 16,
			Stream:    bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 40),
			Violation: &property.Violation{
				Property: property.InvalidSymbolDetection,
				Config:   cfg,
				Inputs: []generator.Input{
					generator.MalformedInput("AB#: \"x", 100),
					generator.RawInput([]byte{0x00, 0xff}, 1000),
				},
				Reason:   "decoded despite foreign symbol",
				Expected: &codec.Fault{Kind: codec.InvalidSymbol, Position: 2, Symbol: '#'},
			},
		},
	}
}

func TestRoundTrip_Failed(t *testing.T) {
	// 1. Write the report to a buffer (simulating a file on disk)
	res := failedResult()
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(res); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}

	// 2. Read it back
	rep, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}

	// 3. Verify the document
	want := newDocument(res)
	if !reflect.DeepEqual(rep.Document, want) {
		t.Errorf("Documents do not match.\nGot: %+v\nWant: %+v", rep.Document, want)
	}

	// 4. Verify the stream
	if !bytes.Equal(rep.Stream, res.Counterexample.Stream) {
		t.Errorf("Stream does not match.\nGot: %x\nWant: %x", rep.Stream, res.Counterexample.Stream)
	}

	// 5. The violation survives the trip
	v, err := rep.Document.Violation()
	if err != nil {
		t.Fatalf("Failed to rebuild violation: %v", err)
	}
	if v.Error() != res.Counterexample.Violation.Error() {
		t.Errorf("Violation does not match.\nGot: %s\nWant: %s", v, res.Counterexample.Violation)
	}
}

func TestRoundTrip_Succeeded(t *testing.T) {
	res := &runner.Result{
		Property:   property.EncodeDecodeRoundtrip,
		Config:     codec.Default(),
		Iterations: 1000,
		Success:    true,
		State:      runner.Succeeded,
	}
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(res); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}
	if !strings.Contains(buf.String(), "HELD") {
		t.Error("banner should say the property held")
	}

	rep, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if len(rep.Stream) != 0 {
		t.Errorf("expected no stream, got %x", rep.Stream)
	}
	v, err := rep.Document.Violation()
	if err != nil || v != nil {
		t.Errorf("expected no violation, got %v, %v", v, err)
	}
}

func TestWriterRejectsUnfinishedRuns(t *testing.T) {
	res := failedResult()
	res.State = runner.Running

	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(res); err == nil {
		t.Error("writer should refuse a run that has not finished")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written for an invalid result")
	}
}

func TestStreamIsWrapped(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(failedResult()); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}
	_, stream, ok := strings.Cut(buf.String(), StreamMarker+"\n")
	if !ok {
		t.Fatal("stream marker missing")
	}
	for _, line := range strings.Split(strings.TrimSpace(stream), "\n") {
		if len(line) > streamWidth {
			t.Errorf("stream line of %d characters exceeds %d", len(line), streamWidth)
		}
	}
}

func TestCorruptReports(t *testing.T) {
	tests := map[string]string{
		"no markers": "just some text\n",
		"broken yaml": `# THIS FILE IS A CODECPROP REPORT.
-- RESULT --
property: [unterminated
-- STREAM --
`,
		"unknown padding": `-- RESULT --
property: encode-decode-roundtrip
state: succeeded
base:
  alphabet: standard
  padding: sometimes
  engine: general-purpose
  iterations: 1
  maxInputSize: 1
-- STREAM --
`,
		"not terminal": `-- RESULT --
property: encode-decode-roundtrip
state: running
base:
  alphabet: standard
  padding: canonical
  engine: general-purpose
  iterations: 1
  maxInputSize: 1
-- STREAM --
`,
		"bad hex": `-- RESULT --
property: encode-decode-roundtrip
state: failed
base:
  alphabet: standard
  padding: canonical
  engine: general-purpose
  iterations: 1
  maxInputSize: 1
-- STREAM --
zz
`,
		"missing stream marker": `-- RESULT --
property: encode-decode-roundtrip
`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewReader(strings.NewReader(data)); err == nil {
				t.Error("reader should have failed, but succeeded")
			}
		})
	}
}
