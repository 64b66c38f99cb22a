package report

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Beastly713/codecprop/pkg/runner"
)

// Writer writes one report.
type Writer struct {
	w io.Writer
}

// NewWriter creates a new Writer around an io.Writer (usually an os.File).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write serializes res. Only failed runs carry a stream section.
func (rw *Writer) Write(res *runner.Result) error {
	// 1. Build and validate the document before writing anything
	doc := newDocument(res)
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid result: %w", err)
	}

	// 2. Banner
	verdict := "HELD"
	if !res.Success {
		verdict = "FAILED"
	}
	if _, err := fmt.Fprintf(rw.w, Banner, strings.ToUpper(res.Property), verdict, res.Config); err != nil {
		return fmt.Errorf("failed to write banner: %w", err)
	}

	// 3. Result marker and YAML document
	if _, err := fmt.Fprintln(rw.w, ResultMarker); err != nil {
		return fmt.Errorf("failed to write result marker: %w", err)
	}
	enc := yaml.NewEncoder(rw.w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write result document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to write result document: %w", err)
	}

	// 4. Stream marker and the hex stream, wrapped
	if _, err := fmt.Fprintln(rw.w, StreamMarker); err != nil {
		return fmt.Errorf("failed to write stream marker: %w", err)
	}
	if res.Counterexample == nil {
		return nil
	}
	encoded := hex.EncodeToString(res.Counterexample.Stream)
	for len(encoded) > 0 {
		n := min(streamWidth, len(encoded))
		if _, err := fmt.Fprintln(rw.w, encoded[:n]); err != nil {
			return fmt.Errorf("failed to write stream: %w", err)
		}
		encoded = encoded[n:]
	}
	return nil
}
