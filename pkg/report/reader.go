package report

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxBannerLines bounds the scan for the result marker.
const maxBannerLines = 50

// Report is a parsed report file.
type Report struct {
	Document *Document
	// Stream replays the counterexample; empty for a run that held.
	Stream []byte
}

// NewReader parses a report stream and validates the document.
func NewReader(r io.Reader) (*Report, error) {
	bufReader := bufio.NewReader(r)

	// 1. Scan for the result marker
	found := false
	for i := 0; i < maxBannerLines; i++ {
		line, err := bufReader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read stream while looking for result: %w", err)
		}
		if strings.TrimSpace(line) == ResultMarker {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("invalid format: could not find %q marker", ResultMarker)
	}

	// 2. Collect the YAML document up to the stream marker
	var docBuf bytes.Buffer
	for {
		line, err := bufReader.ReadString('\n')
		if strings.TrimSpace(line) == StreamMarker {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid format: could not find %q marker: %w", StreamMarker, err)
		}
		docBuf.WriteString(line)
	}

	// 3. Unmarshal and validate
	doc := &Document{}
	if err := yaml.Unmarshal(docBuf.Bytes(), doc); err != nil {
		return nil, fmt.Errorf("failed to parse result document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("result validation failed: %w", err)
	}

	// 4. The rest is the hex stream, possibly wrapped
	rest, err := io.ReadAll(bufReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}
	stream, err := hex.DecodeString(strings.Join(strings.Fields(string(rest)), ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode stream: %w", err)
	}

	return &Report{Document: doc, Stream: stream}, nil
}
