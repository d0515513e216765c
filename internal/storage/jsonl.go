// Package storage handles visit persistence in JSONL and the SQLite query cache.
package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/visitflow/internal/visit"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// Import formats.
const (
	FormatJSON  = "json"  // a single JSON array of row objects
	FormatJSONL = "jsonl" // one row object per line
)

// ErrUnknownFormat is returned for an unsupported import format.
var ErrUnknownFormat = errors.New("unknown format")

// ReadAll reads all visits from a JSONL file.
func ReadAll(path string) ([]visit.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file means no visits yet
		}
		return nil, fmt.Errorf("opening visits file: %w", err)
	}
	defer f.Close()

	visits, err := DecodeJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("reading visits file: %w", err)
	}
	return visits, nil
}

// DecodeJSONL decodes one visit per non-empty line.
func DecodeJSONL(r io.Reader) ([]visit.Record, error) {
	var visits []visit.Record
	scanner := bufio.NewScanner(r)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var v visit.Record
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		visits = append(visits, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return visits, nil
}

// DecodeJSONArray decodes a JSON array of visit rows, as written by the
// columnar export script.
func DecodeJSONArray(r io.Reader) ([]visit.Record, error) {
	var visits []visit.Record
	if err := json.NewDecoder(r).Decode(&visits); err != nil {
		return nil, fmt.Errorf("parsing JSON array: %w", err)
	}
	return visits, nil
}

// DetectFormat guesses the format of path from its extension, falling back
// to sniffing the first non-space byte.
func DetectFormat(path string, head []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	}
	trimmed := bytes.TrimSpace(head)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatJSONL
}

// ReadFile reads visits from an import file. An empty format is detected.
func ReadFile(path, format string) ([]visit.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	if format == "" {
		format = DetectFormat(path, data)
	}

	switch format {
	case FormatJSON:
		return DecodeJSONArray(bytes.NewReader(data))
	case FormatJSONL:
		return DecodeJSONL(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s (valid: %s, %s)", ErrUnknownFormat, format, FormatJSON, FormatJSONL)
	}
}

// Append adds visits to the end of a JSONL file.
func Append(path string, visits []visit.Record) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening visits file for append: %w", err)
	}
	defer f.Close()

	return writeLines(f, visits)
}

// WriteAll writes all visits to a JSONL file, replacing existing content.
func WriteAll(path string, visits []visit.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating visits file: %w", err)
	}
	defer f.Close()

	return writeLines(f, visits)
}

func writeLines(w io.Writer, visits []visit.Record) error {
	bw := bufio.NewWriter(w)
	for i, v := range visits {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding visit %d: %w", i, err)
		}
		if _, err := bw.Write(data); err != nil {
			return fmt.Errorf("writing visit %d: %w", i, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return bw.Flush()
}
