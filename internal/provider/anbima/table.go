package anbima

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	csvSeparator = ';'
	// metadataLines precede the header in every provider CSV.
	metadataLines = 1
)

// Table is a provider CSV as read from the wire: header cells plus raw string rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// DecodeBody returns body as UTF-8 text. Latin-1 payloads (declared in the content type,
// or simply not valid UTF-8) are converted.
func DecodeBody(body []byte, contentType string) (string, error) {
	ct := strings.ToLower(contentType)
	latin1 := strings.Contains(ct, "iso-8859-1") || strings.Contains(ct, "latin1") || strings.Contains(ct, "windows-1252")
	if !latin1 && utf8.Valid(body) {
		return string(body), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decode latin-1 body: %w", err)
	}
	return string(out), nil
}

// ParseTable reads a semicolon separated provider CSV. The first line is metadata and is
// skipped; the next line is the header. Blank rows are dropped.
// Returns ErrNoData when nothing but metadata (or nothing at all) is present, and an error
// wrapping ErrNoData when the body is not a well-formed table.
func ParseTable(body string) (*Table, error) {
	br := bufio.NewReader(strings.NewReader(body))
	for i := 0; i < metadataLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			// body shorter than the metadata block
			return nil, ErrNoData
		}
	}

	r := csv.NewReader(br)
	r.Comma = csvSeparator
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrNoData, err)
	}
	header = trimCells(header)

	t := &Table{Header: header}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoData, err)
		}
		rec = trimCells(rec)
		if blank(rec) {
			continue
		}
		if len(rec) != len(header) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: expected %d fields, saw %d", ErrNoData, line+metadataLines, len(header), len(rec))
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func trimCells(rec []string) []string {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	return rec
}

func blank(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}
