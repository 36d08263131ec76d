package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"
)

// NewCSVReader wraps raw bytes in a CSV reader with a UTF-8 BOM stripped
// and lenient per-record field counts.
func NewCSVReader(data []byte) *csv.Reader {
	br := bufio.NewReader(bytes.NewReader(data))
	if b, err := br.Peek(3); err == nil && bytes.Equal(b, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	return r
}

// ReadHeader reads and trims the header record.
func ReadHeader(r *csv.Reader) ([]string, error) {
	h, err := r.Read()
	if err != nil {
		return nil, FormatErrorf("missing header row")
	}
	for i := range h {
		h[i] = strings.TrimSpace(h[i])
		if !utf8.ValidString(h[i]) {
			return nil, FormatErrorf("invalid header encoding")
		}
	}
	return h, nil
}

func HeaderIndex(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, name := range header {
		m[name] = i
	}
	return m
}

// RequireColumns reports every missing required column at once.
func RequireColumns(header []string, required []string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, req := range required {
		if _, ok := present[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return FormatErrorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// SplitTags parses a delimiter-joined tag list, trimming each token,
// dropping blanks and in-record repeats, and preserving first-seen order.
func SplitTags(raw, delimiter string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, token := range strings.Split(raw, delimiter) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}
