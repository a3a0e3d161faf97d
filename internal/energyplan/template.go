package energyplan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

const (
	versionKey   = "EnergyPLAN version"
	versionValue = "698"
	endMarker    = "xxx"
)

// Assignment maps scenario keys to replacement values for one candidate.
type Assignment map[string]string

// Number renders a decision value the way EnergyPLAN expects it.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Integer renders a decision value truncated to a whole number.
func Integer(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}

// Template is an immutable, parsed scenario file. The file is UTF-16LE with
// alternating key and value lines; key lines carry a trailing '=' and the
// body ends at the 'xxx' marker.
type Template struct {
	keys   []string
	values map[string]string
}

// ParseTemplate reads and decodes a scenario file.
func ParseTemplate(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tpl, err := ReadTemplate(f)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}
	return tpl, nil
}

// ReadTemplate decodes a UTF-16LE scenario stream.
func ReadTemplate(r io.Reader) (*Template, error) {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	scanner := bufio.NewScanner(decoder.Reader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errors.New("empty scenario file")
	}

	tpl := &Template{values: make(map[string]string)}
	for i := 0; i+1 < len(lines); i += 2 {
		key := strings.TrimSpace(lines[i])
		if key == endMarker {
			break
		}
		key = strings.ReplaceAll(key, "=", "")
		if key == "" {
			continue
		}
		if _, exists := tpl.values[key]; !exists {
			tpl.keys = append(tpl.keys, key)
		}
		tpl.values[key] = strings.TrimSpace(lines[i+1])
	}
	if len(tpl.keys) == 0 {
		return nil, errors.New("scenario file has no key/value pairs")
	}
	return tpl, nil
}

// Len returns the number of distinct keys.
func (t *Template) Len() int {
	return len(t.keys)
}

// Keys returns the keys in file order.
func (t *Template) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Value returns the template value for key.
func (t *Template) Value(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Has reports whether the template declares key.
func (t *Template) Has(key string) bool {
	_, ok := t.values[key]
	return ok
}

// Render writes the template with assign substituted, UTF-16LE encoded, the
// version header first. Unknown assignment keys are rejected so a typo in a
// variable binding cannot silently leave the baseline value in place.
func (t *Template) Render(w io.Writer, assign Assignment) error {
	for key := range assign {
		if key == versionKey {
			continue
		}
		if !t.Has(key) {
			return fmt.Errorf("assignment key not in template: %s", key)
		}
	}

	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	out := encoder.Writer(w)

	var b strings.Builder
	b.WriteString(versionKey + "\n" + versionValue + "\n")
	for _, key := range t.keys {
		if key == versionKey {
			continue
		}
		value := t.values[key]
		if v, ok := assign[key]; ok {
			value = v
		}
		b.WriteString(key + "=\n" + value + "\n")
	}
	b.WriteString(endMarker + "\n")

	if _, err := io.WriteString(out, b.String()); err != nil {
		return err
	}
	return nil
}

// InputFileName returns the spool file name for candidate index i. The
// executable rejects names containing '_' or '-'.
func InputFileName(i int) string {
	return fmt.Sprintf("input%d.txt", i)
}
