// Package arff reads the ARFF (Attribute-Relation File Format) text files
// used by WEKA/MOA-style datasets, exposing the result as a streams.Stream.
package arff

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gustavo-munhoz/reason/core"
)

// Stream reads instances out of an in-memory ARFF document. The last
// declared attribute is treated as the class, matching WEKA/MOA
// convention; Restart rewinds to the first data row without re-parsing
// the header.
type Stream struct {
	model *core.Model
	// order[i] is the model.Attributes index that ARFF column i maps to.
	order []int
	rows  [][]string
	idx   int
}

// Open parses the ARFF file at path.
func Open(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads an ARFF document from r.
func Parse(r io.Reader) (*Stream, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var relation string
	var names []string
	var kinds []core.AttributeKind
	var values [][]string
	inData := false
	var rows [][]string

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		if inData {
			rows = append(rows, splitPreservingQuotes(line))
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "@relation"):
			relation = stripSurroundingQuotes(strings.TrimSpace(line[len("@relation"):]))
		case strings.HasPrefix(lower, "@attribute"):
			name, kind, vals, err := parseAttributeLine(line)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
			kinds = append(kinds, kind)
			values = append(values, vals)
		case strings.HasPrefix(lower, "@data"):
			inData = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("arff: no @attribute declarations found")
	}

	// ARFF convention: the last declared attribute is the class.
	classCol := len(names) - 1
	classAttr := &core.Attribute{Name: names[classCol], Kind: kinds[classCol]}
	if kinds[classCol] == core.AttributeKindNominal {
		classAttr.Values = core.NewAttributeValues(values[classCol]...)
	}

	predictors := make([]*core.Attribute, 0, classCol)
	order := make([]int, len(names))
	order[classCol] = 0
	for col := 0; col < classCol; col++ {
		a := &core.Attribute{Name: names[col], Kind: kinds[col]}
		if kinds[col] == core.AttributeKindNominal {
			a.Values = core.NewAttributeValues(values[col]...)
		}
		predictors = append(predictors, a)
		order[col] = len(predictors) // model.Attributes[0] is the class
	}

	model := core.NewModel(classAttr, predictors...)
	model.Name = relation

	return &Stream{model: model, order: order, rows: rows}, nil
}

func (s *Stream) Header() *core.Model { return s.model }

func (s *Stream) HasMore() bool { return s.idx < len(s.rows) }

func (s *Stream) Next() (core.Instance, bool) {
	if !s.HasMore() {
		return nil, false
	}
	row := s.rows[s.idx]
	s.idx++

	values := make([]float64, s.model.NumAttributes())
	for i := range values {
		values[i] = float64(core.MissingValue())
	}
	for col, field := range row {
		if col >= len(s.order) {
			break
		}
		if field == "?" {
			continue
		}
		mi := s.order[col]
		attr := s.model.Attributes[mi]
		clean := stripSurroundingQuotes(field)

		if attr.Kind == core.AttributeKindNumeric {
			f, err := strconv.ParseFloat(clean, 64)
			if err != nil {
				continue
			}
			values[mi] = f
			continue
		}
		values[mi] = float64(attr.ValueOf(clean))
	}
	return core.NewDenseInstance(s.model, values, 1.0), true
}

func (s *Stream) Restart() error {
	s.idx = 0
	return nil
}

func parseAttributeLine(line string) (name string, kind core.AttributeKind, values []string, err error) {
	rest := strings.TrimSpace(line[len("@attribute"):])
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(rest, "@ATTRIBUTE"), "@Attribute"))

	sp := splitAttributeNameAndType(rest)
	if sp == nil {
		return "", 0, nil, fmt.Errorf("arff: malformed @attribute line %q", line)
	}
	name = stripSurroundingQuotes(sp[0])
	typ := strings.TrimSpace(sp[1])

	if strings.HasPrefix(typ, "{") && strings.HasSuffix(typ, "}") {
		inner := typ[1 : len(typ)-1]
		for _, v := range splitPreservingQuotes(inner) {
			values = append(values, stripSurroundingQuotes(strings.TrimSpace(v)))
		}
		return name, core.AttributeKindNominal, values, nil
	}

	switch strings.ToLower(typ) {
	case "numeric", "real", "integer":
		return name, core.AttributeKindNumeric, nil, nil
	default:
		// Unrecognized declared type (string, date, relational): treat as
		// nominal with values discovered lazily from the data rows.
		return name, core.AttributeKindNominal, nil, nil
	}
}

// splitAttributeNameAndType splits "name type..." on the first run of
// whitespace outside quotes, returning [name, rest].
func splitAttributeNameAndType(s string) []string {
	inQuotes := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuotes != 0:
			if c == inQuotes {
				inQuotes = 0
			}
		case c == '\'' || c == '"':
			inQuotes = c
		case c == ' ' || c == '\t':
			return []string{s[:i], strings.TrimSpace(s[i+1:])}
		}
	}
	return nil
}

func stripSurroundingQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// splitPreservingQuotes splits a comma-separated line, keeping commas that
// occur inside a quoted field intact.
func splitPreservingQuotes(line string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := rune(0)

	for _, ch := range line {
		switch {
		case inQuotes != 0:
			cur.WriteRune(ch)
			if ch == inQuotes {
				inQuotes = 0
			}
		case ch == '\'' || ch == '"':
			inQuotes = ch
			cur.WriteRune(ch)
		case ch == ',':
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	if cur.Len() > 0 {
		out = append(out, strings.TrimSpace(cur.String()))
	}
	return out
}
