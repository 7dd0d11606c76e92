// Package dataset reads delimited experimental data files. The first column
// is the independent variable (time or enzyme dose), the remaining columns
// are named observables matched against model outputs, e.g. 0P..4P phospho
// fractions with optional replicate suffixes (0P_1, 0P_2, ...).
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Table struct {
	XName   string
	X       []float64
	Order   []string
	Columns map[string][]float64
}

// Load parses a CSV file with a header row into a Table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("parse %s: need a header row and at least one data row", path)
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("parse %s: need at least one named observable column", path)
	}

	t := &Table{
		XName:   strings.TrimSpace(header[0]),
		Columns: make(map[string][]float64, len(header)-1),
	}
	for _, name := range header[1:] {
		name = strings.TrimSpace(name)
		if _, dup := t.Columns[name]; dup {
			return nil, fmt.Errorf("parse %s: duplicate column %q", path, name)
		}
		t.Order = append(t.Order, name)
		t.Columns[name] = make([]float64, 0, len(records)-1)
	}

	for line, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("parse %s: row %d has %d fields, want %d", path, line+2, len(rec), len(header))
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: row %d: %w", path, line+2, err)
		}
		t.X = append(t.X, x)
		for i, name := range t.Order {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("parse %s: row %d column %q: %w", path, line+2, name, err)
			}
			t.Columns[name] = append(t.Columns[name], v)
		}
	}

	return t, nil
}

// Column returns the named observable.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.Columns[name]
	if !ok {
		return nil, fmt.Errorf("no column %q (have %v)", name, t.Order)
	}
	return col, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.X) }

// MeanReplicates collapses replicate columns into their base observable.
// Replicates share a base name before an underscore suffix ("0P_1" -> "0P");
// columns without a suffix pass through unchanged.
func (t *Table) MeanReplicates() *Table {
	out := &Table{
		XName:   t.XName,
		X:       append([]float64(nil), t.X...),
		Columns: make(map[string][]float64),
	}
	counts := make(map[string]int)

	for _, name := range t.Order {
		base := name
		if i := strings.LastIndex(name, "_"); i > 0 {
			if _, err := strconv.Atoi(name[i+1:]); err == nil {
				base = name[:i]
			}
		}
		col := t.Columns[name]
		if _, seen := out.Columns[base]; !seen {
			out.Order = append(out.Order, base)
			out.Columns[base] = make([]float64, len(col))
		}
		acc := out.Columns[base]
		for i, v := range col {
			acc[i] += v
		}
		counts[base]++
	}

	for base, n := range counts {
		col := out.Columns[base]
		for i := range col {
			col[i] /= float64(n)
			if col[i] < 0 {
				col[i] = 0
			}
		}
	}

	return out
}

// Regrid linearly interpolates y(x) onto xnew. Points outside the data range
// clamp to the boundary values. x must be strictly increasing.
func Regrid(x, y, xnew []float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("regrid: x and y length mismatch (%d vs %d)", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("regrid: need at least two points")
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return nil, fmt.Errorf("regrid: x must be strictly increasing at index %d", i)
		}
	}

	out := make([]float64, len(xnew))
	for i, xq := range xnew {
		switch {
		case xq <= x[0]:
			out[i] = y[0]
		case xq >= x[len(x)-1]:
			out[i] = y[len(y)-1]
		default:
			j := 1
			for x[j] < xq {
				j++
			}
			w := (xq - x[j-1]) / (x[j] - x[j-1])
			out[i] = y[j-1] + w*(y[j]-y[j-1])
		}
	}
	return out, nil
}
