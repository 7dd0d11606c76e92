package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, "time,0P,1P\n0,1.0,0.0\n60,0.6,0.4\n120,0.3,0.7\n")

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tbl.XName != "time" {
		t.Errorf("XName = %q, want time", tbl.XName)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}
	col, err := tbl.Column("1P")
	if err != nil {
		t.Fatalf("Column(1P) error: %v", err)
	}
	if col[2] != 0.7 {
		t.Errorf("1P[2] = %v, want 0.7", col[2])
	}
	if _, err := tbl.Column("5P"); err == nil {
		t.Error("Column(5P) should fail")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"header only", "time,0P\n"},
		{"ragged row", "time,0P\n0,1.0\n60\n"},
		{"bad number", "time,0P\n0,abc\n"},
		{"duplicate column", "time,0P,0P\n0,1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeCSV(t, tt.content)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestMeanReplicates(t *testing.T) {
	path := writeCSV(t, "time,0P_1,0P_2,1P\n0,0.8,1.0,0.1\n60,0.4,0.6,0.5\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	avg := tbl.MeanReplicates()
	if len(avg.Order) != 2 {
		t.Fatalf("got %d columns after averaging, want 2: %v", len(avg.Order), avg.Order)
	}
	col, err := avg.Column("0P")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(col[0]-0.9) > 1e-12 || math.Abs(col[1]-0.5) > 1e-12 {
		t.Errorf("0P mean = %v, want [0.9 0.5]", col)
	}
	one, _ := avg.Column("1P")
	if one[1] != 0.5 {
		t.Errorf("passthrough column changed: %v", one)
	}
}

func TestMeanReplicatesFloorsNegatives(t *testing.T) {
	path := writeCSV(t, "time,2P_1,2P_2\n0,-0.04,0.02\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := tbl.MeanReplicates().Column("2P")
	if col[0] != 0 {
		t.Errorf("negative mean not floored: %v", col[0])
	}
}

func TestRegrid(t *testing.T) {
	x := []float64{0, 10, 20}
	y := []float64{0, 1, 3}

	out, err := Regrid(x, y, []float64{-5, 0, 5, 15, 20, 25})
	if err != nil {
		t.Fatalf("Regrid() error: %v", err)
	}
	want := []float64{0, 0, 0.5, 2, 3, 3}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestRegridErrors(t *testing.T) {
	if _, err := Regrid([]float64{0, 1}, []float64{0}, []float64{0.5}); err == nil {
		t.Error("length mismatch should fail")
	}
	if _, err := Regrid([]float64{0}, []float64{0}, []float64{0.5}); err == nil {
		t.Error("single point should fail")
	}
	if _, err := Regrid([]float64{0, 0}, []float64{1, 2}, []float64{0}); err == nil {
		t.Error("non-increasing x should fail")
	}
}
