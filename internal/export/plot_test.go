package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sine() Series {
	s := Series{Name: "0P"}
	for i := 0; i < 50; i++ {
		s.X = append(s.X, float64(i))
		s.Y = append(s.Y, 0.5+0.4*float64(i%10)/10)
	}
	return s
}

func TestTimeCourse(t *testing.T) {
	for _, ext := range []string{".png", ".svg"} {
		path := filepath.Join(t.TempDir(), "tc"+ext)
		if err := TimeCourse(path, "phospho fractions", "fraction", []Series{sine()}); err != nil {
			t.Fatalf("TimeCourse(%s) error: %v", ext, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%s file is empty", ext)
		}
	}
}

func TestTimeCourseRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	if err := TimeCourse(filepath.Join(dir, "x.bmp"), "t", "y", []Series{sine()}); err == nil {
		t.Error("bmp should be rejected")
	}
	if err := TimeCourse(filepath.Join(dir, "x.png"), "t", "y", nil); err == nil {
		t.Error("empty series should be rejected")
	}
	bad := Series{Name: "a", X: []float64{1, 2}, Y: []float64{1}}
	if err := TimeCourse(filepath.Join(dir, "x.png"), "t", "y", []Series{bad}); err == nil {
		t.Error("ragged series should be rejected")
	}
}

func TestDoseResponse(t *testing.T) {
	s := Series{
		Name: "4P",
		X:    []float64{1e-9, 1e-8, 1e-7, 1e-6},
		Y:    []float64{0.05, 0.2, 0.6, 0.9},
	}
	path := filepath.Join(t.TempDir(), "dr.png")
	if err := DoseResponse(path, "PKA dose response", "PKA (M)", []Series{s}); err != nil {
		t.Fatalf("DoseResponse() error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("plot not written: %v", err)
	}
}

func TestDoseResponseRejectsNonPositiveDose(t *testing.T) {
	s := Series{Name: "4P", X: []float64{0, 1e-8}, Y: []float64{0.1, 0.2}}
	if err := DoseResponse(filepath.Join(t.TempDir(), "dr.png"), "t", "x", []Series{s}); err == nil {
		t.Error("zero dose should be rejected on a log axis")
	}
}

func TestDoseResponseBands(t *testing.T) {
	doses := []float64{1e-9, 1e-8, 1e-7}
	mean := []float64{0.1, 0.4, 0.8}
	sd := []float64{0.02, 0.05, 0.03}

	path := filepath.Join(t.TempDir(), "band.png")
	if err := DoseResponseBands(path, "ensemble", "PKA (M)", doses, mean, sd); err != nil {
		t.Fatalf("DoseResponseBands() error: %v", err)
	}

	if err := DoseResponseBands(path, "t", "x", doses, mean, sd[:2]); err == nil {
		t.Error("mismatched sd length should fail")
	}
}

func TestASCII(t *testing.T) {
	out := ASCII("steady approach", []float64{1, 2, 3, 2, 1}, 5)
	if out == "" {
		t.Fatal("empty chart")
	}
	if !strings.Contains(out, "steady approach") {
		t.Error("caption missing from chart")
	}
	if ASCII("x", nil, 5) != "" {
		t.Error("empty data should produce empty chart")
	}
}
