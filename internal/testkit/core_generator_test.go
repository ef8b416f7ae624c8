package testkit

import (
	"math"
	"path/filepath"
	"testing"

	"paleocore/domain/core"

	"github.com/xuri/excelize/v2"
)

func TestCoreGenerator_Summaries(t *testing.T) {
	config := DefaultCoreConfig()
	holes := NewCoreGenerator(config).Summaries()

	if len(holes) != len(config.Holes) {
		t.Fatalf("Expected %d holes, got %d", len(config.Holes), len(holes))
	}
	perHole := config.CoresPerHole * (config.SectionsPerCore + 1)
	for _, hole := range holes {
		if len(hole.Rows) != perHole {
			t.Errorf("Hole %s has %d rows, want %d", hole.Hole, len(hole.Rows), perHole)
		}
		for i := 1; i < len(hole.Rows); i++ {
			if hole.Rows[i].Top <= hole.Rows[i-1].Top {
				t.Errorf("Hole %s row %d top %v is not below %v", hole.Hole, i, hole.Rows[i].Top, hole.Rows[i-1].Top)
			}
		}
		if last := hole.Rows[len(hole.Rows)-1]; last.Section != "CC" {
			t.Errorf("Hole %s should end with a core catcher, got section %s", hole.Hole, last.Section)
		}
	}
}

func TestCoreGenerator_Reproducible(t *testing.T) {
	a := NewCoreGenerator(DefaultCoreConfig())
	b := NewCoreGenerator(DefaultCoreConfig())

	sa := a.Samples(a.Summaries(), 10)
	sb := b.Samples(b.Summaries(), 10)
	for i := range sa {
		if sa[i] != sb[i] {
			t.Errorf("Sample %d differs between runs with the same seed: %v vs %v", i, sa[i], sb[i])
		}
	}
}

func TestCoreGenerator_Series(t *testing.T) {
	series := NewCoreGenerator(DefaultCoreConfig()).Series(50)

	if series.Len() != 50 {
		t.Fatalf("Expected 50 rows, got %d", series.Len())
	}
	depths, err := series.Numeric(core.DepthColumn)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(depths); i++ {
		if depths[i] <= depths[i-1] {
			t.Errorf("Depths must increase: row %d %v after %v", i, depths[i], depths[i-1])
		}
	}

	ages, _ := series.Numeric(core.AgeColumn)
	ties := 0
	for _, a := range ages {
		if !math.IsNaN(a) {
			ties++
		}
	}
	if ties != 10 {
		t.Errorf("Expected 10 age ties, got %d", ties)
	}
}

func TestWriteSummaryWorkbook(t *testing.T) {
	holes := NewCoreGenerator(DefaultCoreConfig()).Summaries()
	path := filepath.Join(t.TempDir(), "summary.xlsx")

	if err := WriteSummaryWorkbook(path, holes, func(h string) string { return "Hole " + h }); err != nil {
		t.Fatalf("WriteSummaryWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Hole B")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(holes[1].Rows)+1 {
		t.Errorf("Expected %d rows in Hole B, got %d", len(holes[1].Rows)+1, len(rows))
	}
	if rows[0][0] != "Core No " {
		t.Errorf("Header must keep its spacing, got %q", rows[0][0])
	}
}
