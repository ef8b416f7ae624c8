package depthconv

import (
	"math"
	"testing"

	"paleocore/domain/core"
	"paleocore/domain/sample"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holeA(t *testing.T) *SummaryTable {
	t.Helper()
	s := NewSummaryTable("a")
	require.NoError(t, s.Add("1H", "1", 0.0))
	require.NoError(t, s.Add("1H", "2", 1.5))
	require.NoError(t, s.Add("1H", "CC", 3.0))
	require.NoError(t, s.Add(" 2H ", "1.0", 4.5))
	require.NoError(t, s.Add("2H", "2", 6.0))
	return s
}

func TestSummaryTable_OrderAndNormalisation(t *testing.T) {
	s := holeA(t)

	assert.Equal(t, "A", s.Hole)
	assert.Equal(t, []string{"1H", "2H"}, s.Cores())
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []SectionTop{{Section: "1", Top: 4.5}, {Section: "2", Top: 6.0}}, s.Sections("2h"))
}

func TestSummaryTable_AddRejectsIncompleteRows(t *testing.T) {
	s := NewSummaryTable("B")

	assert.ErrorIs(t, s.Add("  ", "1", 0), core.ErrMalformedSummary)
	assert.ErrorIs(t, s.Add("1H", "1", math.NaN()), core.ErrMalformedSummary)
	assert.Equal(t, 0, s.Len())
}

func TestSummaryTable_SectionTopDepth(t *testing.T) {
	s := holeA(t)

	tests := []struct {
		name  string
		label string
		want  float64
	}{
		{"first section", "113-695A-1H-1, 0-2", 0.0},
		{"numbered section", "113-695A-2H-2, 10-12", 6.0},
		{"catcher uses last row of core", "113-695A-2H-CC, 0-2", 6.0},
		{"catcher row listed explicitly", "113-695A-1H-CC, 0-2", 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := sample.ParseLabel(tt.label)
			require.NoError(t, err)

			top, err := s.SectionTopDepth(label)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, top, 1e-12)
		})
	}
}

func TestSummaryTable_SectionTopDepthMissing(t *testing.T) {
	s := holeA(t)

	label, err := sample.ParseLabel("113-695A-2H-5, 0-2")
	require.NoError(t, err)
	_, err = s.SectionTopDepth(label)
	assert.ErrorIs(t, err, core.ErrSectionNotFound)

	label, err = sample.ParseLabel("113-695A-9H-1, 0-2")
	require.NoError(t, err)
	_, err = s.SectionTopDepth(label)
	assert.ErrorIs(t, err, core.ErrSectionNotFound)
}

func TestNormalizeSection(t *testing.T) {
	assert.Equal(t, "3", NormalizeSection(" 3 "))
	assert.Equal(t, "3", NormalizeSection("3.0"))
	assert.Equal(t, "CC", NormalizeSection("cc"))
	assert.Equal(t, "2.5", NormalizeSection("2.5"))
}
