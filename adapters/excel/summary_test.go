package excel

import (
	"path/filepath"
	"testing"

	"paleocore/domain/core"
	"paleocore/internal/depthconv"
	"paleocore/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadSummaries_GeneratedWorkbook(t *testing.T) {
	gen := testkit.NewCoreGenerator(testkit.DefaultCoreConfig())
	holes := gen.Summaries()
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, testkit.WriteSummaryWorkbook(path, holes, func(h string) string { return "Hole " + h }))

	summaries, err := LoadSummaries(path, map[string]string{"A": "Hole A", "B": "Hole B", "C": "Hole C"})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	for _, hole := range holes {
		s := summaries[hole.Hole]
		require.NotNil(t, s, "hole %s", hole.Hole)
		assert.Equal(t, hole.Hole, s.Hole)
		assert.Equal(t, len(hole.Rows), s.Len())
	}

	samples := gen.Samples(holes, 25)
	labels := make([]string, len(samples))
	for i, smp := range samples {
		labels[i] = smp.Label
	}
	depths, err := depthconv.NewConverter(summaries).Convert(labels)
	require.NoError(t, err)
	for i, smp := range samples {
		assert.InDelta(t, smp.Depth, depths[i], 1e-9)
	}
}

func TestLoadSummary_HeaderMatching(t *testing.T) {
	path := writeFile(t, "hole.csv", "CORE NO,sect ,section top depth (MBSF),Comment\n"+
		" 1H ,1,0,\n"+
		"1H,2,1.5,\n"+
		",,,blank line\n"+
		"1H,CC,3.0,\n")

	s, err := LoadSummary(path, "")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"1H"}, s.Cores())
	assert.Equal(t, depthconv.SectionTop{Section: "CC", Top: 3.0}, s.Sections("1H")[2])
}

func TestLoadSummary_Errors(t *testing.T) {
	missingHeader := writeFile(t, "bad.csv", "Core,Sect,Section Top Depth (mbsf)\n1H,1,0\n")
	_, err := LoadSummary(missingHeader, "")
	assert.ErrorIs(t, err, core.ErrColumnNotFound)

	badTop := writeFile(t, "top.csv", "Core No,Sect,Section Top Depth (mbsf)\n1H,1,n/a\n")
	_, err = LoadSummary(badTop, "")
	assert.ErrorIs(t, err, core.ErrMalformedSummary)

	gen := testkit.NewCoreGenerator(testkit.DefaultCoreConfig())
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, testkit.WriteSummaryWorkbook(path, gen.Summaries(), func(h string) string { return "Hole " + h }))
	_, err = LoadSummaries(path, map[string]string{"D": "Hole D"})
	assert.ErrorIs(t, err, core.ErrSheetNotFound)
}

func TestLoadSummary_StyledTopDepths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{SummaryCoreHeader, SummarySectionHeader, SummaryTopHeader}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"1H", 1, 0.0}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"1H", 2, 1.505}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"2H", 1, 1004.75}))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "C2", "C4", style))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s, err := LoadSummary(path, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, 1.505, s.Sections("1H")[1].Top)
	assert.Equal(t, 1004.75, s.Sections("2H")[0].Top)
}
