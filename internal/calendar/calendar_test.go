package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsBusinessDay(t *testing.T) {
	c := New([]time.Time{day(2021, 4, 2)}) // Good Friday

	assert.True(t, c.IsBusinessDay(day(2021, 4, 1)))
	assert.False(t, c.IsBusinessDay(day(2021, 4, 2)), "holiday")
	assert.False(t, c.IsBusinessDay(day(2021, 4, 3)), "saturday")
	assert.False(t, c.IsBusinessDay(day(2021, 4, 4)), "sunday")
	assert.True(t, c.IsBusinessDay(day(2021, 4, 5)))
}

func TestNextPrevSkipWeekendsAndHolidays(t *testing.T) {
	c := New([]time.Time{day(2021, 4, 2)})

	assert.Equal(t, day(2021, 3, 22), c.Next(day(2021, 3, 19)), "friday -> monday")
	assert.Equal(t, day(2021, 4, 5), c.Next(day(2021, 4, 1)), "thursday before holiday -> monday")
	assert.Equal(t, day(2021, 3, 22), c.Prev(day(2021, 3, 23)))
	assert.Equal(t, day(2021, 3, 19), c.Prev(day(2021, 3, 22)), "monday -> friday")
	assert.Equal(t, day(2021, 4, 1), c.Prev(day(2021, 4, 5)))
}

func TestNextIgnoresClockAndZone(t *testing.T) {
	c := New(nil)
	loc := time.FixedZone("BRT", -3*3600)
	got := c.Next(time.Date(2021, 3, 19, 23, 30, 0, 0, loc))
	assert.Equal(t, day(2021, 3, 22), got)
}

func TestRangeExcludesWeekendsAndHolidays(t *testing.T) {
	holidays := []time.Time{day(2021, 2, 15), day(2021, 2, 16)} // carnival
	c := New(holidays)

	days := c.Range(day(2021, 2, 10), day(2021, 2, 23))
	want := []time.Time{
		day(2021, 2, 10), day(2021, 2, 11), day(2021, 2, 12),
		day(2021, 2, 17), day(2021, 2, 18), day(2021, 2, 19),
		day(2021, 2, 22), day(2021, 2, 23),
	}
	assert.Equal(t, want, days)

	for i := 1; i < len(days); i++ {
		assert.True(t, days[i].After(days[i-1]), "strictly increasing at %d", i)
	}
	for _, d := range days {
		assert.True(t, c.IsBusinessDay(d))
	}
}

func TestRangeEmptyWhenStartAfterEnd(t *testing.T) {
	c := New(nil)
	assert.Empty(t, c.Range(day(2021, 3, 23), day(2021, 3, 22)))
}

func TestRangeSingleDay(t *testing.T) {
	c := New(nil)
	assert.Equal(t, []time.Time{day(2021, 3, 22)}, c.Range(day(2021, 3, 22), day(2021, 3, 22)))
}

func TestGroupByMonth(t *testing.T) {
	c := New(nil)
	days := c.Range(day(2021, 1, 27), day(2021, 3, 2))

	batches := GroupByMonth(days)
	require.Len(t, batches, 3)
	assert.Equal(t, day(2021, 1, 1), batches[0].Month)
	assert.Equal(t, []time.Time{day(2021, 1, 27), day(2021, 1, 28), day(2021, 1, 29)}, batches[0].Days)
	assert.Equal(t, day(2021, 2, 1), batches[1].Month)
	assert.Len(t, batches[1].Days, 20)
	assert.Equal(t, day(2021, 3, 1), batches[2].Month)
	assert.Equal(t, []time.Time{day(2021, 3, 1), day(2021, 3, 2)}, batches[2].Days)
}

func TestGroupByMonthSortsInput(t *testing.T) {
	batches := GroupByMonth([]time.Time{day(2021, 2, 1), day(2021, 1, 29)})
	require.Len(t, batches, 2)
	assert.Equal(t, day(2021, 1, 1), batches[0].Month)
	assert.Equal(t, day(2021, 2, 1), batches[1].Month)
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2021-04-02":          day(2021, 4, 2),
		"02/04/2021":          day(2021, 4, 2),
		"2/4/2021":            day(2021, 4, 2),
		"2021-04-02 00:00:00": day(2021, 4, 2),
		"44288":               day(2021, 4, 2), // excel serial
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDate("Feriados: ANBIMA")
	assert.Error(t, err)
}

func TestLoadHolidaysText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holidays.txt")
	content := "# national holidays\nData\n2021-01-01\n\n2021-04-02\nfooter note\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	days, err := LoadHolidays(path, 1)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2021, 1, 1), day(2021, 4, 2)}, days)
}

func TestLoadHolidaysCSVWithFooter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holidays.csv")
	content := "Data;Dia da Semana;Feriado\n" +
		"01/01/2021;sexta-feira;Confraternizacao Universal\n" +
		"15/02/2021;segunda-feira;Carnaval\n" +
		";;\n" +
		"Fonte: ANBIMA;;\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := Load(path, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.IsHoliday(day(2021, 2, 15)))
}

func TestLoadHolidaysJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holidays.json")
	require.NoError(t, os.WriteFile(path, []byte(`["2021-01-01","2021-12-25"]`), 0o600))

	days, err := LoadHolidays(path, 9)
	require.NoError(t, err)
	assert.Len(t, days, 2, "footer rule does not apply to json")
}

func TestLoadHolidaysSpreadsheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feriados.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Data", "Dia da Semana", "Feriado"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{day(2021, 1, 1), "sexta-feira", "Confraternizacao Universal"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{day(2021, 4, 2), "sexta-feira", "Paixao"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Fonte: ANBIMA"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	days, err := LoadHolidays(path, 1)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2021, 1, 1), day(2021, 4, 2)}, days)
}

func TestLoadHolidaysUnsupportedExtension(t *testing.T) {
	_, err := LoadHolidays("feriados.xls", 9)
	assert.ErrorContains(t, err, "unsupported holiday file extension")
}
