package anbima

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ima-data/internal/model"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("testdata/quadro-resumo.csv")
	require.NoError(t, err)
	return string(b)
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"1.234.567,89": 1234567.89,
		"0,0123":       0.0123,
		"-0,4567":      -0.4567,
		"250":          250,
		"1.234":        1234,
	}
	for in, want := range cases {
		got, err := ParseNumber(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	_, err := ParseNumber("n/d")
	assert.Error(t, err)
}

func TestParseReferenceDateDayFirst(t *testing.T) {
	got, err := ParseReferenceDate("02/03/2021")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 3, 2, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseReferenceDate("2021/03/02")
	assert.Error(t, err)
}

func TestParseTableNoData(t *testing.T) {
	for name, body := range map[string]string{
		"empty":         "",
		"metadata only": "IMA - Quadro Resumo\n",
		"no newline":    "IMA - Quadro Resumo",
	} {
		_, err := ParseTable(body)
		assert.ErrorIs(t, err, ErrNoData, name)
	}
}

func TestParseTableHeaderOnly(t *testing.T) {
	tbl, err := ParseTable("meta\nA;B;C\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, tbl.Header)
	assert.Empty(t, tbl.Rows)
}

func TestParseTableRaggedRow(t *testing.T) {
	_, err := ParseTable("meta\nA;B;C\n1;2\n")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestParseTableSkipsBlankRows(t *testing.T) {
	tbl, err := ParseTable("meta\nA;B\n1;2\n;\n3;4\n")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, tbl.Rows)
}

func TestNormalizeFixture(t *testing.T) {
	tbl, err := ParseTable(loadFixture(t))
	require.NoError(t, err)

	frame, err := Normalize(tbl)
	require.NoError(t, err)
	assert.Equal(t, model.Schema(), frame.Columns())
	assert.Equal(t, 2, frame.Len)
	require.NoError(t, Validate(frame.Columns()))

	recs, err := frame.Records()
	require.NoError(t, err)
	require.Len(t, recs, 2)

	irfm := recs[0]
	assert.Equal(t, "IRF-M 1", irfm.Indice)
	assert.Equal(t, time.Date(2021, 3, 22, 0, 0, 0, 0, time.UTC), irfm.DataReferencia)
	require.NotNil(t, irfm.NumeroIndice)
	assert.InDelta(t, 14678.123456, *irfm.NumeroIndice, 1e-9)
	require.NotNil(t, irfm.Duration)
	assert.Equal(t, "250", *irfm.Duration)
	require.NotNil(t, irfm.CarteiraAMercado)
	assert.Equal(t, "280123456.78", *irfm.CarteiraAMercado)
	assert.Nil(t, irfm.PMR, "-- is missing")
	assert.Nil(t, irfm.Convexidade)
	assert.Nil(t, irfm.RedemptionYield)
	require.NotNil(t, irfm.QuantNegociadaTitulos)
	assert.InDelta(t, 5678.9, *irfm.QuantNegociadaTitulos, 1e-9)

	imab := recs[1]
	assert.Equal(t, "IMA-B", imab.Indice)
	require.NotNil(t, imab.VariacaoDiaria)
	assert.InDelta(t, -0.4567, *imab.VariacaoDiaria, 1e-9)
	require.NotNil(t, imab.PMR)
	assert.Equal(t, "2345", *imab.PMR)
	require.NotNil(t, imab.Duration)
	assert.Equal(t, "1678", *imab.Duration, "thousands separator is not a decimal point")
	require.NotNil(t, imab.CarteiraAMercado)
	assert.Equal(t, "1234567890.12", *imab.CarteiraAMercado)
}

func TestNormalizeKeepsNonNumericText(t *testing.T) {
	tbl := &Table{
		Header: []string{"Índice", "PMR"},
		Rows:   [][]string{{"1.000", "n/d"}},
	}
	frame, err := Normalize(tbl)
	require.NoError(t, err)
	assert.Equal(t, "1.000", *frame.Series[0].Text[0], "index codes are never reformatted")
	assert.Equal(t, "n/d", *frame.Series[1].Text[0])
}

func TestNormalizeCastError(t *testing.T) {
	tbl := &Table{
		Header: []string{"Índice", "Número Índice"},
		Rows:   [][]string{{"IMA-B", "1,5"}, {"IMA-S", "abc"}},
	}
	_, err := Normalize(tbl)
	var castErr *CastError
	require.True(t, errors.As(err, &castErr))
	assert.Equal(t, "numero_indice", castErr.Column)
	assert.Equal(t, 2, castErr.Row)
	assert.Equal(t, "abc", castErr.Value)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(model.Schema()))

	cols := model.Schema()
	err := Validate(cols[:17])
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"redemption_yield"}, se.Missing)

	swapped := model.Schema()
	swapped[2], swapped[3] = swapped[3], swapped[2]
	require.ErrorAs(t, Validate(swapped), &se)
	assert.True(t, se.Misordered)

	extra := append(model.Schema(), model.Column{Name: "taxa_indicativa", Kind: model.KindFloat})
	require.ErrorAs(t, Validate(extra), &se)
	assert.Equal(t, []string{"taxa_indicativa"}, se.Unexpected)

	wrongKind := model.Schema()
	wrongKind[9].Kind = model.KindFloat // duration
	require.ErrorAs(t, Validate(wrongKind), &se)
	assert.Equal(t, []string{"duration: got float, want text"}, se.Kinds)
}

func TestEmptyFrameIsCanonical(t *testing.T) {
	f := EmptyFrame()
	assert.Equal(t, model.Schema(), f.Columns())
	assert.Zero(t, f.Len)
	recs, err := f.Records()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDecodeBodyLatin1(t *testing.T) {
	latin1 := []byte{'N', 0xFA, 'm', 'e', 'r', 'o'} // "Número" in ISO-8859-1
	got, err := DecodeBody(latin1, "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "Número", got)

	got, err = DecodeBody([]byte("Número"), "text/csv; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "Número", got)
}
