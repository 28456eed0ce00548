package anbima

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ima-data/internal/model"
)

// MissingValue is the provider placeholder for an absent cell.
const MissingValue = "--"

var referenceDateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02"}

// Series is one typed column. Exactly one of Text, Float, Time is populated, per Kind.
// Nil entries are missing values.
type Series struct {
	Name  string
	Kind  model.Kind
	Text  []*string
	Float []*float64
	Time  []*time.Time
}

// Frame is a typed table with cleaned column names.
type Frame struct {
	Series []Series
	Len    int
}

// EmptyFrame returns a zero-row frame shaped with the canonical columns.
func EmptyFrame() *Frame {
	cols := model.Schema()
	f := &Frame{Series: make([]Series, len(cols))}
	for i, c := range cols {
		f.Series[i] = Series{Name: c.Name, Kind: c.Kind}
	}
	return f
}

// Columns returns the (name, kind) list of the frame.
func (f *Frame) Columns() []model.Column {
	cols := make([]model.Column, len(f.Series))
	for i, s := range f.Series {
		cols[i] = model.Column{Name: s.Name, Kind: s.Kind}
	}
	return cols
}

// Normalize cleans the header and casts every column to its declared kind.
// Columns outside the canonical schema are kept as text so validation can report them.
// A cell that cannot be cast is a fatal *CastError.
func Normalize(t *Table) (*Frame, error) {
	names := CleanNames(t.Header)
	f := &Frame{Series: make([]Series, len(names)), Len: len(t.Rows)}
	for col, name := range names {
		kind, ok := model.KindOf(name)
		if !ok {
			kind = model.KindText
		}
		s := Series{Name: name, Kind: kind}
		for row, rec := range t.Rows {
			if err := s.appendCell(rec[col]); err != nil {
				return nil, &CastError{Column: name, Row: row + 1, Value: rec[col], Err: err}
			}
		}
		f.Series[col] = s
	}
	return f, nil
}

func (s *Series) appendCell(cell string) error {
	missing := isMissing(cell)
	switch s.Kind {
	case model.KindFloat:
		if missing {
			s.Float = append(s.Float, nil)
			return nil
		}
		v, err := ParseNumber(cell)
		if err != nil {
			return err
		}
		s.Float = append(s.Float, &v)
	case model.KindDatetime:
		if missing {
			s.Time = append(s.Time, nil)
			return nil
		}
		v, err := ParseReferenceDate(cell)
		if err != nil {
			return err
		}
		s.Time = append(s.Time, &v)
	default:
		if missing {
			s.Text = append(s.Text, nil)
			return nil
		}
		v := cell
		if s.Name != model.ColIndice {
			v = numericText(cell)
		}
		s.Text = append(s.Text, &v)
	}
	return nil
}

// numericText rewrites a locale formatted number ("1.234.567,89") held in a text column
// as plain decimal text ("1234567.89"). Cells that are not numbers are returned unchanged.
func numericText(cell string) string {
	v, err := ParseNumber(cell)
	if err != nil {
		return cell
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isMissing(cell string) bool {
	cell = strings.TrimSpace(cell)
	return cell == "" || cell == MissingValue
}

// ParseNumber parses a provider number: '.' groups thousands and ',' is the decimal mark.
//
//	"1.234.567,89" -> 1234567.89
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}

// ParseReferenceDate parses a day-first date such as "19/03/2021".
func ParseReferenceDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range referenceDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want dd/mm/yyyy)", s)
}

// Validate checks that columns equal the canonical schema in names, order and kinds.
func Validate(cols []model.Column) error {
	want := model.Schema()
	wantNames := model.Columns()
	gotNames := make([]string, len(cols))
	for i, c := range cols {
		gotNames[i] = c.Name
	}

	e := &SchemaError{}
	for _, n := range wantNames {
		if !slices.Contains(gotNames, n) {
			e.Missing = append(e.Missing, n)
		}
	}
	for _, n := range gotNames {
		if !slices.Contains(wantNames, n) {
			e.Unexpected = append(e.Unexpected, n)
		}
	}
	if len(e.Missing) == 0 && len(e.Unexpected) == 0 && !slices.Equal(gotNames, wantNames) {
		e.Misordered = true
	}
	for _, c := range cols {
		for _, w := range want {
			if c.Name == w.Name && c.Kind != w.Kind {
				e.Kinds = append(e.Kinds, fmt.Sprintf("%s: got %s, want %s", c.Name, c.Kind, w.Kind))
			}
		}
	}

	if len(e.Missing) > 0 || len(e.Unexpected) > 0 || e.Misordered || len(e.Kinds) > 0 {
		return e
	}
	return nil
}

// Records converts a validated frame into IndexRecords, in row order.
func (f *Frame) Records() ([]model.IndexRecord, error) {
	if err := Validate(f.Columns()); err != nil {
		return nil, err
	}
	byName := make(map[string]*Series, len(f.Series))
	for i := range f.Series {
		byName[f.Series[i].Name] = &f.Series[i]
	}
	text := func(col string, row int) *string { return byName[col].Text[row] }
	num := func(col string, row int) *float64 { return byName[col].Float[row] }

	out := make([]model.IndexRecord, 0, f.Len)
	for row := 0; row < f.Len; row++ {
		ref := byName[model.ColDataReferencia].Time[row]
		if ref == nil {
			return nil, &CastError{Column: model.ColDataReferencia, Row: row + 1, Err: fmt.Errorf("reference date is required")}
		}
		var indice string
		if p := text(model.ColIndice, row); p != nil {
			indice = *p
		}
		out = append(out, model.IndexRecord{
			Indice:                indice,
			DataReferencia:        *ref,
			NumeroIndice:          num(model.ColNumeroIndice, row),
			VariacaoDiaria:        num(model.ColVariacaoDiaria, row),
			VariacaoMes:           num(model.ColVariacaoMes, row),
			VariacaoAno:           num(model.ColVariacaoAno, row),
			Variacao12Meses:       num(model.ColVariacao12Meses, row),
			Variacao24Meses:       num(model.ColVariacao24Meses, row),
			Peso:                  num(model.ColPeso, row),
			Duration:              text(model.ColDuration, row),
			CarteiraAMercado:      text(model.ColCarteiraAMercado, row),
			NumeroOperacoes:       num(model.ColNumeroOperacoes, row),
			QuantNegociadaTitulos: num(model.ColQuantNegociadaTitulos, row),
			ValorNegociado:        num(model.ColValorNegociado, row),
			PMR:                   text(model.ColPMR, row),
			Convexidade:           num(model.ColConvexidade, row),
			Yield:                 num(model.ColYield, row),
			RedemptionYield:       num(model.ColRedemptionYield, row),
		})
	}
	return out, nil
}
