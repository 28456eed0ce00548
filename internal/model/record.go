package model

import (
	"slices"
	"time"
)

// Kind is the declared type of a canonical column.
type Kind int

const (
	KindText Kind = iota
	KindFloat
	KindDatetime
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFloat:
		return "float"
	case KindDatetime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Column is one (name, kind) entry of the canonical schema.
type Column struct {
	Name string
	Kind Kind
}

// Column names of the canonical schema.
const (
	ColIndice                = "indice"
	ColDataReferencia        = "data_referencia"
	ColNumeroIndice          = "numero_indice"
	ColVariacaoDiaria        = "variacao_diaria"
	ColVariacaoMes           = "variacao_mes"
	ColVariacaoAno           = "variacao_ano"
	ColVariacao12Meses       = "variacao_12_meses"
	ColVariacao24Meses       = "variacao_24_meses"
	ColPeso                  = "peso"
	ColDuration              = "duration"
	ColCarteiraAMercado      = "carteira_a_mercado"
	ColNumeroOperacoes       = "numero_operacoes"
	ColQuantNegociadaTitulos = "quant_negociada_titulos"
	ColValorNegociado        = "valor_negociado"
	ColPMR                   = "pmr"
	ColConvexidade           = "convexidade"
	ColYield                 = "yield"
	ColRedemptionYield       = "redemption_yield"
)

var schema = []Column{
	{ColIndice, KindText},
	{ColDataReferencia, KindDatetime},
	{ColNumeroIndice, KindFloat},
	{ColVariacaoDiaria, KindFloat},
	{ColVariacaoMes, KindFloat},
	{ColVariacaoAno, KindFloat},
	{ColVariacao12Meses, KindFloat},
	{ColVariacao24Meses, KindFloat},
	{ColPeso, KindFloat},
	{ColDuration, KindText},
	{ColCarteiraAMercado, KindText},
	{ColNumeroOperacoes, KindFloat},
	{ColQuantNegociadaTitulos, KindFloat},
	{ColValorNegociado, KindFloat},
	{ColPMR, KindText},
	{ColConvexidade, KindFloat},
	{ColYield, KindFloat},
	{ColRedemptionYield, KindFloat},
}

// Schema returns the ordered canonical schema. The returned slice is a copy.
func Schema() []Column {
	return slices.Clone(schema)
}

// Columns returns the canonical column names in order.
func Columns() []string {
	names := make([]string, len(schema))
	for i, c := range schema {
		names[i] = c.Name
	}
	return names
}

// KindOf returns the declared kind of a canonical column.
func KindOf(name string) (Kind, bool) {
	for _, c := range schema {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return 0, false
}

// IndexRecord is one row of the IMA summary table for one reference date and one index.
// Nil pointers are missing values (provider placeholder or empty cell).
// Shared by the store (xorm), the exporters (json, parquet, csv) and the provider.
type IndexRecord struct {
	Indice                string    `xorm:"'indice' TEXT" json:"indice" parquet:"indice"`
	DataReferencia        time.Time `xorm:"'data_referencia' DATETIME index" json:"data_referencia" parquet:"data_referencia,timestamp"`
	NumeroIndice          *float64  `xorm:"'numero_indice' REAL" json:"numero_indice" parquet:"numero_indice,optional"`
	VariacaoDiaria        *float64  `xorm:"'variacao_diaria' REAL" json:"variacao_diaria" parquet:"variacao_diaria,optional"`
	VariacaoMes           *float64  `xorm:"'variacao_mes' REAL" json:"variacao_mes" parquet:"variacao_mes,optional"`
	VariacaoAno           *float64  `xorm:"'variacao_ano' REAL" json:"variacao_ano" parquet:"variacao_ano,optional"`
	Variacao12Meses       *float64  `xorm:"'variacao_12_meses' REAL" json:"variacao_12_meses" parquet:"variacao_12_meses,optional"`
	Variacao24Meses       *float64  `xorm:"'variacao_24_meses' REAL" json:"variacao_24_meses" parquet:"variacao_24_meses,optional"`
	Peso                  *float64  `xorm:"'peso' REAL" json:"peso" parquet:"peso,optional"`
	Duration              *string   `xorm:"'duration' TEXT" json:"duration" parquet:"duration,optional"` // business days, provider sends it as free text
	CarteiraAMercado      *string   `xorm:"'carteira_a_mercado' TEXT" json:"carteira_a_mercado" parquet:"carteira_a_mercado,optional"`
	NumeroOperacoes       *float64  `xorm:"'numero_operacoes' REAL" json:"numero_operacoes" parquet:"numero_operacoes,optional"`
	QuantNegociadaTitulos *float64  `xorm:"'quant_negociada_titulos' REAL" json:"quant_negociada_titulos" parquet:"quant_negociada_titulos,optional"`
	ValorNegociado        *float64  `xorm:"'valor_negociado' REAL" json:"valor_negociado" parquet:"valor_negociado,optional"`
	PMR                   *string   `xorm:"'pmr' TEXT" json:"pmr" parquet:"pmr,optional"`
	Convexidade           *float64  `xorm:"'convexidade' REAL" json:"convexidade" parquet:"convexidade,optional"`
	Yield                 *float64  `xorm:"'yield' REAL" json:"yield" parquet:"yield,optional"`
	RedemptionYield       *float64  `xorm:"'redemption_yield' REAL" json:"redemption_yield" parquet:"redemption_yield,optional"`
}

// Values returns the record fields in canonical column order.
// Missing values are nil; present ones are string, float64 or time.Time.
func (r IndexRecord) Values() []any {
	return []any{
		r.Indice,
		r.DataReferencia,
		floatOrNil(r.NumeroIndice),
		floatOrNil(r.VariacaoDiaria),
		floatOrNil(r.VariacaoMes),
		floatOrNil(r.VariacaoAno),
		floatOrNil(r.Variacao12Meses),
		floatOrNil(r.Variacao24Meses),
		floatOrNil(r.Peso),
		stringOrNil(r.Duration),
		stringOrNil(r.CarteiraAMercado),
		floatOrNil(r.NumeroOperacoes),
		floatOrNil(r.QuantNegociadaTitulos),
		floatOrNil(r.ValorNegociado),
		stringOrNil(r.PMR),
		floatOrNil(r.Convexidade),
		floatOrNil(r.Yield),
		floatOrNil(r.RedemptionYield),
	}
}

func floatOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringOrNil(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
