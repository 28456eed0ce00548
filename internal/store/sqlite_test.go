package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ima-data/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

// records returns every row of table ordered by reference date and index code.
func (s *Store) records(ctx context.Context, table string) ([]model.IndexRecord, error) {
	var out []model.IndexRecord
	err := s.engine.Context(ctx).Table(table).
		OrderBy(model.ColDataReferencia + ", " + model.ColIndice).
		Find(&out)
	return out, err
}

func record(indice string, date time.Time, value float64) model.IndexRecord {
	return model.IndexRecord{
		Indice:         indice,
		DataReferencia: date,
		NumeroIndice:   ptr(value),
		Duration:       ptr("250"),
	}
}

func TestMaxReferenceDateMissingTable(t *testing.T) {
	s := openTemp(t)
	_, _, err := s.MaxReferenceDate(context.Background(), "data")
	assert.Error(t, err)
}

func TestAppendCreatesTableAndMax(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	d1 := time.Date(2021, 3, 18, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2021, 3, 19, 0, 0, 0, 0, time.UTC)

	n, err := s.Append(ctx, "data", []model.IndexRecord{
		record("IMA-B", d1, 7890.5),
		record("IRF-M", d1, 14678.1),
		record("IMA-B", d2, 7891.0),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	last, ok, err := s.MaxReferenceDate(ctx, "data")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, d2, last)

	count, err := s.Count(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestAppendIsAppendOnly(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	d1 := time.Date(2021, 3, 18, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2021, 3, 22, 0, 0, 0, 0, time.UTC)

	_, err := s.Append(ctx, "data", []model.IndexRecord{record("IMA-B", d1, 1)})
	require.NoError(t, err)
	_, err = s.Append(ctx, "data", []model.IndexRecord{record("IMA-B", d2, 2)})
	require.NoError(t, err)

	recs, err := s.records(ctx, "data")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, d1, recs[0].DataReferencia.UTC())
	assert.Equal(t, d2, recs[1].DataReferencia.UTC())
	require.NotNil(t, recs[1].NumeroIndice)
	assert.Equal(t, 2.0, *recs[1].NumeroIndice)
	assert.Nil(t, recs[1].PMR, "NULL stays nil")
	require.NotNil(t, recs[1].Duration)
	assert.Equal(t, "250", *recs[1].Duration)
}

func TestAppendLargeBatchIsChunked(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	d := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)

	var recs []model.IndexRecord
	for i := 0; i < 3*insertChunk+7; i++ {
		recs = append(recs, record("IMA-B", d.AddDate(0, 0, i), float64(i)))
	}
	n, err := s.Append(ctx, "data", recs)
	require.NoError(t, err)
	assert.Equal(t, int64(len(recs)), n)

	last, ok, err := s.MaxReferenceDate(ctx, "data")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, recs[len(recs)-1].DataReferencia, last)
}

func TestAppendEmptyBatchCreatesTable(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	n, err := s.Append(ctx, "data", nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	exists, err := s.engine.IsTableExist("data")
	require.NoError(t, err)
	assert.True(t, exists)

	_, ok, err := s.MaxReferenceDate(ctx, "data")
	require.NoError(t, err)
	assert.False(t, ok, "empty table has no watermark")
}

func TestInvalidTableName(t *testing.T) {
	s := openTemp(t)
	_, err := s.Append(context.Background(), "data; DROP TABLE x", nil)
	assert.ErrorContains(t, err, "invalid table name")
	_, _, err = s.MaxReferenceDate(context.Background(), "1data")
	assert.Error(t, err)
}

func TestParseStoredTime(t *testing.T) {
	want := time.Date(2021, 3, 19, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2021-03-19 00:00:00", "2021-03-19T00:00:00Z", "2021-03-19"} {
		got, err := parseStoredTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
