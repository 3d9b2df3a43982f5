package columnar

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/tabular/internal/source"
	"github.com/simonhull/tabular/internal/types"
)

type person struct {
	Name    string `parquet:"name"`
	Age     int64  `parquet:"age"`
	Country string `parquet:"country"`
}

var people = []person{
	{Name: "John", Age: 30, Country: "USA"},
	{Name: "Alice", Age: 25, Country: "UK"},
	{Name: "Bob", Age: 40, Country: "Canada"},
}

type account struct {
	Institution string `parquet:"institution"`
	Number      int32  `parquet:"number"`
}

type customer struct {
	Name    string   `parquet:"name"`
	Bank    account  `parquet:"bank"`
	Tags    []string `parquet:"tags"`
	Nick    *string  `parquet:"nick,optional"`
	Score   float32  `parquet:"score"`
	Balance float64  `parquet:"balance"`
	Active  bool     `parquet:"active"`
}

var enc = types.Encoding{Format: types.FormatParquet}

func writeParquet[T any](t *testing.T, rows []T, options ...parquet.WriterOption) *source.Source {
	t.Helper()

	var buf bytes.Buffer
	w := parquet.NewGenericWriter[T](&buf, options...)
	_, err := w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data := buf.Bytes()
	return source.New(bytes.NewReader(data), int64(len(data)), "test.parquet")
}

func collect(t *testing.T, rs types.RowSource) []types.Record {
	t.Helper()

	var out []types.Record
	for {
		rec, err := rs.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestHeaders(t *testing.T) {
	headers, err := (&decoder{}).Headers(writeParquet(t, people), enc, types.DefaultDecodeOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "country"}, headers)
}

func TestRows(t *testing.T) {
	rs, err := (&decoder{}).Rows(writeParquet(t, people), enc, types.DefaultDecodeOptions())
	require.NoError(t, err)
	defer rs.Close()

	assert.Equal(t, []types.Record{
		{"John", "30", "USA"},
		{"Alice", "25", "UK"},
		{"Bob", "40", "Canada"},
	}, collect(t, rs))
	assert.Empty(t, rs.Warnings())
}

func TestNestedAndRepeated(t *testing.T) {
	nick := "jo"
	src := writeParquet(t, []customer{
		{
			Name:    "John",
			Bank:    account{Institution: "Chase", Number: 123456},
			Tags:    []string{"vip", "early"},
			Nick:    &nick,
			Score:   1.5,
			Balance: 1024.25,
			Active:  true,
		},
		{
			Name: "Alice",
			Bank: account{Institution: "Barclays", Number: 654321},
		},
	})
	d := &decoder{}

	headers, err := d.Headers(src, enc, types.DefaultDecodeOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"name", "bank.institution", "bank.number", "tags", "nick", "score", "balance", "active",
	}, headers)

	rs, err := d.Rows(src, enc, types.DefaultDecodeOptions())
	require.NoError(t, err)
	defer rs.Close()

	records := collect(t, rs)
	require.Len(t, records, 2)
	assert.Equal(t, types.Record{"John", "Chase", "123456", "[vip, early]", "jo", "1.5", "1024.25", "true"}, records[0])
	assert.Equal(t, types.Record{"Alice", "Barclays", "654321", "[]", "null", "0", "0", "false"}, records[1])

	for _, rec := range records {
		assert.Len(t, rec, len(headers))
	}
}

func TestHeaders_PathSeparator(t *testing.T) {
	opts := types.DefaultDecodeOptions()
	opts.PathSeparator = "_"

	headers, err := (&decoder{}).Headers(writeParquet(t, []customer{{Name: "x"}}), enc, opts)
	require.NoError(t, err)
	assert.Contains(t, headers, "bank_institution")
}

func TestRows_NullValue(t *testing.T) {
	opts := types.DefaultDecodeOptions()
	opts.NullValue = "NA"

	rs, err := (&decoder{}).Rows(writeParquet(t, []customer{{Name: "x"}}), enc, opts)
	require.NoError(t, err)

	records := collect(t, rs)
	require.Len(t, records, 1)
	assert.Equal(t, "NA", records[0][4])
}

func TestRows_RowGroups(t *testing.T) {
	tests := []struct {
		name string
		all  bool
		want int
	}{
		{"first group only", false, 2},
		{"all groups", true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeParquet(t, people, parquet.MaxRowsPerRowGroup(2))
			opts := types.DefaultDecodeOptions()
			opts.AllRowGroups = tt.all

			rs, err := (&decoder{}).Rows(src, enc, opts)
			require.NoError(t, err)
			defer rs.Close()

			records := collect(t, rs)
			require.Len(t, records, tt.want)
			assert.Equal(t, types.Record{"John", "30", "USA"}, records[0])
		})
	}
}

func TestRows_LargerThanBatch(t *testing.T) {
	many := make([]person, batchSize*2+7)
	for i := range many {
		many[i] = person{Name: "n", Age: int64(i), Country: "c"}
	}

	rs, err := (&decoder{}).Rows(writeParquet(t, many), enc, types.DefaultDecodeOptions())
	require.NoError(t, err)
	defer rs.Close()

	records := collect(t, rs)
	require.Len(t, records, len(many))
	assert.Equal(t, "0", records[0][1])
	assert.Equal(t, "262", records[len(records)-1][1])
}

func TestInvalidFile(t *testing.T) {
	data := []byte("definitely not a parquet file")
	src := source.New(bytes.NewReader(data), int64(len(data)), "bad.parquet")
	d := &decoder{}

	_, err := d.Headers(src, enc, types.DefaultDecodeOptions())
	var decodeErr *types.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "bad.parquet", decodeErr.Path)
	assert.Equal(t, types.FormatParquet, decodeErr.Format)

	_, err = d.Rows(src, enc, types.DefaultDecodeOptions())
	assert.ErrorIs(t, err, &types.DecodeError{})
}

func TestRows_StaysExhausted(t *testing.T) {
	rs, err := (&decoder{}).Rows(writeParquet(t, people), enc, types.DefaultDecodeOptions())
	require.NoError(t, err)

	assert.Len(t, collect(t, rs), 3)
	_, err = rs.Next()
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, rs.Close())
	require.NoError(t, rs.Close())
	_, err = rs.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRows_CloseBeforeExhaustion(t *testing.T) {
	rs, err := (&decoder{}).Rows(writeParquet(t, people), enc, types.DefaultDecodeOptions())
	require.NoError(t, err)

	_, err = rs.Next()
	require.NoError(t, err)
	require.NoError(t, rs.Close())

	_, err = rs.Next()
	assert.ErrorIs(t, err, io.EOF)
}

type reading struct {
	Day     int32     `parquet:"day,date"`
	Taken   time.Time `parquet:"taken,timestamp"`
	Count   uint32    `parquet:"count"`
	Total   uint64    `parquet:"total"`
	Price   int32     `parquet:"price,decimal(2:9)"`
	Balance int64     `parquet:"balance,decimal(3:18)"`
}

func TestRows_LogicalTypes(t *testing.T) {
	day := int32(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
	taken := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	src := writeParquet(t, []reading{
		{Day: day, Taken: taken, Count: 4000000000, Total: 1 << 63, Price: 12345, Balance: -5},
	})

	rs, err := (&decoder{}).Rows(src, enc, types.DefaultDecodeOptions())
	require.NoError(t, err)
	defer rs.Close()

	got := collect(t, rs)
	require.Len(t, got, 1)
	rec := got[0]
	require.Len(t, rec, 6)

	assert.Equal(t, "2024-01-02", rec[0])
	assert.True(t, strings.HasPrefix(rec[1], "2024-01-02T03:04:05"), "timestamp rendered as %q", rec[1])
	assert.Equal(t, "4000000000", rec[2])
	assert.Equal(t, "9223372036854775808", rec[3])
	assert.Equal(t, "123.45", rec[4])
	assert.Equal(t, "-0.005", rec[5])
}

func TestRenderValue(t *testing.T) {
	millis := format.TimeUnit{Millis: &format.MilliSeconds{}}
	micros := format.TimeUnit{Micros: &format.MicroSeconds{}}
	nanos := format.TimeUnit{Nanos: &format.NanoSeconds{}}
	instant := time.Date(2024, 1, 2, 3, 4, 5, 600000000, time.UTC)

	tests := []struct {
		name    string
		value   parquet.Value
		logical *format.LogicalType
		want    string
	}{
		{"null", parquet.NullValue(), nil, "null"},
		{"null date", parquet.NullValue(), &format.LogicalType{Date: &format.DateType{}}, "null"},
		{"bool", parquet.BooleanValue(true), nil, "true"},
		{"int32", parquet.Int32Value(-4), nil, "-4"},
		{"int64", parquet.Int64Value(1 << 40), nil, "1099511627776"},
		{"float", parquet.FloatValue(0.25), nil, "0.25"},
		{"double", parquet.DoubleValue(1e21), nil, "1000000000000000000000"},
		{"bytes", parquet.ByteArrayValue([]byte("h\u00e9llo")), nil, "h\u00e9llo"},
		{"invalid utf8", parquet.ByteArrayValue([]byte{'a', 0xff, 'b'}), nil, "a\uFFFDb"},
		{"each invalid byte replaced", parquet.ByteArrayValue([]byte{'a', 0xff, 0xfe, 'b'}), nil, "a\uFFFD\uFFFDb"},
		{"signed int", parquet.Int32Value(-1), &format.LogicalType{Integer: &format.IntType{BitWidth: 32, IsSigned: true}}, "-1"},
		{"uint32", parquet.Int32Value(-1), &format.LogicalType{Integer: &format.IntType{BitWidth: 32}}, "4294967295"},
		{"uint64", parquet.Int64Value(-1), &format.LogicalType{Integer: &format.IntType{BitWidth: 64}}, "18446744073709551615"},
		{"date", parquet.Int32Value(19724), &format.LogicalType{Date: &format.DateType{}}, "2024-01-02"},
		{"date before epoch", parquet.Int32Value(-1), &format.LogicalType{Date: &format.DateType{}}, "1969-12-31"},
		{
			"timestamp millis",
			parquet.Int64Value(instant.UnixMilli()),
			&format.LogicalType{Timestamp: &format.TimestampType{IsAdjustedToUTC: true, Unit: millis}},
			"2024-01-02T03:04:05.6Z",
		},
		{
			"timestamp micros",
			parquet.Int64Value(instant.UnixMicro()),
			&format.LogicalType{Timestamp: &format.TimestampType{IsAdjustedToUTC: true, Unit: micros}},
			"2024-01-02T03:04:05.6Z",
		},
		{
			"local timestamp nanos",
			parquet.Int64Value(instant.UnixNano()),
			&format.LogicalType{Timestamp: &format.TimestampType{Unit: nanos}},
			"2024-01-02T03:04:05.6",
		},
		{
			"time millis",
			parquet.Int32Value(int32((13*time.Hour + 30*time.Minute) / time.Millisecond)),
			&format.LogicalType{Time: &format.TimeType{Unit: millis}},
			"13:30:00",
		},
		{
			"time micros",
			parquet.Int64Value(int64((time.Hour + 1500*time.Millisecond) / time.Microsecond)),
			&format.LogicalType{Time: &format.TimeType{Unit: micros}},
			"01:00:01.5",
		},
		{"decimal int32", parquet.Int32Value(12345), &format.LogicalType{Decimal: &format.DecimalType{Scale: 2, Precision: 9}}, "123.45"},
		{"decimal int64 negative", parquet.Int64Value(-5), &format.LogicalType{Decimal: &format.DecimalType{Scale: 2, Precision: 18}}, "-0.05"},
		{"decimal no scale", parquet.Int64Value(42), &format.LogicalType{Decimal: &format.DecimalType{Precision: 18}}, "42"},
		{
			"decimal fixed bytes",
			parquet.FixedLenByteArrayValue([]byte{0xff, 0xff, 0xcf, 0xc7}),
			&format.LogicalType{Decimal: &format.DecimalType{Scale: 3, Precision: 9}},
			"-12.345",
		},
		{
			"uuid",
			parquet.FixedLenByteArrayValue([]byte{0x12, 0x3e, 0x45, 0x67, 0xe8, 0x9b, 0x12, 0xd3, 0xa4, 0x56, 0x42, 0x66, 0x14, 0x17, 0x40, 0x00}),
			&format.LogicalType{UUID: &format.UUIDType{}},
			"123e4567-e89b-12d3-a456-426614174000",
		},
		{"string", parquet.ByteArrayValue([]byte("x")), &format.LogicalType{UTF8: &format.StringType{}}, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderValue(tt.value, tt.logical, "null"))
		})
	}
}
