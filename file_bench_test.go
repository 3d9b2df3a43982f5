package tabular_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/simonhull/tabular"
)

const benchRows = 1000

// createBenchmarkCSV writes a CSV file with benchRows data rows.
func createBenchmarkCSV(b *testing.B) string {
	b.Helper()

	var sb strings.Builder
	sb.WriteString("id,name,age,country\n")
	for i := range benchRows {
		fmt.Fprintf(&sb, "%d,person-%d,%d,country-%d\n", i, i, 20+i%50, i%10)
	}
	return createFile(b, "bench.csv", sb.String())
}

// createBenchmarkJSON writes a JSON array of nested objects.
func createBenchmarkJSON(b *testing.B) string {
	b.Helper()

	var sb strings.Builder
	sb.WriteByte('[')
	for i := range benchRows {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `{"id":%d,"name":"person-%d","bank":{"account":%d,"institution":"bank-%d"},"tags":["a","b"]}`,
			i, i, 100000+i, i%5)
	}
	sb.WriteByte(']')
	return createFile(b, "bench.json", sb.String())
}

func createBenchmarkParquet(b *testing.B) string {
	b.Helper()

	rows := make([]person, benchRows)
	for i := range rows {
		rows[i] = person{Name: fmt.Sprintf("person-%d", i), Age: int64(i), Country: "c"}
	}

	path := filepath.Join(b.TempDir(), "bench.parquet")
	if err := parquet.WriteFile(path, rows); err != nil {
		b.Fatal(err)
	}
	return path
}

func benchmarkRecords(b *testing.B, path string, opts ...tabular.Option) {
	file, err := tabular.Open(path, opts...)
	if err != nil {
		b.Fatal(err)
	}
	defer file.Close()

	b.ReportAllocs()

	for b.Loop() {
		it, err := file.Records()
		if err != nil {
			b.Fatal(err)
		}
		n := 0
		for it.Next() {
			n++
		}
		if err := it.Err(); err != nil {
			b.Fatal(err)
		}
		if n != benchRows {
			b.Fatalf("got %d records, want %d", n, benchRows)
		}
	}
}

// BenchmarkRecords_CSV measures streaming every row of a CSV file.
func BenchmarkRecords_CSV(b *testing.B) {
	benchmarkRecords(b, createBenchmarkCSV(b), tabular.WithDelimiter(','))
}

// BenchmarkRecords_JSON measures flattening every element of a JSON array.
func BenchmarkRecords_JSON(b *testing.B) {
	benchmarkRecords(b, createBenchmarkJSON(b))
}

// BenchmarkRecords_Parquet measures rendering every row of a Parquet file.
func BenchmarkRecords_Parquet(b *testing.B) {
	benchmarkRecords(b, createBenchmarkParquet(b))
}

// BenchmarkHeaders_JSON measures deriving flattened headers.
func BenchmarkHeaders_JSON(b *testing.B) {
	file, err := tabular.Open(createBenchmarkJSON(b))
	if err != nil {
		b.Fatal(err)
	}
	defer file.Close()

	b.ReportAllocs()

	for b.Loop() {
		if _, err := file.Headers(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkOpenMany measures concurrent opening of multiple files.
func BenchmarkOpenMany(b *testing.B) {
	path := createBenchmarkCSV(b)
	paths := make([]string, 10)
	for i := range paths {
		paths[i] = path
	}
	ctx := context.Background()

	b.ReportAllocs()

	for b.Loop() {
		files, err := tabular.OpenMany(ctx, paths, tabular.WithDelimiter(','))
		if err != nil {
			b.Fatal(err)
		}
		for _, f := range files {
			f.Close()
		}
	}
}
