// Package tabular provides a uniform tabular view over delimited text, JSON
// and Parquet files.
//
// Callers get one header list and one record iterator regardless of the
// underlying encoding. Every value is rendered as a string.
//
// # Quick Start
//
// Reading a CSV file:
//
//	file, err := tabular.Open("people.csv", tabular.WithDelimiter(','))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	headers, err := file.Headers()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(headers)
//
//	it, err := file.Records()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer it.Close()
//	for rec := range it.All() {
//		fmt.Println(rec)
//	}
//	if err := it.Err(); err != nil {
//		log.Fatal(err)
//	}
//
// # Supported Encodings
//
// The encoding is chosen from the file extension:
//
//   - .csv, .tsv: delimited text. A delimiter must be given with WithDelimiter.
//   - .json: a JSON array of objects.
//   - .parquet: Apache Parquet.
//
// # JSON Flattening
//
// Nested objects are flattened. The object
//
//	{"name": "John", "bank": {"institution": "Chase", "account": 123456}}
//
// has the headers "bank.account", "bank.institution" and "name", and the
// record ["123456", "Chase", "John"]. Arrays are not expanded; they are
// rendered as compact JSON in a single field. Members are visited in sorted
// key order unless WithKeyOrder(KeyOrderDocument) is given, so objects with
// differently ordered keys produce aligned records.
//
// Headers are the union of keys across all objects, but each record holds
// only the values its own object has. Records of heterogeneous documents
// may therefore be shorter than the header list.
//
// # Error Handling
//
// Errors are typed. Use errors.Is with a zero value to test the kind:
//
//	if errors.Is(err, &tabular.UnsupportedFormatError{}) {
//		...
//	}
//
// By default decoding is permissive: malformed CSV rows are skipped and
// reported through RowIterator.Warnings. WithStrictParsing turns those
// into errors.
//
// # Logging
//
// The library is silent by default. Pass a *slog.Logger with WithLogger to
// receive debug entries about detection, header derivation and skipped rows.
package tabular
