package tabular

import (
	_ "github.com/simonhull/tabular/internal/columnar"  // Register Parquet decoder
	_ "github.com/simonhull/tabular/internal/delimited" // Register CSV/TSV decoder
	_ "github.com/simonhull/tabular/internal/document"  // Register JSON decoder
)
