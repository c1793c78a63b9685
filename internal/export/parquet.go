package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// WriteParquet writes the keyword table as a single Parquet file
func WriteParquet(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	if err := parquet.Write(w, rows); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return nil
}
