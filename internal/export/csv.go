package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var csvHeader = []string{"New File Name", "Keywords"}

// WriteCSV writes the keyword table with every field quoted
func WriteCSV(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	writeRecord(bw, csvHeader)
	for _, row := range rows {
		writeRecord(bw, []string{row.FileName, row.JoinedKeywords()})
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeRecord(w *bufio.Writer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(field, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}
