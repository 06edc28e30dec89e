package reporter

import (
	"encoding/csv"
	"fmt"
	"os"
)

// SaveCSV writes result (any of the five result types or an
// []ifaceinfo.Interface list) to path as
// UTF-8-BOM CSV, grounded on neoAgent's SaveCsvResult helper so
// spreadsheet tools that assume Windows-1252 still render it correctly.
func SaveCSV(path string, result any) error {
	headers, rows := adapt(result)
	if headers == nil {
		return fmt.Errorf("reporter: result type has no tabular representation")
	}
	if len(rows) == 0 {
		return fmt.Errorf("reporter: no rows to export")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString("\xEF\xBB\xBF"); err != nil {
		return fmt.Errorf("write csv bom: %w", err)
	}

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
