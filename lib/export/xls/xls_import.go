package xlsexport

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// ReadRecords reads the first sheet. The first non-empty row is the header.
func ReadRecords(r io.Reader) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open xlsx file")
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "unable to read sheet")
	}
	var headers []string
	result := []map[string]any{}
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if headers == nil {
			headers = row
			continue
		}
		rec := make(map[string]any, len(headers))
		for idx, header := range headers {
			if header == "" || idx >= len(row) {
				continue
			}
			rec[header] = row[idx]
		}
		result = append(result, rec)
	}
	return result, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
