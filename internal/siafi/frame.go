package siafi

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/encoding/charmap"
)

var ErrEmptyFrame = errors.New("dataframe is empty")

// ReadFrame decodes a SIAFI export. The files are Windows-1252 and separated
// by semicolons; every column is kept as text.
func ReadFrame(r io.Reader) (dataframe.DataFrame, error) {
	decoded := charmap.Windows1252.NewDecoder().Reader(r)
	df := dataframe.ReadCSV(decoded,
		dataframe.WithDelimiter(';'),
		dataframe.WithLazyQuotes(true),
		dataframe.DetectTypes(false),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read csv: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, ErrEmptyFrame
	}
	return df, nil
}

func hasColumn(df *dataframe.DataFrame, col string) bool {
	for _, name := range df.Names() {
		if name == col {
			return true
		}
	}
	return false
}

// getStr returns the trimmed cell, or "" when the column is missing or the
// cell is empty.
func getStr(col string, rowIdx int, df *dataframe.DataFrame) string {
	if df == nil || !hasColumn(df, col) {
		return ""
	}
	elem := df.Col(col).Elem(rowIdx)
	if elem.IsNA() {
		return ""
	}
	return strings.TrimSpace(elem.String())
}
