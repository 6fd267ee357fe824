package utils

//nolint:depguard
import (
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// HasCol checks whether a DataFrame contains a given column
func HasCol(df dataframe.DataFrame, colName string) bool {
	for _, name := range df.Names() {
		if name == colName {
			return true
		}
	}
	return false
}

// IsEmpty reports whether df has no rows or failed to load.
func IsEmpty(df dataframe.DataFrame) bool {
	return df.Err != nil || df.Nrow() == 0 || df.Ncol() == 0
}

// NormalizeHeaders trims and lower-cases column names, then maps known
// aliases onto their canonical name.
func NormalizeHeaders(headers []string, aliases map[string]string) []string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		normalized[i] = name
	}
	return normalized
}

// ColumnIndex returns the position of colName in headers, or -1.
func ColumnIndex(headers []string, colName string) int {
	for i, h := range headers {
		if h == colName {
			return i
		}
	}
	return -1
}
