// Package csvexport renders query results as downloadable CSV
package csvexport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"datalens/internal/core/rowset"
	perr "datalens/internal/platform/errors"
)

// ContentType is sent with CSV downloads
const ContentType = "text/csv; charset=utf-8"

// FileName names an export made at t
func FileName(t time.Time) string {
	return "query-results-" + t.UTC().Format("2006-01-02") + ".csv"
}

// Render returns the CSV document for set
func Render(set rowset.Set) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, set); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams set to w
// the header row is unquoted, every cell is quoted and lines have no trailing newline
func Write(w io.Writer, set rowset.Set) error {
	if set.Len() > rowset.MaxRows {
		return perr.WithField(
			perr.InvalidArgf("export has %d rows, the limit is %d", set.Len(), rowset.MaxRows), "rows")
	}

	if _, err := io.WriteString(w, strings.Join(set.Columns, ",")); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "write csv header")
	}
	cells := make([]string, len(set.Columns))
	for _, row := range set.Rows {
		for i, c := range set.Columns {
			cells[i] = quote(cell(row[c]))
		}
		if _, err := io.WriteString(w, "\n"+strings.Join(cells, ",")); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "write csv row")
		}
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}
