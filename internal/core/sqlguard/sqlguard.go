// Package sqlguard enforces the read only policy for ad hoc SQL
package sqlguard

import (
	"regexp"
	"slices"
	"strings"

	perr "datalens/internal/platform/errors"
)

// Forbidden lists statement keywords SQL Lab refuses
var Forbidden = []string{
	"delete", "update", "insert", "alter", "drop",
	"create", "truncate", "rename", "grant", "revoke",
}

var (
	word       = regexp.MustCompile(`[a-z_][a-z0-9_]*`)
	selectStar = regexp.MustCompile(`\bselect\s+(?:(?:distinct|all)\s+)?\*`)
)

// Check reports why sql may not run, nil when it is allowed
func Check(sql string) error {
	_, err := Statement(sql)
	return err
}

// Statement validates sql and returns the single statement without a trailing semicolon
func Statement(sql string) (string, error) {
	code, err := strip(sql)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(code) == "" {
		return "", perr.WithField(perr.InvalidArgf("query is empty"), "sql")
	}

	// code keeps byte offsets of sql, so the first separator cuts both
	end := len(sql)
	if i := strings.IndexByte(code, ';'); i >= 0 {
		if strings.TrimSpace(strings.ReplaceAll(code[i:], ";", "")) != "" {
			return "", perr.WithField(perr.InvalidArgf("only a single statement is allowed"), "sql")
		}
		end = i
	}

	lower := strings.ToLower(code[:end])
	for _, w := range word.FindAllString(lower, -1) {
		if slices.Contains(Forbidden, w) {
			return "", perr.WithField(perr.Forbiddenf("%s statements are not allowed", strings.ToUpper(w)), "sql")
		}
	}
	if selectStar.MatchString(lower) {
		return "", perr.WithField(perr.Forbiddenf("SELECT * is not allowed, name the columns"), "sql")
	}
	return strings.TrimSpace(sql[:end]), nil
}

// strip blanks out literals, quoted identifiers and comments with spaces
// the result has the same length as sql
func strip(sql string) (string, error) {
	b := []byte(sql)
	out := make([]byte, len(b))
	copy(out, b)

	blank := func(from, to int) {
		for k := from; k < to && k < len(out); k++ {
			if out[k] != '\n' {
				out[k] = ' '
			}
		}
	}

	for i := 0; i < len(b); {
		switch {
		case b[i] == '\'' || b[i] == '"' || b[i] == '`':
			q := b[i]
			j := i + 1
			closed := false
			for j < len(b) {
				if b[j] == q {
					if j+1 < len(b) && b[j+1] == q {
						j += 2
						continue
					}
					closed = true
					break
				}
				j++
			}
			if !closed {
				return "", perr.WithField(perr.InvalidArgf("unterminated %c quote", q), "sql")
			}
			blank(i, j+1)
			i = j + 1
		case b[i] == '-' && i+1 < len(b) && b[i+1] == '-':
			j := i
			for j < len(b) && b[j] != '\n' {
				j++
			}
			blank(i, j)
			i = j
		case b[i] == '/' && i+1 < len(b) && b[i+1] == '*':
			j := strings.Index(sql[i+2:], "*/")
			if j < 0 {
				return "", perr.WithField(perr.InvalidArgf("unterminated comment"), "sql")
			}
			end := i + 2 + j + 2
			blank(i, end)
			i = end
		default:
			i++
		}
	}
	return string(out), nil
}
