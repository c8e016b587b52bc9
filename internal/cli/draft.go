package cli

import (
	"os"

	"datalens/internal/core/querygen"
	perr "datalens/internal/platform/errors"
)

// loadDraft reads a YAML or JSON draft file
func loadDraft(path string) (querygen.Draft, error) {
	if path == "" {
		return querygen.Draft{}, perr.WithField(perr.InvalidArgf("a draft file is required"), "file")
	}
	f, err := os.Open(path)
	if err != nil {
		return querygen.Draft{}, perr.Wrapf(err, perr.ErrorCodeNotFound, "open draft %s", path)
	}
	defer func() { _ = f.Close() }()
	return querygen.DecodeDraft(f)
}
