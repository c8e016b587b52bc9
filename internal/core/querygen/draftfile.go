package querygen

import (
	"bytes"
	"io"

	perr "datalens/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

// DecodeDraft reads a YAML (or JSON, which is valid YAML) draft document
// unknown keys are rejected so typos in slot names surface early
func DecodeDraft(r io.Reader) (Draft, error) {
	var d Draft
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if err == io.EOF {
			return Draft{}, perr.InvalidArgf("empty draft document")
		}
		return Draft{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "decode draft")
	}
	for i, c := range d.Columns {
		if c.Type == "" {
			d.Columns[i].Type = Classify(c.Name)
			continue
		}
		if !c.Type.Valid() {
			return Draft{}, perr.WithField(perr.InvalidArgf("column %q has unknown type %q", c.Name, c.Type), "columns")
		}
	}
	return d, nil
}

// EncodeDraft writes d as YAML
func EncodeDraft(d Draft) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "encode draft")
	}
	if err := enc.Close(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "encode draft")
	}
	return buf.Bytes(), nil
}
