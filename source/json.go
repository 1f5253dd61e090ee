package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	goschema "github.com/reoring/goschema"
)

// JSON decodes one JSON document. Trailing data after the document is an
// error.
func JSON(b []byte, opts ...Option) (any, error) {
	return JSONReader(bytes.NewReader(b), opts...)
}

// JSONReader decodes one JSON document from r.
func JSONReader(r io.Reader, opts ...Option) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	p := &jsonParser{dec: dec, cfg: newConfig(opts)}
	v, err := p.value(nil)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("source: json: %w", err)
		}
		return nil, fmt.Errorf("source: json: unexpected data after top-level value")
	}
	return v, nil
}

type jsonParser struct {
	dec *j.Decoder
	cfg config
}

func (p *jsonParser) value(path goschema.Path) (any, error) {
	tok, err := p.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("source: json: %w", io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("source: json: %w", err)
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return p.object(path)
		case '[':
			return p.array(path)
		}
		return nil, fmt.Errorf("source: json: unexpected %q", rune(v))
	case j.Number:
		return json.Number(v), nil
	case float64:
		return json.Number(strconv.FormatFloat(v, 'g', -1, 64)), nil
	}
	// string, bool and nil are already in their final form
	return tok, nil
}

func (p *jsonParser) object(path goschema.Path) (any, error) {
	out := map[string]any{}
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("source: json: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("source: json: object key must be a string, got %v", tok)
		}
		if _, dup := out[key]; dup && !p.cfg.allowDuplicates {
			return nil, fmt.Errorf("source: json: %w %q at %s", ErrDuplicateKey, key, where(path))
		}
		v, err := p.value(path.Key(key))
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, fmt.Errorf("source: json: %w", err)
	}
	return out, nil
}

func (p *jsonParser) array(path goschema.Path) (any, error) {
	out := []any{}
	for p.dec.More() {
		v, err := p.value(path.Index(len(out) + 1))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, fmt.Errorf("source: json: %w", err)
	}
	return out, nil
}

func where(path goschema.Path) string {
	if len(path) == 0 {
		return "top level"
	}
	return path.String()
}
