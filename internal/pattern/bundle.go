package pattern

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

// BundleVersion is written into every bundle header.
const BundleVersion = 1

// Bundle is a set of patterns exported together.
type Bundle struct {
	Version   int        `json:"version"`
	Generator string     `json:"generator,omitempty"` // tt version that wrote it
	CreatedAt time.Time  `json:"createdAt"`
	Patterns  []*Pattern `json:"patterns"`
}

// WriteBundle writes patterns as zstd-compressed JSON.
func WriteBundle(w io.Writer, generator string, patterns []*Pattern) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	b := Bundle{
		Version:   BundleVersion,
		Generator: generator,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Patterns:  patterns,
	}
	if err := json.NewEncoder(enc).Encode(b); err != nil {
		enc.Close()
		return fmt.Errorf("encode bundle: %w", err)
	}
	return enc.Close()
}

// ReadBundle reads a bundle written by WriteBundle. Each pattern is checked
// against the file schema.
func ReadBundle(r io.Reader) (*Bundle, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var raw struct {
		Version   int               `json:"version"`
		Generator string            `json:"generator"`
		CreatedAt time.Time         `json:"createdAt"`
		Patterns  []json.RawMessage `json:"patterns"`
	}
	if err := json.NewDecoder(dec).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if raw.Version != BundleVersion {
		return nil, fmt.Errorf("unsupported bundle version %d", raw.Version)
	}

	b := &Bundle{
		Version:   raw.Version,
		Generator: raw.Generator,
		CreatedAt: raw.CreatedAt,
		Patterns:  make([]*Pattern, 0, len(raw.Patterns)),
	}
	for i, msg := range raw.Patterns {
		p, err := Parse(msg)
		if err != nil {
			return nil, fmt.Errorf("bundle pattern %d: %w", i+1, err)
		}
		b.Patterns = append(b.Patterns, p)
	}
	return b, nil
}
