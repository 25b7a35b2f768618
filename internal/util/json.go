package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// DecodeJsonc strips comments and trailing commas before decoding. Unknown
// fields are rejected.
func DecodeJsonc(bs []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(bs)))
	dec.DisallowUnknownFields()

	return dec.Decode(v)
}

func ReadJsonConfig(abspath string, v any) error {
	bs, err := os.ReadFile(abspath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", abspath, err)
	}

	if err := DecodeJsonc(bs, v); err != nil {
		return fmt.Errorf("error reading %s: failed to parse json: %w", abspath, err)
	}

	return nil
}
