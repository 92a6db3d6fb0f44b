package bootstrap

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// decodeParams fills out from raw binding params using json tags. Input is
// weakly typed because HCL params arrive as strings.
func decodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("params: %w", err)
	}
	return nil
}
