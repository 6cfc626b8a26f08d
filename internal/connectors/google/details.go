package google

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// Decode maps intent details onto a struct using its json tags.
// Weak typing accepts the loose values models produce, such as "5" for 5.
func Decode(details domain.Details, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(details)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
