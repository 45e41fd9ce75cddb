package layout

import (
	"fmt"

	"github.com/matzehuels/nodevis/pkg/errors"
)

// Validate checks l before it is persisted. The reference size must be
// whole pixels and every position finite; style configs need a type.
func Validate(l *Layout) error {
	if l == nil {
		return errors.New(errors.ErrCodeInvalidLayout, "layout is nil")
	}
	if err := errors.ValidateWholeNumber("reference_size.width", l.ReferenceSize.Width); err != nil {
		return err
	}
	if err := errors.ValidateWholeNumber("reference_size.height", l.ReferenceSize.Height); err != nil {
		return err
	}
	if l.ReferenceSize.Width < 0 || l.ReferenceSize.Height < 0 {
		return errors.New(errors.ErrCodeInvalidCoordinates, "reference_size must not be negative")
	}
	for _, group := range []struct {
		name    string
		configs []*StyleConfig
	}{
		{"style_configs", l.StyleConfigs},
		{"delayed_style_configs", l.DelayedStyleConfigs},
	} {
		for i, c := range group.configs {
			field := fmt.Sprintf("%s[%d]", group.name, i)
			if c == nil || c.Type == "" {
				return errors.New(errors.ErrCodeInvalidLayout, "%s has no type", field)
			}
			if c.Position == nil {
				continue
			}
			if err := errors.ValidateFinite(field+".position.x", c.Position.X); err != nil {
				return err
			}
			if err := errors.ValidateFinite(field+".position.y", c.Position.Y); err != nil {
				return err
			}
		}
	}
	return nil
}
