package prompt

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goliatone/go-menufields/pkg/field"
	"github.com/goliatone/go-menufields/pkg/fields"
	"github.com/goliatone/go-menufields/pkg/platform"
)

// Current looks up the stored value of a field, nil when unset.
type Current func(name string) any

// Submission asks driver for one value per definition and returns them keyed
// the way the editor form posts them for itemID. Unchecked checkboxes are
// submitted as "" so the save path can delete a stored value.
func Submission(ctx context.Context, driver Driver, defs []fields.Definition, itemID int, current Current) (platform.Values, error) {
	if driver == nil {
		return nil, fmt.Errorf("prompt: driver is nil")
	}
	if current == nil {
		current = func(string) any { return nil }
	}

	index := strconv.Itoa(itemID)
	values := make(platform.Values, len(defs))
	for _, def := range defs {
		answer, err := ask(ctx, driver, def, current(def.Name))
		if err != nil {
			return nil, fmt.Errorf("prompt: field %q: %w", def.Name, err)
		}
		values[field.KeyPrefix+def.Name] = map[string]any{index: answer}
	}
	return values, nil
}

func ask(ctx context.Context, driver Driver, def fields.Definition, current any) (string, error) {
	message := def.Label
	if message == "" {
		message = def.Name
	}

	switch def.Type {
	case fields.KindCheckbox:
		checked, err := driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Help:    def.Description,
			Default: platform.Truthy(current),
		})
		if err != nil || !checked {
			return "", err
		}
		return "1", nil
	case fields.KindSelect:
		labels := make([]string, len(def.Options))
		defaultIndex := -1
		for i, opt := range def.Options {
			labels[i] = opt.Label
			if opt.Label == "" {
				labels[i] = opt.Value
			}
			if opt.Value == stringValue(current) {
				defaultIndex = i
			}
		}
		idx, err := driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: defaultIndex,
			Help:         def.Description,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(def.Options) {
			return "", nil
		}
		return def.Options[idx].Value, nil
	case fields.KindTextarea:
		return driver.TextArea(ctx, InputConfig{Message: message, Help: def.Description, Default: stringValue(current)})
	default:
		return driver.Input(ctx, InputConfig{Message: message, Help: def.Description, Default: stringValue(current)})
	}
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
