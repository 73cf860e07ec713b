// FILE: lixenwraith/smartlog/override.go
package smartlog

import (
	"fmt"
	"reflect"
	"strings"
)

// ApplyOverride applies string key-value overrides to the configuration.
// Each override should be in the format "key=value". The configuration is only
// modified when every override parses and the result validates.
//
// Example:
//
//	cfg := smartlog.DefaultConfig()
//	err := cfg.ApplyOverride(
//	    "level=debug",
//	    "buffer_size=64",
//	)
func (c *Config) ApplyOverride(overrides ...string) error {
	next := c.Clone()
	if err := ApplyOverrides(next, overrides...); err != nil {
		return err
	}
	if err := next.validate(); err != nil {
		return err
	}
	*c = *next
	return nil
}

// ApplyOverrides sets the toml-tagged fields of target from "key=value" strings.
// Works for any config struct pointer; validation is left to the caller.
func ApplyOverrides(target any, overrides ...string) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmtErrorf("override target must be a struct pointer, got %T", target)
	}

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		field, ok := fieldByTag(v.Elem(), key)
		if !ok {
			errors = append(errors, configErrorf("unknown configuration key '%s'", key))
			continue
		}

		if err := setFieldValue(field, value); err != nil {
			errors = append(errors, configErrorf("invalid value for %s: %v", key, err))
		}
	}

	return combineConfigErrors(errors)
}

// SelectOverrides returns the overrides under prefix (e.g. "file.") with the prefix removed
func SelectOverrides(prefix string, overrides []string) []string {
	var selected []string
	for _, o := range overrides {
		trimmed := strings.TrimSpace(o)
		if strings.HasPrefix(trimmed, prefix) {
			selected = append(selected, strings.TrimPrefix(trimmed, prefix))
		}
	}
	return selected
}

// parseKeyValue splits a "key=value" override
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", configErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", configErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// combineConfigErrors combines multiple configuration errors into a single error
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("smartlog: multiple configuration errors:")
	for i, err := range errors {
		// Remove prefix from individual errors to avoid duplication
		errMsg := strings.TrimPrefix(err.Error(), "smartlog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, sb.String())
}
