package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// lookupFunc matches os.LookupEnv
type lookupFunc func(key string) (string, bool)

// applyEnv overrides every field carrying an env tag from lookup and returns the
// names of the variables that were applied. Registrar settings are strings,
// ints and bools only.
func applyEnv(target interface{}, lookup lookupFunc) ([]string, error) {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("env target must be a pointer to a struct, got %T", target)
	}

	var applied []string
	err := walkEnvFields(val.Elem(), lookup, &applied)
	return applied, err
}

func walkEnvFields(val reflect.Value, lookup lookupFunc, applied *[]string) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		meta := typ.Field(i)

		if field.Kind() == reflect.Struct {
			if err := walkEnvFields(field, lookup, applied); err != nil {
				return err
			}
			continue
		}

		key := meta.Tag.Get("env")
		if key == "" {
			continue
		}
		raw, ok := lookup(key)
		if !ok {
			continue
		}

		if err := setFromEnv(field, strings.TrimSpace(raw)); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*applied = append(*applied, key)
	}
	return nil
}

func setFromEnv(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", raw)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported setting type %s", field.Kind())
	}
	return nil
}
