package interpolation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// InterpolateStruct expands environment references in fields tagged `env_interpolation:"yes"`,
// in place. Tagged string and []string fields are expanded; nested structs and struct pointers
// are walked whether or not they are tagged.
func InterpolateStruct(v any) error {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("expected non-nil pointer to struct, got %T", v)
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected pointer to struct, got %T", v)
	}

	typ := val.Type()
	var errs []error
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		if !field.CanSet() {
			continue
		}
		tagged := strings.EqualFold(fieldType.Tag.Get("env_interpolation"), "yes")

		switch field.Kind() {
		case reflect.String:
			if !tagged || field.String() == "" {
				continue
			}
			expanded, err := ExpandEnvVars(field.String())
			if err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", fieldType.Name, err))
				continue
			}
			field.SetString(expanded)

		case reflect.Slice:
			if !tagged || field.Type().Elem().Kind() != reflect.String {
				continue
			}
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				expanded, err := ExpandEnvVars(elem.String())
				if err != nil {
					errs = append(errs, fmt.Errorf("field %s[%d]: %w", fieldType.Name, j, err))
					continue
				}
				elem.SetString(expanded)
			}

		case reflect.Struct:
			if err := InterpolateStruct(field.Addr().Interface()); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", fieldType.Name, err))
			}

		case reflect.Ptr:
			if field.IsNil() || field.Type().Elem().Kind() != reflect.Struct {
				continue
			}
			if err := InterpolateStruct(field.Interface()); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", fieldType.Name, err))
			}
		}
	}

	return errors.Join(errs...)
}
