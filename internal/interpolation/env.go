// Package interpolation expands ${VAR} and ${VAR:default} references in configuration values.
package interpolation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// ErrUndefinedVariable is returned for a ${VAR} reference with no default when VAR is unset.
var ErrUndefinedVariable = errors.New("environment variable not defined")

// ${NAME} or ${NAME:default}; the colon is captured so "${NAME:}" means an empty default
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// ExpandEnvVars replaces every ${VAR_NAME} and ${VAR_NAME:default_value} in input. A variable
// that is unset and has no default is an error; the reference is left in place.
func ExpandEnvVars(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	var missing []error
	result := envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, hasDefault, def := parts[1], parts[2] == ":", parts[3]

		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		if hasDefault {
			return def
		}
		missing = append(missing, fmt.Errorf("%w: %s", ErrUndefinedVariable, name))
		return match
	})

	return result, errors.Join(missing...)
}
