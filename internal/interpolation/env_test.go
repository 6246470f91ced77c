package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("JSC_TEST_ROOT", "/srv/app")
	t.Setenv("JSC_TEST_EMPTY", "")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty", "", "", false},
		{"no references", "js/app.js", "js/app.js", false},
		{"set variable", "${JSC_TEST_ROOT}/js", "/srv/app/js", false},
		{"set variable ignores default", "${JSC_TEST_ROOT:/tmp}/js", "/srv/app/js", false},
		{"set but empty", "x${JSC_TEST_EMPTY:fallback}x", "xx", false},
		{"default used", "${JSC_TEST_UNSET:build}/app.min.js", "build/app.min.js", false},
		{"empty default", "${JSC_TEST_UNSET:}app.js", "app.js", false},
		{"several", "${JSC_TEST_ROOT}:${JSC_TEST_UNSET:8765}", "/srv/app:8765", false},
		{"missing", "${JSC_TEST_UNSET}/app.js", "${JSC_TEST_UNSET}/app.js", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandEnvVars(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUndefinedVariable)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
