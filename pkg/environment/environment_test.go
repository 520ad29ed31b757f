package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountworker/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want environment.Environment
	}{
		{in: "", want: environment.Development},
		{in: "dev", want: environment.Development},
		{in: "Production", want: environment.Production},
		{in: "prod", want: environment.Production},
		{in: " stage ", want: environment.Staging},
		{in: "staging", want: environment.Staging},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := environment.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := environment.Parse("qa")
	assert.Error(t, err)
}

func TestUnmarshalText(t *testing.T) {
	t.Parallel()

	var env environment.Environment
	require.NoError(t, env.UnmarshalText([]byte("prod")))
	assert.True(t, env.IsProduction())
	assert.False(t, env.IsDevelopment())
	assert.Error(t, env.UnmarshalText([]byte("nope")))
}
