package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value kept",
			args:    []string{"-a", ":8402", "-x", "junk"},
			allowed: []string{"-a"},
			want:    []string{"-a", ":8402"},
		},
		{
			name:    "equals form kept",
			args:    []string{"--config=gw.json", "--other=1"},
			allowed: []string{"--config"},
			want:    []string{"--config=gw.json"},
		},
		{
			name:    "flag without value",
			args:    []string{"-v", "-a", ":1"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "b"},
			allowed: nil,
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}
