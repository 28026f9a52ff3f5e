package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data string
		want Callback
		ok   bool
	}{
		{data: "back", want: Callback{Action: ActionBack}, ok: true},
		{data: "grades|007", want: Callback{Action: ActionGrades, Value: "007"}, ok: true},
		{data: "general|23070045", want: Callback{Action: ActionGeneral, Value: "23070045"}, ok: true},
		{data: "al__José Aarón Castor Salinas", want: Callback{Action: ActionByName, Value: "José Aarón Castor Salinas", ByName: true}, ok: true},
		{data: "grades__Ana López Pérez", want: Callback{Action: ActionGrades, Value: "Ana López Pérez", ByName: true}, ok: true},
		{data: "grades|", ok: false},
		{data: "delete|1", ok: false},
		{data: "al__", ok: false},
		{data: "xx__name", ok: false},
		{data: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, ok := ParseCallback(tt.data)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.data, got.String())
			}
		})
	}
}
