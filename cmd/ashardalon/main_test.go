package main

import "testing"

func TestStartReturnsExitCode(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want int
	}{
		{"too many heroes", map[string]string{"ASHARDALON_HEROES": "a,b,c,d,e,f"}, 2},
		{"headless without server", map[string]string{"ASHARDALON_HEADLESS": "true"}, 2},
		{"unknown log level", map[string]string{"ASHARDALON_LOG_LEVEL": "chatty"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := start(); got != tt.want {
				t.Errorf("start() = %d, want %d", got, tt.want)
			}
		})
	}
}
