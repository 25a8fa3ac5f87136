package logger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rupeetasks/taskbot/internal/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name          string
		logLvl        string
		expectedError bool
	}{
		{name: "info level", logLvl: "info"},
		{name: "error level", logLvl: "error"},
		{name: "debug level", logLvl: "debug"},
		{name: "unknown level", logLvl: "verbose", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(&config.Config{LogLvl: tt.logLvl})

			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
