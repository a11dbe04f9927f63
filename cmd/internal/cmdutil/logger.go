package cmdutil

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type loggerConfig struct {
	level string
}

var loggerConfigInst = loggerConfig{
	level: zerolog.InfoLevel.String(),
}

func RegisterLoggerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&loggerConfigInst.level,
		"level",
		loggerConfigInst.level,
		"log level to emit at - maps to zerolog.Level",
	)
}

// Logger builds the timestamped console logger every subcommand runs with.
func Logger() (zerolog.Logger, error) {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	lvl, err := zerolog.ParseLevel(loggerConfigInst.level)
	if err != nil {
		return logger, err
	}
	return logger.Level(lvl), nil
}
