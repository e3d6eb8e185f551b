package main

import (
	"os"
	"strings"

	"github.com/henderiw/idxrange/internal/logging"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	v      *viper.Viper
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "rangectl",
		Short:         "Evaluate operations on integer range collections",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	cmd.PersistentFlags().String("config", "", "Config file (TOML, YAML or JSON) with log-level and log-format")
	cmd.PersistentFlags().String("log-level", "error", "Log level")
	cmd.PersistentFlags().String("log-format", logging.LogFormatText, "Log format: text, plain or json")

	cmd.AddCommand(
		newEvalCmd(a),
		newValuesCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvPrefix("RANGECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(flags)
}

func (a *app) init(cmd *cobra.Command) error {
	if err := bindFlags(a.v, cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	if cfg := a.v.GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", cfg)
		}
	}

	logger, err := logging.NewLogger(cmd.ErrOrStderr(), a.v.GetString("log-level"), a.v.GetString("log-format"))
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}
