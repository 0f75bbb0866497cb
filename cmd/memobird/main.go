package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "MEMOBIRD"

// app carries state shared by every subcommand.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: slog.Default()}

	rootCmd := &cobra.Command{
		Use:           "memobird",
		Short:         "Print text, images and web pages on a Memobird thermal printer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Long: `memobird talks to the Memobird cloud API to print on a paired device.

Credentials come from flags or the environment:
  MEMOBIRD_AK                 access key issued by Memobird
  MEMOBIRD_DEVICE_ID          device ID (double-click the printer to get it)
  MEMOBIRD_USER_IDENTIFYING   optional caller-chosen user identifier
  MEMOBIRD_BASE_URL           override the API endpoint`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(cmd.ErrOrStderr(), a.v.GetBool("verbose"), a.v.GetString("log_level"))
			slog.SetDefault(a.logger)
			return nil
		},
	}

	rootCmd.SetGlobalNormalizationFunc(flagAliases)
	flags := rootCmd.PersistentFlags()
	flags.String("ak", "", "Memobird access key")
	flags.String("device-id", "", "Memobird device ID")
	flags.String("user-identifying", "", "user identifier sent when binding")
	flags.String("base-url", "", "Memobird API base URL")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlag("ak", flags.Lookup("ak"))
	_ = a.v.BindPFlag("device_id", flags.Lookup("device-id"))
	_ = a.v.BindPFlag("user_identifying", flags.Lookup("user-identifying"))
	_ = a.v.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = a.v.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = a.v.BindEnv("log_level", "LOG_LEVEL")

	rootCmd.AddCommand(
		newTextCmd(a),
		newImageCmd(a),
		newURLCmd(a),
		newStatusCmd(a),
		newPrintCmd(a),
	)
	return rootCmd
}

// flagAliases maps the long-form spellings onto the canonical flag names.
func flagAliases(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "access-key":
		name = "ak"
	case "did":
		name = "device-id"
	}
	return pflag.NormalizedName(name)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
