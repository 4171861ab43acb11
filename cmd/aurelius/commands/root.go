package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/RMahshie/aurelius/internal/config"
)

var (
	cfg         *config.Config
	flagProfile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aurelius",
	Short: "Personal hearing profile and live audio enhancement",
	Long: `aurelius measures how loud a tone must be before you hear it at a set of
frequencies, turns the result into a compensation profile, and applies that
profile to live audio from your microphone.

It is an experimental listening aid, not a medical device.

Usage:
  aurelius calibrate
  aurelius run
  aurelius profile show`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if flagProfile != "" {
			loaded.Profile.Name = flagProfile
		}

		level, err := zerolog.ParseLevel(loaded.Log.Level)
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", loaded.Log.Level, err)
		}
		zerolog.SetGlobalLevel(level)

		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Profile name (overrides PROFILE_NAME)")

	rootCmd.AddCommand(calibrateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(profileCmd)
}
