package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RMahshie/aurelius/internal/audio/portaudio"
	"github.com/RMahshie/aurelius/internal/cli"
	"github.com/RMahshie/aurelius/internal/enhance"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply the saved profile to live microphone audio",
	Long: `Load the saved hearing profile and stream audio from the default input
device to the default output device, boosting the frequencies in the profile.

Press Ctrl+C to stop.`,
	RunE: runEnhance,
}

func runEnhance(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	out := cmd.OutOrStdout()

	cli.PrintBanner(out, "Starting Aurelius live enhancement")
	cli.PrintDisclaimer(out)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	transport, err := portaudio.New(cfg.Audio.SampleRate, cfg.Audio.BlockSize)
	if err != nil {
		return err
	}
	defer portaudio.Terminate()

	session := enhance.NewSession(store, transport, enhance.Config{
		BlockSize:  cfg.Audio.BlockSize,
		SampleRate: cfg.Audio.SampleRate,
	})

	if err := session.Load(ctx, cfg.Profile.Name); err != nil {
		if errors.Is(err, enhance.ErrMissingProfile) {
			return fmt.Errorf("could not find profile %q, please run 'aurelius calibrate' first: %w", cfg.Profile.Name, err)
		}
		return err
	}
	cli.PrintKeyValue(out, "Profile", cfg.Profile.Name)
	cli.PrintKeyValue(out, "Max gain", fmt.Sprintf("%.1f dB", session.Curve().MaxGainDB()))
	fmt.Fprintln(out, "  -> Live enhancement is active. Press Ctrl+C to stop.")

	if err := session.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n  -> Live enhancement stopped by user.")
	if faults := session.Faults(); faults > 0 {
		cli.PrintKeyValue(out, "Faults", faults)
	}
	return nil
}
