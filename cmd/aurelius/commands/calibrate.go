package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RMahshie/aurelius/internal/audio/portaudio"
	"github.com/RMahshie/aurelius/internal/calibration"
	"github.com/RMahshie/aurelius/internal/cli"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Run the interactive hearing test and save a profile",
	Long: `Play tones from quiet to loud at each calibration frequency and ask whether
you heard them. The first level you hear becomes your threshold; the
thresholds are turned into a compensation profile and saved.

Use earbuds or headphones in a quiet room.`,
	RunE: runCalibrate,
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	out := cmd.OutOrStdout()

	cli.PrintBanner(out, "Starting Aurelius calibration")
	cli.PrintDisclaimer(out)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	hist, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer hist.Close()

	guide := newGuide(cfg, hist)
	fmt.Fprintln(out, guide.Welcome(ctx))

	transport, err := portaudio.New(cfg.Audio.SampleRate, cfg.Audio.BlockSize)
	if err != nil {
		return err
	}
	defer portaudio.Terminate()

	responder := calibration.NewConsoleResponder(cmd.InOrStdin(), out)
	if err := responder.WaitForEnter(ctx, "\nPress Enter to begin the test when you are ready..."); err != nil {
		return err
	}

	calibrator := calibration.NewCalibrator(transport, responder, cfg.Audio.SampleRate, cfg.Audio.ToneDuration)
	svc := calibration.NewCalibrationService(calibrator, store, hist.sessions)

	result, err := svc.Calibrate(ctx, cfg.Profile.Name, calibration.Sweep{
		Frequencies: cfg.Calibration.Frequencies,
		AmpStartDB:  cfg.Calibration.AmpStartDB,
		AmpEndDB:    cfg.Calibration.AmpEndDB,
		AmpStepDB:   cfg.Calibration.AmpStepDB,
		MaxGainDB:   cfg.Calibration.MaxGainDB,
	})
	if err != nil {
		return fmt.Errorf("calibration failed: %w", err)
	}

	cli.PrintBanner(out, "Calibration complete")
	cli.PrintThresholds(out, result.Thresholds)
	fmt.Fprintln(out)
	cli.PrintProfile(out, cfg.Profile.Name, result.Profile)
	fmt.Fprintln(out)

	explanation, _ := guide.ExplainResults(ctx, result.Profile)
	fmt.Fprintln(out, explanation)
	return nil
}
