package commands

import (
	"github.com/spf13/cobra"

	"github.com/RMahshie/aurelius/internal/audio/portaudio"
	"github.com/RMahshie/aurelius/internal/cli"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := portaudio.Devices()
		if err != nil {
			return err
		}
		defer portaudio.Terminate()

		cli.PrintDevices(cmd.OutOrStdout(), devices)
		return nil
	},
}
