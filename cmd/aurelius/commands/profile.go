package commands

import (
	"github.com/spf13/cobra"

	"github.com/RMahshie/aurelius/internal/cli"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect stored hearing profiles",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		p, err := store.Load(ctx, cfg.Profile.Name)
		if err != nil {
			return err
		}
		cli.PrintProfile(cmd.OutOrStdout(), cfg.Profile.Name, p)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
}
