package main

import (
	"github.com/spf13/cobra"
)

func (a *app) prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or save preferences (error mode, parity, strategy, threshold)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.prefsRepo().Load(cmd.Context())
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), p)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Save the current settings as preferences",
		Example: "  framelab prefs save --error-mode --parity odd\n" +
			"  framelab prefs save --error-mode=false",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := a.prefsRepo()
			p := a.cfg.Prefs()
			if err := repo.Save(cmd.Context(), p); err != nil {
				return err
			}
			a.log.Info().Str("path", repo.Path()).Msg("preferences saved")
			return a.write(cmd.OutOrStdout(), p)
		},
	})

	return cmd
}
