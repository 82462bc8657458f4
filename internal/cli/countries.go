package cli

import (
	"github.com/spf13/cobra"

	"github.com/samvad-hq/headline-sentiment/pkg/countries"
)

func newCountriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "countries",
		Aliases: []string{"ls"},
		Short:   "List supported countries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := countries.Builtin()
			if opts.cfg.Countries.File != "" {
				loaded, err := countries.LoadRegistry(opts.cfg.Countries.File)
				if err != nil {
					return err
				}
				reg = loaded
			}

			def := reg.Default()
			rows := make([][]string, 0, len(reg.Names()))
			for _, p := range reg.Profiles() {
				mark := ""
				if p.Name == def {
					mark = "*"
				}
				rows = append(rows, []string{p.Name, p.GeoCode, p.LanguageCode, p.EditionID, mark})
			}
			return renderTable(cmd.OutOrStdout(), []string{"Country", "Geo", "Language", "Edition", "Default"}, rows)
		},
	}
}
