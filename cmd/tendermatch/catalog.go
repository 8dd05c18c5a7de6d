package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/tendermatch/internal/catalog"
)

func newCatalogCmd(a *app) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "catalog [file]",
		Short: "Print or validate a target catalog",
		Long: `Print the target catalog in effect (the --catalog file or the built-in
one), or the given file. With --check only validation errors are reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.CatalogPath
			if len(args) == 1 {
				path = args[0]
			}
			cat := catalog.Default()
			if path != "" {
				c, err := catalog.Load(path)
				if err != nil {
					return err
				}
				cat = c
			}

			out := cmd.OutOrStdout()
			if check {
				_, err := fmt.Fprintf(out, "%s (version %s): %d targets, %d sub-targets, ok\n",
					cat.Name, cat.Version, len(cat.Targets), len(cat.SubTargets()))
				return err
			}
			if a.jsonOutput() {
				return writeJSON(out, cat)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cat); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "validate only")
	return cmd
}
