package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/wsexport/core/refresh"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [lang...]",
	Short: "Update the cached stylesheet and about page",
	Long: `Refresh downloads MediaWiki:Epub.css and MediaWiki:Wsexport_about for
each language into the temp directory. Exports embed them afterwards.

Examples:
  wsexport refresh
  wsexport refresh en fr de`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{viper.GetString("lang")}
		}
		r := refresh.New(fetcher(), viper.GetString("temp_dir"))
		for _, lang := range args {
			if err := r.Refresh(cmd.Context(), site(lang)); err != nil {
				return err
			}
			printf("✓ Refreshed %s\n", lang)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
