// Package cmd implements the CLI commands for wsexport using Cobra.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/wsexport/core/fetch"
	"github.com/gaurav-prasanna/wsexport/core/wiki"
	"github.com/gaurav-prasanna/wsexport/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "wsexport",
	Short: "Export Wikisource works as ebooks",
	Long: `wsexport fetches a work from Wikisource, follows its table of contents,
normalizes every chapter and writes the result as EPUB, Markdown, PDF or JSON.

Usage:
  wsexport export <title> [flags]
  wsexport parse <file> [flags]
  wsexport refresh [flags]`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("log_json"),
		})
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.wsexport.yaml)")
	flags.String("lang", "en", "Wikisource language code")
	flags.String("wiki_url", wiki.DefaultSiteTemplate, "wiki URL template, %s is replaced by the language")
	flags.String("temp_dir", filepath.Join(os.TempDir(), "wsexport"), "directory for cached stylesheets and about pages")
	flags.String("user_agent", fetch.DefaultUserAgent, "User-Agent sent to the wiki")
	flags.Duration("timeout", fetch.DefaultTimeout, "HTTP timeout per request")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.Bool("log_json", false, "log as JSON")

	for _, key := range []string{"config", "lang", "wiki_url", "temp_dir", "user_agent", "timeout", "debug", "quiet", "log_json"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".wsexport")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("WSEXPORT")
	viper.AutomaticEnv()

	// a missing config file is fine
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// site returns the configured wiki for lang, or for the configured
// language when lang is empty.
func site(lang string) wiki.Site {
	if lang == "" {
		lang = viper.GetString("lang")
	}
	return wiki.NewSite(viper.GetString("wiki_url"), lang)
}

func fetcher() *fetch.HTTPFetcher {
	return fetch.New(
		fetch.WithTimeout(viper.GetDuration("timeout")),
		fetch.WithUserAgent(viper.GetString("user_agent")),
	)
}

// printf writes progress to stdout unless quiet mode is on.
func printf(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}
