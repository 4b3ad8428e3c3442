// Package cmd — export command.
// This is the main command that orchestrates the pipeline:
// fetch → parse → assemble → render → write.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/wsexport/core"
	"github.com/gaurav-prasanna/wsexport/core/book"
	"github.com/gaurav-prasanna/wsexport/core/output"
	"github.com/gaurav-prasanna/wsexport/core/parse"
	"github.com/gaurav-prasanna/wsexport/core/refresh"
	"github.com/gaurav-prasanna/wsexport/core/render"
	"github.com/gaurav-prasanna/wsexport/internal/logger"
)

var exportCmd = &cobra.Command{
	Use:   "export <title>",
	Short: "Export a Wikisource work to an ebook",
	Long: `Export fetches the main page of a work, follows its table of contents
and writes the whole book in the chosen format.

Examples:
  wsexport export "Tales of Unrest" --format epub
  wsexport export "Les Misérables" --lang fr --format markdown --output_dir ./out
  wsexport export The_Raven --exclude "The_Raven/Illustrations" --max_depth 1`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	flags := exportCmd.Flags()
	flags.String("format", "epub", "output format: epub, markdown, pdf or json")
	flags.String("output_dir", "", "output directory (default: current directory)")
	flags.StringSlice("exclude", nil, "titles never followed as chapters")
	flags.StringSlice("namespaces", nil, "extra namespaces never followed as chapters")
	flags.Int("max_depth", 0, "how many levels of chapter pages to follow (default 3)")
	flags.Bool("no_assets", false, "do not embed the cached stylesheet and about page")

	for _, key := range []string{"format", "output_dir", "exclude", "namespaces", "max_depth", "no_assets"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	renderer, err := selectRenderer(viper.GetString("format"))
	if err != nil {
		return err
	}
	writer, err := output.New(viper.GetString("output_dir"))
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	s := site("")
	opts := []book.Option{
		book.WithFilters(parse.Filters{
			Exclude:    viper.GetStringSlice("exclude"),
			Namespaces: viper.GetStringSlice("namespaces"),
		}),
		book.WithMaxDepth(viper.GetInt("max_depth")),
	}
	if !viper.GetBool("no_assets") {
		css, about, err := refresh.Load(viper.GetString("temp_dir"), s.Lang)
		if err != nil {
			logger.Warn("could not load cached assets", "lang", s.Lang, "error", err)
		}
		opts = append(opts, book.WithAssets(book.Assets{CSS: css, About: about}))
	}

	title := args[0]
	printf("Fetching %s from %s...\n", title, s.Root)
	b, err := book.NewProvider(fetcher(), s, opts...).Get(cmd.Context(), title)
	if err != nil {
		return err
	}
	printf("Found %d chapters and %d pictures\n", countPages(b.Chapters), len(b.Pictures))

	data, err := renderer.Render(b)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", title, err)
	}
	path, err := writer.Write(b.Title, data, renderer.Extension())
	if err != nil {
		return err
	}
	logger.Info("book exported", "title", b.Title, "format", renderer.Extension(), "path", path)
	printf("✓ Written: %s\n", path)
	return nil
}

// selectRenderer creates the Renderer for format.
func selectRenderer(format string) (core.Renderer, error) {
	switch strings.ToLower(format) {
	case "epub", "epub3":
		return render.NewEPUBRenderer(), nil
	case "markdown", "md":
		return render.NewMarkdownRenderer(), nil
	case "pdf":
		return render.NewPDFRenderer(), nil
	case "json":
		return render.NewJSONRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q: use epub, markdown, pdf or json", format)
	}
}

func countPages(pages []*core.Page) int {
	n := len(pages)
	for _, p := range pages {
		n += countPages(p.Subchapters)
	}
	return n
}
