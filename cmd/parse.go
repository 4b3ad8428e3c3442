package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/wsexport/core"
	"github.com/gaurav-prasanna/wsexport/core/parse"
	"github.com/gaurav-prasanna/wsexport/core/wiki"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Run the page parser on a local HTML file",
	Long: `Parse reads a page rendered by the wiki from disk, normalizes it and
prints the chapters, pictures, metadata and normalized content as JSON.

Examples:
  wsexport parse page.html --title "Tales of Unrest"
  wsexport parse chapter.html --title "Tales of Unrest/Karain" --main=false
  wsexport parse chapter.html --xhtml > chapter.xhtml`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

var (
	flagTitle    string
	flagMainPage bool
	flagFull     bool
	flagXHTML    bool
)

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&flagTitle, "title", "", "title of the work the page belongs to")
	parseCmd.Flags().BoolVar(&flagMainPage, "main", true, "treat the file as the main page of the work")
	parseCmd.Flags().BoolVar(&flagFull, "full", true, "append subpage links found outside the summary")
	parseCmd.Flags().BoolVar(&flagXHTML, "xhtml", false, "print the normalized page as an XHTML document instead of JSON")
}

// parseOutput is what the parse command prints.
type parseOutput struct {
	Chapters []core.Chapter          `json:"chapters"`
	Pictures map[string]core.Picture `json:"pictures"`
	Metadata map[string]string       `json:"metadata"`
	Pages    []string                `json:"pages,omitempty"`
	Content  string                  `json:"content"`
}

func runParse(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	var opts []parse.Option
	title := wiki.NormalizeTitle(flagTitle)
	if title != "" {
		opts = append(opts, parse.WithBaseURL(site("").PageURL(title)))
	}
	p, err := parse.NewFromReader(f, nil, opts...)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	out := parseOutput{Metadata: p.MetadataTable()}
	if flagFull {
		out.Chapters, err = p.FullChaptersList(title, parse.Filters{})
	} else {
		out.Chapters, err = p.ChaptersList(title, parse.Filters{})
	}
	if err != nil {
		return err
	}
	if out.Pages, err = p.PagesList(); err != nil {
		return err
	}
	if out.Pictures, err = p.PicturesList(); err != nil {
		return err
	}
	doc, err := p.Content(flagMainPage)
	if err != nil {
		return err
	}
	out.Content = parse.InnerXHTML(parse.Body(doc))

	if flagXHTML {
		name := strings.ReplaceAll(title, "_", " ")
		_, err := fmt.Fprintln(cmd.OutOrStdout(), parse.XHTMLDocument(site("").Lang, name, out.Content))
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
