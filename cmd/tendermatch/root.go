package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgallion1/tendermatch/internal/config"
	"github.com/dgallion1/tendermatch/internal/doctree"
	"github.com/dgallion1/tendermatch/internal/parser"
)

// app holds the state shared by every subcommand.
type app struct {
	cfgFile     string
	catalogPath string
	segmenter   string
	format      string
	verbose     bool

	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "tendermatch",
		Short: "Locate required sections in Chinese tender documents",
		Long: `tendermatch finds the sections a bid must contain inside a tender
document and reports where each one is, how confident the match is, and
which sections are missing.

Documents may be markdown, plain text, HTML, PDF or DOCX. Matching uses a
target catalog (the built-in one unless --catalog is given), heading
structure, and a multi-signal lexical score.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./tendermatch.yaml)")
	cmd.PersistentFlags().StringVar(&a.catalogPath, "catalog", "", "target catalog YAML (default: built-in)")
	cmd.PersistentFlags().StringVar(&a.segmenter, "segmenter", "", "word segmenter: gse or bigram")
	cmd.PersistentFlags().StringVarP(&a.format, "output", "o", "text", "output format: text or json")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(
		newMatchCmd(a),
		newChapterCmd(a),
		newBidFormatCmd(a),
		newOutlineCmd(a),
		newCatalogCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	switch a.format {
	case "text", "json":
	default:
		return fmt.Errorf("output format must be text or json, got %q", a.format)
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogPath = a.catalogPath
	}
	if cmd.Flags().Changed("segmenter") {
		cfg.Segmenter = strings.ToLower(a.segmenter)
	}
	if err := cfg.Validate(false); err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) jsonOutput() bool { return a.format == "json" }

func (a *app) parserOptions() parser.Options {
	return parser.Options{
		PDFFallbackPdftotext: a.cfg.PDFFallbackPdftotext,
		HTMLFullPage:         a.cfg.HTMLFullPage,
	}
}

// readDocument converts path to a Document. "-" reads markdown from in.
func (a *app) readDocument(path string, in io.Reader) (*doctree.Document, error) {
	if path == "-" {
		p, err := parser.ForFile("stdin.md", a.parserOptions())
		if err != nil {
			return nil, err
		}
		doc, err := p.Parse(in, "stdin.md")
		if err != nil {
			return nil, fmt.Errorf("convert stdin: %w", err)
		}
		return doc, nil
	}
	p, err := parser.ForFile(path, a.parserOptions())
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}
	return doc, nil
}

// expandArgs resolves glob patterns (with ** support) to regular files.
// Literal paths and "-" pass through unchanged.
func expandArgs(args []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, arg := range args {
		if arg == "-" || !strings.ContainsAny(arg, "*?[{") {
			if !seen[arg] {
				seen[arg] = true
				out = append(out, arg)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %s", arg)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
