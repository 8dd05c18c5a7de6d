package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dgallion1/tendermatch/internal/locate"
	"github.com/dgallion1/tendermatch/internal/pipeline"
)

// errMissing is returned with --strict when a report has missing targets.
var errMissing = errors.New("required sections missing")

type fileReport struct {
	File   string         `json:"file"`
	Title  string         `json:"title"`
	Report *locate.Report `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func newMatchCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "match <file|glob>...",
		Short: "Match tender documents against the target catalog",
		Long: `Match one or more tender documents against the target catalog and print
a report per document. Arguments may be glob patterns ("tenders/**/*.docx");
"-" reads markdown from stdin.

Examples:
  tendermatch match tender.md
  tendermatch match 'tenders/**/*.pdf' -o json
  tendermatch match --strict --segmenter bigram tender.docx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandArgs(args)
			if err != nil {
				return err
			}
			m, err := pipeline.NewMatcher(a.cfg, a.log)
			if err != nil {
				return err
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			progress := len(files) > 1 && isTerminal(errOut)

			var reports []fileReport
			var failed, missing int
			for i, file := range files {
				if progress {
					fmt.Fprintf(errOut, "\r\033[2K[%d/%d] %s", i+1, len(files), file)
				}
				fr := fileReport{File: file}
				doc, err := a.readDocument(file, cmd.InOrStdin())
				if err == nil {
					fr.Title = doc.Title
					fr.Report, err = m.Match(cmd.Context(), doc.Text)
				}
				if err != nil {
					a.log.Error("match failed", "file", file, "error", err)
					fr.Error = err.Error()
					failed++
				} else {
					missing += fr.Report.Summary.Missing
				}
				reports = append(reports, fr)
			}
			if progress {
				fmt.Fprint(errOut, "\r\033[2K")
			}

			if err := printReports(out, reports, a.jsonOutput()); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(files))
			}
			if strict && missing > 0 {
				return fmt.Errorf("%w: %d", errMissing, missing)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any target is missing")
	return cmd
}

func printReports(w io.Writer, reports []fileReport, asJSON bool) error {
	if asJSON {
		if len(reports) == 1 {
			return writeJSON(w, reports[0])
		}
		return writeJSON(w, reports)
	}
	for i, fr := range reports {
		if len(reports) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", fr.File)
		}
		if fr.Error != "" {
			fmt.Fprintf(w, "error: %s\n", fr.Error)
			continue
		}
		fmt.Fprint(w, fr.Report.Text())
	}
	return nil
}
