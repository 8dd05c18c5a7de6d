package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/tendermatch/internal/chapter"
)

var errNotFound = errors.New("chapter not found")

func newChapterCmd(a *app) *cobra.Command {
	var opts chapter.Options
	cmd := &cobra.Command{
		Use:   "chapter <file|->",
		Short: "Extract one chapter from a tender document",
		Long: `Extract a chapter by number and title. Without --start the technical
specification chapter (第四章 技术规格书, ending at 第五章 投标文件格式) is
extracted.

Examples:
  tendermatch chapter tender.docx > tech.md
  tendermatch chapter --start 3 --start-synonym 采购需求 --stop-synonym 评标办法 tender.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.StartChapter <= 0 {
				opts = chapter.TechSpec(opts.IncludeHeading)
			}
			doc, err := a.readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			span, ok := chapter.Extract(doc.Text, opts)
			if !ok {
				return fmt.Errorf("%w in %s", errNotFound, args[0])
			}
			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), span)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), span.Text)
			return err
		},
	}
	cmd.Flags().IntVar(&opts.StartChapter, "start", 0, "chapter number to extract (default: technical specification preset)")
	cmd.Flags().StringSliceVar(&opts.StartSynonyms, "start-synonym", nil, "accepted titles of the start chapter (repeatable)")
	cmd.Flags().IntVar(&opts.StopChapter, "stop", 0, "chapter number that ends the extraction (default: start+1)")
	cmd.Flags().StringSliceVar(&opts.StopSynonyms, "stop-synonym", nil, "titles of the chapter that ends the extraction (repeatable)")
	cmd.Flags().BoolVar(&opts.IncludeHeading, "include-heading", false, "keep the chapter heading line")
	return cmd
}

func newBidFormatCmd(a *app) *cobra.Command {
	var (
		hint        string
		dropHeading bool
		outlineOnly bool
	)
	cmd := &cobra.Command{
		Use:   "bidformat <file|->",
		Short: "Extract the bid-format chapter and its outline",
		Long: `Extract the bid-format chapter (投标文件格式). --hint picks the chapter by
title, or "last" for the final chapter heading.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			bf, ok := chapter.ExtractBidFormat(doc.Text, hint, dropHeading)
			if !ok {
				return fmt.Errorf("%w in %s", errNotFound, args[0])
			}
			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				if bf.Outline == nil {
					bf.Outline = []string{}
				}
				return writeJSON(out, bf)
			}
			if outlineOnly {
				if len(bf.Outline) == 0 {
					return nil
				}
				_, err = fmt.Fprintln(out, strings.Join(bf.Outline, "\n"))
				return err
			}
			_, err = fmt.Fprint(out, bf.Text)
			return err
		},
	}
	cmd.Flags().StringVar(&hint, "hint", "", `chapter title to look for, or "last"`)
	cmd.Flags().BoolVar(&dropHeading, "drop-heading", false, "omit the chapter heading line")
	cmd.Flags().BoolVar(&outlineOnly, "outline", false, "print only the outline")
	return cmd
}
