package cmd

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const rootDoc = `---
layout: default
title: %s
nav_order: %d
has_children: true
permalink: /
---
`

// child command without children
const childDoc = `---
layout: default
title: %s
parent: %s
nav_order: %d
---
`

// meta is for describing the position/info for a command doc page
type meta struct {
	root     bool
	title    string
	navOrder int
}

// map from the base Markdown file name to its build meta
var metaMap = map[string]meta{
	"intein_finder":          {true, "intein_finder", 0},
	"intein_finder_find":     {false, "find", 0},
	"intein_finder_search":   {false, "search", 1},
	"intein_finder_regions":  {false, "regions", 2},
	"intein_finder_trim":     {false, "trim", 3},
	"intein_finder_testseqs": {false, "testseqs", 4},
	"intein_finder_check":    {false, "check", 5},
}

// docsCmd writes Markdown documentation for every command.
var docsCmd = &cobra.Command{
	Use:    "docs [dir]",
	Short:  "Write Markdown docs for the commands",
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "./docs"
		if len(args) > 0 {
			dir = args[0]
		}
		return makeDocs(dir)
	},
}

func init() {
	RootCmd.AddCommand(docsCmd)
}

// makeDocs parses the custom commands and outputs Markdown documentation files
func makeDocs(dir string) error {
	return doc.GenMarkdownTreeCustom(RootCmd, dir, filePrepender, linkHandler)
}

// docBase is the Markdown file name without its directory or extension
func docBase(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, path.Ext(name))
}

// filePrepender adds YAML headings that are required by the just-the-docs theme
// https://github.com/spf13/cobra/blob/master/doc/md_docs.md
func filePrepender(filename string) string {
	m, ok := metaMap[docBase(filename)]
	if !ok {
		return ""
	}

	if m.root {
		return fmt.Sprintf(rootDoc, m.title, m.navOrder)
	}
	return fmt.Sprintf(childDoc, m.title, "intein_finder", m.navOrder)
}

// linkHandler returns the URL to a documentation page
func linkHandler(filename string) string {
	base := docBase(filename)
	if base == "intein_finder" {
		return "/"
	}
	return base
}
