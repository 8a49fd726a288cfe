/*
samepage is a console utility converting Obsidian pages to SamePage documents and back.
Usage is

	samepage [--notebook <uuid>] [--trace <level>] <command> [<flags>] [<file> ...]

Commands:

parse converts a page to a JSON document, --block-ids assigns random block identifiers,
--debug adds expected tokens to syntax errors;

render converts a JSON document to page text;

check parses and renders every file and reports pages that do not round-trip;

grammar prints lexer rules in priority order followed by grammar rules, --json selects JSON output.

A missing file name or "-" means standard input. --notebook (or SAMEPAGE_NOTEBOOK_UUID) is the
local notebook identifier, --trace (or SAMEPAGE_TRACE) sets trace level: error, info, or debug.
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"

	"github.com/samepage-network/obsidian-samepage/document"
	"github.com/samepage-network/obsidian-samepage/leaf"
	"github.com/samepage-network/obsidian-samepage/lexer"
	"github.com/samepage-network/obsidian-samepage/render"
)

var traceKeys = []string{"samepage.lexer", "samepage.parser", "samepage.leaf", "samepage.render"}

// Globals are flags shared by all commands.
type Globals struct {
	Notebook string `name:"notebook" env:"SAMEPAGE_NOTEBOOK_UUID" default:"local-notebook" help:"Local notebook identifier."`
	Trace    string `name:"trace" env:"SAMEPAGE_TRACE" enum:"none,error,info,debug" default:"none" help:"Trace level (none, error, info, debug)."`
}

func (g *Globals) notebookID() string {
	return g.Notebook
}

type CLI struct {
	Globals

	Parse   ParseCmd   `cmd:"" help:"Convert page to JSON document."`
	Render  RenderCmd  `cmd:"" help:"Convert JSON document to page."`
	Check   CheckCmd   `cmd:"" help:"Check that pages survive parse and render unchanged."`
	Grammar GrammarCmd `cmd:"" help:"Print lexer rules and grammar."`
}

type ParseCmd struct {
	BlockIDs bool   `name:"block-ids" help:"Assign random block identifiers."`
	Debug    bool   `name:"debug" help:"List expected tokens in syntax errors."`
	File     string `arg:"" optional:"" help:"Page file, standard input if omitted."`
}

func (c *ParseCmd) Run(ctx *kong.Context, g *Globals) error {
	src, e := readInput(c.File)
	if e != nil {
		return e
	}

	opts := leaf.Options{NotebookID: g.notebookID, Debug: c.Debug}
	if c.BlockIDs {
		opts.BlockID = leaf.UUIDBlockIDs()
	}
	d, e := leaf.Parse(src, opts)
	if e != nil {
		return fmt.Errorf("%s: %w", inputName(c.File), e)
	}

	out, e := json.MarshalIndent(d, "", "  ")
	if e != nil {
		return e
	}
	_, e = fmt.Fprintln(ctx.Stdout, string(out))
	return e
}

type RenderCmd struct {
	File string `arg:"" optional:"" help:"JSON document file, standard input if omitted."`
}

func (c *RenderCmd) Run(ctx *kong.Context, g *Globals) error {
	src, e := readInput(c.File)
	if e != nil {
		return e
	}

	var d document.Document
	if e = json.Unmarshal([]byte(src), &d); e != nil {
		return fmt.Errorf("%s: %w", inputName(c.File), e)
	}
	text, e := render.Render(d, render.Options{NotebookID: g.notebookID})
	if e != nil {
		return fmt.Errorf("%s: %w", inputName(c.File), e)
	}
	_, e = io.WriteString(ctx.Stdout, text)
	return e
}

type CheckCmd struct {
	Files []string `arg:"" optional:"" help:"Page files, standard input if omitted."`
}

func (c *CheckCmd) Run(ctx *kong.Context, g *Globals) error {
	files := c.Files
	if len(files) == 0 {
		files = []string{"-"}
	}

	p, e := leaf.New(leaf.Options{NotebookID: g.notebookID})
	if e != nil {
		return e
	}
	failed := 0
	for _, name := range files {
		if e := check(p, name, g); e != nil {
			fmt.Fprintf(ctx.Stdout, "FAIL %s: %s\n", inputName(name), e.Error())
			failed++
			continue
		}
		fmt.Fprintf(ctx.Stdout, "ok   %s\n", inputName(name))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d page(s) failed", failed, len(files))
	}
	return nil
}

func check(p *leaf.Parser, name string, g *Globals) error {
	src, e := readInput(name)
	if e != nil {
		return e
	}
	d, e := p.Parse(src)
	if e != nil {
		return e
	}
	text, e := render.Render(d, render.Options{NotebookID: g.notebookID})
	if e != nil {
		return e
	}
	if text != src {
		return fmt.Errorf("rendered page differs at offset %d", mismatch(src, text))
	}
	return nil
}

type GrammarCmd struct {
	JSON bool `name:"json" short:"j" help:"Output JSON instead of text."`
}

type grammarDump struct {
	Start  string       `json:"start"`
	Tokens []lexer.Rule `json:"tokens"`
	Rules  []string     `json:"rules"`
}

func (c *GrammarCmd) Run(ctx *kong.Context, g *Globals) error {
	p, e := leaf.New(leaf.Options{NotebookID: g.notebookID})
	if e != nil {
		return e
	}

	gr := p.Grammar()
	dump := grammarDump{Start: gr.Start, Tokens: p.Lexer().Rules()}
	for _, r := range gr.Rules {
		dump.Rules = append(dump.Rules, r.String())
	}

	if c.JSON {
		out, e := json.MarshalIndent(dump, "", "  ")
		if e != nil {
			return e
		}
		_, e = fmt.Fprintln(ctx.Stdout, string(out))
		return e
	}

	var b strings.Builder
	for _, t := range dump.Tokens {
		fmt.Fprintf(&b, "%%%s = /%s/\n", t.TypeName, t.Re)
	}
	b.WriteString("\n")
	for _, r := range dump.Rules {
		b.WriteString(r + "\n")
	}
	_, e = io.WriteString(ctx.Stdout, b.String())
	return e
}

// mismatch returns byte offset of the first difference.
func mismatch(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}

func inputName(name string) string {
	if name == "" || name == "-" {
		return "<stdin>"
	}
	return name
}

func readInput(name string) (string, error) {
	var data []byte
	var e error
	if name == "" || name == "-" {
		data, e = io.ReadAll(os.Stdin)
	} else {
		data, e = os.ReadFile(name)
	}
	return string(data), e
}

// configureTracing routes samepage tracers to the standard logger.
func configureTracing(level string) error {
	if level == "" || level == "none" {
		return nil
	}

	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), true)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
		"tracelevel.root": level,
	}
	for _, key := range traceKeys {
		conf["tracelevel."+key] = level
	}
	if e := trace2go.ConfigureRoot(conf, "tracelevel", trace2go.ReplaceTracers(true)); e != nil {
		return e
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("samepage"),
		kong.Description("Obsidian page to SamePage document converter"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(configureTracing(cli.Trace))
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
