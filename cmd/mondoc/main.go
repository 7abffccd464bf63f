package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/arlev/mondoc"
	"github.com/arlev/mondoc/ir"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Compile CompileCmd `cmd:"" help:"Compile a definition document and print the resulting schemas."`
	Check   CheckCmd   `cmd:"" help:"Compile a definition document and report errors without printing schemas."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type CompileCmd struct {
	File    string `arg:"" help:"Definition document (JSON or YAML)."`
	Extras  string `help:"Extra extension-metadata file merged before compiling." short:"e"`
	Dump    bool   `help:"Dump the full result structure instead of JSON." short:"d"`
	Verbose bool   `help:"Enable debug logging." short:"v"`
}

func (c *CompileCmd) Run() error {
	res, err := compileFile(c.File, c.Extras, c.Verbose)
	if err != nil {
		return err
	}

	if c.Dump {
		spew.Fdump(os.Stdout, res)
		return nil
	}

	names := make([]string, 0, len(res.Schemas))
	for name := range res.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]any, len(names))
	for _, name := range names {
		out[name] = res.Schemas[name]
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type CheckCmd struct {
	File    string `arg:"" help:"Definition document (JSON or YAML)."`
	Extras  string `help:"Extra extension-metadata file merged before compiling." short:"e"`
	Verbose bool   `help:"Enable debug logging." short:"v"`
}

func (c *CheckCmd) Run() error {
	res, err := compileFile(c.File, c.Extras, c.Verbose)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "ok: %d schemas, %d models\n", len(res.Schemas), len(res.Models))
	return nil
}

func compileFile(path, extrasPath string, verbose bool) (*mondoc.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var extras mondoc.Extensions
	if extrasPath != "" {
		extras, err = loadExtras(extrasPath)
		if err != nil {
			return nil, err
		}
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	c := mondoc.New(mondoc.WithLogger(logger))
	return c.Compile(raw, extras)
}

func loadExtras(path string) (mondoc.Extensions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var extras map[string]ir.Extension
	if err := json.Unmarshal(raw, &extras); err != nil {
		return nil, fmt.Errorf("decoding extras %s: %w", path, err)
	}
	return extras, nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("mondoc"),
		kong.Description("Compile interface-definition documents into document-database schemas."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
