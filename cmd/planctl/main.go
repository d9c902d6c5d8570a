// planctl is a CLI utility for building and inspecting floor-plan documents.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/internal/config"
	"github.com/Faultbox/floorplan/internal/editor"
	"github.com/Faultbox/floorplan/internal/logger"
	"github.com/Faultbox/floorplan/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "summary", "info":
		cmdSummary(args)
	case "meshes":
		cmdMeshes(args)
	case "normalize", "fmt":
		cmdNormalize(args)
	case "import":
		cmdImport(args)
	case "export":
		cmdExport(args)
	case "list", "ls":
		cmdList(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`planctl - floor-plan document utility

Usage:
  planctl <command> [options]

Commands:
  summary <plan.yaml>              Build the plan and report walls and rooms
  meshes <plan.yaml> [-o out.json] Build the plan and write renderer buffers
  normalize <plan.yaml>            Rebuild the plan and print its document
  import <plan.yaml>               Store a plan in the database
  export <id>                      Print a stored plan document
  list                             List stored plans

Common options:
  -config <file>  Config file (defaults are used otherwise)
  -db <file>      Plan database (import, export, list)
  -v              Debug logging

Examples:
  planctl summary flat.yaml
  planctl meshes flat.yaml -o flat.json
  planctl import flat.yaml -db planner.db
  planctl export 6f1c0d2e-5f0a-4c2b-9a37-2d8c1f4e9b10`)
}

// options holds the flags shared by every command.
type options struct {
	fs      *flag.FlagSet
	config  *string
	db      *string
	verbose *bool
}

func newOptions(name string) *options {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &options{
		fs:      fs,
		config:  fs.String("config", "", "Path to config file"),
		db:      fs.String("db", "", "Plan database file"),
		verbose: fs.Bool("v", false, "Enable debug logging"),
	}
}

// parse parses args, allowing flags after positional arguments.
func (o *options) parse(args []string) []string {
	var positional []string
	for {
		o.fs.Parse(args)
		if o.fs.NArg() == 0 {
			break
		}
		positional = append(positional, o.fs.Arg(0))
		args = o.fs.Args()[1:]
	}
	return positional
}

// setup loads config and starts logging.
func (o *options) setup() *config.Config {
	cfg := config.Default()
	if *o.config != "" {
		loaded, err := config.LoadFile(*o.config)
		if err != nil {
			fail(err)
		}
		cfg = loaded
	}
	if *o.db != "" {
		cfg.Store.Path = *o.db
	}

	level := "warn"
	if *o.verbose {
		level = "debug"
	}
	if err := logger.Init(level, cfg.Logging.LogFile); err != nil {
		fail(err)
	}
	return cfg
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// build replays a document file into a new editor.
func build(cfg *config.Config, path string) *editor.Editor {
	doc, err := editor.ReadDocument(path)
	if err != nil {
		fail(err)
	}
	settings, err := editor.SettingsFromConfig(cfg)
	if err != nil {
		fail(err)
	}
	ed := editor.New(settings)
	if err := ed.Apply(doc); err != nil {
		ed.Close()
		fail(err)
	}
	return ed
}

func cmdSummary(args []string) {
	o := newOptions("summary")
	pos := o.parse(args)
	if len(pos) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: planctl summary <plan.yaml>")
		os.Exit(1)
	}
	cfg := o.setup()
	defer logger.Sync()

	ed := build(cfg, pos[0])
	defer ed.Close()
	s := ed.Summary()

	fmt.Printf("Plan:  %s\n", pos[0])
	fmt.Printf("Walls: %d\n", len(s.Walls))
	fmt.Printf("Rooms: %d\n", len(s.Rooms))
	fmt.Println()

	if len(s.Walls) > 0 {
		fmt.Println("Walls:")
		for _, w := range s.Walls {
			var extra []string
			if len(w.Openings) > 0 {
				kinds := make([]string, 0, len(w.Openings))
				for _, op := range w.Openings {
					kinds = append(kinds, string(op.Kind))
				}
				extra = append(extra, "openings="+strings.Join(kinds, ","))
			}
			regions := make([]string, 0, len(w.Paint))
			for region := range w.Paint {
				regions = append(regions, region)
			}
			sort.Strings(regions)
			for _, region := range regions {
				extra = append(extra, region+"="+w.Paint[region])
			}
			if w.Pending {
				extra = append(extra, "pending")
			}
			fmt.Printf("  #%-3d (%6.2f,%6.2f) -> (%6.2f,%6.2f)  len %6.2f  %s\n",
				w.Index, w.P1.X, w.P1.Z, w.P2.X, w.P2.Z, w.Length, strings.Join(extra, " "))
		}
		fmt.Println()
	}

	if len(s.Rooms) > 0 {
		fmt.Println("Rooms:")
		for i, r := range s.Rooms {
			fmt.Printf("  %-3d area %8.2f m2  circumference %7.2f m  paintable %8.2f m2  walls %d\n",
				i, r.Area, r.Circumference, r.PaintSurfaceArea, len(r.Walls))
		}
	}
}

func cmdMeshes(args []string) {
	o := newOptions("meshes")
	output := o.fs.String("o", "", "Output file (default stdout)")
	pos := o.parse(args)
	if len(pos) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: planctl meshes <plan.yaml> [-o out.json]")
		os.Exit(1)
	}
	cfg := o.setup()
	defer logger.Sync()

	ed := build(cfg, pos[0])
	defer ed.Close()

	data, err := json.Marshal(ed.Meshes())
	if err != nil {
		fail(err)
	}
	if *output == "" {
		os.Stdout.Write(data)
		fmt.Println()
		return
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", *output, len(data))
}

func cmdNormalize(args []string) {
	o := newOptions("normalize")
	pos := o.parse(args)
	if len(pos) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: planctl normalize <plan.yaml>")
		os.Exit(1)
	}
	cfg := o.setup()
	defer logger.Sync()

	ed := build(cfg, pos[0])
	defer ed.Close()

	doc := ed.Document()
	if src, err := editor.ReadDocument(pos[0]); err == nil {
		doc.Name = src.Name
	}
	data, err := doc.Marshal()
	if err != nil {
		fail(err)
	}
	os.Stdout.Write(data)
}

func openStore(cfg *config.Config) *store.Store {
	st, err := store.Open(context.Background(), cfg.Store.Path)
	if err != nil {
		fail(err)
	}
	return st
}

func cmdImport(args []string) {
	o := newOptions("import")
	pos := o.parse(args)
	if len(pos) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: planctl import <plan.yaml> [-db planner.db]")
		os.Exit(1)
	}
	cfg := o.setup()
	defer logger.Sync()

	// Replaying first rejects documents that cannot be built.
	ed := build(cfg, pos[0])
	doc := ed.Document()
	ed.Close()
	if src, err := editor.ReadDocument(pos[0]); err == nil {
		doc.Name = src.Name
	}

	st := openStore(cfg)
	defer st.Close()

	p := &store.Plan{Name: doc.Name, Document: doc}
	if err := st.Save(context.Background(), p); err != nil {
		fail(err)
	}
	fmt.Println(p.ID)
}

func cmdExport(args []string) {
	o := newOptions("export")
	pos := o.parse(args)
	if len(pos) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: planctl export <id> [-db planner.db]")
		os.Exit(1)
	}
	cfg := o.setup()
	defer logger.Sync()

	id, err := uuid.Parse(pos[0])
	if err != nil {
		fail(err)
	}
	st := openStore(cfg)
	defer st.Close()

	p, err := st.Get(context.Background(), id)
	if err != nil {
		fail(err)
	}
	data, err := p.Document.Marshal()
	if err != nil {
		fail(err)
	}
	os.Stdout.Write(data)
}

func cmdList(args []string) {
	o := newOptions("list")
	o.parse(args)
	cfg := o.setup()
	defer logger.Sync()

	st := openStore(cfg)
	defer st.Close()

	plans, err := st.List(context.Background())
	if err != nil {
		fail(err)
	}
	for _, p := range plans {
		fmt.Printf("%s  %s  %s\n", p.ID, p.UpdatedAt.Local().Format("2006-01-02 15:04"), p.Name)
	}
}
