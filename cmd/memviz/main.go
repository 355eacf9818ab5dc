package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/MartinNikolovMarinov/memviz/internal/config"
	"github.com/MartinNikolovMarinov/memviz/internal/errcode"
	"github.com/MartinNikolovMarinov/memviz/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runApp(os.Args[2:]))
	case "layers":
		os.Exit(runLayers(os.Args[2:]))
	case "errors":
		os.Exit(runErrors(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: memviz <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the window and pump events until it is closed")
	fmt.Fprintln(w, "  layers              List Vulkan instance layers and extensions")
	fmt.Fprintln(w, "  errors              List failure codes")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'memviz <command> --help' for command-specific options.")
}

// loadConfig loads path, or the default location when path is empty, and
// installs the configured logger.
func loadConfig(path string) (*config.LoadResult, error) {
	var res *config.LoadResult
	var err error
	if path == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(path)
	}
	if err != nil {
		return nil, err
	}
	logging.SetDefault(logging.New(os.Stderr, res.Config.LoggingOptions()))
	return res, nil
}

// printConfig writes the effective config, or the built-in defaults, as YAML.
func printConfig(w io.Writer, path string, defaults bool) error {
	cfg := config.DefaultConfig()
	if !defaults {
		res, err := loadConfig(path)
		if err != nil {
			return err
		}
		cfg = res.Config
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// reportFailure prints err with its failure code and returns the exit status.
func reportFailure(w io.Writer, err error) int {
	code := errcode.Of(err)
	if code == errcode.Sentinel {
		fmt.Fprintf(w, "memviz: %v\n", err)
		return 1
	}
	fmt.Fprintf(w, "memviz: %s (%d): %v\n", code, int(code), err)
	return 1
}

func runErrors(args []string) int {
	fs := flag.NewFlagSet("errors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: memviz errors")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List every failure code with its numeric value and description.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	printErrors(os.Stdout)
	return 0
}

func printErrors(w io.Writer) {
	for _, e := range errcode.All() {
		fmt.Fprintf(w, "%3d  %-26s %s\n", int(e), e.String(), e.Error())
	}
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  memviz config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  memviz config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  memviz config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/memviz/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("config: ok (%d file(s))\n", len(res.Files))
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/memviz/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults instead of the effective config")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if err := printConfig(os.Stdout, *path, *printDefaults); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/memviz/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", src)
		fmt.Printf("value: %v\n", value)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}
