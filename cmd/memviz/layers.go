package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/MartinNikolovMarinov/memviz/internal/errcode"
	"github.com/MartinNikolovMarinov/memviz/internal/renderer"
	"github.com/MartinNikolovMarinov/memviz/internal/renderer/vulkan"
)

func runLayers(args []string) int {
	fs := flag.NewFlagSet("layers", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/memviz/config.yaml)")
	extensions := fs.Bool("extensions", true, "Also list instance extensions")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: memviz layers [--config PATH] [--extensions=false]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the instance layers and extensions the Vulkan loader reports,")
		fmt.Fprintln(os.Stderr, "marking the layers diagnostics would enable.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	driver := vulkan.NewDriver()
	if err := driver.Load(); err != nil {
		return reportFailure(os.Stderr, errcode.Wrap(errcode.VulkanLoader, err))
	}
	caps := renderer.NewCapabilities(driver)
	if err := printCapabilities(os.Stdout, driver, caps, res.Config.Renderer.Layers, *extensions); err != nil {
		return reportFailure(os.Stderr, err)
	}
	return 0
}

func printCapabilities(w io.Writer, driver renderer.Driver, caps *renderer.Capabilities, wanted []string, withExtensions bool) error {
	if v, err := driver.LoaderVersion(); err == nil {
		fmt.Fprintf(w, "loader: %s\n\n", renderer.VersionString(v))
	}

	layers, err := caps.QueryLayers(false)
	if err != nil {
		return err
	}
	want := make(map[string]bool, len(wanted))
	for _, name := range wanted {
		want[name] = true
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYER\tSPEC\tIMPL\tDIAGNOSTICS\tDESCRIPTION")
	for _, l := range layers {
		mark := ""
		if want[l.Name] {
			mark = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.Name, renderer.VersionString(l.SpecVersion), l.ImplementationVersion, mark, l.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, name := range wanted {
		if !caps.SupportsLayer(name) {
			fmt.Fprintf(w, "missing diagnostics layer: %s\n", name)
		}
	}

	if !withExtensions {
		return nil
	}
	exts, err := caps.QueryExtensions(false)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EXTENSION\tSPEC")
	for _, e := range exts {
		fmt.Fprintf(tw, "%s\t%d\n", e.Name, e.SpecVersion)
	}
	return tw.Flush()
}
