package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MartinNikolovMarinov/memviz/internal/errcode"
	"github.com/MartinNikolovMarinov/memviz/internal/renderer"
)

func errorInfo(e errcode.Error) ErrorInfo {
	return ErrorInfo{Code: int(e), Name: e.String(), Description: e.Error()}
}

func (s *Server) handleListErrors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListErrorsInput) (*mcpsdk.CallToolResult, ListErrorsOutput, error) {
	all := errcode.All()
	out := ListErrorsOutput{Errors: make([]ErrorInfo, 0, len(all))}
	for _, e := range all {
		out.Errors = append(out.Errors, errorInfo(e))
	}
	return nil, out, nil
}

func (s *Server) handleDescribeError(_ context.Context, _ *mcpsdk.CallToolRequest, args DescribeErrorInput) (*mcpsdk.CallToolResult, ErrorInfo, error) {
	name := strings.TrimSpace(args.Name)
	switch {
	case name != "":
		e, ok := errcode.Parse(name)
		if !ok {
			return nil, ErrorInfo{}, fmt.Errorf("unknown error code %q", name)
		}
		return nil, errorInfo(e), nil
	case args.Code != nil:
		e := errcode.Error(*args.Code)
		if !e.Valid() {
			return nil, ErrorInfo{}, fmt.Errorf("unknown error code %d", *args.Code)
		}
		return nil, errorInfo(e), nil
	}
	return nil, ErrorInfo{}, fmt.Errorf("name or code is required")
}

func (s *Server) handleListLayers(_ context.Context, _ *mcpsdk.CallToolRequest, args ListLayersInput) (*mcpsdk.CallToolResult, ListLayersOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, ListLayersOutput{}, err
	}
	version, err := s.driver.LoaderVersion()
	if err != nil {
		return nil, ListLayersOutput{}, errcode.Wrap(errcode.VulkanLoader, err)
	}
	layers, err := s.caps.QueryLayers(args.Invalidate)
	if err != nil {
		return nil, ListLayersOutput{}, err
	}

	out := ListLayersOutput{
		LoaderVersion: renderer.VersionString(version),
		Layers:        make([]LayerInfo, 0, len(layers)),
	}
	for _, l := range layers {
		out.Layers = append(out.Layers, LayerInfo{
			Name:                  l.Name,
			Description:           l.Description,
			SpecVersion:           renderer.VersionString(l.SpecVersion),
			ImplementationVersion: l.ImplementationVersion,
		})
	}
	s.log.Debug("mcp listed layers", "count", len(out.Layers), "invalidate", args.Invalidate)
	return nil, out, nil
}

func (s *Server) handleListExtensions(_ context.Context, _ *mcpsdk.CallToolRequest, args ListExtensionsInput) (*mcpsdk.CallToolResult, ListExtensionsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, ListExtensionsOutput{}, err
	}
	exts, err := s.caps.QueryExtensions(args.Invalidate)
	if err != nil {
		return nil, ListExtensionsOutput{}, err
	}

	out := ListExtensionsOutput{Extensions: make([]ExtensionInfo, 0, len(exts))}
	for _, e := range exts {
		out.Extensions = append(out.Extensions, ExtensionInfo{Name: e.Name, SpecVersion: e.SpecVersion})
	}
	s.log.Debug("mcp listed extensions", "count", len(out.Extensions), "invalidate", args.Invalidate)
	return nil, out, nil
}

func (s *Server) handleCheckSupport(_ context.Context, _ *mcpsdk.CallToolRequest, args CheckSupportInput) (*mcpsdk.CallToolResult, CheckSupportOutput, error) {
	if len(args.Layers) == 0 && len(args.Extensions) == 0 {
		return nil, CheckSupportOutput{}, fmt.Errorf("at least one layer or extension is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, CheckSupportOutput{}, err
	}
	// Surface enumeration failures instead of reporting everything missing.
	if len(args.Layers) > 0 {
		if _, err := s.caps.QueryLayers(false); err != nil {
			return nil, CheckSupportOutput{}, err
		}
	}
	if len(args.Extensions) > 0 {
		if _, err := s.caps.QueryExtensions(false); err != nil {
			return nil, CheckSupportOutput{}, err
		}
	}

	var out CheckSupportOutput
	for _, name := range args.Layers {
		if !s.caps.SupportsLayer(name) {
			out.MissingLayers = append(out.MissingLayers, name)
		}
	}
	for _, name := range args.Extensions {
		if !s.caps.SupportsExtension(name) {
			out.MissingExtensions = append(out.MissingExtensions, name)
		}
	}
	out.Supported = len(out.MissingLayers) == 0 && len(out.MissingExtensions) == 0

	var result *mcpsdk.CallToolResult
	if !out.Supported {
		missing := make([]string, 0, len(out.MissingLayers)+len(out.MissingExtensions))
		missing = append(missing, out.MissingLayers...)
		missing = append(missing, out.MissingExtensions...)
		result = &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: "missing: " + strings.Join(missing, ", ")},
			},
		}
	}
	return result, out, nil
}
