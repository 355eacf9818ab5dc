package mcp

// ErrorInfo describes one failure code.
type ErrorInfo struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListErrorsInput is the input for the list_errors tool.
type ListErrorsInput struct{}

// ListErrorsOutput is the output for the list_errors tool.
type ListErrorsOutput struct {
	Errors []ErrorInfo `json:"errors"`
}

// DescribeErrorInput is the input for the describe_error tool.
type DescribeErrorInput struct {
	Name string `json:"name,omitempty" jsonschema:"Identifier of the code (e.g. X11DisplayOpen, VulkanMissingLayer)"`
	Code *int   `json:"code,omitempty" jsonschema:"Numeric code, as printed by memviz on exit. Used when name is empty."`
}

// ListLayersInput is the input for the list_layers tool.
type ListLayersInput struct {
	Invalidate bool `json:"invalidate,omitempty" jsonschema:"When true, discard the cached list and ask the loader again (default: false)"`
}

// LayerInfo describes one instance layer.
type LayerInfo struct {
	Name                  string `json:"name"`
	Description           string `json:"description"`
	SpecVersion           string `json:"spec_version"`
	ImplementationVersion uint32 `json:"implementation_version"`
}

// ListLayersOutput is the output for the list_layers tool.
type ListLayersOutput struct {
	LoaderVersion string      `json:"loader_version"`
	Layers        []LayerInfo `json:"layers"`
}

// ListExtensionsInput is the input for the list_extensions tool.
type ListExtensionsInput struct {
	Invalidate bool `json:"invalidate,omitempty" jsonschema:"When true, discard the cached list and ask the loader again (default: false)"`
}

// ExtensionInfo describes one instance extension.
type ExtensionInfo struct {
	Name        string `json:"name"`
	SpecVersion uint32 `json:"spec_version"`
}

// ListExtensionsOutput is the output for the list_extensions tool.
type ListExtensionsOutput struct {
	Extensions []ExtensionInfo `json:"extensions"`
}

// CheckSupportInput is the input for the check_support tool.
type CheckSupportInput struct {
	Layers     []string `json:"layers,omitempty" jsonschema:"Instance layer names to check (exact match)"`
	Extensions []string `json:"extensions,omitempty" jsonschema:"Instance extension names to check (exact match)"`
}

// CheckSupportOutput is the output for the check_support tool.
type CheckSupportOutput struct {
	Supported         bool     `json:"supported"`
	MissingLayers     []string `json:"missing_layers,omitempty"`
	MissingExtensions []string `json:"missing_extensions,omitempty"`
}
