// Package cli provides the in-process command-line surface over an
// amfctx.Context: output formatting, admin-operation error classification
// and table rendering shared by cmd/list.go, cmd/get.go and cmd/admin.go
// (mirroring the teacher's internal/cli package, which does the equivalent
// for muster's MCP client output).
package cli

import (
	"fmt"
	"strings"
)

// OutputFormat selects how list/get results are rendered.
type OutputFormat int

const (
	OutputFormatTable OutputFormat = iota
	OutputFormatYAML
)

// ParseOutputFormat maps a --output flag value onto an OutputFormat,
// defaulting to table for an empty string (matches cobra's StringVarP zero
// value so callers don't need a separate "was it set" check).
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return OutputFormatTable, nil
	case "yaml", "yml":
		return OutputFormatYAML, nil
	default:
		return OutputFormatTable, fmt.Errorf("unknown output format %q (want table or yaml)", s)
	}
}
