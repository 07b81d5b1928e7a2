// SPDX-License-Identifier: Apache-2.0

// Package tool exposes field extraction, schema coercion and product
// normalization as MCP tools.
package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName is the implementation name reported to MCP clients.
const ServerName = "fieldextract"

// NewServer creates an MCP server with every tool registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	mcp.AddTool(server, MetadataExtractFields, ExtractFields)
	mcp.AddTool(server, MetadataCoerceDocument, CoerceDocument)
	mcp.AddTool(server, MetadataNormalizeProducts, NormalizeProducts)
	return server
}
