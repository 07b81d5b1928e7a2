// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gemaraproj/fieldextract/internal/normalize"
	"github.com/gemaraproj/fieldextract/internal/telemetry"
)

// MetadataNormalizeProducts describes the normalize_products tool.
var MetadataNormalizeProducts = &mcp.Tool{
	Name: "normalize_products",
	Description: "Normalize heterogeneous product records into a uniform {name, price, stock, tags} shape. " +
		"Each field is taken from the first of several known locations that holds a non-empty value " +
		"(for example price from details.price, product.details.price or pricing.amount). " +
		"The document may be a list of records or a single record.",
	InputSchema: map[string]interface{}{
		"type":       "object",
		"required":   []string{"content"},
		"properties": documentProperties(),
	},
}

// InputNormalizeProducts is the input for the NormalizeProducts tool.
type InputNormalizeProducts struct {
	Content  string `json:"content"`
	Format   string `json:"format"`
	SourceID string `json:"source_id"`
}

// OutputNormalizeProducts is the output for the NormalizeProducts tool.
type OutputNormalizeProducts struct {
	Products    []normalize.Product `json:"products"`
	DecoderUsed string              `json:"decoder_used"`
}

// NormalizeProducts normalizes every record in the document.
func NormalizeProducts(ctx context.Context, _ *mcp.CallToolRequest, input InputNormalizeProducts) (_ *mcp.CallToolResult, _ OutputNormalizeProducts, err error) {
	ctx, span := telemetry.StartTool(ctx, MetadataNormalizeProducts.Name)
	defer func() { telemetry.End(span, err) }()

	loaded, err := loadDocument(ctx, input.Content, input.Format, input.SourceID)
	if err != nil {
		return nil, OutputNormalizeProducts{}, err
	}

	products := normalize.Products(records(loaded.Document))
	span.SetAttributes(attribute.Int("products", len(products)))
	return nil, OutputNormalizeProducts{Products: products, DecoderUsed: loaded.DecoderUsed}, nil
}
