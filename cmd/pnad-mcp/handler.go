package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"gopnad/app"
	"gopnad/domain/survey"
	"gopnad/internal/export"

	"github.com/mark3labs/mcp-go/mcp"
)

const defaultLimit = 100

type toolHandler struct {
	loader  *app.LoaderService
	summary *app.SummaryService
}

type toolFunc = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
	}
}

// errorResult reports a failure to the model instead of failing the call.
func errorResult(err error) *mcp.CallToolResult {
	result := textResult(err.Error())
	result.IsError = true
	return result
}

func intArg(args map[string]interface{}, name string, def int) (int, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("argument %s must be a number", name)
	}
	return int(f), nil
}

func stringArg(args map[string]interface{}, name, def string) string {
	if s, ok := args[name].(string); ok && s != "" {
		return s
	}
	return def
}

func (h *toolHandler) loadTool(kindName string) toolFunc {
	kind := survey.Kind(kindName)
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.Params.Arguments
		year, err := intArg(args, "year", 0)
		if err != nil {
			return errorResult(err), nil
		}
		limit, err := intArg(args, "limit", defaultLimit)
		if err != nil {
			return errorResult(err), nil
		}
		format, err := export.ParseFormat(stringArg(args, "format", "csv"))
		if err != nil || (format != export.FormatCSV && format != export.FormatJSON) {
			return errorResult(fmt.Errorf("format must be csv or json")), nil
		}

		tbl, err := h.loader.Load(ctx, kind, year, app.ParseList(stringArg(args, "columns", "")))
		if err != nil {
			return errorResult(err), nil
		}
		total := tbl.NumRows()
		if limit < 0 || limit > total {
			limit = total
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, tbl.Head(limit), format); err != nil {
			return nil, err
		}
		log.Printf("[MCP] load_%s %d: %d columns, %d of %d rows", kind, year, tbl.NumColumns(), limit, total)
		return textResult(fmt.Sprintf("%s %d: %d rows in total, showing %d\n\n%s",
			kind, year, total, limit, buf.String())), nil
	}
}

func (h *toolHandler) listYears(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kinds, err := app.ParseKinds(stringArg(request.Params.Arguments, "kind", "all"))
	if err != nil {
		return errorResult(err), nil
	}
	out := make(map[string][]int, len(kinds))
	for _, kind := range kinds {
		years, err := h.loader.Years(ctx, kind, survey.All)
		if err != nil {
			return errorResult(err), nil
		}
		out[kind.String()] = years
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return textResult(string(data)), nil
}

func (h *toolHandler) describeFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := survey.ParseKind(stringArg(request.Params.Arguments, "kind", ""))
	if err != nil {
		return errorResult(err), nil
	}
	doc, err := h.loader.FieldsMarkdown(kind)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(doc), nil
}

func (h *toolHandler) summarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments
	kind, err := survey.ParseKind(stringArg(args, "kind", ""))
	if err != nil {
		return errorResult(err), nil
	}
	year, err := intArg(args, "year", 0)
	if err != nil {
		return errorResult(err), nil
	}
	columns := app.ParseList(stringArg(args, "columns", ""))
	if len(columns) == 0 {
		return errorResult(fmt.Errorf("columns is required")), nil
	}

	summaries, err := h.summary.Summarize(ctx, kind, year, columns, strings.TrimSpace(stringArg(args, "weight", "")))
	if err != nil {
		return errorResult(err), nil
	}
	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, err
	}
	return textResult(string(data)), nil
}
