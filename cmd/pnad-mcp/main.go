package main

import (
	"context"
	"log"

	"gopnad/internal/config"
	"gopnad/internal/container"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	c, err := container.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer c.Shutdown()

	mcpServer := server.NewMCPServer(
		"pnad",
		"0.1.0",
		server.WithLogging(),
		server.WithRecovery(),
	)
	registerTools(mcpServer, &toolHandler{loader: c.Loader, summary: c.Summary})

	log.Println("Starting PNAD MCP server via stdio...")
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func registerTools(s *server.MCPServer, h *toolHandler) {
	for _, kind := range []string{"person", "household"} {
		tool := mcp.NewTool("load_"+kind,
			mcp.WithDescription("Load harmonised PNAD "+kind+" records of one survey year with exactly the requested columns."),
			mcp.WithNumber("year",
				mcp.Description("Survey year, e.g. 2001."),
				mcp.Required(),
			),
			mcp.WithString("columns",
				mcp.Description("Comma separated field names. Empty loads the whole catalogue."),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of rows returned."),
				mcp.DefaultNumber(defaultLimit),
			),
			mcp.WithString("format",
				mcp.Description("Output encoding of the rows."),
				mcp.DefaultString("csv"),
				mcp.Enum("csv", "json"),
			),
		)
		s.AddTool(tool, h.loadTool(kind))
	}

	s.AddTool(mcp.NewTool("list_years",
		mcp.WithDescription("List the survey years with raw data available."),
		mcp.WithString("kind",
			mcp.Description("Record kind."),
			mcp.DefaultString("all"),
			mcp.Enum("person", "household", "all"),
		),
	), h.listYears)

	s.AddTool(mcp.NewTool("describe_fields",
		mcp.WithDescription("Describe the harmonised fields of a record kind as markdown."),
		mcp.WithString("kind",
			mcp.Description("Record kind."),
			mcp.Required(),
			mcp.Enum("person", "household"),
		),
	), h.describeFields)

	s.AddTool(mcp.NewTool("summarize",
		mcp.WithDescription("Summarise columns of one survey year, optionally weighted."),
		mcp.WithString("kind",
			mcp.Description("Record kind."),
			mcp.Required(),
			mcp.Enum("person", "household"),
		),
		mcp.WithNumber("year",
			mcp.Description("Survey year."),
			mcp.Required(),
		),
		mcp.WithString("columns",
			mcp.Description("Comma separated field names."),
			mcp.Required(),
		),
		mcp.WithString("weight",
			mcp.Description("Column used to weight the statistics, e.g. weight."),
		),
	), h.summarize)
}
