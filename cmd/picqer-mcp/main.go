package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "picqer/internal/adapters/mcp"
	"picqer/internal/bootstrap"
	"picqer/internal/logging"
)

func main() {
	dirFlag := flag.String("dir", "", "save directory (default from config or PICQER_DIR)")
	configFlag := flag.String("config", "", "config file")
	flag.Parse()

	app, err := bootstrap.New(bootstrap.Options{
		Mode:       logging.ModeMCP,
		Dir:        *dirFlag,
		ConfigPath: *configFlag,
	})
	if err != nil {
		log.Fatalf("picqer-mcp: %v", err)
	}
	defer app.Close()

	mcpServer := server.NewMCPServer(
		"picqer-mcp",
		bootstrap.Version,
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	tools := mcpadapter.NewTools(mcpadapter.Deps{
		Session:     app.Session,
		Files:       app.Files,
		Clipboard:   app.Clipboard,
		Screen:      app.Screen,
		Catalog:     app.Catalog,
		ScreenDelay: app.ScreenDelay(),
	})
	mcpadapter.RegisterReadTools(mcpServer, tools)
	mcpadapter.RegisterWriteTools(mcpServer, tools)

	if err := server.ServeStdio(mcpServer); err != nil {
		app.Logger.Error("server stopped", "error", err)
		app.Close()
		log.Fatalf("picqer-mcp: %v", err)
	}
}
