// ABOUTME: MCP server subcommand
// ABOUTME: Exposes timeline tools over stdio for assistant integration
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/revline/handlers"
)

// MCPCommand starts the MCP server on stdio.
func MCPCommand(deps *Deps) error {
	log.Println("Starting revline MCP server...")

	timelineHandlers := handlers.NewTimelineHandlers(deps.Client, deps.Store, deps.Config)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "revline",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_timeline",
		Description: "Get the reconciled activity timeline for a record, flat or grouped by time bucket",
	}, timelineHandlers.GetTimeline)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_note",
		Description: "Add a note to a record's timeline",
	}, timelineHandlers.AddNote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_note",
		Description: "Update a note's title and content",
	}, timelineHandlers.UpdateNote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_event",
		Description: "Delete a timeline event (note or action); confirm must repeat the event id",
	}, timelineHandlers.DeleteEvent)

	return server.Run(context.Background(), &mcp.StdioTransport{})
}
