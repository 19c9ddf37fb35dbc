package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

var (
	sessionIDProp = prop("string", "Editing session id returned by open_session")
	trackIDProp   = prop("string", "Track id from get_arrangement")
	clipIDProp    = prop("string", "Clip id from get_arrangement")
)

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Projects
		{
			Name:        "create_project",
			Description: "Create a new project holding an empty arrangement",
			InputSchema: objectSchema(map[string]any{
				"id":          prop("string", "Unique project identifier (optional, will be generated if not provided)"),
				"name":        prop("string", "Project display name"),
				"description": prop("string", "Project description"),
				"container_type": map[string]any{
					"type":        "string",
					"description": "Arrangement view the project belongs to",
					"enum":        []string{"songeditor", "bbeditor"},
				},
			}, "name"),
		},
		{
			Name:        "list_projects",
			Description: "List all projects for the current tenant with revision, track count and length",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "get_project",
			Description: "Get details for a specific project or the default project",
			InputSchema: objectSchema(map[string]any{
				"id": prop("string", "Project ID (omit to get default project)"),
			}),
		},
		{
			Name:        "export_project",
			Description: "Return the stored arrangement document of a project as YAML",
			InputSchema: objectSchema(map[string]any{
				"id": prop("string", "Project ID"),
			}, "id"),
		},
		{
			Name:        "import_project",
			Description: "Replace a project's stored arrangement with a YAML document. Unreadable track records are skipped and listed",
			InputSchema: objectSchema(map[string]any{
				"id":       prop("string", "Project ID"),
				"document": prop("string", "Arrangement document as produced by export_project"),
			}, "id", "document"),
		},

		// Sessions
		{
			Name:        "open_session",
			Description: "Load a project's arrangement for editing and return the session status",
			InputSchema: objectSchema(map[string]any{
				"project_id": prop("string", "Project ID (omit to use default project)"),
			}),
		},
		{
			Name:        "close_session",
			Description: "Close an editing session. Fails with UNSAVED_CHANGES unless saved or discard is set",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"discard":    prop("boolean", "Drop unsaved changes"),
			}, "session_id"),
		},
		{
			Name:        "save_session",
			Description: "Save the session's arrangement as the next project revision",
			InputSchema: objectSchema(map[string]any{"session_id": sessionIDProp}, "session_id"),
		},
		{
			Name:        "session_status",
			Description: "Report modified flag, revision, track count and length of a session",
			InputSchema: objectSchema(map[string]any{"session_id": sessionIDProp}, "session_id"),
		},
		{
			Name:        "list_sessions",
			Description: "List open editing sessions",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "get_arrangement",
			Description: "Return every track and clip of the session's arrangement",
			InputSchema: objectSchema(map[string]any{"session_id": sessionIDProp}, "session_id"),
		},

		// Tracks
		{
			Name:        "add_track",
			Description: "Append a new track",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"kind": map[string]any{
					"type":        "string",
					"description": "Track kind",
					"enum":        []string{"melodic", "beatbassline", "sample"},
				},
			}, "session_id", "kind"),
		},
		{
			Name:        "remove_track",
			Description: "Remove a track and its clips",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"track_id":   trackIDProp,
			}, "session_id", "track_id"),
		},
		{
			Name:        "move_track",
			Description: "Move a track one place up or down. Moving past either end is a no-op",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"track_id":   trackIDProp,
				"direction": map[string]any{
					"type": "string",
					"enum": []string{"up", "down"},
				},
			}, "session_id", "track_id", "direction"),
		},
		{
			Name:        "clone_track",
			Description: "Append a copy of a track with all its clips",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"track_id":   trackIDProp,
			}, "session_id", "track_id"),
		},
		{
			Name:        "set_muted",
			Description: "Mute or unmute a track",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"track_id":   trackIDProp,
				"muted":      prop("boolean", "New mute state"),
			}, "session_id", "track_id", "muted"),
		},
		{
			Name:        "solo_track",
			Description: "Mute every track except one. With toggle the solo state is flipped instead",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"track_id":   trackIDProp,
				"toggle":     prop("boolean", "Flip the solo state"),
			}, "session_id", "track_id"),
		},

		// Clips
		{
			Name:        "add_clip",
			Description: "Place a new clip on a track. Positions and lengths are ticks, 64 per bar",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"track_id":   trackIDProp,
				"start":      prop("integer", "Start position in ticks"),
				"length":     prop("integer", "Length in ticks"),
			}, "session_id", "track_id", "start"),
		},
		{
			Name:        "move_clip",
			Description: "Move a clip to a new start position in ticks; negative positions clamp to zero",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"track_id":   trackIDProp,
				"clip_id":    clipIDProp,
				"start":      prop("integer", "Start position in ticks"),
			}, "session_id", "track_id", "clip_id", "start"),
		},
		{
			Name:        "resize_clip",
			Description: "Set a clip's length in ticks",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"track_id":   trackIDProp,
				"clip_id":    clipIDProp,
				"length":     prop("integer", "Length in ticks"),
			}, "session_id", "track_id", "clip_id", "length"),
		},
		{
			Name:        "remove_clip",
			Description: "Remove a clip from its track",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"track_id":   trackIDProp,
				"clip_id":    clipIDProp,
			}, "session_id", "track_id", "clip_id"),
		},
		{
			Name:        "swap_clips",
			Description: "Exchange the slots and start positions of two clips on a track",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"track_id":   trackIDProp,
				"first":      prop("integer", "Index of the first clip"),
				"second":     prop("integer", "Index of the second clip"),
			}, "session_id", "track_id", "first", "second"),
		},

		// Timeline
		{
			Name:        "insert_bar",
			Description: "Shift every clip starting at or after a bar one bar later",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"bar":        prop("integer", "Zero-based bar number"),
			}, "session_id", "bar"),
		},
		{
			Name:        "remove_bar",
			Description: "Shift every clip starting at or after a bar one bar earlier, clamped at zero",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"bar":        prop("integer", "Zero-based bar number"),
			}, "session_id", "bar"),
		},
		{
			Name:        "clips_in_range",
			Description: "List clips overlapping [start, end] in ticks, both ends inclusive, ordered by start",
			InputSchema: objectSchema(map[string]any{
				"session_id": sessionIDProp,
				"track_id":   prop("string", "Restrict to one track (omit for all tracks)"),
				"start":      prop("integer", "Range start in ticks"),
				"end":        prop("integer", "Range end in ticks"),
			}, "session_id", "start", "end"),
		},

		// History
		{
			Name:        "get_recent_activity",
			Description: "List recent structural edits, newest first",
			InputSchema: objectSchema(map[string]any{
				"project_id": prop("string", "Filter by project"),
				"session_id": prop("string", "Filter by session"),
				"track_id":   prop("string", "Filter by track"),
				"type":       prop("string", "Filter by activity type, e.g. track_added"),
				"limit":      prop("integer", "Maximum entries to return"),
			}),
		},
	}
}

// registerTools exposes every catalog entry on the server, dispatching to h.
func registerTools(server *sdkmcp.Server, h *Handler, logger *slog.Logger) {
	for _, def := range buildToolCatalog() {
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, toolHandler(h, def.Name, logger))
	}
}

func toolHandler(h *Handler, name string, logger *slog.Logger) sdkmcp.ToolHandler {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}

		resp, err := h.Handle(ctx, getTenantID(ctx), name, args)
		if err != nil {
			if logger != nil {
				logger.Debug("tool failed", "tool", name, "error", err)
			}
			return errorResult(err), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return nil, err
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		}, nil
	}
}

func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr == nil {
		apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
	}
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
