package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Arguments copied from tool calls onto traffic log lines, so one editing
// session or track can be followed through the debug log.
var tracedArguments = []string{"project_id", "session_id", "track_id", "clip_id"}

func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			log := logger.With("direction", direction, "method", method,
				"mcp_session", safeSessionID(req), "tenant_id", getTenantID(ctx))
			if attrs := toolCallAttrs(req); len(attrs) > 0 {
				log = log.With(attrs...)
			}
			log.Debug("mcp traffic", "stage", "request", "params", formatPayload(safeParams(req)))

			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}
			attrs := []any{"stage", "response", "result", formatPayload(result)}
			if code := toolErrorCode(result); code != "" {
				attrs = append(attrs, "error_code", code)
			}
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			log.Debug("mcp traffic", attrs...)
			return result, err
		}
	}
}

// toolCallAttrs names the tool and the arranger identifiers a call addresses.
func toolCallAttrs(req sdkmcp.Request) []any {
	call, ok := req.(*sdkmcp.CallToolRequest)
	if !ok || call.Params == nil {
		return nil
	}
	attrs := []any{"tool", call.Params.Name}
	var args map[string]any
	if len(call.Params.Arguments) == 0 || json.Unmarshal(call.Params.Arguments, &args) != nil {
		return attrs
	}
	for _, key := range tracedArguments {
		if v, ok := args[key].(string); ok && v != "" {
			attrs = append(attrs, key, v)
		}
	}
	return attrs
}

// toolErrorCode returns the APIError code carried by a failed tool result.
func toolErrorCode(result sdkmcp.Result) string {
	res, ok := result.(*sdkmcp.CallToolResult)
	if !ok || res == nil || !res.IsError {
		return ""
	}
	for _, content := range res.Content {
		text, ok := content.(*sdkmcp.TextContent)
		if !ok {
			continue
		}
		var apiErr APIError
		if json.Unmarshal([]byte(text.Text), &apiErr) == nil && apiErr.Code != "" {
			return apiErr.Code
		}
	}
	return ""
}

func safeSessionID(req sdkmcp.Request) string {
	if req == nil {
		return ""
	}
	defer func() { recover() }()
	session := req.GetSession()
	if session == nil {
		return ""
	}
	return session.ID()
}

func safeParams(req sdkmcp.Request) any {
	if req == nil {
		return nil
	}
	defer func() { recover() }()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	return string(data)
}
