package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/arranger/internal/arrangement"
	"github.com/rpggio/arranger/internal/domain/activity"
	"github.com/rpggio/arranger/internal/domain/project"
	"github.com/rpggio/arranger/internal/domain/session"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, tenantID string, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context, tenantID string) ([]project.ProjectSummary, error)
	Get(ctx context.Context, tenantID, id string) (*project.Project, error)
	GetDefault(ctx context.Context, tenantID string) (*project.Project, error)
	Export(ctx context.Context, tenantID, projectID string) ([]byte, error)
	Import(ctx context.Context, tenantID, projectID string, data []byte) (int64, []*arrangement.RecordError, error)
}

// SessionService defines editing session operations needed by MCP.
type SessionService interface {
	Open(ctx context.Context, tenantID, projectID string) (*session.Status, error)
	Close(ctx context.Context, tenantID, sessionID string, discard bool) error
	Save(ctx context.Context, tenantID, sessionID string) (int64, error)
	Status(ctx context.Context, tenantID, sessionID string) (*session.Status, error)
	List(ctx context.Context, tenantID string) []session.SessionInfo
	Snapshot(ctx context.Context, tenantID, sessionID string) (*session.ArrangementView, error)

	AddTrack(ctx context.Context, tenantID, sessionID, kind string) (*session.TrackView, error)
	RemoveTrack(ctx context.Context, tenantID, sessionID, trackID string) error
	MoveTrack(ctx context.Context, tenantID, sessionID, trackID string, dir session.Direction) (int, error)
	CloneTrack(ctx context.Context, tenantID, sessionID, trackID string) (*session.TrackView, error)
	SetMuted(ctx context.Context, tenantID, sessionID, trackID string, muted bool) error
	Solo(ctx context.Context, tenantID, sessionID, trackID string, toggle bool) error

	AddClip(ctx context.Context, tenantID, sessionID, trackID string, start, length int) (*session.ClipView, error)
	MoveClip(ctx context.Context, tenantID, sessionID, trackID, clipID string, start int) (*session.ClipView, error)
	ResizeClip(ctx context.Context, tenantID, sessionID, trackID, clipID string, length int) (*session.ClipView, error)
	RemoveClip(ctx context.Context, tenantID, sessionID, trackID, clipID string) error
	SwapClips(ctx context.Context, tenantID, sessionID, trackID string, i, j int) error

	InsertBar(ctx context.Context, tenantID, sessionID string, bar int) error
	RemoveBar(ctx context.Context, tenantID, sessionID string, bar int) error
	ClipsInRange(ctx context.Context, tenantID, sessionID, trackID string, start, end int) ([]session.ClipView, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Sessions SessionService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "arranger",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode: always disable auth (local use only)
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware(DefaultTenant))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services), cfg.Logger)

	return server
}
