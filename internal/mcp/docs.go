package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `arranger edits song arrangements: Projects hold one arrangement each; an arrangement is an ordered list of Tracks, and each Track holds Clips placed on a shared timeline.

Core concepts:
- Ticks: the time unit. 64 ticks make one bar. Positions and lengths are ticks, never negative.
- Track kinds: melodic, beatbassline, sample. A clip always has its track's kind.
- Session: an arrangement opened for editing. Edits stay in memory until save_session.
- Revision: every save bumps the project revision. A save fails with REVISION_CONFLICT if someone else saved since you opened.

Default workflow:
1) Orient: list_projects, then open_session (default project unless project_id provided).
2) Read: get_arrangement for track and clip ids; clips_in_range for a time window.
3) Edit: add_track / move_track / clone_track / add_clip / move_clip / resize_clip / insert_bar / remove_bar.
4) Persist: save_session; close_session when done (discard=true to drop edits).

Docs:
- arranger://docs/index
- arranger://docs/concepts
- arranger://docs/workflows/editing
- arranger://docs/document-format
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "arranger://docs/index",
		Name:        "docs_index",
		Title:       "arranger docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read.",
		Content: `# arranger: Agent Docs Index

## Quick start

1. ` + "`list_projects`" + ` or ` + "`create_project`" + `
2. ` + "`open_session`" + ` returns a ` + "`session_id`" + `
3. ` + "`get_arrangement`" + ` lists tracks and clips with their ids
4. Edit, then ` + "`save_session`" + `

## Read next

- arranger://docs/concepts: ticks, kinds, the modified flag, revisions
- arranger://docs/workflows/editing: common edit sequences and their errors
- arranger://docs/document-format: the YAML produced by export_project
`,
	},
	{
		URI:         "arranger://docs/concepts",
		Name:        "docs_concepts",
		Title:       "arranger concepts",
		Description: "Glossary and invariants of the arrangement model.",
		Content: `# Concepts

## Time

- 64 ticks per bar. Bar n starts at tick n*64.
- Clip end = start + length. Start and length clamp at zero.
- A track's length in bars is the smallest whole number of bars reaching the end of its last clip. The arrangement length is the longest track.

## Tracks

- Kinds: melodic, beatbassline, sample. Clips can only live on a track of their kind.
- Moving a track past either end is a no-op.
- Reordering two beat/bassline tracks also swaps the patterns they refer to.
- Solo mutes every other track. Toggle solo on an unmuted track unmutes the others and mutes it.

## Clips

- Clip indexes (used by swap_clips) are storage order, not time order.
- Range queries return clips overlapping [start, end] with both ends inclusive, ordered by start; ties keep storage order.
- Insert bar shifts clips starting at or after the bar; clips starting earlier are left alone even when they extend past it.
- Remove bar clamps at zero, so it does not always undo insert bar.

## Sessions and revisions

- Every edit marks the session modified. Only save clears it.
- Save succeeds only if the project revision still matches the one the session opened.
`,
	},
	{
		URI:         "arranger://docs/workflows/editing",
		Name:        "docs_workflow_editing",
		Title:       "Editing workflow",
		Description: "Common edit sequences and how to recover from errors.",
		Content: `# Editing workflow

## Add a phrase

1. ` + "`add_track {kind: melodic}`" + `
2. ` + "`add_clip {track_id, start: 0, length: 256}`" + ` places a four bar clip
3. ` + "`clips_in_range {start: 0, end: 255}`" + ` confirms placement

## Make room

- ` + "`insert_bar {bar: 4}`" + ` pushes everything from bar 4 one bar later.

## Errors

- SESSION_NOT_FOUND: sessions live in memory; reopen after a server restart.
- UNSAVED_CHANGES: save_session, or close_session with discard=true.
- REVISION_CONFLICT: another session saved first. Close with discard=true, reopen, reapply.
- FIXED_LAYOUT / AUTO_RESIZE: that clip's length is not editable.
- LOAD_INCOMPLETE: opening took too long or was cancelled; retry.
`,
	},
	{
		URI:         "arranger://docs/document-format",
		Name:        "docs_document_format",
		Title:       "Arrangement document format",
		Description: "Structure of exported arrangement documents.",
		Content: `# Document format

Exported documents are YAML with a version envelope:

` + "```yaml" + `
version: 1
root:
  tag: trackcontainer
  attrs: {type: songeditor}
  children:
    - tag: track
      attrs: {type: "0", muted: "0"}
      children:
        - tag: channeltrack
        - tag: pattern
          attrs: {pos: "0", len: "256", autoresize: "0"}
` + "```" + `

- Track ` + "`type`" + `: 0 melodic, 1 beatbassline, 2 sample.
- Unknown or broken track records are skipped on import and listed in ` + "`skipped`" + `.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
