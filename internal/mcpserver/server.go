// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes noteflow search, tasks and the outline editor over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/noteflow/internal/models"
	"github.com/starford/noteflow/internal/noteservice"
	"github.com/starford/noteflow/internal/outline"
	"github.com/starford/noteflow/internal/workspace"
)

const guideURI = "noteflow://guide"

// Server wraps the MCP server with noteflow tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all noteflow tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"noteflow",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search",
		mcp.WithDescription("Rank notes and tasks by similarity to a free-text query. Returns at most 12 hits."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
	), s.search)

	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks: standalone tasks first, then tasks derived from notes."),
		mcp.WithString("segment", mcp.Description("Optional segment filter"), mcp.Enum(segmentEnum()...)),
	), s.listTasks)

	s.mcp.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Create a task. With note_id the task is derived from that note "+
			"and is deleted together with it. Read "+guideURI+" for segment meanings."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Task text")),
		mcp.WithString("segment", mcp.Required(), mcp.Enum(segmentEnum()...)),
		mcp.WithString("note_id", mcp.Description("Originating note id")),
		mcp.WithString("owner", mcp.Description("Person responsible")),
		mcp.WithString("deadline", mcp.Description("Due date, e.g. 2026-10-20")),
	), s.addTask)

	s.mcp.AddTool(mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip a task between open and done."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task id")),
	), s.toggleTask)

	s.mcp.AddTool(mcp.NewTool("segment_counts",
		mcp.WithDescription("Open, done and total task counts for every segment."),
	), s.segmentCounts)

	s.mcp.AddTool(mcp.NewTool("outline_key",
		mcp.WithDescription("Apply Tab (indent), Shift+Tab (outdent) or Enter (newline) to an outline buffer."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Current buffer text")),
		mcp.WithNumber("cursor", mcp.Required(), mcp.Description("Cursor position in characters")),
		mcp.WithString("intent", mcp.Required(), mcp.Enum(string(outline.Indent), string(outline.Outdent), string(outline.NewLine))),
	), s.outlineKey)

	s.mcp.AddTool(mcp.NewTool("get_guide",
		mcp.WithDescription("Returns the workspace guide: segments, task origins and outline editing rules."),
	), s.getGuide)

	s.mcp.AddResource(
		mcp.NewResource(guideURI, "Workspace Guide",
			mcp.WithResourceDescription("Segments, task origins and outline editing rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func segmentEnum() []string {
	out := make([]string, len(models.Segments))
	for i, info := range models.Segments {
		out[i] = string(info.Key)
	}
	return out
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) search(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	return jsonResult(results), nil
}

func (s *Server) listTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seg := models.Segment(req.GetString("segment", ""))
	view, err := s.svc.ListTasks(ctx, seg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(view), nil
}

func (s *Server) addTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	seg, err := req.RequireString("segment")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	deadline, err := workspace.ParseDeadline(req.GetString("deadline", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := s.svc.CreateTask(ctx, req.GetString("note_id", ""), workspace.TaskInput{
		Text:     text,
		Segment:  models.Segment(seg),
		Owner:    req.GetString("owner", ""),
		Deadline: deadline,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created task %s (%s) in %s", task.ID, task.Origin, task.Segment)), nil
}

func (s *Server) toggleTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, err := s.svc.ToggleTask(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state := "open"
	if task.Done {
		state = "done"
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: %s", task.ID, state)), nil
}

func (s *Server) segmentCounts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := s.svc.Segments(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lines := make([]string, len(summaries))
	for i, sum := range summaries {
		lines[i] = fmt.Sprintf("%s: %d open, %d/%d done", sum.Label, sum.Open, sum.Done, sum.Total)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) outlineKey(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cursor, err := req.RequireInt("cursor")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("intent")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	intent, err := outline.ParseIntent(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := outline.Buffer{Text: text, Cursor: cursor}.Apply(intent)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(out), nil
}

func (s *Server) getGuide(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(WorkspaceGuide), nil
}

func (s *Server) readGuideResource(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      guideURI,
			MIMEType: "text/markdown",
			Text:     WorkspaceGuide,
		},
	}, nil
}
