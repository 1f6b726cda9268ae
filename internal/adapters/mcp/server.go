package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/core/ports"
)

const (
	serverName    = "summary-service"
	serverVersion = "1.0.0"
)

// Tools exposes the summary use cases as MCP tools.
type Tools struct {
	ingest ports.SummaryIngestor
	rater  ports.SummaryRater
	reader ports.SummaryReader
}

func NewTools(ingest ports.SummaryIngestor, rater ports.SummaryRater, reader ports.SummaryReader) *Tools {
	return &Tools{ingest: ingest, rater: rater, reader: reader}
}

func (t *Tools) Server() *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("process_text",
		mcp.WithDescription("Store a text and its summary. Returns the new record id."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to summarize")),
		mcp.WithNumber("minsize", mcp.Required(), mcp.Description("Minimum summary length")),
		mcp.WithNumber("maxsize", mcp.Required(), mcp.Description("Maximum summary length")),
	), t.processText)

	s.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Fetch a stored summary record by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
	), t.getSummary)

	s.AddTool(mcp.NewTool("rate_summary",
		mcp.WithDescription("Rate a summary once with a score between 0 and 10."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
		mcp.WithNumber("score", mcp.Required(), mcp.Description("Quality score, 0 to 10")),
	), t.rateSummary)

	return s
}

func (t *Tools) processText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	minSize, err := requireSize(req, "minsize")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxSize, err := requireSize(req, "maxsize")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := t.ingest.IngestText(ctx, domain.TextSubmission{Text: text, MinSize: minSize, MaxSize: maxSize})
	if err != nil {
		return toolError("process_text", err)
	}
	return jsonResult(map[string]string{"id": rec.ID})
}

func (t *Tools) getSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := t.reader.GetByID(ctx, id)
	if err != nil {
		return toolError("get_summary", err)
	}
	return jsonResult(rec)
}

func (t *Tools) rateSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	score, err := req.RequireFloat("score")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rating, err := t.rater.Rate(ctx, id, score)
	if err != nil {
		return toolError("rate_summary", err)
	}
	return jsonResult(rating)
}

func requireSize(req mcp.CallToolRequest, key string) (int, error) {
	v, err := req.RequireFloat(key)
	if err != nil {
		return 0, err
	}
	if v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return int(v), nil
}

// toolError reports domain failures as tool errors; anything else fails the call.
func toolError(tool string, err error) (*mcp.CallToolResult, error) {
	if msg, ok := domain.PublicMessage(err); ok {
		return mcp.NewToolResultError(msg), nil
	}
	switch {
	case domain.IsKind(err, domain.ErrSummaryNotFound):
		return mcp.NewToolResultError("Summary not found"), nil
	case domain.IsKind(err, domain.ErrScoreAlreadySet):
		return mcp.NewToolResultError("Score has already been assigned and cannot be reassigned"), nil
	}
	slog.Error("mcp_tool_failed", "tool", tool, "error", err)
	return nil, errors.New("internal error")
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
