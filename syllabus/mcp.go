package syllabus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/syllabus/kit"
)

// Tool error kinds besides the extraction kinds reported by docpipe.
const (
	KindNotFound = "not_found"
	KindTooLarge = "too_large"
)

// RegisterMCP registers the syllabus tools on an MCP server. Files larger
// than maxBytes are refused before parsing.
func (e *Engine) RegisterMCP(srv *mcp.Server, maxBytes int64) {
	e.registerParseTool(srv, maxBytes)
	e.registerResourcesTool(srv)
}

// --- parse ---

type parseReq struct {
	Path        string `json:"path"`
	Institution string `json:"institution"`
}

func (e *Engine) registerParseTool(srv *mcp.Server, maxBytes int64) {
	tool := &mcp.Tool{
		Name:        "syllabus_parse",
		Description: "Parse a syllabus PDF into course code, instructor, schedule, textbooks, grading, links and study insights.",
		InputSchema: kit.InputSchema(map[string]any{
			"path":        map[string]any{"type": "string", "description": "Path to the syllabus PDF"},
			"institution": map[string]any{"type": "string", "description": "Institution name used for study-group suggestions"},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*parseReq)
		info, err := os.Stat(r.Path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, kit.WithKind(KindNotFound, err)
		}
		if err != nil {
			return nil, err
		}
		if maxBytes > 0 && info.Size() > maxBytes {
			return nil, kit.WithKind(KindTooLarge, fmt.Errorf("file is %d bytes, limit is %d", info.Size(), maxBytes))
		}
		data, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, err
		}
		return e.Parse(ctx, data, r.Institution)
	}

	kit.RegisterMCPTool(srv, tool, kit.WithLogging(e.logger, tool.Name)(endpoint), kit.DecodeArgs[parseReq])
}

// --- resources ---

type resourcesReq struct {
	CourseCode  string `json:"course_code"`
	Institution string `json:"institution"`
}

func (e *Engine) registerResourcesTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "syllabus_resources",
		Description: "List clubs, video channels, study groups and online tools related to a course code.",
		InputSchema: kit.InputSchema(map[string]any{
			"course_code": map[string]any{"type": "string", "description": "Course code, e.g. MAT137"},
			"institution": map[string]any{"type": "string", "description": "Institution name"},
		}, []string{"course_code"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*resourcesReq)
		return MapResources(r.CourseCode, r.Institution), nil
	}

	kit.RegisterMCPTool(srv, tool, kit.WithLogging(e.logger, tool.Name)(endpoint), kit.DecodeArgs[resourcesReq])
}
