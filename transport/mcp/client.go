package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"
	"github.com/wricardo/mcp-training/ricochet/game/service"
)

const instructions = `Ricochet Robots Solver - MCP Interface

This is a thin client that proxies all requests to the REST API server.

THE PUZZLE:
Four pawns (red, green, blue, yellow) stand on a 16x16 board with walls,
colored mirrors and 16 chips (4 colors x circle, square, triangle, star).
A pawn slides until it hits a wall, the board edge or another pawn. A mirror
of the pawn's own color deflects it 90 degrees; other colors' mirrors are
transparent. The goal is to bring the pawn of the target chip's color onto
that chip in as few slides as possible, moving any pawns along the way.

TYPICAL FLOW:
1. create_session (optionally with board_id from list_boards)
2. set_target (color + shape) or next_target for a random one
3. solve to get the shortest move sequence
4. describe_board to look at the position, resolve_move to preview slides

AVAILABLE TOOLS:
- create_session, list_sessions, get_session: session management
- set_target, next_target: choose what to solve
- solve: shortest solution for the current target
- resolve_move: where one slide of one pawn would end
- solve_history: past solves of a session
- list_boards: board descriptors available on the server
- describe_board: ASCII drawing of the board, pawns and target`

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Ricochet Robots Solver",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new solver session on a board (default board when board_id is omitted)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"board_id": map[string]interface{}{
					"type":        "string",
					"description": "Board descriptor ID from list_boards (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active solver sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a session: seed, pawn positions, chips and current target",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Targets
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_target",
		Description: "Select the chip to reach; the pawn of the same color will be moved onto it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"color": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"red", "green", "blue", "yellow"},
					"description": "Chip color",
				},
				"shape": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"circle", "square", "triangle", "star"},
					"description": "Chip shape",
				},
			},
			Required: []string{"session_id", "color", "shape"},
		},
	}, c.handleSetTarget)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "next_target",
		Description: "Draw a random target that was not drawn before in this session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleNextTarget)

	// Solving
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve",
		Description: "Find a shortest move sequence for the current target",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleSolve)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "resolve_move",
		Description: "Preview where a single slide would stop, without moving anything",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"pawn": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"red", "green", "blue", "yellow"},
					"description": "Pawn to slide",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "right", "down", "left"},
					"description": "Slide direction",
				},
			},
			Required: []string{"session_id", "pawn", "direction"},
		},
	}, c.handleResolveMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_history",
		Description: "List previous solves of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Entries per page (default 20)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSolveHistory)

	// Boards
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_boards",
		Description: "List the board descriptors available for create_session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListBoards)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_board",
		Description: "Draw the session's board as ASCII art with walls, mirrors, chips, pawns and the target",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleDescribeBoard)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeStdio serves the MCP protocol on stdin/stdout until EOF
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

// apiCall performs a REST call and decodes the JSON response into result
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// stringArg coerces a tool argument to a string. Clients may send numeric
// color or shape ids, which the API accepts in string form.
func stringArg(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("argument %q: %w", name, err)
	}
	if s = strings.TrimSpace(s); s == "" {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	return s, nil
}

func sessionPath(sessionID string, parts ...string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + strings.Join(parts, "")
}

// Handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]string{}
	if boardID := cast.ToString(args["board_id"]); boardID != "" {
		body["board_id"] = boardID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Created session: " + session.ID + "\n" + formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionList(resp.Sessions)), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := stringArg(request.GetArguments(), "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleSetTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, err := stringArg(args, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	color, err := stringArg(args, "color")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	shape, err := stringArg(args, "shape")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.TargetResult
	body := map[string]string{"color": color, "shape": shape}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/target"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTargetResult(&result)), nil
}

func (c *Client) handleNextTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := stringArg(request.GetArguments(), "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.TargetResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/target/next"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTargetResult(&result)), nil
}

func (c *Client) handleSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := stringArg(request.GetArguments(), "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.SolveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/solve"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSolveResult(&result)), nil
}

func (c *Client) handleResolveMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, err := stringArg(args, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pawn, err := stringArg(args, "pawn")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, err := stringArg(args, "direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ResolveResult
	body := map[string]string{"pawn": pawn, "direction": direction}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/resolve"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatResolveResult(&result)), nil
}

func (c *Client) handleSolveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, err := stringArg(args, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page := cast.ToInt(args["page"]); page > 0 {
		query.Set("page", cast.ToString(page))
	}
	if limit := cast.ToInt(args["limit"]); limit > 0 {
		query.Set("limit", cast.ToString(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var boards []*service.BoardInfo
	if err := c.apiCall(ctx, "GET", "/api/boards", nil, &boards); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoards(boards)), nil
}

func (c *Client) handleDescribeBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := stringArg(request.GetArguments(), "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var view service.BoardView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/board"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoardView(&view)), nil
}
