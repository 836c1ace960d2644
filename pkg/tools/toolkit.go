// Package tools exposes the Oura data categories as MCP tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lifewear/mcp-oura/pkg/middleware"
	"github.com/lifewear/mcp-oura/pkg/oura"
	"github.com/lifewear/mcp-oura/pkg/session"
	"github.com/lifewear/mcp-oura/pkg/telemetry"
)

// DateArgs is the argument schema shared by every tool: two optional
// calendar dates in YYYY-MM-DD form. When either is omitted the
// category's default window applies.
type DateArgs struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// collectionFetch is one date-bounded fetch on the session's client.
type collectionFetch func(ctx context.Context, client *oura.Client, r oura.DateRange) (*oura.ListResponse, error)

// collections is the dispatch table: one entry per Oura data category
// with a date range. personal_info is registered separately since its
// endpoint takes no bounds.
var collections = []struct {
	name        string
	description string
	fetch       collectionFetch
}{
	{
		name:        "get_daily_activity",
		description: "Get daily activity summaries (steps, calories, activity score) from Oura for a date range. Defaults to yesterday through today.",
		fetch: func(ctx context.Context, c *oura.Client, r oura.DateRange) (*oura.ListResponse, error) {
			return c.GetDailyActivity(ctx, r)
		},
	},
	{
		name:        "get_daily_readiness",
		description: "Get daily readiness scores and contributors from Oura for a date range. Defaults to yesterday through today.",
		fetch: func(ctx context.Context, c *oura.Client, r oura.DateRange) (*oura.ListResponse, error) {
			return c.GetDailyReadiness(ctx, r)
		},
	},
	{
		name:        "get_daily_sleep",
		description: "Get daily sleep scores and contributors from Oura for a date range. Defaults to yesterday through today.",
		fetch: func(ctx context.Context, c *oura.Client, r oura.DateRange) (*oura.ListResponse, error) {
			return c.GetDailySleep(ctx, r)
		},
	},
	{
		name:        "get_heart_rate",
		description: "Get heart rate measurements from Oura for a date range. Defaults to yesterday through today.",
		fetch: func(ctx context.Context, c *oura.Client, r oura.DateRange) (*oura.ListResponse, error) {
			return c.GetHeartRate(ctx, r)
		},
	},
	{
		name:        "get_daily_stress",
		description: "Get daily stress summaries from Oura for a date range. Defaults to yesterday through today.",
		fetch: func(ctx context.Context, c *oura.Client, r oura.DateRange) (*oura.ListResponse, error) {
			return c.GetDailyStress(ctx, r)
		},
	},
	{
		name:        "get_workouts",
		description: "Get workout records from Oura for a date range. Defaults to the last seven days.",
		fetch: func(ctx context.Context, c *oura.Client, r oura.DateRange) (*oura.ListResponse, error) {
			return c.GetWorkouts(ctx, r)
		},
	},
	{
		name:        "get_daily_spo2",
		description: "Get daily blood oxygen (SpO2) summaries from Oura for a date range. Defaults to yesterday through today.",
		fetch: func(ctx context.Context, c *oura.Client, r oura.DateRange) (*oura.ListResponse, error) {
			return c.GetDailySpO2(ctx, r)
		},
	},
}

const personalInfoTool = "get_personal_info"

// Toolkit registers the Oura tools on an MCP server. Every tool body
// runs behind the gate's session resolution and the telemetry wrapper;
// no tool bypasses either.
type Toolkit struct {
	gate *middleware.Gate
	sink telemetry.Sink
}

// New creates a toolkit.
func New(gate *middleware.Gate, sink telemetry.Sink) *Toolkit {
	return &Toolkit{gate: gate, sink: sink}
}

// Kind returns the toolkit kind.
func (*Toolkit) Kind() string {
	return "oura"
}

// Tools returns the list of tool names provided by this toolkit.
func (*Toolkit) Tools() []string {
	names := make([]string, 0, len(collections)+1)
	for _, c := range collections {
		names = append(names, c.name)
	}
	return append(names, personalInfoTool)
}

// RegisterTools registers every tool with the MCP server.
func (t *Toolkit) RegisterTools(s *mcp.Server) {
	for _, c := range collections {
		fetch := c.fetch
		register(s, t, c.name, c.description, func(ctx context.Context, sess *session.Session, args DateArgs) (string, error) {
			r, err := parseRange(args)
			if err != nil {
				return "", err
			}
			resp, err := fetch(ctx, sess.Client, r)
			if err != nil {
				return "", err
			}
			return marshalPayload(resp)
		})
	}

	register(s, t, personalInfoTool,
		"Get the authenticated user's personal info (age, weight, height, biological sex, email) from Oura.",
		func(ctx context.Context, sess *session.Session, _ DateArgs) (string, error) {
			info, err := sess.Client.GetPersonalInfo(ctx)
			if err != nil {
				return "", err
			}
			return marshalPayload(info)
		})
}

// Close releases resources.
func (*Toolkit) Close() error {
	return nil
}

// register wires one tool through the shared execution path: resolve
// the connection's session via the gate, then run the telemetry-wrapped
// body. Tool failures surface as MCP error results; the transport-level
// error stays nil per the protocol.
func register(s *mcp.Server, t *Toolkit, name, description string, fn middleware.ToolFunc[DateArgs]) {
	wrapped := middleware.Instrument(t.sink, name, fn)

	mcp.AddTool(s, &mcp.Tool{Name: name, Description: description},
		func(ctx context.Context, req *mcp.CallToolRequest, args DateArgs) (*mcp.CallToolResult, any, error) {
			sess, rej := t.gate.Ensure(ctx, connectionID(req))
			if rej != nil {
				return errorResult(rej.Message), nil, nil
			}

			out, err := wrapped(ctx, sess, args)
			if err != nil {
				return errorResult(err.Error()), nil, nil
			}
			return textResult(out), nil, nil
		})
}

// parseRange turns the optional date arguments into a DateRange. Both
// dates must be present for an explicit range; otherwise the zero range
// defers to the client's default window.
func parseRange(args DateArgs) (oura.DateRange, error) {
	if args.StartDate == "" || args.EndDate == "" {
		return oura.DateRange{}, nil
	}

	start, err := time.Parse(time.DateOnly, args.StartDate)
	if err != nil {
		return oura.DateRange{}, fmt.Errorf("invalid startDate %q: expected YYYY-MM-DD", args.StartDate)
	}
	end, err := time.Parse(time.DateOnly, args.EndDate)
	if err != nil {
		return oura.DateRange{}, fmt.Errorf("invalid endDate %q: expected YYYY-MM-DD", args.EndDate)
	}
	return oura.DateRange{Start: start, End: end}, nil
}

// marshalPayload serializes an upstream payload to a JSON string,
// verbatim.
func marshalPayload(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding response: %w", err)
	}
	return string(data), nil
}

// connectionID derives the session registry key for a request. The
// stdio transport reports an empty ID; its single connection maps to
// the empty key.
func connectionID(req *mcp.CallToolRequest) string {
	if req == nil || req.Session == nil {
		return ""
	}
	return req.Session.ID()
}

// errorResult builds a tool error result in the MCP protocol format.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

// textResult builds a text result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
