package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/spicemodel/internal/store"
)

// AddModelQueryTool registers the model_query tool, which filters SPICE
// .model directives by type, name pattern, and numeric parameter ranges.
func AddModelQueryTool(s *server.MCPServer, st *store.Store) {
	tool := mcp.NewTool(
		"model_query",
		mcp.WithDescription("Query extracted SPICE .model directives by type, name pattern, and numeric parameter ranges (e.g. nmos models with vth between 0.6 and 0.8)."),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Model type, e.g. 'nmos', 'pmos', 'diode' (case-insensitive)")),
		mcp.WithString("name_pattern",
			mcp.Description("SQL LIKE pattern over model name, e.g. 'nmos_%' (case-insensitive)")),
		mcp.WithArray("ranges",
			mcp.Description("Numeric parameter range predicates: [{\"name\":\"vth\",\"min\":0.6,\"max\":0.8}]")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 100)")),
	)

	s.AddTool(tool, createModelQueryHandler(st))
}

func createModelQueryHandler(st *store.Store) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		modelType, ok := argsMap["type"].(string)
		if !ok || modelType == "" {
			return mcp.NewToolResultError("type parameter is required"), nil
		}

		filter := store.ModelFilter{Type: modelType}
		if pattern, ok := argsMap["name_pattern"].(string); ok {
			filter.NamePattern = pattern
		}
		if limit, ok := argsMap["limit"].(float64); ok {
			filter.MaxResults = int(limit)
		}
		if rawRanges, ok := argsMap["ranges"].([]interface{}); ok {
			ranges, err := parseRangePredicates(rawRanges)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			filter.Ranges = ranges
		}

		results, err := st.QueryModels(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("model query failed: %w", err)
		}

		jsonData, err := json.Marshal(results)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal model query response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AddSubcircuitQueryTool registers the subckt_query tool, which filters
// extracted .subckt directives by name pattern.
func AddSubcircuitQueryTool(s *server.MCPServer, st *store.Store) {
	tool := mcp.NewTool(
		"subckt_query",
		mcp.WithDescription("Query extracted SPICE .subckt directives by name pattern, returning each subcircuit's full header-through-.ends text."),
		mcp.WithString("name_pattern",
			mcp.Description("SQL LIKE pattern over subcircuit name, e.g. 'inv_%' (case-insensitive)")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 100)")),
	)

	s.AddTool(tool, createSubcircuitQueryHandler(st))
}

func createSubcircuitQueryHandler(st *store.Store) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, _ := request.Params.Arguments.(map[string]interface{})

		filter := store.SubcircuitFilter{}
		if argsMap != nil {
			if pattern, ok := argsMap["name_pattern"].(string); ok {
				filter.NamePattern = pattern
			}
			if limit, ok := argsMap["limit"].(float64); ok {
				filter.MaxResults = int(limit)
			}
		}

		results, err := st.QuerySubcircuits(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("subcircuit query failed: %w", err)
		}

		jsonData, err := json.Marshal(results)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal subcircuit query response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// parseRangePredicates decodes the JSON-ish "ranges" tool argument into
// ParameterRangePredicate values.
func parseRangePredicates(raw []interface{}) ([]store.ParameterRangePredicate, error) {
	predicates := make([]store.ParameterRangePredicate, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("each range predicate must be an object")
		}
		name, ok := m["name"].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("each range predicate requires a \"name\"")
		}
		pred := store.ParameterRangePredicate{Name: name}
		if min, ok := m["min"].(float64); ok {
			pred.Min = &min
		}
		if max, ok := m["max"].(float64); ok {
			pred.Max = &max
		}
		predicates = append(predicates, pred)
	}
	return predicates, nil
}
