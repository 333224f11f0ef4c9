package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/testology/psyengine/internal/application"
)

var errTestIDRequired = errors.New("test id is required")

// registerResources registers all psyengine MCP resources on the given server.
func registerResources(s *server.MCPServer, svc Services) {
	// 1. psyengine://tests - the test catalog
	s.AddResource(
		mcplib.NewResource(
			"psyengine://tests",
			"Test Catalog",
			mcplib.WithResourceDescription("Ids and titles of every loaded test definition"),
			mcplib.WithMIMEType("application/json"),
		),
		handleCatalogResource(svc),
	)

	// 2. psyengine://tests/{id} - one full definition (resource template)
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"psyengine://tests/{id}",
			"Test Definition",
			mcplib.WithTemplateDescription("Scale, subscales, levels and rules of one test"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleTestResource(svc),
	)
}

func handleCatalogResource(svc Services) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return jsonContents(request.Params.URI, listTests(svc))
	}
}

func handleTestResource(svc Services) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		id := templateArg(request.Params.Arguments["id"])
		if id == "" {
			return nil, errTestIDRequired
		}

		reg := svc.Score.Registry()
		resolved, err := application.ResolveTestID(reg, id)
		if err != nil {
			return nil, err
		}
		cfg, err := reg.Get(resolved)
		if err != nil {
			return nil, err
		}
		return jsonContents(request.Params.URI, cfg)
	}
}

// templateArg reads a template variable, which the server may hand over
// as a string or a single-element slice.
func templateArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
