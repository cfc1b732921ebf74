package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/quirk/internal/knowledge"
	"github.com/kalambet/quirk/internal/pipeline"
	"github.com/kalambet/quirk/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Orchestrator *pipeline.Orchestrator
	KB           *knowledge.Base
	Store        *storage.Store // optional; resolutions are recorded when set
}

// NewMCPServer creates an MCP server with all quirk tools and resources
// registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"quirk",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("quirk — turn free-text personality descriptions into structured profiles for steering assistant tone."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("resolve_personality",
			mcp.WithDescription("Resolve a free-text personality description into a structured profile plus rendered context. Optionally writes editor rule files when a target path is given."),
			mcp.WithString("description", mcp.Description("Free-text personality description, e.g. 'tony stark but more patient'"), mcp.Required()),
			mcp.WithString("target_path", mcp.Description("Project directory to integrate the personality into (optional)")),
			mcp.WithBoolean("use_cache", mcp.Description("Reuse cached resolutions (default true)")),
		),
		mcpResolvePersonality(deps),
	)

	s.AddTool(
		mcp.NewTool("research_personality",
			mcp.WithDescription("Resolve a description to a profile only, without rendering context or touching the filesystem. More permissive than resolve_personality: it attempts resolution even for vague inputs."),
			mcp.WithString("description", mcp.Description("Personality description to research"), mcp.Required()),
		),
		mcpResearchPersonality(deps),
	)

	s.AddTool(
		mcp.NewTool("list_personalities",
			mcp.WithDescription("List the names and archetypes the built-in knowledge base can resolve directly."),
		),
		mcpListPersonalities(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"quirk://archetypes",
			"Personality Archetypes",
			mcp.WithResourceDescription("Built-in archetype templates as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceArchetypes(deps),
	)

	return s
}

func mcpResolvePersonality(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		description, err := req.RequireString("description")
		if err != nil {
			return mcpError("description is required"), nil
		}

		opts := pipeline.Options{
			UseCache:   req.GetBool("use_cache", true),
			TargetPath: req.GetString("target_path", ""),
		}

		result := deps.Orchestrator.ResolvePersonality(ctx, description, opts)
		recordResolution(deps.Store, description, result)

		b, err := json.Marshal(result)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		if !result.Success {
			return mcpError(string(b)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResearchPersonality(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		description, err := req.RequireString("description")
		if err != nil {
			return mcpError("description is required"), nil
		}

		result := deps.Orchestrator.ResearchOnly(ctx, description, true)
		recordResolution(deps.Store, description, result)

		b, err := json.Marshal(result)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		if !result.Success {
			return mcpError(string(b)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListPersonalities(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out := map[string]any{
			"names":      deps.KB.AllNames(),
			"archetypes": deps.KB.ArchetypeKeys(),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal listing: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceArchetypes(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		keys := deps.KB.ArchetypeKeys()
		out := make([]ArchetypeSummary, 0, len(keys))
		for _, key := range keys {
			a, ok := deps.KB.Archetype(key)
			if !ok {
				continue
			}
			out = append(out, ArchetypeSummary{
				Key:        a.Key,
				Name:       a.Name,
				Traits:     a.Traits,
				Tone:       a.Tone,
				Mannerisms: a.Mannerisms,
			})
		}

		b, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal archetypes: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
