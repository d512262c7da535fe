package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	componentURIPrefix = "anchor-ui://component/"
	jsonMIMEType       = "application/json"
)

// resourceSet tracks the static component resources currently registered.
type resourceSet struct {
	mu   sync.Mutex
	uris map[string]bool
}

func componentURI(name string) string {
	return componentURIPrefix + name
}

func componentResourceTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(componentURIPrefix+"{name}", "Anchor UI component",
		mcp.WithTemplateDescription("Full component record (parts, props, accessibility, composition) as JSON"),
		mcp.WithTemplateMIMEType(jsonMIMEType),
	)
}

// SyncComponentResources registers one static resource per component found
// in the reference directory and removes resources of components that have
// disappeared. The resource template keeps serving any name in between.
func (s *Server) SyncComponentResources(ctx context.Context) error {
	components, err := s.query.List(ctx, "")
	if err != nil {
		return fmt.Errorf("list components for resources: %w", err)
	}

	s.resources.mu.Lock()
	defer s.resources.mu.Unlock()

	current := make(map[string]bool, len(components))
	added := make([]server.ServerResource, 0, len(components))
	for _, c := range components {
		uri := componentURI(c.Name)
		current[uri] = true
		if s.resources.uris[uri] {
			continue
		}
		added = append(added, server.ServerResource{
			Resource: mcp.NewResource(uri, c.DisplayName,
				mcp.WithResourceDescription(c.Description),
				mcp.WithMIMEType(jsonMIMEType),
			),
			Handler: s.handleReadComponent,
		})
	}

	var removed []string
	for uri := range s.resources.uris {
		if !current[uri] {
			removed = append(removed, uri)
		}
	}

	if len(removed) > 0 {
		s.mcpServer.DeleteResources(removed...)
	}
	if len(added) > 0 {
		s.mcpServer.AddResources(added...)
	}
	s.resources.uris = current

	s.logger.Debug("component resources synced",
		"total", len(current), "added", len(added), "removed", len(removed))
	return nil
}

// handleReadComponent serves both the static resources and the template.
func (s *Server) handleReadComponent(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	name, ok := strings.CutPrefix(uri, componentURIPrefix)
	if !ok || name == "" {
		return nil, fmt.Errorf("invalid component resource URI %q", uri)
	}

	info, found, err := s.query.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("component %q not found", name)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal component %s: %w", name, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: uri, MIMEType: jsonMIMEType, Text: string(data)},
	}, nil
}
