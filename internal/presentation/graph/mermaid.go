package graph

import (
	"fmt"
	"strings"

	"github.com/verdanta/greenflow/pkg/domain"
)

// Overlay contains dynamic session state to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart from a questionnaire graph.
// It applies semantic styling:
// - Start: ((Circle))
// - Choice questions: [/Parallelogram/]
// - Weight: [[Subroutine]]
// - Function: {Rhombus}
// - End: ((Circle))
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(g *domain.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i := range g.Nodes {
		node := &g.Nodes[i]
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Kind {
		case domain.KindStart:
			opener, closer = "((", "))"
		case domain.KindYesNo, domain.KindSingleChoice, domain.KindMultipleChoice:
			opener, closer = "[/", "/]"
		case domain.KindWeight:
			opener, closer = "[[", "]]"
		case domain.KindFunction:
			opener, closer = "{", "}"
		case domain.KindEnd:
			opener, closer = "((", "))"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, nodeLabel(node), closer))

		for _, edge := range g.EdgesFrom(node.ID) {
			safeTo := sanitizeMermaidID(edge.Target)

			arrow := "-->"
			if !edge.Default() {
				// Escape double quotes in handle for Mermaid label
				safeHandle := strings.ReplaceAll(edge.SourceHandle, "\"", "'")
				arrow = fmt.Sprintf("-- \"%s\" -->", safeHandle)
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}

		// Redirects leave the graph; draw them as dotted jumps.
		if node.Kind == domain.KindEnd && node.End != nil && node.End.Type == domain.EndRedirect {
			target := sanitizeMermaidID(node.End.RedirectTarget)
			sb.WriteString(fmt.Sprintf("    %s -. redirect .-> %s\n", safeID, target))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high contrast regardless of theme
		sb.WriteString("    classDef visited fill:#e8f5e9,stroke:#1b5e20,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

func nodeLabel(node *domain.Node) string {
	label := node.Label
	if label == "" {
		label = node.ID
	}
	label = strings.ReplaceAll(label, "\"", "'")
	if node.Kind == domain.KindWeight && node.Factor != 0 {
		label = fmt.Sprintf("%s ×%g", label, node.Factor)
	}
	return label
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
