package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/knockknock/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.DialogueState
	CurrentState  domain.DialogueState
}

// GenerateMermaid produces a Mermaid flowchart of the dialogue state table.
// It applies semantic styling:
// - Start: ((Circle))
// - Done: (((Double circle)))
// - Awaiting a reply: [/Parallelogram/]
// Edges are labelled with the input class and the phrase sent.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(transitions []domain.Transition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	seen := make(map[domain.DialogueState]bool)
	declare := func(s domain.DialogueState) {
		if seen[s] {
			return
		}
		seen[s] = true

		opener, closer := "[/", "/]"
		switch {
		case s == domain.StateStart:
			opener, closer = "((", "))"
		case s.Terminal():
			opener, closer = "(((", ")))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(s), opener, s, closer))
	}

	for _, tr := range transitions {
		declare(tr.From)
		declare(tr.To)
	}

	for _, tr := range transitions {
		label := fmt.Sprintf("%s / %s", tr.On, tr.Emit)
		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if tr.NextEntry {
			// Dotted edge: the cursor moves to the next entry
			arrow = fmt.Sprintf("-. \"%s, next entry\" .->", label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(tr.From), arrow, sanitizeMermaidID(tr.To)))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[domain.DialogueState]bool)
		for _, s := range overlay.VisitedStates {
			if !visitedSet[s] && seen[s] {
				visitedSet[s] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", sanitizeMermaidID(s)))
			}
		}

		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(s domain.DialogueState) string {
	id := strings.ReplaceAll(string(s), "-", "_")
	return strings.ReplaceAll(id, " ", "_")
}
