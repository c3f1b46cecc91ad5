package visualization

import (
	"encoding/json"
	"fmt"
	"strings"
)

// nodeShapes distinguishes the fixed-belief roles from ordinary nodes.
var nodeShapes = map[string]string{
	"liar":         "box",
	"truth-teller": "diamond",
}

// RenderDOT produces a Graphviz DOT representation of a frame. The graph is
// undirected; node fill colors follow the majority-belief weight palette.
func RenderDOT(f Frame) string {
	var b strings.Builder
	b.WriteString("graph rumor {\n")
	fmt.Fprintf(&b, "  label=\"round %d\";\n", f.Round)
	b.WriteString("  labelloc=t;\n")
	b.WriteString("  layout=neato;\n")
	b.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\", fontsize=10];\n\n")

	for _, node := range f.Nodes {
		tooltip := "no opinion"
		if node.Opinion {
			tooltip = fmt.Sprintf("code=%s entropy=%.2f", node.Code, node.Entropy)
		}

		shape := nodeShapes[node.Role]
		if shape == "" {
			fmt.Fprintf(&b, "  %d [label=\"%d\", fillcolor=%q, tooltip=%q];\n",
				node.ID, node.ID, node.Color, tooltip)
			continue
		}
		fmt.Fprintf(&b, "  %d [label=\"%d\", shape=%s, fillcolor=%q, tooltip=%q];\n",
			node.ID, node.ID, shape, node.Color, tooltip)
	}
	b.WriteString("\n")

	for _, edge := range f.Edges {
		fmt.Fprintf(&b, "  %d -- %d;\n", edge[0], edge[1])
	}

	b.WriteString("}\n")
	return b.String()
}

// RenderJSON produces an indented JSON representation of a frame, suitable
// for files and command output. The live feed marshals frames compactly
// instead.
func RenderJSON(f Frame) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}
	return append(data, '\n'), nil
}
