package chain_graph

import (
	"fmt"
	"io"
	"strings"
)

// PrintChains writes a tree view of the reactions, one block per chain.
func PrintChains(w io.Writer, reactions []Reaction) {
	for i, r := range reactions {
		status := fmt.Sprintf("x%.2f", r.TotalMultiplier)
		if r.Interrupted {
			status = "interrupted: " + r.InterruptReason
		}
		_, _ = fmt.Fprintf(w, "\n[Chain %d] %s\n", i+1, status)

		for j, l := range r.Links {
			prefix := "├──"
			if j == len(r.Links)-1 {
				prefix = "└──"
			}
			indent := strings.Repeat("    ", l.Depth)

			if l.TriggeredBy == "" {
				_, _ = fmt.Fprintf(w, "%s%s %s (%s, root)\n", indent, prefix, l.Combo.ID, l.Combo.Rarity)
				continue
			}
			_, _ = fmt.Fprintf(w, "%s%s %s (%s) ↳ %s x%.2f\n",
				indent, prefix, l.Combo.ID, l.Combo.Rarity, l.TriggeredBy, l.Multiplier)
		}
	}
}
