package narrate

import (
	"fmt"
	"strings"

	"github.com/born-ml/reparam/internal/tensor"
)

// Rows and columns beyond these are elided with "..." in the picture.
const (
	maxVisualRows = 8
	maxVisualCols = 6
)

var subscriptDigits = []rune("₀₁₂₃₄₅₆₇₈₉")

// Visual prints the symbolic picture of z = mu + eps*std for k samples of a
// d-dimensional latent vector: one row per sample, each element written as
// μⱼ+εᵢⱼσⱼ.
func (n *Narrator) Visual(k, d int) {
	n.Banner("VISUAL REPRESENTATION")
	n.println("For the 1D case:")

	event := tensor.Shape{d}
	sample := event.Prepend(k)
	cols := elide(d, maxVisualCols)
	rows := elide(k, maxVisualRows)

	mu := make([]string, len(cols))
	for c, j := range cols {
		mu[c] = n.term(j, func(j int) string { return "μ" + subscript(j) })
	}
	n.println(visualPrefix("mu", event) + "[" + strings.Join(mu, ", ") + "]")

	eps := n.matrix(rows, cols, func(i, j int) string {
		return "ε" + pairSubscript(i, j)
	})
	n.printLines(visualPrefix("eps", sample), eps, nil)
	n.println("")

	z := n.matrix(rows, cols, func(i, j int) string {
		return "μ" + subscript(j) + "+ε" + pairSubscript(i, j) + "σ" + subscript(j)
	})
	notes := make([]string, len(rows))
	for r, i := range rows {
		if i > 0 {
			notes[r] = fmt.Sprintf("  <- sample %d", i)
		}
	}
	n.printLines(visualPrefix("z", sample), z, notes)
	n.println("")
}

// visualPrefix renders the fixed-width "name  shape: (..)  ->  " column.
func visualPrefix(name string, shape tensor.Shape) string {
	return fmt.Sprintf("%-6sshape: %-9s->  ", name, shape)
}

// matrix renders one bracketed line per row; the outer brackets are added
// to the first and last line.
func (n *Narrator) matrix(rows, cols []int, cell func(i, j int) string) []string {
	if len(rows) == 0 {
		return []string{"[]"}
	}

	lines := make([]string, len(rows))
	for r, i := range rows {
		if i < 0 {
			lines[r] = "..."
			continue
		}
		parts := make([]string, len(cols))
		for c, j := range cols {
			parts[c] = n.term(j, func(j int) string { return cell(i, j) })
		}
		lines[r] = "[" + strings.Join(parts, ", ") + "]"
	}

	lines[0] = "[" + lines[0]
	for r := range lines {
		if r == len(lines)-1 {
			lines[r] += "]"
		} else {
			lines[r] += ","
		}
	}
	return lines
}

// term renders a symbol for index j, or the ellipsis placeholder.
func (n *Narrator) term(j int, symbol func(int) string) string {
	if j < 0 {
		return "..."
	}
	return n.styles.symbol.Render(symbol(j))
}

// printLines prints lines with prefix on the first and matching indentation
// on the rest. notes, when non-nil, are appended per line.
func (n *Narrator) printLines(prefix string, lines, notes []string) {
	indent := strings.Repeat(" ", len([]rune(prefix)))
	for r, line := range lines {
		lead := indent
		if r == 0 {
			lead = prefix
		}
		note := ""
		if notes != nil && r < len(notes) {
			note = notes[r]
		}
		n.println(lead + line + note)
	}
}

// elide returns the 1-based indices 1..n, replacing the middle with a -1
// marker when n exceeds limit. The last index is always kept.
func elide(n, limit int) []int {
	if n <= limit {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}
	out := make([]int, 0, limit)
	for i := 1; i < limit-1; i++ {
		out = append(out, i)
	}
	return append(out, -1, n)
}

func subscript(i int) string {
	var b strings.Builder
	for _, r := range fmt.Sprint(i) {
		b.WriteRune(subscriptDigits[r-'0'])
	}
	return b.String()
}

// pairSubscript writes a row/column pair; multi-digit indices are separated
// so ε₁₁₂ cannot be read two ways.
func pairSubscript(i, j int) string {
	if i < 10 && j < 10 {
		return subscript(i) + subscript(j)
	}
	return subscript(i) + "," + subscript(j)
}
