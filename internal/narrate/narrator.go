// Package narrate renders the step-by-step explanation of a reparameterized
// draw: banners, the shape of every intermediate tensor, a plain-language
// interpretation of the result and a symbolic picture of the broadcast.
package narrate

import (
	"fmt"
	"io"
	"strings"

	"github.com/born-ml/reparam/internal/reparam"
	"github.com/born-ml/reparam/internal/tensor"
	"github.com/charmbracelet/lipgloss"
)

// bannerWidth is the width of the "=" rule around headings.
const bannerWidth = 60

var _ reparam.Observer = (*Narrator)(nil)

// Narrator writes the explanation to an io.Writer. It implements
// reparam.Observer, so passing it with reparam.WithObserver narrates the
// draw as it happens.
//
// Write errors are sticky: after the first failure nothing more is written
// and Err reports it.
type Narrator struct {
	w      io.Writer
	styles styles
	err    error
}

// New creates a Narrator writing to w. Styling follows the color profile
// of w, so a pipe or buffer receives plain text.
func New(w io.Writer) *Narrator {
	return &Narrator{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
}

// Err returns the first write error, if any.
func (n *Narrator) Err() error {
	return n.err
}

func (n *Narrator) printf(format string, args ...any) {
	if n.err != nil {
		return
	}
	_, n.err = fmt.Fprintf(n.w, format, args...)
}

func (n *Narrator) println(s string) {
	n.printf("%s\n", s)
}

// Banner prints a heading between two rules.
func (n *Narrator) Banner(title string) {
	rule := n.styles.rule.Render(strings.Repeat("=", bannerWidth))
	n.println(rule)
	n.println(n.styles.heading.Render(title))
	n.println(rule)
}

// Example prints the banner that opens scenario number index (1-based).
func (n *Narrator) Example(index int, title string) {
	n.Banner(fmt.Sprintf("EXAMPLE %d: %s", index, title))
}

// Inputs implements reparam.Observer.
func (n *Narrator) Inputs(mean, std tensor.Shape, k int) {
	n.println(n.styles.step.Render("Input shapes:"))
	n.printf("  mu.shape = %v\n", mean)
	n.printf("  std.shape = %v\n", std)
	n.printf("  K = %d\n", k)
	n.println("")
}

// SampleShape implements reparam.Observer.
func (n *Narrator) SampleShape(k int, event, sample tensor.Shape) {
	n.println(n.styles.step.Render("Step 1 - Building sample_shape:"))
	n.printf("  (K,) = %v\n", tensor.Shape{k})
	n.printf("  mu.shape = %v\n", event)
	n.printf("  sample_shape = (K,) + mu.shape = %v\n", sample)
	n.println("")
}

// Noise implements reparam.Observer.
func (n *Narrator) Noise(requested, noise tensor.Shape) {
	n.println(n.styles.step.Render("Step 2 - Sample noise:"))
	n.printf("  eps = random.normal(key, %v)\n", requested)
	n.printf("  eps.shape = %v\n", noise)
	n.println("")
}

// Reparameterized implements reparam.Observer.
func (n *Narrator) Reparameterized(mean, noise, std, z tensor.Shape) {
	n.println(n.styles.step.Render("Step 3 - Reparameterization with broadcasting:"))
	n.println("  z = mu + eps * std")
	n.printf("  mu.shape = %v\n", mean)
	n.printf("  eps.shape = %v\n", noise)
	n.printf("  std.shape = %v\n", std)
	n.printf("  z.shape = %v\n", z)
	n.println("")
}

// Result prints the final shape of z and what it means.
func (n *Narrator) Result(k int, event, z tensor.Shape) {
	n.println(n.styles.step.Render("Final result z:"))
	n.printf("  Shape: %v\n", z)
	n.printf("  Interpretation: %s\n", Interpretation(k, event))
	n.println("")
}

// Moments prints the empirical mean and standard deviation of each event
// element, flattened in row-major order.
func (n *Narrator) Moments(k int, mean, std []float64) {
	n.printf("Empirical moments over %d samples:\n", k)
	n.printf("  mean: %s\n", formatValues(mean))
	n.printf("  std:  %s\n", formatValues(std))
	n.println("")
}

// Interpretation describes k draws of the given event shape in words:
//
//	5 samples of 3-dimensional latent vectors
//	3 samples of (4, 6) latent feature maps
//	4 samples of scalar latents
func Interpretation(k int, event tensor.Shape) string {
	switch len(event) {
	case 0:
		return fmt.Sprintf("%d samples of scalar latents", k)
	case 1:
		return fmt.Sprintf("%d samples of %d-dimensional latent vectors", k, event[0])
	default:
		return fmt.Sprintf("%d samples of %v latent feature maps", k, event)
	}
}

// maxValues bounds how many numbers a moments line shows.
const maxValues = 8

func formatValues(values []float64) string {
	parts := make([]string, 0, min(len(values), maxValues)+1)
	for i, v := range values {
		if i == maxValues {
			parts = append(parts, fmt.Sprintf("... (%d more)", len(values)-maxValues))
			break
		}
		parts = append(parts, fmt.Sprintf("%.4f", v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
