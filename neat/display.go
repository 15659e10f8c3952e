package neat

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
)

// WriteGenome renders the nodes and connections of g as two tables.
func WriteGenome(w io.Writer, g *Genome) error {
	nodes := uitable.New()
	nodes.MaxColWidth = 40
	nodes.Wrap = false
	nodes.AddRow("Node", "Kind", "X", "Y")
	for _, n := range g.SortedNodes() {
		nodes.AddRow(n.Innovation, n.Kind(), fmt.Sprintf("%.3f", n.X), fmt.Sprintf("%.3f", n.Y))
	}

	conns := uitable.New()
	conns.MaxColWidth = 40
	conns.Wrap = false
	conns.AddRow("Connection", "From", "To", "Weight", "Enabled")
	for _, c := range g.SortedConnections() {
		conns.AddRow(c.Innovation, c.From.Innovation, c.To.Innovation, fmt.Sprintf("%.4f", c.Weight), c.Enabled)
	}

	if _, err := fmt.Fprintf(w, "%s\n\n%s\n", nodes, conns); err != nil {
		return fmt.Errorf("writing genome: %w", err)
	}
	return nil
}

// DisplayGenome writes the genome of the named client to w.
func (m *Manager) DisplayGenome(name string, w io.Writer) error {
	c, err := m.client(name)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s (species %s, score %.4f)\n", c.Name, c.Species, c.Score); err != nil {
		return fmt.Errorf("writing genome: %w", err)
	}
	return WriteGenome(w, c.Genome)
}
