package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/hforge/internal/cluster"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)
)

// renderTopology produces the summary printed after a successful create.
func renderTopology(topo *cluster.Topology, location string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  hforge cluster: %s", topo.Name)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("  Nodes"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-28s %-13s %-16s %-16s", "Name", "Role", "Public", "Private")))
	b.WriteString("\n")
	for _, n := range topo.Nodes() {
		fmt.Fprintf(&b, "  %-28s %-13s %-16s %-16s\n", n.Name, n.Role, n.PublicAddress, n.PrivateAddress)
	}
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 76)))
	b.WriteString("\n")

	fmt.Fprintf(&b, "  SSH:   %s@%s -i %s\n", topo.Orchestrator.SSHUser, topo.Orchestrator.PublicAddress, topo.Orchestrator.SSHKey)
	fmt.Fprintf(&b, "  State: %s\n", location)
	b.WriteString("\n")
	b.WriteString(okStyle.Render(fmt.Sprintf("  ✓ %d node(s) ready", len(topo.Nodes()))))
	b.WriteString("\n")

	return b.String()
}

// renderPlan produces the node list printed by the plan command.
func renderPlan(name, provider string, plan *cluster.Plan) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  hforge plan: %s (%s)", name, provider)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-28s %-13s %-16s %-22s", "Name", "Role", "Machine", "Accelerator")))
	b.WriteString("\n")
	for _, spec := range plan.Specs() {
		accel := "-"
		if a := spec.Accelerator; a != nil {
			accel = fmt.Sprintf("%dx %s", a.Count, a.Type)
		}
		fmt.Fprintf(&b, "  %-28s %-13s %-16s %-22s\n", spec.Name, spec.Role, spec.MachineType, accel)
	}
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 76)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %d node(s) in %s, image %s\n", plan.Size(), plan.Orchestrator.Location, plan.Orchestrator.Image)

	return b.String()
}
