package main

import (
	"fmt"
	"io"

	"github.com/cs-au-dk/cprop/analysis/constprop"
	"github.com/cs-au-dk/cprop/utils"

	"github.com/fatih/color"
)

// reportMetrics writes the metrics of an analysis run to w, if requested.
func reportMetrics(w io.Writer, res *constprop.Result) {
	if !opts.Metrics() || !res.Metrics.Enabled() {
		return
	}
	m := res.Metrics

	title := utils.CanColorize(color.New(color.FgBlue, color.Bold).SprintFunc())
	number := utils.CanColorize(color.New(color.FgGreen).SprintFunc())

	msg := title("================ Metrics =====================") + "\n\n"
	msg += fmt.Sprintf("Passes: %s\n", number(m.Passes()))
	msg += fmt.Sprintf("Time: %s\n\n", m.Performance())

	totalVisits, totalChanges := 0, 0
	for _, k := range res.Methods {
		visits, changes := m.Visits(k), m.Changes(k)
		totalVisits += visits
		totalChanges += changes
		msg += fmt.Sprintf("Method: %s -- visits: %s, changes: %s\n", k, number(visits), number(changes))
	}
	msg += fmt.Sprintf("\nTotal block visits: %s, of which changed: %s\n", number(totalVisits), number(totalChanges))

	fmt.Fprint(w, msg)
}
