// Package build runs a complete site build: it checks the content root,
// removes the previous output, writes the static-site marker and then
// assembles, wraps and writes every page in a fixed order.
//
// Each page runs as a Step wrapped in explicit middleware (panic recovery,
// timing and logging). A failing page is recorded in the Report and never
// stops the pages after it. The only fatal condition is a missing content
// root.
package build
