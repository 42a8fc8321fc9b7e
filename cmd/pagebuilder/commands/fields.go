package commands

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
)

// FieldsCmd implements the 'fields' command.
type FieldsCmd struct {
	Format string `short:"f" enum:"text,yaml" default:"text" help:"Output format (text|yaml)"`
}

func (f *FieldsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	table, err := cfg.AliasTable()
	if err != nil {
		return err
	}

	out := g.stdout()
	if f.Format == "yaml" {
		rules := make(map[string]resolve.Rule, len(table.Fields()))
		for _, field := range table.Fields() {
			rule, _ := table.Rule(field)
			rules[string(field)] = rule
		}
		data, err := yaml.Marshal(rules)
		if err != nil {
			return ferrors.InternalError("failed to marshal alias table").WithCause(err).Build()
		}
		_, err = out.Write(data)
		return err
	}

	for _, field := range table.Fields() {
		rule, _ := table.Rule(field)
		line := fmt.Sprintf("%-20s %s", field, strings.Join(rule.Aliases, ", "))
		if rule.Nested != nil {
			line += fmt.Sprintf(" (also %s.%s)",
				strings.Join(rule.Nested.Containers, "|"), strings.Join(rule.Nested.Keys, "|"))
		}
		_, _ = fmt.Fprintln(out, line)
	}
	return nil
}
