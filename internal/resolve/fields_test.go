package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAliasTableOrder(t *testing.T) {
	table := DefaultAliasTable()
	assert.Equal(t, CanonicalFields, table.Fields())

	rule, ok := table.Rule(Phone)
	require.True(t, ok)
	assert.Equal(t, []string{"phone", "telephone", "tel", "phone_number", "contact_number"}, rule.Aliases)
	require.NotNil(t, rule.Nested)
	assert.Equal(t, []string{"contactPoint", "contact_point"}, rule.Nested.Containers)
	assert.Equal(t, []string{"telephone", "phone"}, rule.Nested.Keys)
}

func TestRuleReturnsCopy(t *testing.T) {
	table := DefaultAliasTable()
	rule, _ := table.Rule(Email)
	rule.Aliases[0] = "mutated"
	rule.Nested.Keys[0] = "mutated"

	again, _ := table.Rule(Email)
	assert.Equal(t, "email", again.Aliases[0])
	assert.Equal(t, "email", again.Nested.Keys[0])
}

func TestExtend(t *testing.T) {
	base := DefaultAliasTable()
	extended, err := base.Extend(map[Field][]string{
		Phone: {"mobile", "tel"},
		"fax": {"fax_number"},
	})
	require.NoError(t, err)

	rule, _ := extended.Rule(Phone)
	assert.Equal(t, []string{"phone", "telephone", "tel", "phone_number", "contact_number", "mobile"}, rule.Aliases)

	baseRule, _ := base.Rule(Phone)
	assert.NotContains(t, baseRule.Aliases, "mobile")

	fields := extended.Fields()
	assert.Equal(t, Field("fax"), fields[len(fields)-1])

	r := NewResolver(extended)
	assert.Equal(t, "555", r.String(map[string]any{"mobile": "555"}, Phone))
	assert.Equal(t, "555-1", r.String(map[string]any{"fax_number": "555-1"}, "fax"))
}

func TestExtendRejectsBlankAliases(t *testing.T) {
	_, err := DefaultAliasTable().Extend(map[Field][]string{Phone: {" "}})
	require.Error(t, err)

	_, err = DefaultAliasTable().Extend(map[Field][]string{"": {"x"}})
	require.Error(t, err)
}
