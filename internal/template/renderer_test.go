package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_StaticFallback(t *testing.T) {
	r, err := NewRenderer("", "")
	require.NoError(t, err)

	ctx := Context{
		Operation:      "create",
		CIName:         "HR system",
		AccountChanges: "name:\tAlice",
	}

	t.Run("description", func(t *testing.T) {
		got, err := r.Render(DescriptionTemplateID, ctx)
		require.NoError(t, err)
		assert.Equal(t, "IDM request: create account on HR system", got)
	})

	t.Run("detail", func(t *testing.T) {
		got, err := r.Render(DetailTemplateID, ctx)
		require.NoError(t, err)
		assert.Equal(t, "Account details are:\nname:\tAlice", got)
	})

	t.Run("unknown template id", func(t *testing.T) {
		got, err := r.Render("footer", ctx)
		require.NoError(t, err)
		assert.Equal(t, "Missing template for footer", got)
	})
}

func TestRenderer_ConfiguredTemplates(t *testing.T) {
	r, err := NewRenderer(
		"Please {{.Operation}} the account on {{.CIName}}",
		"Changes:{{.NL}}{{.AccountChanges}}{{.NL}}Key: {{.Identifier}}",
	)
	require.NoError(t, err)

	ctx := Context{
		Operation:      "modify",
		CIName:         "HR system",
		Identifier:     "alice",
		AccountChanges: "title : \n  replace values [Manager]",
	}

	description, err := r.Render(DescriptionTemplateID, ctx)
	require.NoError(t, err)
	assert.Equal(t, "Please modify the account on HR system", description)

	detail, err := r.Render(DetailTemplateID, ctx)
	require.NoError(t, err)
	assert.Equal(t, "Changes:\ntitle : \n  replace values [Manager]\nKey: alice", detail)
}

func TestRenderer_NLTokenExpandsToNewline(t *testing.T) {
	r, err := NewRenderer("a{{.NL}}b", "")
	require.NoError(t, err)

	got, err := r.Render(DescriptionTemplateID, Context{})
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestNewRenderer_InvalidTemplate(t *testing.T) {
	_, err := NewRenderer("{{.Operation", "")
	assert.Error(t, err)
}

func TestRenderer_AbsentContextValuesRenderEmpty(t *testing.T) {
	r, err := NewRenderer("[{{.Identifier}}]", "")
	require.NoError(t, err)

	got, err := r.Render(DescriptionTemplateID, Context{})
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}
