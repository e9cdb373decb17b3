package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alastify/vufind/internal/core/markup"
)

func TestParsePairs(t *testing.T) {
	t.Run("parses key value pairs", func(t *testing.T) {
		values, err := parsePairs([]string{"id=42", "lookfor=go programming"})
		require.NoError(t, err)
		assert.Equal(t, "42", values.Get("id"))
		assert.Equal(t, "go programming", values.Get("lookfor"))
	})

	t.Run("repeated keys accumulate", func(t *testing.T) {
		values, err := parsePairs([]string{"filter=a", "filter=b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, values["filter"])
	})

	t.Run("rejects malformed pairs", func(t *testing.T) {
		_, err := parsePairs([]string{"no-equals"})
		require.Error(t, err)

		_, err = parsePairs([]string{"=value"})
		require.Error(t, err)
	})
}

func TestFillForm(t *testing.T) {
	scrapeOne := func(t *testing.T, fragment string) *markup.Form {
		t.Helper()
		forms, err := markup.ParseForms(fragment)
		require.NoError(t, err)
		require.Len(t, forms, 1)
		return forms[0]
	}

	t.Run("sets text values", func(t *testing.T) {
		form := scrapeOne(t, `<form name="f" method="post">
			<input type="text" name="name" value=""/>
		</form>`)

		err := fillForm(form, map[string]string{"name": "Ada"})
		require.NoError(t, err)
		assert.Equal(t, "Ada", form.Field("name").Value)
	})

	t.Run("checkbox accepts truthy values", func(t *testing.T) {
		form := scrapeOne(t, `<form name="f" method="post">
			<input type="checkbox" name="agree"/>
		</form>`)

		require.NoError(t, fillForm(form, map[string]string{"agree": "on"}))
		assert.True(t, form.Field("agree").Checked)

		require.NoError(t, fillForm(form, map[string]string{"agree": "false"}))
		assert.False(t, form.Field("agree").Checked)
	})

	t.Run("radio selects matching value", func(t *testing.T) {
		form := scrapeOne(t, `<form name="f" method="post">
			<input type="radio" name="vote" value="yes"/>
			<input type="radio" name="vote" value="no" checked/>
		</form>`)

		require.NoError(t, fillForm(form, map[string]string{"vote": "yes"}))
		assert.True(t, form.Fields[0].Checked)
		assert.False(t, form.Fields[1].Checked)
	})

	t.Run("unknown field is an error", func(t *testing.T) {
		form := scrapeOne(t, `<form name="f" method="post">
			<input type="text" name="name"/>
		</form>`)

		err := fillForm(form, map[string]string{"missing": "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
	})
}
