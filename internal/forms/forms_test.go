package forms

import (
	"testing"

	"github.com/katakuxiko/promptforms/internal/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	all := All()
	require.Len(t, all, 5)

	ids := map[string]bool{}
	for _, f := range all {
		assert.False(t, ids[f.ID], "duplicate id %s", f.ID)
		ids[f.ID] = true

		_, ok := f.Field(f.InputField)
		assert.True(t, ok, "%s: input field %q not declared", f.ID, f.InputField)
		assert.True(t, (f.Template == nil) != (f.Chunking == nil), "%s: exactly one of template or chunking", f.ID)

		if f.Template != nil {
			for _, name := range f.Template.Names() {
				_, ok := f.Field(name)
				assert.True(t, ok, "%s: placeholder %q has no field", f.ID, name)
			}
		}
	}

	f, ok := Lookup("long-summary")
	require.True(t, ok)
	assert.True(t, f.HasFile())
	assert.Equal(t, gate.MaxWordsFile, f.MaxWords)
	assert.Equal(t, 5000, f.Chunking.Splitter.Size())
	assert.Equal(t, 350, f.Chunking.Splitter.Overlap())

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestValidateChoices(t *testing.T) {
	f, ok := Lookup("rewrite")
	require.True(t, ok)
	cred := gate.NewCredential("sk-test")

	values := map[string]string{"draft": "hello", "tone": "Informal"}
	require.NoError(t, f.Validate(values, cred, "sk-"))
	assert.Equal(t, "American", values["dialect"])

	err := f.Validate(map[string]string{"draft": "hello", "tone": "Sarcastic"}, cred, "sk-")
	assert.ErrorIs(t, err, gate.ErrInvalidChoice)
}

func TestValidateRunsGate(t *testing.T) {
	f, ok := Lookup("review-extract")
	require.True(t, ok)

	err := f.Validate(map[string]string{"review": "great dress"}, gate.NewCredential(""), "sk-")
	assert.ErrorIs(t, err, gate.ErrMissingCredential)

	err = f.Validate(map[string]string{}, gate.NewCredential("sk-x"), "sk-")
	assert.ErrorIs(t, err, gate.ErrEmptyInput)
}
