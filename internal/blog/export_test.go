package blog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientModules(t *testing.T) {
	idx := NewIndex()
	idx.Tags.Add("go", "v-1")
	idx.Tags.Add("go", "v-2")
	idx.Categories.Add("a&b", "v-1")

	mods, err := ClientModules(idx)
	require.NoError(t, err)
	require.Len(t, mods, 3)

	require.Equal(t, "tag.js", mods[0].Name)
	require.Equal(t, `export default {
  "go": {
    "path": "/tag/go.html",
    "pageKeys": [
      "v-1",
      "v-2"
    ]
  }
}`, string(mods[0].Content))

	require.Equal(t, "category.js", mods[1].Name)
	require.Contains(t, string(mods[1].Content), `"a&b": {`)
	require.Contains(t, string(mods[1].Content), `"path": "/category/a&b.html"`)

	require.Equal(t, "author.js", mods[2].Name)
	require.Equal(t, "export default {}", string(mods[2].Content))
}

func TestClientModules_Deterministic(t *testing.T) {
	first, err := ClientModules(sampleIndex())
	require.NoError(t, err)
	second, err := ClientModules(sampleIndex())
	require.NoError(t, err)
	require.Equal(t, first, second)
}
