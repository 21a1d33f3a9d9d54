package blog

import (
	"bytes"
	"encoding/json"

	"github.com/mAKEkr/blog-advance/internal/plugin"
)

// DataModule is a generated client module such as tag.js.
type DataModule = plugin.Module

// ClientModules renders idx as tag.js, category.js and author.js. Each module
// default-exports the map as two-space indented JSON in first-seen order.
func ClientModules(idx Index) ([]DataModule, error) {
	mods := make([]DataModule, 0, 3)
	for _, m := range idx.Maps() {
		if m == nil {
			continue
		}
		content, err := moduleSource(m)
		if err != nil {
			return nil, err
		}
		mods = append(mods, DataModule{Name: string(m.Scope()) + ".js", Content: content})
	}
	return mods, nil
}

func moduleSource(m *TaxonomyMap) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("export default ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
