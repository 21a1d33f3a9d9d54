package site

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/inful/mdfp"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/frontmatter"
	"github.com/mAKEkr/blog-advance/internal/page"
	"github.com/mAKEkr/blog-advance/internal/plugin"
)

// ManifestFile is the page manifest written next to the data modules.
const ManifestFile = "pages.json"

// ManifestEntry is the manifest view of one page.
type ManifestEntry struct {
	Key         string         `json:"key"`
	Path        string         `json:"path"`
	RegularPath string         `json:"regularPath"`
	Title       string         `json:"title"`
	Type        page.Type      `json:"type,omitempty"`
	Layout      string         `json:"layout,omitempty"`
	Synthetic   bool           `json:"synthetic,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	Fingerprint string         `json:"fingerprint"`
}

// Fingerprint hashes a page's frontmatter and body. Map keys are serialized
// in sorted order, so equal pages always hash the same.
func Fingerprint(p *page.Page) (string, error) {
	fields := make(map[string]any, len(p.Frontmatter))
	for k, v := range p.Frontmatter {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}

	fm := ""
	if len(fields) > 0 {
		serialized, err := frontmatter.SerializeYAML(fields, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		fm = string(bytes.TrimSuffix(serialized, []byte("\n")))
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(p.Content)), nil
}

// BuildManifest returns the manifest entries for pages, sorted by path.
func BuildManifest(pages []*page.Page) ([]ManifestEntry, error) {
	out := make([]ManifestEntry, 0, len(pages))
	for _, p := range pages {
		fp, err := Fingerprint(p)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to fingerprint page").
				WithContext("page", p.Key).
				Build()
		}
		out = append(out, ManifestEntry{
			Key:         p.Key,
			Path:        p.Path,
			RegularPath: p.RegularPath,
			Title:       p.Title,
			Type:        p.Type,
			Layout:      p.Layout(),
			Synthetic:   p.Synthetic,
			Meta:        p.Meta,
			Fingerprint: fp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// MarshalManifest encodes entries as indented JSON without HTML escaping.
func MarshalManifest(entries []ManifestEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteModules writes each module into dir. Files whose content fingerprint
// is unchanged are left alone. It returns how many files were written.
func WriteModules(dir string, modules []plugin.Module) (written int, err error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, outputError(err, dir)
	}
	for _, m := range modules {
		changed, err := writeIfChanged(filepath.Join(dir, m.Name), m.Content)
		if err != nil {
			return written, err
		}
		if changed {
			written++
		}
	}
	return written, nil
}

// writeIfChanged leaves files with identical content alone so rebuilds keep
// their modification times.
func writeIfChanged(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil {
		if bytes.Equal(existing, data) {
			return false, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return false, outputError(err, filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // site output is public
		return false, outputError(err, path)
	}
	return true, nil
}

func outputError(err error, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write output").
		WithContext("path", path).
		Build()
}
