package site

import (
	"crypto/sha1" //nolint:gosec // page keys, not security
	"encoding/hex"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/frontmatter"
	"github.com/mAKEkr/blog-advance/internal/markdown"
	"github.com/mAKEkr/blog-advance/internal/page"
	"github.com/mAKEkr/blog-advance/internal/slug"
)

// LoadPages reads every markdown file under sourceDir. Dot directories and
// the extras folder are skipped. Pages come back sorted by source path.
func LoadPages(sourceDir, extrasDir string) ([]*page.Page, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "source directory not readable").
			WithContext("path", sourceDir).
			Build()
	}
	if !info.IsDir() {
		return nil, ferrors.FileSystemError("source path is not a directory").
			WithContext("path", sourceDir).
			Build()
	}

	extras := filepath.Clean(extrasDir)
	var rels []string
	err = filepath.WalkDir(sourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(sourceDir, p)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if rel != "." && (strings.HasPrefix(d.Name(), ".") || rel == extras) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			rels = append(rels, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to walk source directory").
			WithContext("path", sourceDir).
			Build()
	}
	sort.Strings(rels)

	pages := make([]*page.Page, 0, len(rels))
	for _, rel := range rels {
		p, err := loadPage(sourceDir, rel)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func loadPage(sourceDir, rel string) (*page.Page, error) {
	file := filepath.Join(sourceDir, filepath.FromSlash(rel))
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read page").
			WithContext("file", file).
			Build()
	}

	fields, body, _, err := frontmatter.Read(content)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid frontmatter").
			WithContext("file", file).
			Build()
	}

	p := page.New(PageKey(rel), RegularPath(rel))
	if fields != nil {
		p.Frontmatter = fields
	}
	p.SourceFile = file
	p.Content = body
	p.Title = p.Field(page.KeyTitle)
	if p.Title == "" {
		p.Title = markdown.ExtractTitle(body)
	}
	if p.Title == "" {
		p.Title = slug.Title(fileStem(rel))
	}
	return p, nil
}

// PageKey derives the stable page key for a source-relative path.
func PageKey(rel string) string {
	sum := sha1.Sum([]byte(rel)) //nolint:gosec // page keys, not security
	return "v-" + hex.EncodeToString(sum[:])[:8]
}

// RegularPath maps a source-relative markdown path to its route. README.md and
// index.md map to their directory.
//
//	RegularPath("README.md")               // "/"
//	RegularPath("_posts/2020-01-02-a.md")  // "/_posts/2020-01-02-a.html"
//	RegularPath("tag/index.md")            // "/tag/"
func RegularPath(rel string) string {
	rel = filepath.ToSlash(rel)
	dir, name := path.Split(rel)
	stem := strings.TrimSuffix(name, path.Ext(name))
	if strings.EqualFold(stem, "readme") || strings.EqualFold(stem, "index") {
		return "/" + dir
	}
	return "/" + dir + stem + ".html"
}

func fileStem(rel string) string {
	name := path.Base(filepath.ToSlash(rel))
	return strings.TrimSuffix(name, path.Ext(name))
}
