package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mAKEkr/blog-advance/internal/frontmatter"
	"github.com/mAKEkr/blog-advance/internal/page"
	"github.com/mAKEkr/blog-advance/internal/site"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Production bool   `help:"Classify as a production build"`
	Path       string `arg:"" optional:"" help:"Only show pages whose path starts with this prefix"`
}

func (i *InspectCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if i.Production {
		cfg.Production = true
	}

	pages, _, err := site.NewBuilder(cfg, site.WithLogger(g.Logger)).Plan(context.Background())
	if err != nil {
		return err
	}
	return writeInspection(os.Stdout, pages, i.Path)
}

// writeInspection prints one YAML document per page.
func writeInspection(w io.Writer, pages []*page.Page, prefix string) error {
	for _, p := range pages {
		if prefix != "" && !hasPathPrefix(p, prefix) {
			continue
		}
		doc := map[string]any{
			"key":          p.Key,
			"path":         p.Path,
			"regular_path": p.RegularPath,
			"title":        p.Title,
			"type":         p.Type.String(),
			"frontmatter":  p.Frontmatter,
		}
		if p.Synthetic {
			doc["synthetic"] = true
		}
		if len(p.Meta) > 0 {
			doc["meta"] = p.Meta
		}
		out, err := frontmatter.SerializeYAML(doc, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "---\n%s", out); err != nil {
			return err
		}
	}
	return nil
}

func hasPathPrefix(p *page.Page, prefix string) bool {
	return strings.HasPrefix(p.Path, prefix) || strings.HasPrefix(p.RegularPath, prefix)
}
