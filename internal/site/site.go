// Package site is the static-site host the blog plugin runs against.
//
// It loads markdown pages from the source directory, runs the plugin hooks in
// host order and writes the generated data modules and page manifest.
package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mAKEkr/blog-advance/internal/config"
	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/logfields"
	"github.com/mAKEkr/blog-advance/internal/page"
	"github.com/mAKEkr/blog-advance/internal/plugin"
)

// Site implements plugin.Host for one build.
type Site struct {
	cfg      *config.Config
	registry *plugin.Registry
	logger   *slog.Logger

	pages   []*page.Page
	byPath  map[string]*page.Page
	layouts map[string]bool

	// pc is set once plugins run; pages added after that are classified on
	// registration.
	pc *plugin.Context
}

var _ plugin.Host = (*Site)(nil)

// New returns an empty site for cfg.
func New(cfg *config.Config, registry *plugin.Registry, logger *slog.Logger) *Site {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = plugin.NewRegistry()
	}
	return &Site{
		cfg:      cfg,
		registry: registry,
		logger:   logger,
		byPath:   make(map[string]*page.Page),
		layouts:  make(map[string]bool),
	}
}

func (s *Site) Pages() []*page.Page        { return s.pages }
func (s *Site) HasLayout(name string) bool { return s.layouts[name] }
func (s *Site) Production() bool           { return s.cfg.Production }
func (s *Site) SourceDir() string          { return s.cfg.SourceDir }
func (s *Site) OutputDir() string          { return s.cfg.OutputDir }

func (s *Site) Site() plugin.SiteInfo {
	return plugin.SiteInfo{
		Title:  s.cfg.Site.Title,
		URL:    s.cfg.Site.URL,
		Base:   s.cfg.Site.Base,
		Author: s.cfg.Site.Author,
	}
}

// Layouts returns the registered layout names.
func (s *Site) Layouts() []string {
	out := make([]string, 0, len(s.layouts))
	for name := range s.layouts {
		out = append(out, name)
	}
	return out
}

// AddPage registers a synthetic page. The page is classified and its
// permalink resolved before the duplicate-path check.
func (s *Site) AddPage(ctx context.Context, p *page.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.Key == "" {
		p.Key = PageKey("@synthetic" + p.RegularPath)
	}
	if s.pc != nil {
		s.registry.ExtendPageData(s.pc, p)
	}
	s.resolvePath(p)
	return s.register(p)
}

// Load reads the source pages and registered layouts.
func (s *Site) Load() error {
	s.layouts = make(map[string]bool)
	for _, name := range s.cfg.Layouts {
		s.layouts[name] = true
	}
	if err := s.loadLayoutsDir(); err != nil {
		return err
	}

	pages, err := LoadPages(s.cfg.SourceDir, s.cfg.Blog.ExtrasDir)
	if err != nil {
		return err
	}
	s.pages = pages
	s.byPath = make(map[string]*page.Page, len(pages))
	return nil
}

// Classify runs ExtendPageData for every loaded page.
func (s *Site) Classify(pc *plugin.Context) {
	s.pc = pc
	for _, p := range s.pages {
		s.registry.ExtendPageData(pc, p)
	}
}

// ResolvePermalinks sets the final path of every loaded page and rejects
// duplicates.
func (s *Site) ResolvePermalinks() error {
	loaded := s.pages
	s.pages = make([]*page.Page, 0, len(loaded))
	s.byPath = make(map[string]*page.Page, len(loaded))
	for _, p := range loaded {
		s.resolvePath(p)
		if err := s.register(p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Site) resolvePath(p *page.Page) {
	resolved, ok := ResolvePermalink(p)
	if !ok {
		s.logger.Warn("Permalink needs a date; keeping regular path",
			logfields.Page(p.Key),
			logfields.Path(p.RegularPath))
	}
	p.Path = resolved
}

func (s *Site) register(p *page.Page) error {
	if existing, ok := s.byPath[p.Path]; ok {
		return ferrors.AlreadyExistsError("page path already registered").
			WithContext("path", p.Path).
			WithContext("existing", existing.Key).
			WithContext("page", p.Key).
			Build()
	}
	s.byPath[p.Path] = p
	s.pages = append(s.pages, p)
	return nil
}

// loadLayoutsDir registers the base name of every file in the layouts
// directory. A missing directory is fine.
func (s *Site) loadLayoutsDir() error {
	if s.cfg.LayoutsDir == "" {
		return nil
	}
	entries, err := os.ReadDir(s.cfg.LayoutsDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read layouts directory").
			WithContext("path", s.cfg.LayoutsDir).
			Build()
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		s.layouts[name] = true
	}
	return nil
}
