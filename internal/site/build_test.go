package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mAKEkr/blog-advance/internal/metrics"
	"github.com/mAKEkr/blog-advance/internal/page"
)

func writeBlog(t *testing.T, src string) {
	t.Helper()
	writeFile(t, src, "README.md", "# Home\n")
	writeFile(t, src, "about.md", "---\ntitle: About\n---\nAbout me.\n")
	writeFile(t, src, "_posts/2020-01-02-first.md", `---
title: First
date: 2020-01-02
tags: [go, blog]
category: dev
author: jane
---
First post body.
`)
	writeFile(t, src, "_posts/2020-02-03-second.md", `---
title: Second
subtitle: The sequel
date: 2020-02-03
tags: go
categories: [dev, life]
---
Second post body.
`)
	writeFile(t, src, "_drafts/wip.md", "---\ntitle: WIP\ntags: [secret]\n---\n")
	writeFile(t, src, ".blog-extras/robots.txt", "User-agent: *\n")
}

func TestBuilder_Build(t *testing.T) {
	cfg := testConfig(t)
	writeBlog(t, cfg.SourceDir)

	rec := metrics.NewPrometheusRecorder(nil)
	report, err := NewBuilder(cfg, WithRecorder(rec)).Build(context.Background())
	require.NoError(t, err)

	require.Equal(t, metrics.BuildOutcomeSuccess, report.Outcome)
	require.Equal(t, 2, report.Pages[page.TypePost])
	require.Equal(t, 1, report.Pages[page.TypePostDraft])
	require.Equal(t, 2, report.Tags)
	require.Equal(t, 2, report.Categories)
	require.Equal(t, 1, report.Authors)
	require.Equal(t, 2, report.FeedEntries)
	require.Equal(t, 1, report.ExtrasCopied)
	require.Equal(t, 3, report.ModuleWrites)
	// Tags, Categories, 2 tag pages, 2 category pages, 1 author page.
	require.Equal(t, 7, report.Synthetic)
	for _, st := range []StageName{StageLoad, StageClassify, StagePermalinks, StageReady, StageModules, StageManifest, StageGenerated} {
		require.Equal(t, metrics.ResultSuccess, report.StageResults[st], st)
	}

	out := cfg.OutputDir
	tagJS, err := os.ReadFile(filepath.Join(out, "data", "tag.js"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(tagJS), "export default {"))
	require.Contains(t, string(tagJS), `"path": "/tag/go.html"`)
	require.NotContains(t, string(tagJS), "secret")

	feed, err := os.ReadFile(filepath.Join(out, "feed.xml"))
	require.NoError(t, err)
	require.Contains(t, string(feed), "https://example.com/2020/01/02/first/")
	require.Less(t, strings.Index(string(feed), "Second"), strings.Index(string(feed), "First"))
	require.Contains(t, string(feed), `<content type="html">&lt;p&gt;First post body.&lt;/p&gt;`)

	robots, err := os.ReadFile(filepath.Join(out, "robots.txt"))
	require.NoError(t, err)
	require.Equal(t, "User-agent: *\n", string(robots))

	var manifest []ManifestEntry
	data, err := os.ReadFile(filepath.Join(out, "data", ManifestFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &manifest))
	require.Equal(t, report.TotalPages(), len(manifest))

	byPath := map[string]ManifestEntry{}
	for _, e := range manifest {
		byPath[e.Path] = e
	}
	require.Equal(t, "Post", byPath["/2020/02/03/second/"].Layout)
	require.Equal(t, "Tags", byPath["/tag/"].Layout)
	require.Equal(t, "Tag", byPath["/tag/go.html"].Layout)
	require.Equal(t, "go", byPath["/tag/go.html"].Meta["tagName"])
	require.True(t, byPath["/category/dev.html"].Synthetic)
	require.Equal(t, "Author", byPath["/author/jane.html"].Layout)
	require.Equal(t, "Page", byPath["/about.html"].Layout)
	require.NotEmpty(t, byPath["/about.html"].Fingerprint)
}

func TestBuilder_RebuildKeepsUnchangedModules(t *testing.T) {
	cfg := testConfig(t)
	writeBlog(t, cfg.SourceDir)
	b := NewBuilder(cfg)

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	tagPath := filepath.Join(cfg.OutputDir, "data", "tag.js")
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(tagPath, old, old))

	report, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, report.ModuleWrites)
	require.Equal(t, 3, report.ModulesKept)

	info, err := os.Stat(tagPath)
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(old))
}

func TestBuilder_Production(t *testing.T) {
	cfg := testConfig(t)
	cfg.Production = true
	writeBlog(t, cfg.SourceDir)

	_, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)

	var manifest []ManifestEntry
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "data", ManifestFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &manifest))
	for _, e := range manifest {
		if e.Type == page.TypePostDraft {
			require.Equal(t, "NotFound", e.Layout)
		}
	}
}

func TestBuilder_FeedDisabled(t *testing.T) {
	cfg := testConfig(t)
	disabled := false
	cfg.Feed.Enabled = &disabled
	writeBlog(t, cfg.SourceDir)

	report, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, report.FeedEntries)
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "feed.xml"))
	require.True(t, os.IsNotExist(err))
}

func TestBuilder_Canceled(t *testing.T) {
	cfg := testConfig(t)
	writeBlog(t, cfg.SourceDir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := NewBuilder(cfg).Build(ctx)
	require.Error(t, err)
	require.Equal(t, metrics.BuildOutcomeCanceled, report.Outcome)
	require.Equal(t, metrics.ResultCanceled, report.StageResults[StageLoad])
}

func TestBuilder_DuplicateTaxonomyPage(t *testing.T) {
	cfg := testConfig(t)
	writeBlog(t, cfg.SourceDir)
	writeFile(t, cfg.SourceDir, "tag/go.md", "# Go\n")

	report, err := NewBuilder(cfg).Build(context.Background())
	require.Error(t, err)
	require.Equal(t, metrics.BuildOutcomeFailed, report.Outcome)
	require.Equal(t, metrics.ResultFatal, report.StageResults[StageReady])
}

func TestBuilder_PlanWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	writeBlog(t, cfg.SourceDir)

	pages, report, err := NewBuilder(cfg).Plan(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 5+7)
	require.Empty(t, report.StageResults[StageGenerated])

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
