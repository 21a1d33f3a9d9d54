package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mAKEkr/blog-advance/internal/page"
)

func TestMetadataValidate(t *testing.T) {
	tests := []struct {
		name      string
		metadata  Metadata
		expectErr bool
	}{
		{"valid", Metadata{Name: "blog", Version: "v1.0.0", Type: TypeContent}, false},
		{"missing name", Metadata{Version: "v1.0.0", Type: TypeContent}, true},
		{"missing version", Metadata{Name: "blog", Type: TypeContent}, true},
		{"invalid type", Metadata{Name: "blog", Version: "v1.0.0", Type: Type("publisher")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metadata.Validate()
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMetadataStringAndCapabilities(t *testing.T) {
	m := Metadata{Name: "blog", Version: "v1.0.0", Type: TypeContent, Capabilities: []Capability{CapabilityFeed}}
	require.Equal(t, "blog@v1.0.0 (content)", m.String())
	require.True(t, m.HasCapability(CapabilityFeed))
	require.False(t, m.HasCapability(CapabilityExtras))
}

func TestError(t *testing.T) {
	err := NewError("blog", HookReady, context.Canceled)
	require.Equal(t, "plugin blog failed during ready: context canceled", err.Error())
	require.ErrorIs(t, err, context.Canceled)
}

func TestContext_Values(t *testing.T) {
	pc := NewContext(nil, nil, "")
	require.NotEmpty(t, pc.BuildID)

	pc2 := pc.WithValue("key", "value")
	require.Nil(t, pc.GetValue("key"))
	require.Equal(t, "value", pc2.GetString("key"))
	require.Equal(t, pc.BuildID, pc2.BuildID)

	pc3 := pc2.WithValue("n", 3)
	require.Empty(t, pc3.GetString("n"))
	require.Equal(t, 3, pc3.GetValue("n"))
}

type recordingPlugin struct {
	BasePlugin
	name     string
	calls    *[]string
	readyErr error
}

func (p *recordingPlugin) Metadata() Metadata {
	return Metadata{Name: p.name, Version: "v0.0.1", Type: TypeContent}
}

func (p *recordingPlugin) ExtendPageData(_ *Context, pg *page.Page) {
	*p.calls = append(*p.calls, p.name+":extend:"+pg.Key)
}

func (p *recordingPlugin) Ready(context.Context, *Context) error {
	*p.calls = append(*p.calls, p.name+":ready")
	return p.readyErr
}

func (p *recordingPlugin) ClientDynamicModules(context.Context, *Context) ([]Module, error) {
	return []Module{{Name: p.name + ".js"}}, nil
}

type metadataOnly struct {
	BasePlugin
	name string
}

func (p metadataOnly) Metadata() Metadata {
	return Metadata{Name: p.name, Version: "v0.0.1", Type: TypeTheme}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	var calls []string

	require.Error(t, r.Register(nil))
	require.Error(t, r.Register(metadataOnly{}))

	require.NoError(t, r.Register(&recordingPlugin{name: "a", calls: &calls}))
	require.NoError(t, r.Register(metadataOnly{name: "theme"}))
	require.Error(t, r.Register(&recordingPlugin{name: "a", calls: &calls}))

	require.Equal(t, 2, r.Count())
	require.True(t, r.Has("theme"))
	require.False(t, r.Has("missing"))

	p, err := r.Get("a")
	require.NoError(t, err)
	require.Equal(t, "a", p.Metadata().Name)

	_, err = r.Get("missing")
	require.Error(t, err)

	require.Len(t, r.ListByType(TypeTheme), 1)
	require.Len(t, r.ListByType(TypeGenerator), 0)
}

func TestRegistry_HooksRunInRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	var calls []string
	require.NoError(t, r.Register(&recordingPlugin{name: "first", calls: &calls}))
	require.NoError(t, r.Register(metadataOnly{name: "theme"}))
	require.NoError(t, r.Register(&recordingPlugin{name: "second", calls: &calls}))

	pc := NewContext(nil, nil, "build-1")
	r.ExtendPageData(pc, page.New("v-1", "/about.html"))
	require.NoError(t, r.Ready(context.Background(), pc))

	mods, err := r.ClientDynamicModules(context.Background(), pc)
	require.NoError(t, err)
	require.Equal(t, []Module{{Name: "first.js"}, {Name: "second.js"}}, mods)

	require.Equal(t, []string{
		"first:extend:v-1",
		"second:extend:v-1",
		"first:ready",
		"second:ready",
	}, calls)

	require.NoError(t, r.Generated(context.Background(), pc))
}

func TestRegistry_ReadyStopsAtFirstError(t *testing.T) {
	r := NewRegistry()
	var calls []string
	boom := errors.New("boom")
	require.NoError(t, r.Register(&recordingPlugin{name: "first", calls: &calls, readyErr: boom}))
	require.NoError(t, r.Register(&recordingPlugin{name: "second", calls: &calls}))

	err := r.Ready(context.Background(), NewContext(nil, nil, ""))
	require.ErrorIs(t, err, boom)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "first", perr.PluginName)
	require.Equal(t, []string{"first:ready"}, calls)
}

func TestRegistry_ReadyHonoursCancellation(t *testing.T) {
	r := NewRegistry()
	var calls []string
	require.NoError(t, r.Register(&recordingPlugin{name: "first", calls: &calls}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, r.Ready(ctx, NewContext(nil, nil, "")), context.Canceled)
	require.Empty(t, calls)
}
