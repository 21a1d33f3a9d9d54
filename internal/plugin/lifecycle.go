package plugin

import (
	"context"

	"github.com/mAKEkr/blog-advance/internal/page"
)

// Hook names used in errors and logs.
const (
	HookExtendPageData       = "extendPageData"
	HookReady                = "ready"
	HookClientDynamicModules = "clientDynamicModules"
	HookGenerated            = "generated"
)

// ExtendPageData runs every PageExtender against p.
func (r *Registry) ExtendPageData(pc *Context, p *page.Page) {
	for _, pl := range r.List() {
		if ext, ok := pl.(PageExtender); ok {
			ext.ExtendPageData(pc.ForPlugin(pl.Metadata().Name), p)
		}
	}
}

// Ready runs every ReadyHook, stopping at the first error.
func (r *Registry) Ready(ctx context.Context, pc *Context) error {
	for _, pl := range r.List() {
		hook, ok := pl.(ReadyHook)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := pl.Metadata().Name
		if err := hook.Ready(ctx, pc.ForPlugin(name)); err != nil {
			return NewError(name, HookReady, err)
		}
	}
	return nil
}

// ClientDynamicModules collects modules from every provider, in registration order.
func (r *Registry) ClientDynamicModules(ctx context.Context, pc *Context) ([]Module, error) {
	var out []Module
	for _, pl := range r.List() {
		provider, ok := pl.(ClientModuleProvider)
		if !ok {
			continue
		}
		name := pl.Metadata().Name
		mods, err := provider.ClientDynamicModules(ctx, pc.ForPlugin(name))
		if err != nil {
			return nil, NewError(name, HookClientDynamicModules, err)
		}
		out = append(out, mods...)
	}
	return out, nil
}

// Generated runs every GeneratedHook, stopping at the first error.
func (r *Registry) Generated(ctx context.Context, pc *Context) error {
	for _, pl := range r.List() {
		hook, ok := pl.(GeneratedHook)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := pl.Metadata().Name
		if err := hook.Generated(ctx, pc.ForPlugin(name)); err != nil {
			return NewError(name, HookGenerated, err)
		}
	}
	return nil
}
