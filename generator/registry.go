package generator

import (
	"context"
	"errors"
	"fmt"

	"campaign_content_creator/campaign"
	"campaign_content_creator/llm"
)

// promptGenerator implements Generator with one text completion per asset.
type promptGenerator struct {
	spec assetSpec
	llm  llm.Client
}

func (g *promptGenerator) Type() campaign.AssetType { return g.spec.typ }
func (g *promptGenerator) Label() string            { return g.spec.label }
func (g *promptGenerator) Description() string      { return g.spec.description }

func (g *promptGenerator) Generate(ctx context.Context, asset campaign.PlannedAsset, opts Options) (campaign.GeneratedAsset, error) {
	system := g.spec.system
	if g.spec.brandAware {
		system = WithBrandContext(system, opts.BrandContext)
	}
	raw, err := g.llm.GenerateText(ctx, llm.TextRequest{
		System:    system,
		Prompt:    buildAssetPrompt(g.spec, asset, opts),
		MaxTokens: g.spec.maxTokens,
	})
	if err != nil {
		return campaign.GeneratedAsset{}, fmt.Errorf("generate %s: %w", asset.ID, err)
	}
	content, err := postProcess(raw)
	if err != nil {
		return campaign.GeneratedAsset{}, fmt.Errorf("generate %s: %w", asset.ID, err)
	}
	return campaign.GeneratedAsset{
		ID:      asset.ID,
		Type:    g.spec.typ,
		Title:   asset.Title,
		Content: content,
		Metadata: map[string]string{
			"platform": g.spec.platform,
			"format":   g.spec.format,
		},
	}, nil
}

// Registry is the fixed mapping from asset type to generator.
type Registry struct {
	byType map[campaign.AssetType]Generator
	order  []Generator
}

// NewRegistry registers a generator for every supported asset type.
func NewRegistry(client llm.Client) (*Registry, error) {
	if client == nil {
		return nil, errors.New("llm client is required")
	}
	r := &Registry{byType: make(map[campaign.AssetType]Generator, len(specs))}
	for _, s := range specs {
		r.Register(&promptGenerator{spec: s, llm: client})
	}
	return r, nil
}

// Register adds or replaces the generator for g.Type().
func (r *Registry) Register(g Generator) {
	if _, exists := r.byType[g.Type()]; !exists {
		r.order = append(r.order, g)
	} else {
		for i, old := range r.order {
			if old.Type() == g.Type() {
				r.order[i] = g
			}
		}
	}
	r.byType[g.Type()] = g
}

// Get returns the generator for t.
func (r *Registry) Get(t campaign.AssetType) (Generator, error) {
	g, ok := r.byType[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAssetType, t)
	}
	return g, nil
}

// Resolve looks up a generator for every planned asset, failing on the first
// unregistered type before any work starts.
func (r *Registry) Resolve(assets []campaign.PlannedAsset) ([]Generator, error) {
	out := make([]Generator, len(assets))
	for i, a := range assets {
		g, err := r.Get(a.Type)
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}

// List returns generators in registration order.
func (r *Registry) List() []Generator {
	return append([]Generator(nil), r.order...)
}
