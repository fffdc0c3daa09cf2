package generator

import (
	"context"
	"errors"

	"campaign_content_creator/campaign"
)

// ErrUnknownAssetType is returned when no generator is registered for a type.
var ErrUnknownAssetType = errors.New("no generator registered for asset type")

// Options carries campaign-wide inputs shared by every generator call.
type Options struct {
	BrandVoice   string
	Language     string
	BrandContext string
}

// Generator turns one planned asset into content.
type Generator interface {
	Type() campaign.AssetType
	Label() string
	Description() string
	Generate(ctx context.Context, asset campaign.PlannedAsset, opts Options) (campaign.GeneratedAsset, error)
}

// WithBrandContext appends loaded brand guidelines to a system prompt.
func WithBrandContext(system, brandContext string) string {
	if brandContext == "" {
		return system
	}
	return system + "\n\n---\n\nIMPORTANT - Follow these brand guidelines closely in tone, terminology, and style:\n\n" + brandContext
}
