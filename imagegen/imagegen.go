// Package imagegen produces header and cover images for campaign assets.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"campaign_content_creator/campaign"
)

// DefaultModel is the Gemini model used for image generation.
const DefaultModel = "gemini-2.5-flash-image"

// ErrNoImageData is returned when a response carries no inline image.
var ErrNoImageData = errors.New("imagegen: no image data in response")

// Image is raw image bytes plus their MIME type.
type Image struct {
	Data     []byte
	MIMEType string
}

// Ext is the file extension matching the MIME type.
func (i Image) Ext() string {
	if strings.Contains(i.MIMEType, "jpeg") || strings.Contains(i.MIMEType, "jpg") {
		return ".jpg"
	}
	return ".png"
}

// Service generates one image from a text prompt.
type Service interface {
	Generate(ctx context.Context, prompt string) (Image, error)
}

// GeminiService implements Service with the Gemini API.
type GeminiService struct {
	client *genai.Client
	model  string
}

// NewGeminiService creates a client for the Gemini API backend.
func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, errors.New("imagegen: GEMINI_API_KEY is not set")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("imagegen: create client: %w", err)
	}
	return &GeminiService{client: client, model: model}, nil
}

func (s *GeminiService) Generate(ctx context.Context, prompt string) (Image, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return Image{}, fmt.Errorf("imagegen: generate: %w", err)
	}
	return firstImage(resp)
}

func firstImage(resp *genai.GenerateContentResponse) (Image, error) {
	if resp == nil {
		return Image{}, ErrNoImageData
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return Image{Data: part.InlineData.Data, MIMEType: mime}, nil
		}
	}
	return Image{}, ErrNoImageData
}

// WriteImage stores img at outputPath with its extension replaced to match the
// MIME type, creating parent directories. It returns the final path.
func WriteImage(img Image, outputPath string) (string, error) {
	final := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + img.Ext()
	if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return "", fmt.Errorf("imagegen: ensure directory: %w", err)
	}
	if err := os.WriteFile(final, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("imagegen: write image: %w", err)
	}
	return final, nil
}

var styles = map[campaign.AssetType]string{
	campaign.BlogArticle:      "Create a professional, modern blog header image. Clean design with subtle tech elements. No text in the image. 16:9 aspect ratio.",
	campaign.LinkedInPost:     "Create a professional social media graphic for LinkedIn. Modern, corporate style with subtle gradients. No text in the image. Square format.",
	campaign.TwitterPost:      "Create a clean, eye-catching social media graphic for Twitter/X. Minimalist design. No text in the image. 16:9 aspect ratio.",
	campaign.EmailNewsletter:  "Create a professional email header banner. Clean, inviting design. No text in the image. Wide format (3:1 ratio).",
	campaign.InstagramCaption: "Create a visually striking Instagram post image. Modern, vibrant design suitable for a tech company. No text in the image. Square format.",
	campaign.Whitepaper:       "Create a professional whitepaper cover design. Elegant, authoritative, business-appropriate. Abstract tech/data visualization elements. No text in the image. A4 portrait format.",
	campaign.LandingPage:      "Create a wide hero image for a product landing page. Modern, confident design with depth and soft lighting. No text in the image. 16:9 aspect ratio.",
}

// PromptInput is what the image prompt is built from.
type PromptInput struct {
	AssetType    campaign.AssetType
	Title        string
	Topic        string
	Tone         string
	BrandContext string
}

// BuildPrompt assembles the image prompt for an asset: a per-type style line,
// the subject, and optional brand visual guidelines.
func BuildPrompt(in PromptInput) string {
	style, ok := styles[in.AssetType]
	if !ok {
		style = styles[campaign.BlogArticle]
	}
	var sb strings.Builder
	sb.WriteString(style)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Topic: %s\nTheme: %s\nMood: %s\n\n", in.Title, in.Topic, in.Tone)
	sb.WriteString("The image should feel professional and be suitable for a B2B technology company. Use a cohesive color palette (blues, purples, teals). Photorealistic or high-quality illustration style.")
	if in.BrandContext != "" {
		sb.WriteString("\n\nBrand visual guidelines (follow these closely):\n")
		sb.WriteString(in.BrandContext)
	}
	return sb.String()
}
