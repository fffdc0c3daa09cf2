// Package server exposes the individual pipeline stages over HTTP.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"campaign_content_creator/brand"
	"campaign_content_creator/campaign"
	"campaign_content_creator/generator"
	"campaign_content_creator/imagegen"
	"campaign_content_creator/pipeline"
	"campaign_content_creator/publisher"
	"campaign_content_creator/render"
)

const (
	requestTimeout = 5 * time.Minute
	maxBodyBytes   = 10 << 20
)

type Server struct {
	stages   *pipeline.Stages
	brand    brand.Config
	language string
	log      zerolog.Logger
}

// New builds the server. language is used for asset generation requests that
// do not name one.
func New(stages *pipeline.Stages, brandCfg brand.Config, language string, log zerolog.Logger) (*Server, error) {
	if stages == nil || stages.LLM == nil || stages.Registry == nil {
		return nil, errors.New("pipeline stages with llm client and registry required")
	}
	if language == "" {
		return nil, errors.New("default language required")
	}
	return &Server{stages: stages, brand: brandCfg, language: language, log: log}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, s.logMiddleware)

	r.Get("/health", s.handleHealth)
	r.Post("/parse-brief", s.handleParseBrief)
	r.Post("/plan-content", s.handlePlanContent)
	r.Post("/generate-asset", s.handleGenerateAsset)
	r.Post("/review-assets", s.handleReviewAssets)
	r.Post("/generate-image", s.handleGenerateImage)
	r.Post("/generate-pdf", s.handleGeneratePDF)
	r.Post("/publish", s.handlePublish)
	return r
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"brandLoaded": s.brand.Loaded,
		"images":      s.stages.Images != nil,
		"pdf":         s.stages.PDF != nil,
		"publish":     s.stages.Publisher != nil,
	})
}

type parseBriefReq struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language"`
}

func (s *Server) handleParseBrief(w http.ResponseWriter, r *http.Request) {
	var req parseBriefReq
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	brief, err := s.stages.ParseBrief(ctx, req.Prompt, req.Language, s.brand.TextContext)
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brief)
}

type planContentReq struct {
	Brief *campaign.Brief `json:"brief"`
}

func (s *Server) handlePlanContent(w http.ResponseWriter, r *http.Request) {
	var req planContentReq
	if !decode(w, r, &req) {
		return
	}
	if req.Brief == nil {
		writeError(w, http.StatusBadRequest, "brief is required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	plan, err := s.stages.PlanContent(ctx, *req.Brief)
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type generateAssetReq struct {
	PlannedAsset *campaign.PlannedAsset `json:"plannedAsset"`
	BrandVoice   string                 `json:"brandVoice"`
	Language     string                 `json:"language"`
}

func (s *Server) handleGenerateAsset(w http.ResponseWriter, r *http.Request) {
	var req generateAssetReq
	if !decode(w, r, &req) {
		return
	}
	if req.PlannedAsset == nil {
		writeError(w, http.StatusBadRequest, "plannedAsset is required")
		return
	}
	gen, err := s.stages.Registry.Get(req.PlannedAsset.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	asset := *req.PlannedAsset
	if asset.ID == "" {
		asset.ID = campaign.AssetID(asset.Type, 1)
	}
	lang := req.Language
	if lang == "" {
		lang = s.language
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	out, err := gen.Generate(ctx, asset, generator.Options{
		BrandVoice:   req.BrandVoice,
		Language:     lang,
		BrandContext: s.brand.TextContext,
	})
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type reviewAssetsReq struct {
	Brief  *campaign.Brief           `json:"brief"`
	Plan   *campaign.Plan            `json:"plan"`
	Assets []campaign.GeneratedAsset `json:"assets"`
}

type reviewAssetsResp struct {
	Review campaign.Review           `json:"review"`
	Assets []campaign.GeneratedAsset `json:"assets"`
}

func (s *Server) handleReviewAssets(w http.ResponseWriter, r *http.Request) {
	var req reviewAssetsReq
	if !decode(w, r, &req) {
		return
	}
	if req.Brief == nil || req.Plan == nil || len(req.Assets) == 0 {
		writeError(w, http.StatusBadRequest, "brief, plan and assets are required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	review, assets, err := s.stages.ReviewAssets(ctx, *req.Brief, *req.Plan, req.Assets, s.brand.TextContext)
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewAssetsResp{Review: review, Assets: assets})
}

type generateImageReq struct {
	Asset *struct {
		Type  campaign.AssetType `json:"type"`
		Title string             `json:"title"`
		Topic string             `json:"topic"`
		Tone  string             `json:"tone"`
	} `json:"asset"`
}

type generateImageResp struct {
	Base64   string `json:"base64"`
	MIMEType string `json:"mimeType"`
}

func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateImageReq
	if !decode(w, r, &req) {
		return
	}
	if req.Asset == nil || req.Asset.Title == "" {
		writeError(w, http.StatusBadRequest, "asset with title is required")
		return
	}
	if s.stages.Images == nil {
		writeError(w, http.StatusServiceUnavailable, "image generation is not configured")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	img, err := s.stages.Images.Generate(ctx, imagegen.BuildPrompt(imagegen.PromptInput{
		AssetType:    req.Asset.Type,
		Title:        req.Asset.Title,
		Topic:        req.Asset.Topic,
		Tone:         req.Asset.Tone,
		BrandContext: s.brand.ImageContext,
	}))
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generateImageResp{
		Base64:   base64.StdEncoding.EncodeToString(img.Data),
		MIMEType: img.MIMEType,
	})
}

type generatePDFReq struct {
	Content          string `json:"content"`
	Title            string `json:"title"`
	Language         string `json:"language"`
	CoverImageBase64 string `json:"coverImageBase64"`
}

func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req generatePDFReq
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" || strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "content and title are required")
		return
	}
	if s.stages.PDF == nil {
		writeError(w, http.StatusServiceUnavailable, "pdf rendering is not configured")
		return
	}
	var cover []byte
	if req.CoverImageBase64 != "" {
		if strings.HasPrefix(req.CoverImageBase64, "data:") {
			cover = []byte(req.CoverImageBase64)
		} else {
			data, err := base64.StdEncoding.DecodeString(req.CoverImageBase64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "coverImageBase64 is not valid base64")
				return
			}
			cover = data
		}
	}
	html, err := render.PrintHTML(render.PrintInput{
		Title:      req.Title,
		Content:    req.Content,
		Language:   req.Language,
		CoverImage: cover,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	data, err := s.stages.PDF.Render(ctx, html)
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+render.Slugify(req.Title)+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type publishReq struct {
	Assets       []campaign.GeneratedAsset `json:"assets"`
	CampaignName string                    `json:"campaignName"`
	Repo         string                    `json:"repo"`
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishReq
	if !decode(w, r, &req) {
		return
	}
	if len(req.Assets) == 0 || strings.TrimSpace(req.CampaignName) == "" {
		writeError(w, http.StatusBadRequest, "assets and campaignName are required")
		return
	}
	if s.stages.Publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "publishing is not configured")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	res, err := s.stages.Publish(ctx, req.Assets, req.CampaignName, publisher.PublishOptions{Repo: req.Repo})
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- Helpers ---

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return false
	}
	return true
}

func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", middleware.GetReqID(r.Context())).Msg("stage failed")
	status := http.StatusBadGateway
	if errors.Is(err, generator.ErrUnknownAssetType) {
		status = http.StatusBadRequest
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		s.log.Info().
			Str("method", r.Method).
			Str("path", path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
