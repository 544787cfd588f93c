package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"photo-server/internal/config"
	"strings"
)

const defaultHFEndpoint = "https://api-inference.huggingface.co/models"
const defaultHFCaptionModel = "Salesforce/blip-image-captioning-large"
const defaultHFImageModel = "stabilityai/stable-diffusion-xl-base-1.0"

// HuggingFace talks to the serverless Inference API directly; there is no
// official Go SDK for it. Captioning posts the raw image bytes, generation
// posts a JSON prompt envelope, and both authenticate with a bearer token.
// The image model can use a separate key (the original deployment billed the
// two models to different accounts).
type HuggingFace struct {
	httpClient   *http.Client
	endpoint     string
	apiKey       string
	imageKey     string
	captionModel string
	imageModel   string
}

func NewHuggingFace(cfg config.AIConfig) *HuggingFace {
	h := &HuggingFace{
		httpClient:   newHTTPClient(cfg),
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		imageKey:     cfg.ImageKey(),
		captionModel: cfg.CaptionModel,
		imageModel:   cfg.ImageModel,
	}
	if h.endpoint == "" {
		h.endpoint = defaultHFEndpoint
	}
	if h.captionModel == "" {
		h.captionModel = defaultHFCaptionModel
	}
	if h.imageModel == "" {
		h.imageModel = defaultHFImageModel
	}
	return h
}

// coldStart is the Inference API's 503 body while a model is spinning up.
type coldStart struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

func (h *HuggingFace) Describe(ctx context.Context, data []byte, mimeType string) (string, error) {
	url := h.endpoint + "/" + h.captionModel

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return DefaultDescription, nil
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", mimeType)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.Printf("Error calling caption model %s: %v", h.captionModel, err)
		return DefaultDescription, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return DefaultDescription, nil
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		// A loading model is advisory, not a failure: hand the provider's
		// own message back so the client knows a retry will work.
		var cs coldStart
		if json.Unmarshal(body, &cs) == nil && cs.Error != "" && strings.Contains(strings.ToLower(cs.Error), "loading") {
			return cs.Error, nil
		}
		return DefaultDescription, nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("Caption model %s returned status %d", h.captionModel, resp.StatusCode)
		return DefaultDescription, nil
	}

	var captions []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &captions); err != nil || len(captions) == 0 || captions[0].GeneratedText == "" {
		return DefaultDescription, nil
	}

	return captions[0].GeneratedText, nil
}

func (h *HuggingFace) Generate(ctx context.Context, prompt string) ([]byte, string, error) {
	url := h.endpoint + "/" + h.imageModel

	payload, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+h.imageKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, "", &Error{Provider: "huggingface", StatusCode: http.StatusServiceUnavailable, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Provider: "huggingface", StatusCode: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", &Error{Provider: "huggingface", StatusCode: resp.StatusCode, Body: string(body)}
	}
	if len(body) == 0 {
		return nil, "", ErrNoImage
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}

	return body, mimeType, nil
}

var _ Gateway = (*HuggingFace)(nil)
