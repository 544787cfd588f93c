package provider

import (
	"context"
	"errors"
	"log"
	"net/http"
	"photo-server/internal/config"

	"google.golang.org/genai"
)

const describePrompt = "Describe this image in detail."

const defaultGeminiCaptionModel = "gemini-2.5-flash"
const defaultGeminiImageModel = "gemini-2.5-flash-image-preview"

// Gemini talks to the Gemini API through the official genai SDK.
type Gemini struct {
	client       *genai.Client
	captionModel string
	imageModel   string
}

func NewGemini(ctx context.Context, cfg config.AIConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: newHTTPClient(cfg),
	})
	if err != nil {
		return nil, err
	}

	g := &Gemini{
		client:       client,
		captionModel: cfg.CaptionModel,
		imageModel:   cfg.ImageModel,
	}
	if g.captionModel == "" {
		g.captionModel = defaultGeminiCaptionModel
	}
	if g.imageModel == "" {
		g.imageModel = defaultGeminiImageModel
	}
	return g, nil
}

func (g *Gemini) Describe(ctx context.Context, data []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		{Text: describePrompt},
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.captionModel, contents, nil)
	if err != nil {
		log.Printf("Error calling Gemini caption model: %v", err)
		return DefaultDescription, nil
	}

	description := ""
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				description += part.Text
			}
		}
	}
	if description == "" {
		return DefaultDescription, nil
	}

	return description, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) ([]byte, string, error) {
	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, genai.Text(prompt), genConfig)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, "", &Error{Provider: "gemini", StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return nil, "", &Error{Provider: "gemini", StatusCode: http.StatusServiceUnavailable, Body: err.Error()}
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				return part.InlineData.Data, mimeType, nil
			}
		}
	}

	return nil, "", ErrNoImage
}

var _ Gateway = (*Gemini)(nil)
