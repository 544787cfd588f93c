package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"photo-server/internal/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAICaptionModel = "gpt-4o-mini"
const defaultOpenAIImageModel = "dall-e-3"

// OpenAI captions through a vision chat completion and generates through the
// Images endpoint, both via the official SDK.
type OpenAI struct {
	client       openai.Client
	captionModel string
	imageModel   string
}

func NewOpenAI(cfg config.AIConfig) *OpenAI {
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(newHTTPClient(cfg)),
	)

	o := &OpenAI{
		client:       client,
		captionModel: cfg.CaptionModel,
		imageModel:   cfg.ImageModel,
	}
	if o.captionModel == "" {
		o.captionModel = defaultOpenAICaptionModel
	}
	if o.imageModel == "" {
		o.imageModel = defaultOpenAIImageModel
	}
	return o
}

func (o *OpenAI) Describe(ctx context.Context, data []byte, mimeType string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	contentParts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(describePrompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}),
	}

	params := openai.ChatCompletionNewParams{
		Model: o.captionModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: contentParts,
					},
				},
			},
		},
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		log.Printf("Error calling OpenAI caption model: %v", err)
		return DefaultDescription, nil
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return DefaultDescription, nil
	}

	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) ([]byte, string, error) {
	params := openai.ImageGenerateParams{
		Model:          openai.ImageModel(o.imageModel),
		Prompt:         prompt,
		N:              openai.Int(1),
		ResponseFormat: openai.ImageGenerateParamsResponseFormat("b64_json"),
	}

	resp, err := o.client.Images.Generate(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, "", &Error{Provider: "openai", StatusCode: apiErr.StatusCode, Body: apiErr.Message}
		}
		return nil, "", &Error{Provider: "openai", StatusCode: http.StatusServiceUnavailable, Body: err.Error()}
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, "", ErrNoImage
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, "", ErrNoImage
	}

	return data, "image/png", nil
}

var _ Gateway = (*OpenAI)(nil)
