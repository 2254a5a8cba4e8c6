// Package claude реализует анализ изображений-доказательств через Claude API.
package claude

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
)

const maxTokens = 1024

var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

var supportedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

const promptTemplate = `Task: Verify if this image matches a reported emergency incident.
Reported Type: %s
Reported Description: %s

Please analyze the image and provide:
1. "is_verified": true/false (Does the image clearly show evidence of the reported incident?)
2. "is_fake": true/false (Does the image look staged, edited, AI-generated or unrelated stock imagery?)
3. "confidence_score": 0-100 (How confident are you in this assessment?)
4. "analysis": A brief (1-2 sentence) explanation of what you see.
5. "severity_estimate": low/medium/high/critical based on visual evidence.

Respond ONLY in JSON format like this:
{
    "is_verified": true,
    "is_fake": false,
    "confidence_score": 95,
    "analysis": "Visible smoke and flames in a residential area.",
    "severity_estimate": "high"
}`

// Client - анализатор изображений поверх Messages API
type Client struct {
	client anthropic.Client
	model  string
	ready  bool
}

// New создает клиента. Без ключа клиент создается, но Analyze возвращает models.ErrAnalyzerUnavailable.
func New(apiKey, model string, opts ...option.RequestOption) *Client {
	if apiKey == "" {
		return &Client{model: model}
	}
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// повторами управляет пул верификации
		option.WithMaxRetries(0),
	}
	return &Client{
		client: anthropic.NewClient(append(base, opts...)...),
		model:  model,
		ready:  true,
	}
}

// Analyze отправляет изображение с описанием инцидента и разбирает вердикт
func (c *Client) Analyze(ctx context.Context, image models.Image, incidentType, description string) (*models.Verdict, error) {
	if !c.ready {
		return nil, models.ErrAnalyzerUnavailable
	}
	if !supportedMediaTypes[image.MediaType] {
		return nil, fmt.Errorf("claude: unsupported media type %q", image.MediaType)
	}
	if len(image.Data) == 0 {
		return nil, errors.New("claude: empty image")
	}

	encoded := base64.StdEncoding.EncodeToString(image.Data)
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(image.MediaType, encoded),
				anthropic.NewTextBlock(buildPrompt(incidentType, description)),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude: send request: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return parseVerdict(text.String())
}

func buildPrompt(incidentType, description string) string {
	return fmt.Sprintf(promptTemplate, incidentType, description)
}

// parseVerdict берет первый JSON-объект из ответа: модель иногда добавляет текст вокруг него
func parseVerdict(text string) (*models.Verdict, error) {
	raw := jsonBlock.FindString(text)
	if raw == "" {
		return nil, fmt.Errorf("claude: no JSON object in response: %q", truncate(text, 200))
	}

	v := &models.Verdict{}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return nil, fmt.Errorf("claude: malformed verdict: %w", err)
	}
	return v, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
