package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// ModelInfo represents information about an Ollama model
type ModelInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
}

// ListModelsResponse represents the response from listing models
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ModelSelector resolves which local model to use for chat and generation
type ModelSelector struct {
	client *Client
}

// NewModelSelector creates a new model selector
func NewModelSelector(client *Client) *ModelSelector {
	return &ModelSelector{client: client}
}

// ListModels lists all available Ollama models
func (ms *ModelSelector) ListModels(ctx context.Context) ([]ModelInfo, error) {
	url := fmt.Sprintf("%s/api/tags", ms.client.baseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := ms.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error: %d - %s", resp.StatusCode, string(body))
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Models, nil
}

// Resolve returns preferred if it is installed, otherwise the best
// available tool-capable model.
func (ms *ModelSelector) Resolve(ctx context.Context, preferred string) (string, error) {
	models, err := ms.ListModels(ctx)
	if err != nil {
		return "", err
	}
	if len(models) == 0 {
		return "", fmt.Errorf("no models available")
	}

	if preferred != "" {
		for _, model := range models {
			if model.Name == preferred {
				return preferred, nil
			}
		}
	}

	// Models known to handle tool calling well, in preference order
	priority := []string{"llama3.2", "llama3.1", "qwen2.5", "mistral", "llama3"}
	for _, p := range priority {
		for _, model := range models {
			if strings.Contains(strings.ToLower(model.Name), p) {
				return model.Name, nil
			}
		}
	}

	// Fall back to the largest installed model
	sort.Slice(models, func(i, j int) bool {
		return models[i].Size > models[j].Size
	})
	return models[0].Name, nil
}
