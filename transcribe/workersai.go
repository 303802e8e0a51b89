package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultModel = "@cf/openai/whisper-large-v3-turbo"

// WorkersAI calls the Cloudflare Workers AI inference endpoint. Audio
// travels base64-encoded inside a JSON body, the way the run API
// expects it for whisper models.
type WorkersAI struct {
	httpClient *http.Client
	baseURL    string
	accountId  string
	apiToken   string
	model      string
}

func NewWorkersAI(accountId, apiToken, model string) *WorkersAI {
	if model == "" {
		model = DefaultModel
	}
	return &WorkersAI{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    "https://api.cloudflare.com/client/v4",
		accountId:  accountId,
		apiToken:   apiToken,
		model:      model,
	}
}

type workersAIRequest struct {
	Audio string `json:"audio"`
	Task  string `json:"task"`
}

type workersAIResponse struct {
	Result struct {
		Text  string `json:"text"`
		Words []struct {
			Word  string  `json:"word"`
			Start float64 `json:"start"`
			End   float64 `json:"end"`
		} `json:"words"`
		VTT string `json:"vtt"`
	} `json:"result"`
	Success bool `json:"success"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (w *WorkersAI) Transcribe(ctx context.Context, audio []byte) (*Result, error) {
	body, err := json.Marshal(workersAIRequest{
		Audio: base64.StdEncoding.EncodeToString(audio),
		Task:  "transcribe",
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", w.baseURL, w.accountId, w.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+w.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate subtitles: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to generate subtitles: %w", err)
	}

	var parsed workersAIResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("failed to generate subtitles: unexpected response (status %d)", resp.StatusCode)
	}
	if !parsed.Success {
		if len(parsed.Errors) > 0 {
			return nil, fmt.Errorf("failed to generate subtitles: %s", parsed.Errors[0].Message)
		}
		return nil, fmt.Errorf("failed to generate subtitles: inference failed (status %d)", resp.StatusCode)
	}

	result := &Result{
		Text: parsed.Result.Text,
		VTT:  parsed.Result.VTT,
	}
	for _, word := range parsed.Result.Words {
		result.Words = append(result.Words, Word{Word: word.Word, Start: word.Start, End: word.End})
	}
	return result, nil
}
