package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/docnarrator/internal/config"
	"github.com/nguyentantai21042004/docnarrator/internal/logger"
)

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed"`
	ResponseFormat string  `json:"response_format"`
}

type openAISynthesizer struct {
	apiKey        string
	endpoint      string
	model         string
	voice         string
	speed         float64
	format        string
	maxInputChars int
	client        *http.Client
	logger        logger.Logger
}

// NewOpenAI creates a Synthesizer on OpenAI's /audio/speech endpoint.
// A nil client means http.DefaultClient; timeouts come from the caller's context.
func NewOpenAI(ocfg config.OpenAIConfig, scfg config.SpeechConfig, client *http.Client, log logger.Logger) Synthesizer {
	if client == nil {
		client = http.DefaultClient
	}
	return &openAISynthesizer{
		apiKey:        ocfg.APIKey,
		endpoint:      strings.TrimRight(ocfg.BaseURL, "/") + "/audio/speech",
		model:         scfg.Model,
		voice:         scfg.Voice,
		speed:         scfg.Speed,
		format:        scfg.Format,
		maxInputChars: scfg.MaxInputChars,
		client:        client,
		logger:        log,
	}
}

// Synthesize converts text to audio. Text longer than the endpoint accepts is spoken in
// sentence-aligned pieces and the encoded segments are joined in order.
func (s *openAISynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &Error{Kind: KindEmptyInput, Err: errors.New("narration text is empty")}
	}

	chunks := splitText(text, s.maxInputChars)
	s.logger.Info(ctx, "Synthesizing %d characters (model %s, voice %s, speed %.2f, %d request(s))",
		len([]rune(text)), s.model, s.voice, s.speed, len(chunks))
	start := time.Now()

	var audio bytes.Buffer
	for i, chunk := range chunks {
		data, err := s.speak(ctx, chunk)
		if err != nil {
			if len(chunks) > 1 {
				return nil, fmt.Errorf("segment %d/%d: %w", i+1, len(chunks), err)
			}
			return nil, err
		}
		audio.Write(data)
	}

	s.logger.Info(ctx, "Synthesis completed in %s (%.2f KB)",
		time.Since(start).Round(time.Millisecond), float64(audio.Len())/1024)

	return &Audio{Data: audio.Bytes(), Format: s.format}, nil
}

func (s *openAISynthesizer) speak(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		Speed:          s.speed,
		ResponseFormat: s.format,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("speech request: %w", err)
		}
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &Error{
			Kind:       KindNetwork,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("openai error %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("read speech response: %w", err)
		}
		return nil, &Error{Kind: KindNetwork, Err: fmt.Errorf("read speech response: %w", err)}
	}
	if len(data) == 0 {
		return nil, &Error{Kind: KindNetwork, StatusCode: resp.StatusCode, Err: errors.New("empty audio response")}
	}
	return data, nil
}
