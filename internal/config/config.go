package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Config struct {
	Gemini      GeminiConfig      `yaml:"gemini"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Narrator    NarratorConfig    `yaml:"narrator"`
	Speech      SpeechConfig      `yaml:"speech"`
	Extractor   ExtractorConfig   `yaml:"extractor"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Paths       PathsConfig       `yaml:"paths"`
	Watcher     WatcherConfig     `yaml:"watcher"`
	Server      ServerConfig      `yaml:"server"`
	Limits      LimitsConfig      `yaml:"limits"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Tracing     TracingConfig     `yaml:"tracing"`
}

// GeminiConfig configures the text-generation service. APIKey comes from GEMINI_API_KEY.
type GeminiConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// OpenAIConfig configures the speech service. APIKey comes from OPENAI_API_KEY.
type OpenAIConfig struct {
	APIKey  string `yaml:"-"`
	BaseURL string `yaml:"base_url"`
}

type NarratorConfig struct {
	Enabled         *bool    `yaml:"enabled"`
	Style           string   `yaml:"style"`
	Temperature     *float32 `yaml:"temperature"`
	MaxOutputTokens int32    `yaml:"max_output_tokens"`
}

const defaultTemperature float32 = 0.7

// RewriteEnabled reports whether narration rewriting is on. Defaults to true.
func (n NarratorConfig) RewriteEnabled() bool {
	return n.Enabled == nil || *n.Enabled
}

// SamplingTemperature returns the configured temperature, 0.7 when unset. An explicit 0 is kept.
func (n NarratorConfig) SamplingTemperature() float32 {
	if n.Temperature == nil {
		return defaultTemperature
	}
	return *n.Temperature
}

type SpeechConfig struct {
	Model         string  `yaml:"model"`
	Voice         string  `yaml:"voice"`
	Speed         float64 `yaml:"speed"`
	Format        string  `yaml:"format"`
	MaxInputChars int     `yaml:"max_input_chars"`
}

type ExtractorConfig struct {
	// PdfToTextPath enables the pdftotext fallback when set.
	PdfToTextPath string `yaml:"pdftotext_path"`
}

type PipelineConfig struct {
	StageTimeout time.Duration `yaml:"stage_timeout"`
}

type PathsConfig struct {
	Input      string `yaml:"input"`
	Processing string `yaml:"processing"`
	Output     string `yaml:"output"`
	Archived   string `yaml:"archived"`
	Failed     string `yaml:"failed"`
	Temp       string `yaml:"temp"`
}

type WatcherConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type LimitsConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Protocol    string `yaml:"protocol"`
	ServiceName string `yaml:"service_name"`
}

var (
	narrationStyles = []interface{}{"storytelling", "professional", "casual"}
	speechVoices    = []interface{}{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}
	// long texts are synthesized in segments and joined byte-wise; only MP3 frames survive that
	audioFormats = []interface{}{"mp3"}
)

func (c *Config) setDefaults() {
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.Narrator.Style == "" {
		c.Narrator.Style = "storytelling"
	}
	if c.Narrator.MaxOutputTokens == 0 {
		c.Narrator.MaxOutputTokens = 4000
	}
	if c.Speech.Model == "" {
		c.Speech.Model = "tts-1"
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = "alloy"
	}
	if c.Speech.Speed == 0 {
		c.Speech.Speed = 1.0
	}
	if c.Speech.Format == "" {
		c.Speech.Format = "mp3"
	}
	if c.Speech.MaxInputChars == 0 {
		c.Speech.MaxInputChars = 4096
	}
	if c.Pipeline.StageTimeout == 0 {
		c.Pipeline.StageTimeout = 60 * time.Second
	}
	if c.Paths.Processing == "" {
		c.Paths.Processing = "data/processing"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Failed == "" {
		c.Paths.Failed = "data/failed"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Limits.MaxUploadBytes == 0 {
		c.Limits.MaxUploadBytes = 50 << 20
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Tracing.Protocol == "" {
		c.Tracing.Protocol = "grpc"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "docnarrator"
	}
}

// Validate fills defaults and checks the configuration. A missing credential is reported here,
// at startup, rather than on the first request.
func (c *Config) Validate() error {
	c.setDefaults()

	if c.Narrator.RewriteEnabled() {
		if err := validation.ValidateStruct(&c.Gemini,
			validation.Field(&c.Gemini.APIKey, validation.Required.Error("GEMINI_API_KEY is required")),
			validation.Field(&c.Gemini.Model, validation.Required),
		); err != nil {
			return err
		}
	}

	if err := validation.ValidateStruct(&c.OpenAI,
		validation.Field(&c.OpenAI.APIKey, validation.Required.Error("OPENAI_API_KEY is required")),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&c.Narrator,
		validation.Field(&c.Narrator.Style, validation.In(narrationStyles...)),
		validation.Field(&c.Narrator.Temperature, validation.Min(float32(0)), validation.Max(float32(2))),
		validation.Field(&c.Narrator.MaxOutputTokens, validation.Min(int32(1))),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&c.Speech,
		validation.Field(&c.Speech.Voice, validation.In(speechVoices...)),
		validation.Field(&c.Speech.Speed, validation.Min(0.25), validation.Max(4.0)),
		validation.Field(&c.Speech.Format, validation.In(audioFormats...)),
		validation.Field(&c.Speech.MaxInputChars, validation.Min(1)),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&c.Paths,
		validation.Field(&c.Paths.Input, validation.When(c.Watcher.Enabled, validation.Required)),
		validation.Field(&c.Paths.Output, validation.When(c.Watcher.Enabled, validation.Required)),
	); err != nil {
		return err
	}

	if !c.Watcher.Enabled && !c.Server.Enabled {
		return validation.NewError("validation_no_frontend", "one of watcher.enabled or server.enabled must be true")
	}

	return validation.ValidateStruct(&c.Tracing,
		validation.Field(&c.Tracing.Protocol, validation.In("grpc", "http/protobuf")),
	)
}
