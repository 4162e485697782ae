package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/beaverschoice/paperdesk/agent/contract"
	llmx "github.com/beaverschoice/paperdesk/pkg/llm"
)

// Config carries the shared chat-model settings plus optional per-role
// overrides. A role falls back to the defaults when its override is unset
// (empty model, negative temperature).
type Config struct {
	BaseURL     string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey      string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model       string        `envconfig:"MODEL" split_words:"true" required:"true"`
	Temperature float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	MaxSteps    int           `envconfig:"MAX_STEPS" split_words:"true" default:"10"`
	Timeout     time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	SiteURL     string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName    string        `envconfig:"SITE_NAME" split_words:"true"`

	InventoryModel       string  `envconfig:"INVENTORY_MODEL" split_words:"true"`
	QuotingModel         string  `envconfig:"QUOTING_MODEL" split_words:"true"`
	SalesModel           string  `envconfig:"SALES_MODEL" split_words:"true"`
	InventoryTemperature float64 `envconfig:"INVENTORY_TEMPERATURE" split_words:"true" default:"-1"`
	QuotingTemperature   float64 `envconfig:"QUOTING_TEMPERATURE" split_words:"true" default:"-1"`
	SalesTemperature     float64 `envconfig:"SALES_TEMPERATURE" split_words:"true" default:"-1"`
}

// RoleSettings is the resolved model configuration for one role.
type RoleSettings struct {
	Model       string
	Temperature float64
	MaxSteps    int
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: chat api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be positive", contractx.ErrValidation)
	}
	return nil
}

// ClientConfig maps the shared settings onto the chat client config.
func (c Config) ClientConfig() llmx.Config {
	return llmx.Config{
		BaseURL:     strings.TrimSpace(c.BaseURL),
		APIKey:      strings.TrimSpace(c.APIKey),
		Model:       strings.TrimSpace(c.Model),
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
		SiteURL:     strings.TrimSpace(c.SiteURL),
		SiteName:    strings.TrimSpace(c.SiteName),
	}
}

// ForRole resolves the model and temperature for one role, applying
// overrides on top of the defaults.
func (c Config) ForRole(role contractx.Role) RoleSettings {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case contractx.RoleInventory:
		if v := strings.TrimSpace(c.InventoryModel); v != "" {
			modelName = v
		}
		if c.InventoryTemperature >= 0 {
			temp = c.InventoryTemperature
		}
	case contractx.RoleQuoting:
		if v := strings.TrimSpace(c.QuotingModel); v != "" {
			modelName = v
		}
		if c.QuotingTemperature >= 0 {
			temp = c.QuotingTemperature
		}
	case contractx.RoleSales:
		if v := strings.TrimSpace(c.SalesModel); v != "" {
			modelName = v
		}
		if c.SalesTemperature >= 0 {
			temp = c.SalesTemperature
		}
	}

	return RoleSettings{
		Model:       modelName,
		Temperature: temp,
		MaxSteps:    c.MaxSteps,
	}
}
