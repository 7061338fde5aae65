package routing

import "fmt"

// Config defines the connection parameters for the routing provider.
type Config struct {
	// BaseURL is the provider endpoint, e.g. https://atlas.example.com.
	BaseURL string `json:"base_url"`
	// APIKey is the subscription key sent with every request.
	APIKey string `json:"api_key"`
	// TimeoutSeconds bounds each request. Defaults to 10.
	TimeoutSeconds int `json:"timeout_seconds"`
	// CountrySet narrows geocoding results, e.g. "AU".
	CountrySet string `json:"country_set"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	if c.CountrySet == "" {
		c.CountrySet = "AU"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("routing base_url is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("routing api_key is required")
	}
	return nil
}
