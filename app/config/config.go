package config

import "time"

type Config struct {
	Server  HTTPServerConfig `json:"server" yaml:"server"`
	LLM     LLMConfig        `json:"llm" yaml:"llm"`
	Mail    MailConfig       `json:"mail" yaml:"mail"`
	Metrics MetricsConfig    `json:"metrics" yaml:"metrics"`
}

type HTTPServerConfig struct {
	Host         string        `json:"host" yaml:"host"`
	Port         int           `json:"port" yaml:"port"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

type LLMConfig struct {
	APIKey      string        `json:"api_key" yaml:"api_key"`
	BaseURL     string        `json:"base_url" yaml:"base_url"`
	Model       string        `json:"model" yaml:"model"`
	Temperature float64       `json:"temperature" yaml:"temperature"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

// MailConfig describes the SMTP relay and the sender identity used as "from".
type MailConfig struct {
	Host        string        `json:"host" yaml:"host"`
	Port        int           `json:"port" yaml:"port"`
	User        string        `json:"user" yaml:"user"`
	Password    string        `json:"password" yaml:"password"`
	InsecureTLS bool          `json:"insecure_tls" yaml:"insecure_tls"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

type MetricsConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: HTTPServerConfig{
			Host:         "0.0.0.0",
			Port:         5000,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 3 * time.Minute,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama3-8b-8192",
			Temperature: 0.7,
			Timeout:     2 * time.Minute,
		},
		Mail: MailConfig{
			Host:        "smtp.gmail.com",
			Port:        587,
			InsecureTLS: true,
			Timeout:     30 * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: ":2112",
		},
	}
}

// Missing lists the required settings that are empty. The service still
// starts without them; the first call that needs one fails.
func (c Config) Missing() []string {
	var missing []string
	if c.LLM.APIKey == "" {
		missing = append(missing, EnvLLMAPIKey)
	}
	if c.Mail.User == "" {
		missing = append(missing, EnvMailUser)
	}
	if c.Mail.Password == "" {
		missing = append(missing, EnvMailPassword)
	}
	return missing
}
