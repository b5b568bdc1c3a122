package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvAPIKey   = "OPENAI_API_KEY"
	EnvLogLevel = "LOG_LEVEL"
	EnvVariant  = "GOCHAT_VARIANT"

	keyAPIKey   = "api_key"
	keyLogLevel = "log_level"
	keyVariant  = "variant"
)

// Config holds everything the chat client reads from its environment.
type Config struct {
	APIKey   string
	LogLevel string
	Variant  Variant
}

// MissingCredentialError reports a required secret that is absent from the environment.
type MissingCredentialError struct {
	Var string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s not found", e.Var)
}

// New returns a viper instance bound to the process environment.
// No configuration file is read.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyVariant, Extended.Name)

	_ = v.BindEnv(keyAPIKey, EnvAPIKey)
	_ = v.BindEnv(keyLogLevel, EnvLogLevel)
	_ = v.BindEnv(keyVariant, EnvVariant)

	return v
}

// BindFlags lets command line flags override the environment.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range map[string]string{
		keyLogLevel: "log-level",
		keyVariant:  "variant",
	} {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// Load resolves the configuration. A missing API key is not an error here,
// see RequireAPIKey.
func Load(v *viper.Viper) (*Config, error) {
	variant, err := LookupVariant(v.GetString(keyVariant))
	if err != nil {
		return nil, err
	}

	return &Config{
		APIKey:   strings.TrimSpace(v.GetString(keyAPIKey)),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString(keyLogLevel))),
		Variant:  variant,
	}, nil
}

// RequireAPIKey returns the credential or a *MissingCredentialError.
func (c *Config) RequireAPIKey() (string, error) {
	if c == nil || c.APIKey == "" {
		return "", &MissingCredentialError{Var: EnvAPIKey}
	}
	return c.APIKey, nil
}

// Variant selects the request bound and the loop conveniences.
type Variant struct {
	Name      string
	MaxTokens int

	// Commands enables the "c" (copy) and "r" (resend) commands.
	Commands    bool
	ClearScreen bool
	Intro       bool
}

var (
	Basic = Variant{
		Name:      "basic",
		MaxTokens: 200,
	}
	Extended = Variant{
		Name:        "extended",
		MaxTokens:   3000,
		Commands:    true,
		ClearScreen: true,
		Intro:       true,
	}
)

var variants = map[string]Variant{
	Basic.Name:    Basic,
	Extended.Name: Extended,
}

func LookupVariant(name string) (Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Extended, nil
	}
	variant, ok := variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("unknown variant %q (want one of %s)", name, strings.Join(VariantNames(), ", "))
	}
	return variant, nil
}

func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
