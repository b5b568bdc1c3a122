package services

import (
	"errors"

	"github.com/requiem-ai/gochat/config"
	"github.com/requiem-ai/gochat/context"
	"github.com/rs/zerolog/log"
)

// SetupService validates the environment before anything touches the terminal.
type SetupService struct {
	context.DefaultService

	Config *config.Config

	apiKey string
}

const SETUP_SVC = "setup_svc"

func (svc SetupService) Id() string {
	return SETUP_SVC
}

func (svc *SetupService) Configure(ctx *context.Context) error {
	if err := svc.DefaultService.Configure(ctx); err != nil {
		return err
	}

	if svc.Config == nil {
		return errors.New("setup service has no configuration")
	}

	key, err := svc.Config.RequireAPIKey()
	if err != nil {
		return err
	}
	svc.apiKey = key

	log.Debug().Str("variant", svc.Config.Variant.Name).Msg("environment validated")

	return nil
}

func (svc *SetupService) APIKey() string {
	return svc.apiKey
}

func (svc *SetupService) Variant() config.Variant {
	return svc.Config.Variant
}
