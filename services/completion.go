package services

import (
	ctx "context"
	"errors"

	"github.com/requiem-ai/gochat/context"
	"github.com/requiem-ai/gochat/llm"
)

// CompletionService owns the process-wide completion client.
type CompletionService struct {
	context.DefaultService

	agent llm.Client
}

const COMPLETION_SVC = "completion_svc"

func (svc CompletionService) Id() string {
	return COMPLETION_SVC
}

func (svc *CompletionService) Configure(appCtx *context.Context) error {
	if err := svc.DefaultService.Configure(appCtx); err != nil {
		return err
	}

	if svc.agent != nil {
		return nil
	}

	setupSvc, ok := svc.Service(SETUP_SVC).(*SetupService)
	if !ok {
		return errors.New("setup service not available")
	}

	svc.agent = llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:    setupSvc.APIKey(),
		MaxTokens: setupSvc.Variant().MaxTokens,
	})

	return nil
}

func (svc *CompletionService) Complete(c ctx.Context, prompt string) (string, error) {
	resp, err := svc.agent.Send(c, llm.Request{
		Message: prompt,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
