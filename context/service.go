package context

// Service is a unit managed by a Context.
// Configure is called for every service before any service is started.
// Start may block; a blocking service returns once it is done running.
type Service interface {
	Id() string
	Configure(ctx *Context) error
	Start() error
	Shutdown()
}

// DefaultService provides no-op lifecycle hooks and access to sibling services.
// Embed it and override what is needed.
type DefaultService struct {
	ctx *Context
}

func (svc *DefaultService) Configure(ctx *Context) error {
	svc.ctx = ctx
	return nil
}

func (svc *DefaultService) Start() error {
	return nil
}

func (svc *DefaultService) Shutdown() {}

// Service looks up a sibling service by id, nil if the service was not configured
// through a Context or the id is unknown.
func (svc *DefaultService) Service(id string) Service {
	if svc.ctx == nil {
		return nil
	}
	return svc.ctx.Service(id)
}
