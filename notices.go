package notices

import "github.com/goliatone/go-notices/service"

// Re-export the service package entry point so consumers can do
// `notices.New(...)` without importing internal wiring helpers.
type (
	Service       = service.Service
	Config        = service.Config
	Commands      = service.Commands
	Queries       = service.Queries
	DismissResult = service.DismissResult
)

// New constructs the go-notices runtime using the provided configuration.
func New(cfg Config) *Service {
	return service.New(cfg)
}
