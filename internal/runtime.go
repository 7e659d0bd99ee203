package internal

import (
	"ponydiary/internal/providers"
	"ponydiary/internal/services"
	"ponydiary/internal/structures"
)

// Runtime is the journal without the HTTP surface, used by one-shot CLI commands.
type Runtime struct {
	Conf    *structures.Config
	Logger  providers.Logger
	Journal services.JournalServiceInterface
}

func NewRuntime(conf *structures.Config, logger providers.Logger, journal services.JournalServiceInterface) *Runtime {
	return &Runtime{
		Conf:    conf,
		Logger:  logger,
		Journal: journal,
	}
}
