package persistence

import (
	"context"
	"errors"
	"ponydiary/internal/persistence/interfaces"
	"ponydiary/internal/providers"
	"ponydiary/internal/structures"
	"sync"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	kv       interfaces.KVStoreInterface
	snapshot interfaces.FlusherInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Storage.SaveInterval

	s.cron.AddFunc(gron.Every(interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.flush(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeApp, "Periodic flush complete")
	})

	s.cron.Start()
}

func (s *Scheduler) flush() error {
	ctx := context.Background()
	return errors.Join(s.kv.Flush(ctx), s.snapshot.Flush(ctx))
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting journal and offline cache...")
	err := s.flush()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

// NewScheduler flushes the journal store and the offline cache snapshot on a fixed interval.
func NewScheduler(config *structures.Config, logger providers.Logger, kv interfaces.KVStoreInterface, snapshot interfaces.FlusherInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		kv:       kv,
		snapshot: snapshot,
	}
}
