package agent

import (
	"math/rand"
	"sync"
	"time"

	"github.com/lvnexus/nexus/analytics"
	"github.com/lvnexus/nexus/automation"
	"github.com/lvnexus/nexus/config"
	"github.com/lvnexus/nexus/container"
	"github.com/lvnexus/nexus/feed"
	"github.com/lvnexus/nexus/generator"
	"github.com/lvnexus/nexus/logger"
	"github.com/lvnexus/nexus/rest"
	"github.com/lvnexus/nexus/util"
	"go.uber.org/zap"
)

const statsHeartbeatSeconds int = 60

type Agent struct {
	Config            config.Config
	container         *container.DIContainer
	feedService       *feed.Service
	automationService *automation.Service
	collector         analytics.Collector
	httpServer        *rest.Server
	heartbeat         *util.TickWorker
	heartbeatStop     chan struct{}
	shutdown          bool
	shutdownLock      sync.Mutex
	wg                sync.WaitGroup
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config: config,
	}
	setup := []func() error{
		a.setupContainer,
		a.setupCollector,
		a.setupFeedService,
		a.setupAutomationService,
		a.setupHttpServer,
		a.setupHeartbeat,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupContainer() error {
	a.container = container.NewDiContainer()
	a.container.Init(a.Config)
	return nil
}

func (a *Agent) setupCollector() error {
	if a.Config.AnalyticsFile == "" {
		a.collector = analytics.NoopCollector{}
		return nil
	}
	collector, err := analytics.NewLogFileCollector(a.Config.AnalyticsFile)
	if err != nil {
		return err
	}
	a.collector = collector
	return nil
}

func (a *Agent) setupFeedService() error {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	gen := generator.New(rnd)
	a.feedService = feed.NewService(a.container.GetFeedStateDao(), gen, rnd, &a.wg, a.Config.FeedSaveCapacity)
	return nil
}

func (a *Agent) setupAutomationService() error {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	gen := generator.New(rnd)
	a.automationService = automation.NewService(a.container.GetWorkflowDao(), a.feedService, gen, rnd, a.collector)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.feedService, a.automationService)
	if err != nil {
		return err
	}
	return nil
}

func (a *Agent) setupHeartbeat() error {
	a.heartbeatStop = make(chan struct{})
	a.heartbeat = util.NewTickWorker("stats-heartbeat", statsHeartbeatSeconds, a.heartbeatStop, func() {
		stats := a.feedService.GetStats()
		logger.Info("feed stats", zap.Int("total", stats.Total), zap.Int("critical", stats.Critical), zap.Int("high", stats.High))
	}, &a.wg)
	a.heartbeat.Start()
	return nil
}

func (a *Agent) Start() error {
	go func() {
		err := a.httpServer.Start()
		if err != nil {
			_ = a.Shutdown()
			panic(err)
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true

	shutdown := []func() error{
		a.httpServer.Stop,
		func() error {
			a.heartbeat.Stop()
			return nil
		},
		a.feedService.Stop,
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	logger.Info("waiting for all services to shutdown...")
	a.wg.Wait()
	return nil
}
