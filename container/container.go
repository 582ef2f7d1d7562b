package container

import (
	"github.com/lvnexus/nexus/config"
	"github.com/lvnexus/nexus/persistence"
	rd "github.com/lvnexus/nexus/persistence/redis"
)

type DIContainer struct {
	initialized  bool
	feedStateDao persistence.FeedStateDao
	workflowDao  persistence.WorkflowDao
}

func (p *DIContainer) setInitialized() {
	p.initialized = true
}

func NewDiContainer() *DIContainer {
	return &DIContainer{
		initialized: false,
	}
}

func (d *DIContainer) Init(conf config.Config) {
	defer d.setInitialized()

	switch conf.StorageType {
	case config.STORAGE_TYPE_REDIS:
		rdConf := rd.Config{
			Addrs:     conf.RedisConfig.Addrs,
			Namespace: conf.RedisConfig.Namespace,
		}
		d.feedStateDao = rd.NewRedisFeedStateDao(rdConf)
		d.workflowDao = rd.NewRedisWorkflowDao(rdConf)
	default:
		d.feedStateDao = persistence.NewInMemFeedStateDao()
		d.workflowDao = persistence.NewInMemWorkflowDao()
	}
}

func (d *DIContainer) GetFeedStateDao() persistence.FeedStateDao {
	if !d.initialized {
		panic("persistence not initalized")
	}
	return d.feedStateDao
}

func (d *DIContainer) GetWorkflowDao() persistence.WorkflowDao {
	if !d.initialized {
		panic("persistence not initalized")
	}
	return d.workflowDao
}
