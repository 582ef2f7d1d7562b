package redis

import (
	"context"

	rd "github.com/go-redis/redis/v9"
	"github.com/lvnexus/nexus/logger"
	"github.com/lvnexus/nexus/model"
	"github.com/lvnexus/nexus/persistence"
	"github.com/lvnexus/nexus/util"
	"go.uber.org/zap"
)

var _ persistence.FeedStateDao = new(redisFeedStateDao)

const FEED_STATE string = "FEED"

// The feed is a singleton aggregate, stored under one fixed field.
const FEED_SINGLETON_ID string = "live"

type redisFeedStateDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.FeedState]
}

func NewRedisFeedStateDao(conf Config) *redisFeedStateDao {
	return &redisFeedStateDao{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.FeedState](),
	}
}

func (rfd *redisFeedStateDao) Load() (*model.FeedState, error) {
	key := rfd.baseDao.getNamespaceKey(FEED_STATE, FEED_SINGLETON_ID)
	ctx := context.Background()
	val, err := rfd.redisClient.Get(ctx, key).Result()
	if err == rd.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Error("error in loading feed state", zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rfd.encoderDecoder.Decode([]byte(val))
}

func (rfd *redisFeedStateDao) Save(state *model.FeedState) error {
	key := rfd.baseDao.getNamespaceKey(FEED_STATE, FEED_SINGLETON_ID)
	ctx := context.Background()
	data, err := rfd.encoderDecoder.Encode(*state)
	if err != nil {
		return err
	}
	if err := rfd.redisClient.Set(ctx, key, data, 0).Err(); err != nil {
		logger.Error("error in saving feed state", zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}
