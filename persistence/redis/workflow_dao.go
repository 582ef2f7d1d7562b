package redis

import (
	"context"
	"sort"

	rd "github.com/go-redis/redis/v9"
	"github.com/lvnexus/nexus/logger"
	"github.com/lvnexus/nexus/model"
	"github.com/lvnexus/nexus/persistence"
	"github.com/lvnexus/nexus/util"
	"go.uber.org/zap"
)

var _ persistence.WorkflowDao = new(redisWorkflowDao)

const WORKFLOW_DEF string = "WORKFLOW"

type redisWorkflowDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.WorkflowEntityState]
}

func NewRedisWorkflowDao(conf Config) *redisWorkflowDao {
	return &redisWorkflowDao{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.WorkflowEntityState](),
	}
}

func (rwd *redisWorkflowDao) Save(wf model.WorkflowEntityState) error {
	data, err := rwd.encoderDecoder.Encode(wf)
	if err != nil {
		return err
	}
	key := rwd.baseDao.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	if err := rwd.redisClient.HSet(ctx, key, []string{wf.Id, string(data)}).Err(); err != nil {
		logger.Error("error in saving workflow", zap.String("workflow", wf.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rwd *redisWorkflowDao) Get(id string) (*model.WorkflowEntityState, error) {
	key := rwd.baseDao.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	wfStr, err := rwd.redisClient.HGet(ctx, key, id).Result()
	if err == rd.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Error("error in getting workflow", zap.String("workflow", id), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rwd.encoderDecoder.Decode([]byte(wfStr))
}

func (rwd *redisWorkflowDao) List() ([]model.WorkflowEntityState, error) {
	key := rwd.baseDao.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	entries, err := rwd.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		logger.Error("error in listing workflows", zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	workflows := make([]model.WorkflowEntityState, 0, len(entries))
	for _, wfStr := range entries {
		wf, err := rwd.encoderDecoder.Decode([]byte(wfStr))
		if err != nil {
			return nil, persistence.StorageLayerError{Message: err.Error()}
		}
		workflows = append(workflows, *wf)
	}
	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt < workflows[j].CreatedAt
	})
	return workflows, nil
}
