package library

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	redisclient "github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/redis"
)

const (
	// partitionsKey is a sorted set of partition names scored by first save
	partitionsKey   = "library:partitions"
	partitionSeqKey = "library:partition_seq"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis library repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed library
func NewRedis(cfg *RedisConfig) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{
		client: cfg.Client,
	}, nil
}

func (r *redisRepository) ListPartitions(ctx context.Context, _ ListPartitionsInput) (*ListPartitionsOutput, error) {
	names, err := r.client.ZRange(ctx, partitionsKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list partitions")
	}

	out := &ListPartitionsOutput{Partitions: make([]PartitionIndex, 0, len(names))}
	for _, name := range names {
		raw, err := r.client.Get(ctx, indexKey(name)).Result()
		if err != nil {
			if err == redis.Nil {
				// saved name without an index; skip until the next save
				continue
			}
			return nil, errors.Wrapf(err, "failed to get index of partition %s", name)
		}

		var idx PartitionIndex
		if err := json.Unmarshal([]byte(raw), &idx); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal index of partition %s", name)
		}
		out.Partitions = append(out.Partitions, idx)
	}

	return out, nil
}

func (r *redisRepository) GetEntry(ctx context.Context, input GetEntryInput) (*GetEntryOutput, error) {
	if err := validateGetEntry(input); err != nil {
		return nil, err
	}

	raw, err := r.client.HGet(ctx, entriesKey(input.Partition), input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("entry %s not found in partition %s", input.ID, input.Partition)
		}
		return nil, errors.Wrapf(err, "failed to get entry %s", input.ID)
	}

	var out GetEntryOutput
	if err := json.Unmarshal([]byte(raw), &out.Entry); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal entry %s", input.ID)
	}
	return &out, nil
}

func (r *redisRepository) SavePartition(ctx context.Context, input SavePartitionInput) (*SavePartitionOutput, error) {
	if err := validatePartition(input.Partition); err != nil {
		return nil, err
	}
	p := input.Partition

	indexJSON, err := json.Marshal(indexOf(p))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal index of partition %s", p.Name)
	}

	fields := make(map[string]interface{}, len(p.Entries))
	for i := range p.Entries {
		entryJSON, err := json.Marshal(&p.Entries[i])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal entry %s", p.Entries[i].ID)
		}
		fields[p.Entries[i].ID] = entryJSON
	}

	// A new partition is ordered after every existing one; a resave keeps its place.
	score, err := r.client.ZScore(ctx, partitionsKey, p.Name).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.Wrapf(err, "failed to check partition %s", p.Name)
	}
	if err == redis.Nil {
		seq, err := r.client.Incr(ctx, partitionSeqKey).Result()
		if err != nil {
			return nil, errors.Wrap(err, "failed to allocate partition sequence")
		}
		score = float64(seq)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, entriesKey(p.Name))
	if len(fields) > 0 {
		pipe.HSet(ctx, entriesKey(p.Name), fields)
	}
	pipe.Set(ctx, indexKey(p.Name), indexJSON, 0)
	pipe.ZAdd(ctx, partitionsKey, redis.Z{Score: score, Member: p.Name})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save partition %s", p.Name)
	}

	return &SavePartitionOutput{EntryCount: len(p.Entries)}, nil
}

func indexKey(partition string) string {
	return fmt.Sprintf("library:partition:%s:index", partition)
}

func entriesKey(partition string) string {
	return fmt.Sprintf("library:partition:%s:entries", partition)
}
