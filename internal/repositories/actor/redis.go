package actor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/pkg/clock"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/pkg/idgen"
	redisclient "github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/redis"
)

const (
	actorKeyPrefix = "actor:"
	// allActorsKey scores every actor id by creation sequence
	allActorsKey = "actor:index:all"
	actorSeqKey  = "actor:seq"

	// maxWatchRetries bounds optimistic retries when two writers race on an actor
	maxWatchRetries = 5
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ids    idgen.Generator
}

// RedisConfig contains configuration for the Redis actor repository
type RedisConfig struct {
	Client      redisclient.Client
	Clock       clock.Clock
	IDGenerator idgen.Generator
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

// NewRedis creates a new Redis-backed actor repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewUUID("")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
		ids:    ids,
	}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	seq, err := r.client.Incr(ctx, actorSeqKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate actor sequence")
	}

	a := newActor(input.Actor, r.ids, seq, r.clock.Now().Unix())
	data, err := json.Marshal(a)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal actor")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, actorKey(a.ID), data, 0)
	pipe.ZAdd(ctx, allActorsKey, redis.Z{Score: float64(seq), Member: a.ID})
	if a.System.LID != "" {
		pipe.ZAdd(ctx, lidIndexKey(a.Type, a.System.LID), redis.Z{Score: float64(seq), Member: a.ID})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create actor %s", a.Name)
	}

	return &CreateOutput{Actor: a}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := requireActorID(input.ID); err != nil {
		return nil, err
	}

	raw, err := r.client.Get(ctx, actorKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("actor %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get actor %s", input.ID)
	}

	a, err := decodeActor(raw)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Actor: a}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	a, err := r.mutate(ctx, input.ID, func(a *lancer.Actor, now int64) error {
		applyUpdate(a, input, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &UpdateOutput{Actor: a}, nil
}

func (r *redisRepository) CreateItems(ctx context.Context, input CreateItemsInput) (*CreateItemsOutput, error) {
	if err := requireActorID(input.ActorID); err != nil {
		return nil, err
	}

	var created []lancer.Item
	_, err := r.mutate(ctx, input.ActorID, func(a *lancer.Actor, now int64) error {
		created = applyCreateItems(a, input.Items, r.ids, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CreateItemsOutput{Items: created}, nil
}

func (r *redisRepository) UpdateItems(ctx context.Context, input UpdateItemsInput) (*UpdateItemsOutput, error) {
	if err := requireActorID(input.ActorID); err != nil {
		return nil, err
	}

	var updated []lancer.Item
	_, err := r.mutate(ctx, input.ActorID, func(a *lancer.Actor, now int64) error {
		var err error
		updated, err = applyUpdateItems(a, input.Patches, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &UpdateItemsOutput{Items: updated}, nil
}

func (r *redisRepository) DeleteItems(ctx context.Context, input DeleteItemsInput) (*DeleteItemsOutput, error) {
	if err := requireActorID(input.ActorID); err != nil {
		return nil, err
	}

	deleted := 0
	_, err := r.mutate(ctx, input.ActorID, func(a *lancer.Actor, now int64) error {
		deleted = applyDeleteItems(a, input.ItemIDs, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DeleteItemsOutput{Deleted: deleted}, nil
}

func (r *redisRepository) Find(ctx context.Context, input FindInput) (*FindOutput, error) {
	if err := validateFind(input); err != nil {
		return nil, err
	}

	actors, err := r.listByIndex(ctx, lidIndexKey(input.Type, input.LID))
	if err != nil {
		return nil, err
	}
	return &FindOutput{Actors: actors}, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	actors, err := r.listByIndex(ctx, allActorsKey)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Actors: actors}, nil
}

// AwaitSettled returns once the actor's last write is visible. Writes are
// applied in MULTI/EXEC blocks, so a successful read means they landed.
func (r *redisRepository) AwaitSettled(ctx context.Context, actorID string) error {
	if err := r.client.Exists(ctx, actorKey(actorID)).Err(); err != nil {
		return errors.Wrapf(err, "failed to check actor %s", actorID)
	}
	return nil
}

// mutate applies fn to the stored actor under WATCH so concurrent writers
// cannot interleave. The lid index follows changes to the actor's lid.
func (r *redisRepository) mutate(ctx context.Context, id string, fn func(a *lancer.Actor, now int64) error) (*lancer.Actor, error) {
	key := actorKey(id)
	var result *lancer.Actor

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return errors.NotFoundf("actor %s not found", id)
			}
			return err
		}

		a, err := decodeActor(raw)
		if err != nil {
			return err
		}
		oldLID := a.System.LID

		if err := fn(a, r.clock.Now().Unix()); err != nil {
			return err
		}

		data, err := json.Marshal(a)
		if err != nil {
			return errors.Wrap(err, "failed to marshal actor")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if a.System.LID != oldLID {
				if oldLID != "" {
					pipe.ZRem(ctx, lidIndexKey(a.Type, oldLID), a.ID)
				}
				if a.System.LID != "" {
					pipe.ZAdd(ctx, lidIndexKey(a.Type, a.System.LID), redis.Z{Score: float64(a.Sequence), Member: a.ID})
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		result = a
		return nil
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if err == redis.TxFailedErr {
			slog.DebugContext(ctx, "actor changed during write, retrying",
				"actor_id", id,
				"attempt", attempt+1)
			continue
		}
		return nil, errors.Wrapf(err, "failed to write actor %s", id)
	}

	return nil, errors.Internalf("actor %s kept changing during write", id)
}

func (r *redisRepository) listByIndex(ctx context.Context, indexKey string) ([]*lancer.Actor, error) {
	ids, err := r.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read index %s", indexKey)
	}

	actors := make([]*lancer.Actor, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "actor not found, cleaning up index",
					"actor_id", id,
					"index_key", indexKey)
				r.client.ZRem(ctx, indexKey, id)
				continue
			}
			return nil, err
		}
		actors = append(actors, out.Actor)
	}
	return actors, nil
}

func decodeActor(raw string) (*lancer.Actor, error) {
	var a lancer.Actor
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal actor")
	}
	return &a, nil
}

func actorKey(id string) string {
	return actorKeyPrefix + id
}

func lidIndexKey(actorType, lid string) string {
	return fmt.Sprintf("actor:index:lid:%s:%s", actorType, lid)
}
