package store

import (
	"context"
	"fmt"

	"github.com/kotoba-app/kotoba/ent"
	"github.com/kotoba-app/kotoba/ent/keyvalue"
)

// kvRepo implements KVRepo using the ent client.
type kvRepo struct {
	client *ent.Client
}

func (r *kvRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	kv, err := r.client.KeyValue.Query().
		Where(keyvalue.Key(key)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return kv.Data, true, nil
}

func (r *kvRepo) Put(ctx context.Context, key string, value []byte) error {
	n, err := r.client.KeyValue.Update().
		Where(keyvalue.Key(key)).
		SetData(value).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("update %q: %w", key, err)
	}
	if n > 0 {
		return nil
	}

	_, err = r.client.KeyValue.Create().
		SetKey(key).
		SetData(value).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("create %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.client.KeyValue.Delete().
		Where(keyvalue.Key(key)).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete %q: %w", key, err)
	}
	return n > 0, nil
}

func (r *kvRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := r.client.KeyValue.Query().
		Where(keyvalue.KeyHasPrefix(prefix)).
		Order(ent.Asc(keyvalue.FieldKey)).
		Select(keyvalue.FieldKey).
		Strings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keys %q: %w", prefix, err)
	}
	return keys, nil
}

func (r *kvRepo) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	n, err := r.client.KeyValue.Delete().
		Where(keyvalue.KeyHasPrefix(prefix)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete prefix %q: %w", prefix, err)
	}
	return n, nil
}
