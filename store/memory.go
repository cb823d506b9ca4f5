package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory keeps documents in process, encoded as BSON so that decoding
// behaves like the Mongo backend. Filters support equality on top-level
// fields only.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]bson.Raw
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]bson.Raw)}
}

func (m *Memory) FindOne(ctx context.Context, collection string, filter bson.M, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.docs[collection] {
		ok, err := matches(doc, filter)
		if err != nil {
			return err
		}
		if ok {
			return bson.Unmarshal(doc, out)
		}
	}

	return ErrNotFound
}

func (m *Memory) Find(ctx context.Context, collection string, filter bson.M, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("out must be a pointer to a slice, got %T", out)
	}
	sv := rv.Elem()

	m.mu.RLock()
	defer m.mu.RUnlock()

	res := reflect.MakeSlice(sv.Type(), 0, len(m.docs[collection]))
	for _, doc := range m.docs[collection] {
		ok, err := matches(doc, filter)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		ep := reflect.New(sv.Type().Elem())
		if err := bson.Unmarshal(doc, ep.Interface()); err != nil {
			return err
		}
		res = reflect.Append(res, ep.Elem())
	}
	sv.Set(res)

	return nil
}

func (m *Memory) Create(ctx context.Context, collection string, record interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := withID(record)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	fields := append([]string{"_id"}, UniqueFields[collection]...)
	for _, existing := range m.docs[collection] {
		for _, f := range fields {
			// a missing field compares equal to another missing field, as null does in a unique index
			if existing.Lookup(f).Equal(doc.Lookup(f)) {
				return fmt.Errorf("%w: %s.%s", ErrDuplicate, collection, f)
			}
		}
	}

	m.docs[collection] = append(m.docs[collection], doc)

	return nil
}

func withID(record interface{}) (bson.Raw, error) {
	b, err := bson.Marshal(record)
	if err != nil {
		return nil, err
	}

	var d bson.D
	if err := bson.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	for _, e := range d {
		if e.Key == "_id" {
			return b, nil
		}
	}

	d = append(bson.D{{Key: "_id", Value: primitive.NewObjectID()}}, d...)
	return bson.Marshal(d)
}

func matches(doc bson.Raw, filter bson.M) (bool, error) {
	for k, v := range filter {
		if len(k) > 0 && k[0] == '$' {
			return false, errors.New("memory store: operator filters are not supported")
		}

		t, b, err := bson.MarshalValue(v)
		if err != nil {
			return false, err
		}
		if !doc.Lookup(k).Equal(bson.RawValue{Type: t, Value: b}) {
			return false, nil
		}
	}

	return true, nil
}

var _ Store = (*Memory)(nil)
