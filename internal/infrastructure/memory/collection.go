package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/BiharaCD/beverage-OS/internal/domain/document"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/bsonx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Collection is an in-process document.Store. Documents are held as bson so reads
// return independent copies and field filters see the same names Mongo would.
type Collection[T any, P interface {
	*T
	document.Document
}] struct {
	mu     sync.RWMutex
	name   string
	docs   map[string]bson.Raw
	order  []string
	unique []string
}

// NewCollection creates an empty collection. unique lists fields that must not repeat
// across documents; empty values are not checked.
func NewCollection[T any, P interface {
	*T
	document.Document
}](name string, unique ...string) *Collection[T, P] {
	return &Collection[T, P]{
		name:   name,
		docs:   make(map[string]bson.Raw),
		unique: unique,
	}
}

func (c *Collection[T, P]) Insert(ctx context.Context, doc *T) error {
	_ = ctx
	id := P(doc).DocumentID()
	if id == "" {
		return fmt.Errorf("%s: insert: empty _id", c.name)
	}
	raw, err := bsonx.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: insert: %w", c.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; ok {
		return fmt.Errorf("%s: insert _id %s: %w", c.name, id, document.ErrDuplicate)
	}
	if err := c.checkUnique(id, raw); err != nil {
		return err
	}
	c.docs[id] = raw
	c.order = append(c.order, id)
	return nil
}

func (c *Collection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	_ = ctx

	c.mu.RLock()
	raw, ok := c.docs[id]
	c.mu.RUnlock()

	if !ok {
		return nil, document.ErrNotFound
	}
	return decode[T](raw)
}

func (c *Collection[T, P]) Find(ctx context.Context, filter document.Filter, opts document.FindOptions) ([]*T, error) {
	_ = ctx

	c.mu.RLock()
	matched := make([]bson.Raw, 0, len(c.order))
	for _, id := range c.order {
		if raw := c.docs[id]; matches(raw, filter) {
			matched = append(matched, raw)
		}
	}
	c.mu.RUnlock()

	if opts.Sort != nil {
		field, desc := opts.Sort.Field, opts.Sort.Desc
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compareField(matched[i], matched[j], field)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	out := make([]*T, 0, len(matched))
	for _, raw := range matched {
		doc, err := decode[T](raw)
		if err != nil {
			return nil, fmt.Errorf("%s: find: %w", c.name, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func (c *Collection[T, P]) FindOne(ctx context.Context, filter document.Filter) (*T, error) {
	_ = ctx

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range c.order {
		if raw := c.docs[id]; matches(raw, filter) {
			return decode[T](raw)
		}
	}
	return nil, document.ErrNotFound
}

func (c *Collection[T, P]) Replace(ctx context.Context, doc *T) error {
	_ = ctx
	id := P(doc).DocumentID()
	raw, err := bsonx.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: replace: %w", c.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return document.ErrNotFound
	}
	if err := c.checkUnique(id, raw); err != nil {
		return err
	}
	c.docs[id] = raw
	return nil
}

func (c *Collection[T, P]) Patch(ctx context.Context, id string, fields document.Fields) (*T, error) {
	_ = ctx

	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.docs[id]
	if !ok {
		return nil, document.ErrNotFound
	}

	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%s: patch: %w", c.name, err)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d = setField(d, k, fields[k])
	}

	updated, err := bsonx.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("%s: patch: %w", c.name, err)
	}
	if err := c.checkUnique(id, updated); err != nil {
		return nil, err
	}
	c.docs[id] = updated
	return decode[T](updated)
}

func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	_ = ctx

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return document.ErrNotFound
	}
	delete(c.docs, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports the number of stored documents.
func (c *Collection[T, P]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// checkUnique must be called with the write lock held.
func (c *Collection[T, P]) checkUnique(id string, raw bson.Raw) error {
	for _, field := range c.unique {
		v, err := raw.LookupErr(field)
		if err != nil || v.Type == bsontype.Null {
			continue
		}
		if s, ok := v.StringValueOK(); ok && s == "" {
			continue
		}
		for oid, other := range c.docs {
			if oid == id {
				continue
			}
			ov, err := other.LookupErr(field)
			if err == nil && ov.Type == v.Type && bytes.Equal(ov.Value, v.Value) {
				return fmt.Errorf("%s: %s already exists: %w", c.name, field, document.ErrDuplicate)
			}
		}
	}
	return nil
}

func decode[T any](raw bson.Raw) (*T, error) {
	out := new(T)
	if err := bsonx.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(raw bson.Raw, filter document.Filter) bool {
	for key, want := range filter {
		v, err := raw.LookupErr(key)
		if err != nil {
			return false
		}
		switch w := want.(type) {
		case string:
			if s, ok := v.StringValueOK(); !ok || s != w {
				return false
			}
		case bool:
			if b, ok := v.BooleanOK(); !ok || b != w {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func compareField(a, b bson.Raw, field string) int {
	av, aerr := a.LookupErr(field)
	bv, berr := b.LookupErr(field)
	switch {
	case aerr != nil && berr != nil:
		return 0
	case aerr != nil:
		return -1
	case berr != nil:
		return 1
	}
	if at, ok := av.DateTimeOK(); ok {
		if bt, ok := bv.DateTimeOK(); ok {
			return cmpInt(at, bt)
		}
	}
	if as, ok := av.StringValueOK(); ok {
		if bs, ok := bv.StringValueOK(); ok {
			switch {
			case as < bs:
				return -1
			case as > bs:
				return 1
			}
			return 0
		}
	}
	if ai, ok := av.AsInt64OK(); ok {
		if bi, ok := bv.AsInt64OK(); ok {
			return cmpInt(ai, bi)
		}
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func setField(d bson.D, key string, value any) bson.D {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = value
			return d
		}
	}
	return append(d, bson.E{Key: key, Value: value})
}
