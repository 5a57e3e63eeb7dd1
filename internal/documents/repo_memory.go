package documents

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, f ListFilter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []Document{}
	for _, doc := range r.docs {
		if doc.UserID != userID {
			continue
		}
		if f.ServiceType != "" && doc.ServiceType != f.ServiceType {
			continue
		}
		if f.Year > 0 && doc.Year() != f.Year {
			continue
		}
		all = append(all, doc)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].UploadedAt.Equal(all[j].UploadedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].UploadedAt.After(all[j].UploadedAt)
	})

	if f.Offset >= len(all) {
		return []Document{}, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.UserID != userID {
		return ErrNotFound
	}
	delete(r.docs, id)
	return nil
}
