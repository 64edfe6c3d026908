package server

import (
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DashboardCache keeps rendered dashboard pages keyed by owner, filter
// and sort order. It implements service.TaskListObserver: a successful
// task mutation evicts every cached variant belonging to that owner,
// so the next read observes the new state.
type DashboardCache struct {
	pages *lru.Cache[string, []byte]
}

func NewDashboardCache(size int) (*DashboardCache, error) {
	pages, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &DashboardCache{pages: pages}, nil
}

func cacheKey(ownerID uuid.UUID, filter, sort string) string {
	return ownerID.String() + "|" + filter + "|" + sort
}

func (c *DashboardCache) Get(ownerID uuid.UUID, filter, sort string) ([]byte, bool) {
	return c.pages.Get(cacheKey(ownerID, filter, sort))
}

func (c *DashboardCache) Put(ownerID uuid.UUID, filter, sort string, page []byte) {
	c.pages.Add(cacheKey(ownerID, filter, sort), page)
}

// TaskListChanged implements service.TaskListObserver.
func (c *DashboardCache) TaskListChanged(ownerID uuid.UUID) {
	prefix := ownerID.String() + "|"
	for _, key := range c.pages.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.pages.Remove(key)
		}
	}
}
