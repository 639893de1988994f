package api

import (
	"context"
	"sync"
)

type ImageHostMock struct {
	mock sync.Mutex

	StoredDocuments map[string]string
}

func (c *ImageHostMock) StoreDocument(ctx context.Context, name string, content string) (string, error) {
	c.mock.Lock()
	defer c.mock.Unlock()

	if c.StoredDocuments == nil {
		c.StoredDocuments = map[string]string{}
	}
	c.StoredDocuments[name] = content

	return "https://images.example.com/documents/" + name, nil
}

// Document reads a stored document under the same lock StoreDocument writes
// with, so tests can poll while handlers are still running.
func (c *ImageHostMock) Document(name string) (string, bool) {
	c.mock.Lock()
	defer c.mock.Unlock()

	content, ok := c.StoredDocuments[name]
	return content, ok
}
