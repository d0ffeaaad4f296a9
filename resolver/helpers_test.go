package resolver

import (
	"context"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erraggy/refparser/format"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/source"
)

// parseJSON decodes a JSON literal into a node tree.
func parseJSON(t *testing.T, src string) *node.Node {
	t.Helper()
	n, err := format.DecodeJSON([]byte(src))
	require.NoError(t, err)
	return n
}

// marshal encodes n as compact JSON.
func marshal(t *testing.T, n *node.Node) string {
	t.Helper()
	out, err := n.MarshalJSON()
	require.NoError(t, err)
	return string(out)
}

// memStore returns a Store whose documents are served from memory.
func memStore(t *testing.T, docs map[string]string) *Store {
	t.Helper()
	mem := source.NewMemoryResolver()
	for u, data := range docs {
		_, err := mem.Add(u, []byte(data), "")
		require.NoError(t, err)
	}
	return NewStore(StoreConfig{Sources: source.NewRegistry(mem)})
}

// countingResolver serves "test://" URLs from a map and counts reads.
type countingResolver struct {
	docs  map[string]string
	delay time.Duration

	mu    sync.Mutex
	reads map[string]int
}

func newCountingResolver(docs map[string]string) *countingResolver {
	return &countingResolver{docs: docs, reads: map[string]int{}}
}

func (c *countingResolver) Name() string { return "counting" }

func (c *countingResolver) CanResolve(u *url.URL) bool { return u.Scheme == "test" }

func (c *countingResolver) Read(ctx context.Context, u *url.URL) (*source.Resource, error) {
	c.mu.Lock()
	c.reads[u.String()]++
	c.mu.Unlock()
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := c.docs[u.String()]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &source.Resource{URL: u.String(), Data: []byte(data), Resolver: c.Name()}, nil
}

func (c *countingResolver) count(u string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads[u]
}
