package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mongoTestTimeout = 10 * time.Second

// prepMongo connects to the MongoDB at MONGO_TEST_URI with a unique
// database per test and drops it afterwards.
func prepMongo(t *testing.T) *Mongo {
	t.Helper()

	baseURI := os.Getenv("MONGO_TEST_URI")
	if baseURI == "" {
		t.Skip("MONGO_TEST_URI is not set")
	}

	uri := strings.TrimSuffix(baseURI, "/") + "/mcqs_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), mongoTestTimeout)
	defer cancel()

	m, err := NewMongo(ctx, uri)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), mongoTestTimeout)
		defer cancel()
		assert.NoError(t, m.mcqs.Database().Drop(ctx))
		assert.NoError(t, m.Close(ctx))
	})

	return m
}

func TestMongo_Pagination(t *testing.T) {
	m := prepMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), mongoTestTimeout)
	defer cancel()

	n, err := m.InsertBatch(ctx, testMCQs(1, 25))
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	page, err := m.List(ctx, ListRequest{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, testMCQ(5), page.Items[0])

	page, err = m.List(ctx, ListRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 10)
	for i, q := range page.Items {
		assert.Equal(t, testMCQ(25-i), q)
	}
}

func TestMongo_InsertEmpty(t *testing.T) {
	m := prepMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), mongoTestTimeout)
	defer cancel()

	n, err := m.InsertBatch(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	page, err := m.List(ctx, ListRequest{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalPages)
}

func TestMongo_InvalidPage(t *testing.T) {
	m := prepMongo(t)

	_, err := m.List(context.Background(), ListRequest{Page: 0})
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestNewMongo_EmptyURI(t *testing.T) {
	_, err := NewMongo(context.Background(), "")
	assert.Error(t, err)
}
