package mongostore_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountworker/pkg/mongo"
	"github.com/dmitrymomot/accountworker/svc/account"
	"github.com/dmitrymomot/accountworker/svc/account/accounttest"
	"github.com/dmitrymomot/accountworker/svc/account/storage/mongostore"
)

func TestStore(t *testing.T) {
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		t.Skip("MONGODB_URL not set")
	}

	ctx := context.Background()
	client, err := mongo.New(ctx, mongo.Config{
		ConnectionURL:  url,
		ConnectTimeout: 5 * time.Second,
		MaxPoolSize:    10,
		RetryAttempts:  1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	accounttest.RunRepositoryTests(t, func(t *testing.T) account.Repository {
		db := client.Database("accounts_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", ""))
		t.Cleanup(func() { _ = db.Drop(context.Background()) })

		store, err := mongostore.New(ctx, db)
		require.NoError(t, err)
		return store
	})
}
