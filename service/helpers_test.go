package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/faizan/catalog/config"
	"github.com/faizan/catalog/models"
	"github.com/faizan/catalog/repository"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

var (
	errLinkFailed   = errors.New("link failed")
	errUnlinkFailed = errors.New("unlink failed")
)

func newTestLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}

// seed stores artists named "Artist 1".."Artist n" and the given genres; ids
// start at 1 in both tables.
func seed(t *testing.T, repo repository.Gateway, artists int, genres ...string) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= artists; i++ {
		require.NoError(t, repo.SaveArtist(ctx, &models.Artist{
			Name:        fmt.Sprintf("Artist %d", i),
			Picture:     fmt.Sprintf("https://img.example/%d.jpg", i),
			Description: fmt.Sprintf("bio %d", i),
		}))
	}
	for _, g := range genres {
		require.NoError(t, repo.SaveGenre(ctx, &models.Genre{Description: g}))
	}
}

func newSQLiteRepository(t *testing.T) *repository.GormRepository {
	t.Helper()
	log, _ := newTestLogger()
	db, err := config.OpenDatabase(config.DatabaseConfig{Driver: "sqlite", AutoMigrate: true}, log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewGormRepository(db)
}

// faultyGateway fails selected writes of the wrapped gateway.
type faultyGateway struct {
	repository.Gateway
	failLinkOn uint
	failUnlink bool
}

func (f *faultyGateway) LinkArtist(ctx context.Context, trackID, artistID uint) error {
	if artistID == f.failLinkOn {
		return errLinkFailed
	}
	return f.Gateway.LinkArtist(ctx, trackID, artistID)
}

func (f *faultyGateway) UnlinkArtist(ctx context.Context, trackID, artistID uint) error {
	if f.failUnlink {
		return errUnlinkFailed
	}
	return f.Gateway.UnlinkArtist(ctx, trackID, artistID)
}

// faultyTxGateway injects the same faults inside a real transaction.
type faultyTxGateway struct {
	*repository.GormRepository
	failLinkOn uint
}

func (f *faultyTxGateway) WithinTransaction(ctx context.Context, fn func(repository.Gateway) error) error {
	return f.GormRepository.WithinTransaction(ctx, func(gw repository.Gateway) error {
		return fn(&faultyGateway{Gateway: gw, failLinkOn: f.failLinkOn})
	})
}

func uintPtr(v uint) *uint { return &v }
func intPtr(v int) *int    { return &v }
func strPtr(v string) *string {
	return &v
}
