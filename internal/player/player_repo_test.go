package player

import (
	"context"
	"testing"

	"github.com/DhavalSuthar-24/crease/pkg/apperr"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) PlayerRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&Player{}))
	return NewPlayerRepository(db)
}

func TestCreateAndGetPlayer(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p := &Player{DisplayName: "  José Buttler ", CreatedByID: 3}
	require.NoError(t, repo.CreatePlayer(ctx, p))
	require.NotZero(t, p.ID)
	assert.Equal(t, "José Buttler", p.DisplayName)
	assert.Equal(t, "jose buttler", p.NormalizedName)

	got, err := repo.GetPlayerByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "José Buttler", got.DisplayName)

	name, err := repo.PlayerName(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "José Buttler", name)
}

func TestCreatePlayerRejectsBlankName(t *testing.T) {
	err := newTestRepo(t).CreatePlayer(context.Background(), &Player{DisplayName: "   "})
	assert.True(t, apperr.Is(err, apperr.KindRuleViolation))
}

func TestGetPlayerNotFound(t *testing.T) {
	_, err := newTestRepo(t).GetPlayerByID(context.Background(), 99)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSearchPlayersIgnoresCaseAndAccents(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	for _, name := range []string{"José Buttler", "Joe Root", "Jos Hazlewood", "Ben Stokes"} {
		require.NoError(t, repo.CreatePlayer(ctx, &Player{DisplayName: name}))
	}

	players, total, err := repo.SearchPlayers(ctx, "JOSE", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, players, 1)
	assert.Equal(t, "José Buttler", players[0].DisplayName)

	players, total, err = repo.SearchPlayers(ctx, "jo", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, players, 2)
	assert.Equal(t, "Joe Root", players[0].DisplayName)

	_, total, err = repo.SearchPlayers(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
}
