package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_GetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedis(db)

	mock.ExpectGet("geo:Лондон").SetVal("Europe/London")

	val, ok, err := store.Get(context.Background(), "geo:Лондон")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Europe/London", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_GetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedis(db)

	mock.ExpectGet("geo:nowhere").RedisNil()

	_, ok, err := store.Get(context.Background(), "geo:nowhere")
	require.NoError(t, err, "nil reply is a miss, not an error")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_GetTransportError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedis(db)

	mock.ExpectGet("k").SetErr(errors.New("broken pipe"))

	_, ok, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedis_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedis(db)

	mock.ExpectSet("geo:Карачи", "Asia/Karachi", time.Hour).SetVal("OK")

	err := store.Set(context.Background(), "geo:Карачи", "Asia/Karachi", time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
