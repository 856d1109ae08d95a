package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectMongo_EmptyURI(t *testing.T) {
	_, err := ConnectMongo(context.Background(), "", 0)
	require.Error(t, err)
}

func TestConnectMongo_BadURI(t *testing.T) {
	_, err := ConnectMongo(context.Background(), "not-a-mongo-uri", 0)
	require.Error(t, err)
}
