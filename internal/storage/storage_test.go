package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/brocaar/chirpstack-region/internal/test"
)

type StorageTestSuite struct {
	suite.Suite
}

func (ts *StorageTestSuite) SetupSuite() {
	conf := test.GetConfig()
	if err := Setup(conf); err != nil {
		ts.T().Skipf("redis not available: %s", err)
	}
}

func (ts *StorageTestSuite) SetupTest() {
	ts.Require().NoError(RedisClient().FlushAll(context.Background()).Err())
}

func TestStorage(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}

func TestGetRedisKey(t *testing.T) {
	assert := require.New(t)

	keyPrefix = "test:"
	defer func() { keyPrefix = "" }()

	assert.Equal("test:region:state:dev-1", GetRedisKey(regionStateKeyTempl, "dev-1"))
}
