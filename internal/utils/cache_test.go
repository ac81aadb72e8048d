package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGetDelete(t *testing.T) {
	c := GetCache()

	c.Set("k", "v", time.Minute)
	assert.Equal(t, "v", c.Get("k"))

	c.Delete("k")
	assert.Nil(t, c.Get("k"))
}

func TestCacheExpiry(t *testing.T) {
	c := GetCache()

	c.Set("stale", "v", -time.Second)
	assert.Nil(t, c.Get("stale"))
}
