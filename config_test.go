package dino

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleConfig = `
name: myapp
routes:
  /api/hello/:id:
    - method: get
      handler: hello1
    - method: post
      handler: hello2
  /api/goodbye/:name:
    - method: get
      handler: hello1
`

func TestParseProjectConfig(t *testing.T) {
	cfg, err := ParseProjectConfig([]byte(sampleConfig))
	assert.NoError(t, err)
	assert.Equal(t, "myapp", cfg.Name)
	assert.Len(t, cfg.Routes, 2)

	assert.Equal(t, "/api/hello/:id", cfg.Routes[0].Pattern)
	assert.Equal(t, "GET", cfg.Routes[0].Handlers[0].Method)
	assert.Equal(t, "hello1", cfg.Routes[0].Handlers[0].Handler)
	assert.Equal(t, "POST", cfg.Routes[0].Handlers[1].Method)
}

func TestParseProjectConfigPreservesRouteOrder(t *testing.T) {
	cfg, err := ParseProjectConfig([]byte(sampleConfig))
	assert.NoError(t, err)
	assert.Equal(t, "/api/hello/:id", cfg.Routes[0].Pattern)
	assert.Equal(t, "/api/goodbye/:name", cfg.Routes[1].Pattern)
}

func TestParseProjectConfigRejectsUnknownMethod(t *testing.T) {
	_, err := ParseProjectConfig([]byte(`
name: myapp
routes:
  /api/hello:
    - method: fetch
      handler: hello1
`))
	assert.Error(t, err)
}

func TestParseProjectConfigRejectsEmptyDocument(t *testing.T) {
	_, err := ParseProjectConfig([]byte(""))
	assert.Error(t, err)
}
