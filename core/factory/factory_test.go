package factory

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	A       int
	Timeout time.Duration
}

type sampleConf struct {
	A       int           `json:"a"`
	Timeout time.Duration `json:"timeout"`
}

func newSample(conf map[string]any) (*sample, error) {
	var c sampleConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sample{A: c.A, Timeout: c.Timeout}, nil
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[*sample]()
	require.NoError(t, reg.Register("s", newSample))
	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"a": "3", "timeout": "2s"}})
	require.NoError(t, err)
	assert.Equal(t, 3, inst.A)
	assert.Equal(t, 2*time.Second, inst.Timeout)
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry[int]()
	require.NoError(t, reg.Register("x", func(map[string]any) (int, error) { return 1, nil }))
	assert.Error(t, reg.Register("x", func(map[string]any) (int, error) { return 2, nil }))
	assert.Error(t, reg.Register("y", nil))

	_, err := reg.Create(ModuleConfig{Type: "z"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known: [x]")
}

func TestRegistryCreateAll(t *testing.T) {
	reg := NewRegistry[int]()
	boom := errors.New("boom")
	require.NoError(t, reg.Register("one", func(map[string]any) (int, error) { return 1, nil }))
	require.NoError(t, reg.Register("bad", func(map[string]any) (int, error) { return 0, boom }))
	assert.Equal(t, []string{"bad", "one"}, reg.Types())

	out, err := reg.CreateAll([]ModuleConfig{{Type: "one"}, {Type: "one"}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, out)

	_, err = reg.CreateAll([]ModuleConfig{{Type: "one"}, {Type: "bad"}})
	assert.ErrorIs(t, err, boom)
}
