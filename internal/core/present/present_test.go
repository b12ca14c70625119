package present

import (
	"testing"

	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopPort struct{}

func (nopPort) Show(notice.Request) Artifact { return nil }
func (nopPort) Remove(Artifact)              {}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.Register("stderr", nopPort{})
	r.Register("overlay", nopPort{})

	p, err := r.Resolve("stderr")
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = r.Resolve("missing")
	require.ErrorIs(t, err, ErrUnknownTarget)
	assert.Contains(t, err.Error(), "missing")

	_, err = r.Resolve("")
	require.ErrorIs(t, err, ErrUnknownTarget)

	assert.Equal(t, []string{"overlay", "stderr"}, r.Names())
}

func TestRegistry_NilPortIsUnresolvable(t *testing.T) {
	r := NewRegistry()
	r.Register("ghost", nil)

	_, err := r.Resolve("ghost")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestResolverFunc(t *testing.T) {
	var asked string
	r := ResolverFunc(func(target string) (Port, error) {
		asked = target
		return nopPort{}, nil
	})

	p, err := r.Resolve("anything")
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, "anything", asked)
}
