package feed

import (
	"testing"
	"time"

	"github.com/colonyops/noticeq/internal/core/config"
	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Route(t *testing.T) {
	yes := true
	r, err := NewRouter([]config.Rule{
		{Pattern: "noise/**", Drop: true},
		{Pattern: "ci/*/failed", Type: notice.KindError, Persistent: &yes},
		{Pattern: "ci/**", Duration: 10 * time.Second},
		{Pattern: "reminder/*", Type: notice.KindWarning},
	})
	require.NoError(t, err)

	tests := []struct {
		source  string
		want    notice.Options
		dropped bool
	}{
		{source: "noise/a/b", dropped: true},
		{source: "ci/build/failed", want: notice.Options{Kind: notice.KindError, Persistent: true, Source: "ci/build/failed"}},
		{source: "ci/build/passed", want: notice.Options{Kind: notice.KindInfo, Duration: 10 * time.Second, Source: "ci/build/passed"}},
		{source: "reminder/standup", want: notice.Options{Kind: notice.KindWarning, Source: "reminder/standup"}},
		{source: "other", want: notice.Options{Kind: notice.KindInfo, Source: "other"}},
		{source: "", want: notice.Options{Kind: notice.KindInfo}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, ok := r.Route(notice.Options{Kind: notice.KindInfo, Source: tt.source})
			if tt.dropped {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRouter_InvalidPattern(t *testing.T) {
	_, err := NewRouter([]config.Rule{{Pattern: "ok"}, {Pattern: "bad["}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rules[1]")
}

func TestRouter_Nil(t *testing.T) {
	var r *Router
	in := notice.Options{Kind: notice.KindError, Source: "x"}
	got, ok := r.Route(in)
	assert.True(t, ok)
	assert.Equal(t, in, got)
}
