package usecase

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/user/review-harvester/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLastPage(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    int
	}{
		{name: "numbers then next", entries: []string{"1", "2", "3", "4", "next"}, want: 3},
		{name: "arrow affordance", entries: []string{"1", "2", "3", "4", "5", "6", ">>"}, want: 5},
		{name: "single entry", entries: []string{"1"}, want: 1},
		{name: "no pager", entries: nil, want: 1},
		{name: "only next", entries: []string{"next"}, want: 1},
		{name: "malformed second to last", entries: []string{"1", "…", "9", ">>"}, want: 1},
		{name: "zero page", entries: []string{"0", "1", ">>"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lastPage(tt.entries))
		})
	}
}

func TestPaginator_PageCount(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.bodies["https://films.test/reviews/1/10.html"] = `
<div class="pager"><span class="current">1</span><a>2</a><a>3</a><a>4</a><a>next</a></div>`
	fetcher.bodies["https://films.test/reviews/1/20.html"] = `<div class="movie-review-wrapper"></div>`
	fetcher.bodies["https://films.test/reviews/1/30.html"] = `<div class="pager"><span class="current">1</span></div>`
	fetcher.statuses["https://films.test/reviews/1/40.html"] = 503

	m := newTestMetrics(t)
	p := NewPaginator(fetcher, testReviewTemplate, m, zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, 3, p.PageCount(ctx, 10))
	assert.Equal(t, 1, p.PageCount(ctx, 20), "no pagination control")
	assert.Equal(t, 1, p.PageCount(ctx, 30), "single pager entry")
	assert.Equal(t, 1, p.PageCount(ctx, 40), "fetch failure")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.PagesFetchedTotal.WithLabelValues(metrics.KindPagination)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PagesFailedTotal.WithLabelValues(metrics.KindPagination)))
}

func TestPaginator_FailureIsLogged(t *testing.T) {
	fetcher := newFakeFetcher()
	core, logs := observer.New(zapcore.WarnLevel)
	p := NewPaginator(fetcher, testReviewTemplate, newTestMetrics(t), zap.New(core))

	assert.Equal(t, 1, p.PageCount(context.Background(), 50))
	assert.Equal(t, 1, logs.FilterMessage("failed to fetch first review page, assuming one page").Len())
}

func TestPaginator_CancelledContextIsNotAFailure(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.bodies["https://films.test/reviews/1/10.html"] = `<div class="pager"><span>1</span><a>2</a><a>3</a></div>`
	core, logs := observer.New(zapcore.WarnLevel)
	m := newTestMetrics(t)
	p := NewPaginator(fetcher, testReviewTemplate, m, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 1, p.PageCount(ctx, 10))
	assert.Zero(t, logs.Len(), "no warning for an interrupted harvest")
	assert.Zero(t, testutil.ToFloat64(m.PagesFailedTotal.WithLabelValues(metrics.KindPagination)))
}
