package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/review-harvester/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func reviewURL(filmID, page int) string {
	return fmt.Sprintf("https://films.test/reviews/%d/%d.html", page, filmID)
}

func reviewPage(comments ...string) string {
	body := ""
	for _, c := range comments {
		body += fmt.Sprintf(`<div class="movie-review-wrapper"><div class="user-reviews-movie-rating">7</div><div class="review-text1">%s</div></div>`, c)
	}
	return "<html><body>" + body + "</body></html>"
}

func comments(sink *memorySink) []string {
	var out []string
	for _, r := range sink.rows {
		out = append(out, r.Review.CommentText())
	}
	return out
}

func TestReviewWalker_AppendsInPageOrder(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.bodies[reviewURL(5, 1)] = reviewPage("a", "b")
	fetcher.bodies[reviewURL(5, 2)] = reviewPage("c")
	m := newTestMetrics(t)
	sink := &memorySink{}

	w := NewReviewWalker(fetcher, nil, testReviewTemplate, m, zap.NewNop())
	stats, err := w.Walk(context.Background(), 5, 2, sink)

	require.NoError(t, err)
	assert.Equal(t, WalkStats{PagesFetched: 2, Reviews: 3}, stats)
	assert.Equal(t, []string{"a", "b", "c"}, comments(sink))
	assert.Equal(t, []int{5, 5, 5}, sink.filmIDs())
	assert.Equal(t, []string{reviewURL(5, 1), reviewURL(5, 2)}, fetcher.Requests())
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReviewsAppended))
}

func TestReviewWalker_ZeroPagesIsNoop(t *testing.T) {
	fetcher := newFakeFetcher()
	sink := &memorySink{}

	w := NewReviewWalker(fetcher, nil, testReviewTemplate, newTestMetrics(t), zap.NewNop())
	stats, err := w.Walk(context.Background(), 5, 0, sink)

	require.NoError(t, err)
	assert.Equal(t, WalkStats{}, stats)
	assert.Empty(t, fetcher.Requests())
	assert.Empty(t, sink.rows)
}

func TestReviewWalker_SkipsFailedPage(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.bodies[reviewURL(9, 1)] = reviewPage("page one")
	fetcher.statuses[reviewURL(9, 2)] = 500
	fetcher.bodies[reviewURL(9, 3)] = reviewPage("page three")
	failed := &memoryFailedPages{}
	m := newTestMetrics(t)
	sink := &memorySink{}

	core, logs := observer.New(zapcore.WarnLevel)
	w := NewReviewWalker(fetcher, failed, testReviewTemplate, m, zap.New(core))
	stats, err := w.Walk(context.Background(), 9, 3, sink)

	require.NoError(t, err)
	assert.Equal(t, WalkStats{PagesFetched: 2, PagesFailed: 1, Reviews: 2}, stats)
	assert.Equal(t, []string{"page one", "page three"}, comments(sink))
	assert.Len(t, fetcher.Requests(), 3, "failed page is not retried")

	entries := logs.FilterMessage("skipping review page").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].ContextMap()["page"])
	assert.EqualValues(t, 9, entries[0].ContextMap()["film_id"])

	require.Len(t, failed.recorded, 1)
	assert.Equal(t, 2, failed.recorded[0].Page)
	assert.Equal(t, 500, failed.recorded[0].HTTPStatusCode)
	assert.Equal(t, [][2]int{{9, 1}, {9, 3}}, failed.deleted)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PagesFailedTotal.WithLabelValues(metrics.KindReview)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PagesFetchedTotal.WithLabelValues(metrics.KindReview)))
}

func TestReviewWalker_StopsOnCancellation(t *testing.T) {
	fetcher := newFakeFetcher()
	for page := 1; page <= 3; page++ {
		fetcher.bodies[reviewURL(4, page)] = reviewPage(fmt.Sprintf("p%d", page))
	}
	ctx, cancel := context.WithCancel(context.Background())
	fetcher.onFetch = func(url string) {
		if url == reviewURL(4, 2) {
			cancel()
		}
	}
	sink := &memorySink{}

	w := NewReviewWalker(fetcher, nil, testReviewTemplate, newTestMetrics(t), zap.NewNop())
	stats, err := w.Walk(ctx, 4, 3, sink)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, WalkStats{PagesFetched: 1, Reviews: 1}, stats, "interrupted page is not counted as failed")
	assert.Equal(t, []string{"p1"}, comments(sink))
}

func TestReviewWalker_SinkFailureAborts(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.bodies[reviewURL(1, 1)] = reviewPage("a", "b")
	fetcher.bodies[reviewURL(1, 2)] = reviewPage("c")
	sink := &memorySink{failAfter: 1}

	w := NewReviewWalker(fetcher, nil, testReviewTemplate, newTestMetrics(t), zap.NewNop())
	_, err := w.Walk(context.Background(), 1, 2, sink)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, fetcher.Requests(), 1)
}
