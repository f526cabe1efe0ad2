package search

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ai_tutorial_generator/metrics"
)

type fakeSearcher struct {
	calls   int
	failFor int
	results []Result
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) ([]Result, error) {
	f.calls++
	if f.calls <= f.failFor {
		if f.err != nil {
			return nil, f.err
		}
		return nil, nil
	}
	return f.results, nil
}

var goodResults = []Result{
	{Title: "List comprehension guide", Body: "List comprehensions offer a concise way to build lists.", Link: "https://example.com/a"},
}

func newTestTool(t *testing.T, s Searcher, f Formatter, m *metrics.Metrics) (*Tool, *[]time.Duration) {
	t.Helper()
	var delays []time.Duration
	tool := NewTool(s, f, WithLogger(zaptest.NewLogger(t)), WithMetrics(m))
	tool.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	tool.jitter = func() time.Duration { return 0 }
	return tool, &delays
}

func TestToolGivesUpAfterThreeAttempts(t *testing.T) {
	s := &fakeSearcher{failFor: 3, err: errors.New("ratelimited"), results: goodResults}
	m := metrics.New()
	tool, delays := newTestTool(t, s, nil, m)

	out := tool.Run(context.Background(), "python")
	assert.True(t, strings.HasPrefix(out, "Search failed after 3 attempts for query: python"), out)
	assert.Contains(t, out, "ratelimited")
	assert.Equal(t, 3, s.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *delays)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `tutorgen_search_attempts_total{outcome="error"} 3`)
}

func TestToolRecoversOnRetry(t *testing.T) {
	s := &fakeSearcher{failFor: 1, err: errors.New("timeout"), results: goodResults}
	tool, delays := newTestTool(t, s, nil, nil)

	out := tool.Run(context.Background(), "list comprehension")
	assert.Equal(t, "List comprehension guide: List comprehensions offer a concise way to build lists.", out)
	assert.Equal(t, 2, s.calls)
	assert.Len(t, *delays, 1)
}

func TestToolRetriesEmptyResults(t *testing.T) {
	s := &fakeSearcher{failFor: 3}
	tool, _ := newTestTool(t, s, nil, nil)

	out := tool.Run(context.Background(), "nothing")
	assert.Equal(t, "Search failed after 3 attempts for query: nothing: no results", out)
	assert.Equal(t, 3, s.calls)
}

func TestToolNoQualityResults(t *testing.T) {
	s := &fakeSearcher{results: []Result{{Title: "tiny", Body: "short"}}}
	tool, _ := newTestTool(t, s, nil, nil)

	assert.Equal(t, "No quality results found for query: go", tool.Run(context.Background(), "go"))
	assert.Equal(t, 1, s.calls)
}

func TestToolStopsWhenContextCanceled(t *testing.T) {
	s := &fakeSearcher{failFor: 3, err: errors.New("boom")}
	tool, _ := newTestTool(t, s, nil, nil)
	tool.sleep = sleepCtx

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := tool.Run(ctx, "go")
	assert.Contains(t, out, "Search failed after 0 attempts")
	assert.Contains(t, out, context.Canceled.Error())
	assert.Zero(t, s.calls)
}

func TestToolOptions(t *testing.T) {
	s := &fakeSearcher{failFor: 10, err: errors.New("down")}
	tool := NewTool(s, nil, WithMaxAttempts(5), WithBaseDelay(0), WithMaxResults(3))
	tool.jitter = func() time.Duration { return 0 }

	out := tool.Run(context.Background(), "go")
	assert.Contains(t, out, "Search failed after 5 attempts")
	assert.Equal(t, 5, s.calls)
	assert.Equal(t, 3, tool.maxResults)
	assert.Equal(t, "web_search", tool.Name())
}

func TestDigestFormatter(t *testing.T) {
	results := []Result{
		{Title: "Python Lists Explained", Body: "Too short to keep."},
		{Title: "Short", Body: "A body that is certainly long enough to survive the filter."},
		{Title: strings.Repeat("abcdefghij", 6), Body: strings.Repeat("word ", 30)},
		goodResults[0],
	}
	out := DigestFormatter{}.Format("python", results)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	title, body, ok := strings.Cut(lines[0], ": ")
	require.True(t, ok)
	assert.Equal(t, 53, utf8.RuneCountInString(title))
	assert.True(t, strings.HasSuffix(title, "…"))
	assert.Equal(t, 118, utf8.RuneCountInString(body))
	assert.True(t, strings.HasSuffix(body, "…"))

	assert.Equal(t, "List comprehension guide: List comprehensions offer a concise way to build lists.", lines[1])
}

func TestDigestFormatterCleansText(t *testing.T) {
	out := DigestFormatter{}.Format("q", []Result{{
		Title: "Python   Lists ★ Guide",
		Body:  "Jan 5, 2024 Lists hold ordered items and can be changed later. Read more",
	}})
	assert.Equal(t, "Python Lists Guide: Lists hold ordered items and can be changed later.", out)
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter(ModeDigest)
	require.NoError(t, err)
	assert.IsType(t, DigestFormatter{}, f)

	f, err = NewFormatter(ModeReport)
	require.NoError(t, err)
	assert.IsType(t, &ReportFormatter{}, f)

	_, err = NewFormatter("bogus")
	assert.Error(t, err)
}

const liteFixture = `<html><body><table>
<tr><td>1.&nbsp;</td><td><a rel="nofollow" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fdocs.python.org%2F3%2Ftutorial%2Fdatastructures.html&amp;rut=abc" class='result-link'>Data Structures &mdash; Python docs</a></td></tr>
<tr><td>&nbsp;</td><td class='result-snippet'>List <b>comprehensions</b> provide a concise way to create lists.</td></tr>
<tr><td>&nbsp;</td><td><span class='link-text'>docs.python.org</span></td></tr>
<tr><td>2.&nbsp;</td><td><a rel="nofollow" href="https://realpython.com/list-comprehension-python/" class='result-link'>When to Use a List Comprehension</a></td></tr>
<tr><td>&nbsp;</td><td class='result-snippet'>Learn how to write comprehensions in Python.</td></tr>
<tr><td>3.&nbsp;</td><td><a rel="nofollow" href="https://example.org/third" class='result-link'>Third result</a></td></tr>
<tr><td>&nbsp;</td><td class='result-snippet'>Third snippet.</td></tr>
</table></body></html>`

func TestDuckDuckGoSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "python list comprehension", r.PostForm.Get("q"))
		assert.Equal(t, DefaultUserAgent, r.UserAgent())
		_, _ = io.WriteString(w, liteFixture)
	}))
	defer srv.Close()

	ddg := NewDuckDuckGo(srv.URL, srv.Client())
	results, err := ddg.Search(context.Background(), "python list comprehension", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, Result{
		Title: "Data Structures — Python docs",
		Body:  "List comprehensions provide a concise way to create lists.",
		Link:  "https://docs.python.org/3/tutorial/datastructures.html",
	}, results[0])
	assert.Equal(t, "https://realpython.com/list-comprehension-python/", results[1].Link)
	assert.Equal(t, "Learn how to write comprehensions in Python.", results[1].Body)
}

func TestDuckDuckGoHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewDuckDuckGo(srv.URL, srv.Client()).Search(context.Background(), "go", 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 429")
}

func TestDuckDuckGoEmptyQuery(t *testing.T) {
	_, err := NewDuckDuckGo("", nil).Search(context.Background(), "  ", 8)
	assert.Error(t, err)
}
