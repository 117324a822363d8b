package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{
		Success:   status < 400,
		Status:    status,
		Data:      mustMarshal(data),
		Version:   "1.0.0",
		Timestamp: time.Now(),
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{
		Success:   false,
		Status:    status,
		Message:   message,
		Version:   "1.0.0",
		Timestamp: time.Now(),
	})
}

func mustMarshal(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

func feedPage(ids ...int64) []FullPost {
	posts := make([]FullPost, len(ids))
	for i, id := range ids {
		posts[i] = FullPost{
			Post:   Post{ID: id, Title: "post", Likes: 5},
			Author: Author{ID: "u1", Username: "gopher"},
		}
	}
	return posts
}

func TestFeed_CachesPages(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		writeEnvelope(w, http.StatusOK, feedPage(1, 2))
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	first, err := c.Feed(ctx, FeedQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := c.Feed(ctx, FeedQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&requests))

	// a different filter set is a different cache key
	_, err = c.Feed(ctx, FeedQuery{Limit: 10, Tag: "go"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
}

func TestToggleLike_MergesServerCount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/posts", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, feedPage(1))
	})
	mux.HandleFunc("GET /api/v1/posts/1", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, PostDetail{Post: feedPage(1)[0]})
	})
	mux.HandleFunc("POST /api/v1/posts/1/like", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, likeResult{Likes: 6, IsLiked: true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Feed(ctx, FeedQuery{Limit: 10})
	require.NoError(t, err)
	_, err = c.GetPost(ctx, 1)
	require.NoError(t, err)

	likes, isLiked, err := c.ToggleLike(ctx, 1, true)
	require.NoError(t, err)
	assert.Equal(t, int64(6), likes)
	assert.True(t, isLiked)

	// every cached view reflects the server-confirmed count
	detail, err := c.GetPost(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), detail.Post.Post.Likes)
	assert.True(t, detail.IsLiked)

	feed, err := c.Feed(ctx, FeedQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(6), feed[0].Post.Likes)
}

func TestToggleLike_RollsBackOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/posts/1", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, PostDetail{Post: feedPage(1)[0]})
	})
	mux.HandleFunc("POST /api/v1/posts/1/like", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusConflict, "post is already liked")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	before, err := c.GetPost(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(5), before.Post.Post.Likes)

	_, _, err = c.ToggleLike(ctx, 1, true)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsConflict())

	// the cache is back at its pre-mutation snapshot
	after, err := c.GetPost(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), after.Post.Post.Likes)
	assert.False(t, after.IsLiked)
}

func TestToggleLike_RefreshesLikersPages(t *testing.T) {
	var likersRequests int64
	liked := int64(0)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/posts/1/likes", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&likersRequests, 1)
		likers := []Author{{ID: "u1", Username: "gopher"}}
		if atomic.LoadInt64(&liked) == 1 {
			likers = append(likers, Author{ID: "u2", Username: "rustacean"})
		}
		writeEnvelope(w, http.StatusOK, likers)
	})
	mux.HandleFunc("POST /api/v1/posts/1/like", func(w http.ResponseWriter, r *http.Request) {
		atomic.StoreInt64(&liked, 1)
		writeEnvelope(w, http.StatusOK, likeResult{Likes: 2, IsLiked: true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	first, err := c.Likers(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// repeated reads come from cache
	_, err = c.Likers(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), atomic.LoadInt64(&likersRequests))

	_, _, err = c.ToggleLike(ctx, 1, true)
	require.NoError(t, err)

	// the toggle drops cached likers pages; the next read refetches
	after, err := c.Likers(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&likersRequests))
	require.Len(t, after, 2)
	assert.Equal(t, "rustacean", after[1].Username)
}

func TestDoJSON_Retries5xx(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&requests, 1)
		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeEnvelope(w, http.StatusOK, feedPage(1))
	}))
	defer srv.Close()

	c := New(srv.URL)

	posts, err := c.Feed(context.Background(), FeedQuery{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, int64(3), atomic.LoadInt64(&requests))
}

func TestDoJSON_ExhaustsRetries(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)

	_, err := c.Feed(context.Background(), FeedQuery{Limit: 10})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, int64(maxAttempts), atomic.LoadInt64(&requests))
}

func TestDoJSON_NoRetryOn4xx(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		writeError(w, http.StatusNotFound, "post not found")
	}))
	defer srv.Close()

	c := New(srv.URL)

	_, err := c.GetPost(context.Background(), 99)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, int64(1), atomic.LoadInt64(&requests))
}

func TestClient_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeError(w, http.StatusUnauthorized, "user is not authorized")
			return
		}
		writeEnvelope(w, http.StatusOK, feedPage(1))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))

	_, err := c.Feed(context.Background(), FeedQuery{Limit: 10})
	require.NoError(t, err)
}
