package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Author struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

type Tag struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
}

type Post struct {
	ID          int64           `json:"id"`
	AuthorID    string          `json:"author_id"`
	Title       string          `json:"title"`
	Subtitle    *string         `json:"subtitle"`
	Blocks      json.RawMessage `json:"content_blocks"`
	Status      string          `json:"status"`
	ScheduledAt *time.Time      `json:"scheduled_at"`
	Views       int64           `json:"views"`
	Likes       int64           `json:"likes"`
	Comments    int64           `json:"comments"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type FullPost struct {
	Post   Post   `json:"post"`
	Author Author `json:"author"`
	Tags   []Tag  `json:"tags"`
}

type PostDetail struct {
	Post    FullPost `json:"post"`
	IsLiked bool     `json:"is_liked"`
	IsSaved bool     `json:"is_saved"`
}

type FeedQuery struct {
	Limit  int
	Offset int
	Sort   string
	Tag    string
}

func (q FeedQuery) encode() string {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(q.Limit))
	values.Set("offset", strconv.Itoa(q.Offset))
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}
	if q.Tag != "" {
		values.Set("tag", q.Tag)
	}
	// url.Values.Encode sorts by key, which makes the cache key canonical.
	return values.Encode()
}

func (q FeedQuery) cacheKey() string {
	return "feed?" + q.encode()
}

func postCacheKey(postID int64) string {
	return fmt.Sprintf("post:%d", postID)
}

func likersKeyPrefix(postID int64) string {
	return fmt.Sprintf("post:%d/likers?", postID)
}

func likersCacheKey(postID int64, limit, offset int) string {
	return fmt.Sprintf("%slimit=%d&offset=%d", likersKeyPrefix(postID), limit, offset)
}

// Feed returns a feed page, served from cache when present.
func (c *Client) Feed(ctx context.Context, q FeedQuery) ([]FullPost, error) {
	key := q.cacheKey()
	if cached, ok := c.cache.get(key); ok && cached.list != nil {
		return cached.list, nil
	}

	version := c.cache.version(key)

	var posts []FullPost
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/posts?"+q.encode(), nil, &posts); err != nil {
		return nil, err
	}

	c.cache.setIfVersion(key, version, cacheValue{list: posts})
	return posts, nil
}

// GetPost returns a post detail view, served from cache when present.
func (c *Client) GetPost(ctx context.Context, postID int64) (*PostDetail, error) {
	key := postCacheKey(postID)
	if cached, ok := c.cache.get(key); ok && cached.detail != nil {
		return cached.detail, nil
	}

	version := c.cache.version(key)

	var detail PostDetail
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), nil, &detail); err != nil {
		return nil, err
	}

	c.cache.setIfVersion(key, version, cacheValue{detail: &detail})
	return &detail, nil
}

// Likers returns a page of users who liked the post, served from cache
// when present.
func (c *Client) Likers(ctx context.Context, postID int64, limit, offset int) ([]Author, error) {
	key := likersCacheKey(postID, limit, offset)
	if cached, ok := c.cache.get(key); ok && cached.likers != nil {
		return cached.likers, nil
	}

	version := c.cache.version(key)

	var likers []Author
	path := fmt.Sprintf("/api/v1/posts/%d/likes?limit=%d&offset=%d", postID, limit, offset)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &likers); err != nil {
		return nil, err
	}

	c.cache.setIfVersion(key, version, cacheValue{likers: likers})
	return likers, nil
}

type likeResult struct {
	Likes   int64 `json:"likes"`
	IsLiked bool  `json:"is_liked"`
}

// ToggleLike speculatively flips the like state in every cached view
// containing the post, then confirms with the server. On failure all
// touched entries are restored to their pre-mutation snapshots; on
// success the server-confirmed count is merged back in.
func (c *Client) ToggleLike(ctx context.Context, postID int64, like bool) (likes int64, isLiked bool, err error) {
	delta := int64(1)
	if !like {
		delta = -1
	}

	snap := c.cache.mutate(func(value *cacheValue) bool {
		return applyToPost(value, postID, func(p *Post, detail *PostDetail) {
			p.Likes += delta
			if detail != nil {
				detail.IsLiked = like
			}
		})
	})

	method, path := http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/like", postID)
	if !like {
		method, path = http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d/unlike", postID)
	}

	var result likeResult
	if err := c.doJSON(ctx, method, path, nil, &result); err != nil {
		c.cache.restore(snap)
		return 0, false, err
	}

	c.cache.reconcile(snap, func(value *cacheValue) {
		applyToPost(value, postID, func(p *Post, detail *PostDetail) {
			p.Likes = result.Likes
			if detail != nil {
				detail.IsLiked = result.IsLiked
			}
		})
	})

	// likers pages can't be patched locally (the client doesn't hold its
	// own profile row), so drop them and let the next read refetch
	c.cache.invalidatePrefix(likersKeyPrefix(postID))

	return result.Likes, result.IsLiked, nil
}

// applyToPost runs fn against every occurrence of postID inside a cache
// entry and reports whether anything matched.
func applyToPost(value *cacheValue, postID int64, fn func(p *Post, detail *PostDetail)) bool {
	touched := false
	if value.detail != nil && value.detail.Post.Post.ID == postID {
		fn(&value.detail.Post.Post, value.detail)
		touched = true
	}
	for i := range value.list {
		if value.list[i].Post.ID == postID {
			fn(&value.list[i].Post, nil)
			touched = true
		}
	}
	return touched
}

type CreatePostInput struct {
	Title       string            `json:"title"`
	Subtitle    *string           `json:"subtitle,omitempty"`
	Tags        []Tag             `json:"tags"`
	Status      string            `json:"status"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
	Blocks      []json.RawMessage `json:"content_blocks"`
}

// CreatePost submits a new post and drops cached feed pages so the next
// fetch sees it.
func (c *Client) CreatePost(ctx context.Context, input CreatePostInput) (*Post, error) {
	var created Post
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/posts", input, &created); err != nil {
		return nil, err
	}

	c.cache.purge()
	return &created, nil
}

// InvalidatePost drops the cached detail entry for a post.
func (c *Client) InvalidatePost(postID int64) {
	c.cache.invalidate(postCacheKey(postID))
}
