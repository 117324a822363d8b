package redisrepo

import "fmt"

const (
	POST_KEY             = "post:%d"                  // <postID>
	FEED_KEY             = "feed:%s:%s:%d:%d"         // <sort>:<tag>:<limit>:<offset>
	FEED_PATTERN         = "feed:*"
	AUTHOR_POSTS_KEY     = "author:%s-posts:%s:%d:%d" // <authorID>:<scope>:<limit>:<offset>
	AUTHOR_POSTS_PTRN    = "author:%s-posts:*"        // <authorID>
	POST_COMMENTS_KEY    = "post:%d-comments:%d:%d"   // <postID>:<limit>:<offset>
	POST_COMMENTS_PTRN   = "post:%d-comments:*"       // <postID>
	COMMENT_REPLIES_KEY  = "comment:%d-replies:%d:%d" // <commentID>:<limit>:<offset>
	COMMENT_REPLIES_PTRN = "comment:%d-replies:*"     // <commentID>
	USER_CACHE_KEY       = "user-cache:%s"            // <userID>
	PROFILE_KEY          = "profile:%s"               // <userID>
)

func PostKey(postID int64) string {
	return fmt.Sprintf(POST_KEY, postID)
}

func FeedKey(sort string, tag string, limit int, offset int) string {
	return fmt.Sprintf(FEED_KEY, sort, tag, limit, offset)
}

// scope is "all" for the author's own listing, "visible" for readers.
func AuthorPostsKey(authorID string, scope string, limit int, offset int) string {
	return fmt.Sprintf(AUTHOR_POSTS_KEY, authorID, scope, limit, offset)
}

func AuthorPostsPattern(authorID string) string {
	return fmt.Sprintf(AUTHOR_POSTS_PTRN, authorID)
}

func PostCommentsKey(postID int64, limit int, offset int) string {
	return fmt.Sprintf(POST_COMMENTS_KEY, postID, limit, offset)
}

func PostCommentsPattern(postID int64) string {
	return fmt.Sprintf(POST_COMMENTS_PTRN, postID)
}

func CommentRepliesKey(commentID int64, limit int, offset int) string {
	return fmt.Sprintf(COMMENT_REPLIES_KEY, commentID, limit, offset)
}

func CommentRepliesPattern(commentID int64) string {
	return fmt.Sprintf(COMMENT_REPLIES_PTRN, commentID)
}

func UserCacheKey(userID string) string {
	return fmt.Sprintf(USER_CACHE_KEY, userID)
}

func ProfileKey(userID string) string {
	return fmt.Sprintf(PROFILE_KEY, userID)
}
