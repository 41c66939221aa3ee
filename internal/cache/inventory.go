package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix   = "user:%d"
	PostKeyPrefix   = "post:%d"
	PostsListKey    = "posts:recent"
	UserPostsPrefix = "user:%d:posts"
	PostCommentsKey = "post:%d:comments"
)

// RecentListLimit is the page size of the cached recent-posts listing.
// Requests with any other limit bypass the cache entirely.
const RecentListLimit = 20

const (
	UserTTL     = 5 * time.Minute
	PostTTL     = 30 * time.Minute
	ListTTL     = 30 * time.Second
	CommentsTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func UserPostsKey(userID uint) string {
	return fmt.Sprintf(UserPostsPrefix, userID)
}

func CommentsKey(postID uint) string {
	return fmt.Sprintf(PostCommentsKey, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, CommentsKey(postID))
}

func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}
