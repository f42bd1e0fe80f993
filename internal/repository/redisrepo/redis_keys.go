package redisrepo

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	POST_KEY       = "post:%s"       // <postID>
	USER_CACHE_KEY = "user-cache:%s" // <userID>
)

func PostKey(postID uuid.UUID) string {
	return fmt.Sprintf(POST_KEY, postID.String())
}

func UserCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf(USER_CACHE_KEY, userID.String())
}
