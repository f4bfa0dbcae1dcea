package redisx

import "time"

const (
	// Profile: user:{id} -> JSON profile
	KeyProfile = "user:%s"

	// Recent items: recent:{userId} -> list, newest first
	KeyRecent = "recent:%s"

	// Cart: cart:{userId} -> set of item ids
	KeyCart = "cart:%s"

	// View counter: views:{itemId} -> integer
	KeyViews = "views:%s"
)

var TTLProfile = time.Hour

// RecentLimit bounds the recent-items list.
const RecentLimit = 10
