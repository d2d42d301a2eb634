// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis token-hash cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for token-hash cache entries. Matches the
// session token lifetime so a cache miss means the token is gone either way.
const AuthCacheTTL = 24 * time.Hour

// OTPTTL is how long a sent one-time code stays valid.
const OTPTTL = 5 * time.Minute

// DraftCachePrefix is the prefix used for Redis booking-draft keys.
const DraftCachePrefix = "draft:"

// DraftTTL is how long an unsubmitted booking draft survives.
const DraftTTL = 30 * time.Minute
