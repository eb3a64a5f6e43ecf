package errors

import "errors"

var (
	ErrNoFeeds    = errors.New("config declares no feeds")
	ErrEmptyFeed  = errors.New("feed contains no entries")
	ErrNoFeedLink = errors.New("page links to no RSS or Atom feed")
)
