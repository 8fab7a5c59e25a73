// Package feed selects, orders, caches and paginates the post feeds.
package feed

import (
	"strconv"
)

// Kind names one of the feed views.
type Kind string

const (
	// KindGlobal is every post. It is the only cached feed.
	KindGlobal Kind = "global"
	// KindGroup is the posts filed under one group; Param is the group slug.
	KindGroup Kind = "group"
	// KindAuthor is the posts of one user; Param is the username.
	KindAuthor Kind = "author"
	// KindSubscription is the posts of every author a user follows; Param is the user id.
	KindSubscription Kind = "subscription"
)

// Request identifies a feed.
type Request struct {
	Kind  Kind
	Param string
}

// GlobalFeed requests the global feed.
func GlobalFeed() Request { return Request{Kind: KindGlobal} }

// GroupFeed requests the feed of the group with slug.
func GroupFeed(slug string) Request { return Request{Kind: KindGroup, Param: slug} }

// AuthorFeed requests the feed of the user named username.
func AuthorFeed(username string) Request { return Request{Kind: KindAuthor, Param: username} }

// SubscriptionFeed requests the feed built from the authors userID follows.
func SubscriptionFeed(userID uint) Request {
	return Request{Kind: KindSubscription, Param: strconv.FormatUint(uint64(userID), 10)}
}
