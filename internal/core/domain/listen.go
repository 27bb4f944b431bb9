package domain

import "time"

// ListenOrder classifies how an album's tracks were played.
type ListenOrder string

const (
	// ListenOrderOrdered means the tracks were played in sequence.
	ListenOrderOrdered ListenOrder = "ordered"
	// ListenOrderShuffled means the tracks were played out of sequence.
	ListenOrderShuffled ListenOrder = "shuffled"
	// ListenOrderInterrupted means the tracks were played in sequence but
	// another album's tracks were interleaved between them.
	ListenOrderInterrupted ListenOrder = "interrupted"
)

// ListenMethod records how a listen happened.
type ListenMethod string

const (
	// MethodStreaming tags listens detected automatically from the
	// streaming service's play feed.
	MethodStreaming ListenMethod = "streaming"
	// MethodVinyl tags manually logged vinyl listens.
	MethodVinyl ListenMethod = "vinyl"
)

// CompletionResult is the analyzer's verdict for one album group. Order is
// only meaningful when Finished is true; an album counts as finished when the
// number of distinct tracks played equals the album's declared track count.
type CompletionResult struct {
	AlbumID   string
	AlbumName string
	Finished  bool
	Order     ListenOrder
}

// AlbumListen is a persisted record of a completed (or manually logged)
// album listen.
type AlbumListen struct {
	ID        string
	UserID    string
	AlbumID   string
	AlbumName string
	Date      time.Time
	Order     ListenOrder
	Method    ListenMethod
}
