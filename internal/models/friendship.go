package models

// Friendship statuses. A request starts pending and the receiver moves it
// to accept or decline; declined edges are kept so the pair cannot spam
// each other with new requests.
const (
	FriendStatusPending = "pending"
	FriendStatusAccept  = "accept"
	FriendStatusDecline = "decline"
)

// Friendship represents a friend-request edge between two users.
// The edge is directed (requester -> receiver) but treated as undirected
// for uniqueness: at most one edge may exist between a pair of users.
type Friendship struct {
	// ID is the unique identifier for the friendship (UUID format).
	ID string

	// RequesterID is the user who sent the request.
	RequesterID string

	// ReceiverID is the user who received the request.
	ReceiverID string

	// Status is one of the FriendStatus* constants.
	Status string

	// CreatedAt is the Unix timestamp when the request was sent.
	CreatedAt int64
}
