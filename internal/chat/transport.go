package chat

// Choice is one interactive vote button rendered by the transport. Clicking
// it produces exactly one VoteEvent for the ballot it belongs to.
type Choice struct {
	BallotID string `json:"ballotId"`
	TargetID string `json:"targetId"`
	Label    string `json:"label"`
}

// VoteEvent is the inbound side of the transport: a player picked a choice.
type VoteEvent struct {
	VoterID  string `json:"voterId"`
	TargetID string `json:"targetId"`
	BallotID string `json:"ballotId"`
}

// Transport is the chat collaborator the game core talks to. Implementations
// own connection lifecycle and rendering; the core only knows channels,
// players and choices. Sends are fire-and-forget from the core's perspective,
// delivery problems are the transport's to log.
type Transport interface {
	SendChannelMessage(channelID, text string, choices []Choice)
	SendDirectMessage(playerID, text string, choices []Choice)
}
