// Package protocol defines the JSON messages nodes exchange on the peer
// endpoint.
package protocol

import (
	"encoding/hex"
	"fmt"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

// Version is the peer protocol version every request carries.
const Version = 1

// Set of request types served on the peer endpoint.
const (
	RequestGetInfo                    = "getInfo"
	RequestGetCumulativeDifficulty    = "getCumulativeDifficulty"
	RequestGetMilestoneBlockIDs       = "getMilestoneBlockIds"
	RequestGetNextBlockIDs            = "getNextBlockIds"
	RequestGetNextBlocks              = "getNextBlocks"
	RequestGetPeers                   = "getPeers"
	RequestGetUnconfirmedTransactions = "getUnconfirmedTransactions"
	RequestProcessBlock               = "processBlock"
	RequestProcessTransactions        = "processTransactions"
)

// Limits on what a peer may send back.
const (
	MaxMilestoneBlockIDs = 20
	MaxNextBlockIDs      = 1440
	MaxNextBlocks        = 1440
)

// =============================================================================

// Hex is a byte slice presented as plain lowercase hex.
type Hex []byte

// MarshalText implements the encoding.TextMarshaler interface.
func (h Hex) MarshalText() ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(h)))
	hex.Encode(out, h)
	return out, nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface. An empty
// string decodes to nil.
func (h *Hex) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*h = nil
		return nil
	}

	out := make([]byte, hex.DecodedLen(len(text)))
	if _, err := hex.Decode(out, text); err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}

	*h = out
	return nil
}

// =============================================================================

// Envelope is carried by every request.
type Envelope struct {
	Protocol    int    `json:"protocol"`
	RequestType string `json:"requestType" validate:"required"`
}

// NewEnvelope constructs the envelope for the request type.
func NewEnvelope(requestType string) Envelope {
	return Envelope{Protocol: Version, RequestType: requestType}
}

// GetInfoRequest announces the calling node.
type GetInfoRequest struct {
	Envelope
	Application      string `json:"application"`
	Version          string `json:"version"`
	Platform         string `json:"platform"`
	ShareAddress     bool   `json:"shareAddress"`
	AnnouncedAddress string `json:"announcedAddress,omitempty"`
}

// GetMilestoneBlockIDsRequest asks for the milestones below either the
// caller's head or the last milestone it was sent.
type GetMilestoneBlockIDsRequest struct {
	Envelope
	LastBlockID          database.ID `json:"lastBlockId,omitempty"`
	LastMilestoneBlockID database.ID `json:"lastMilestoneBlockId,omitempty"`
}

// BlockIDRequest asks for what follows a block, it serves both
// getNextBlockIds and getNextBlocks.
type BlockIDRequest struct {
	Envelope
	BlockID database.ID `json:"blockId"`
}

// ProcessBlockRequest pushes a freshly forged block.
type ProcessBlockRequest struct {
	Envelope
	Block
}

// ProcessTransactionsRequest pushes unconfirmed transactions.
type ProcessTransactionsRequest struct {
	Envelope
	Transactions []Transaction `json:"transactions"`
}

// =============================================================================

// GetInfoResponse describes the answering node.
type GetInfoResponse struct {
	Application      string `json:"application"`
	Version          string `json:"version"`
	Platform         string `json:"platform"`
	ShareAddress     bool   `json:"shareAddress"`
	AnnouncedAddress string `json:"announcedAddress,omitempty"`
	Hallmark         string `json:"hallmark,omitempty"`
}

// GetCumulativeDifficultyResponse reports the strength of the peer chain.
type GetCumulativeDifficultyResponse struct {
	CumulativeDifficulty string `json:"cumulativeDifficulty"`
	BlockchainHeight     int32  `json:"blockchainHeight"`
}

// GetMilestoneBlockIDsResponse lists block ids from the head down.
type GetMilestoneBlockIDsResponse struct {
	MilestoneBlockIDs []database.ID `json:"milestoneBlockIds"`
	Last              bool          `json:"last,omitempty"`
}

// GetNextBlockIDsResponse lists the ids following a block.
type GetNextBlockIDsResponse struct {
	NextBlockIDs []database.ID `json:"nextBlockIds"`
}

// GetNextBlocksResponse carries the blocks following a block.
type GetNextBlocksResponse struct {
	NextBlocks []Block `json:"nextBlocks"`
}

// GetPeersResponse lists the announced addresses a node knows.
type GetPeersResponse struct {
	Peers []string `json:"peers"`
}

// GetUnconfirmedTransactionsResponse carries the unconfirmed pool.
type GetUnconfirmedTransactionsResponse struct {
	UnconfirmedTransactions []Transaction `json:"unconfirmedTransactions"`
}

// ProcessBlockResponse reports whether a pushed block was accepted.
type ProcessBlockResponse struct {
	Accepted bool `json:"accepted"`
}

// ErrorResponse is returned for a request that could not be served.
type ErrorResponse struct {
	Error string `json:"error"`
}
