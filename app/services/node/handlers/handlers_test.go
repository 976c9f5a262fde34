package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/app/services/node/handlers"
	"github.com/libertyswede/nxtnode/business/web/errs"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database/storage/memory"
	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
	"github.com/libertyswede/nxtnode/foundation/events"
	"github.com/libertyswede/nxtnode/foundation/nameservice"
)

const stake = 1_000_000

var (
	creatorKey = signature.KeyFromSeed("creator")
	aliceKey   = signature.KeyFromSeed("alice")
	aliceID    = database.PublicKeyToAccountID(signature.PublicKey(aliceKey))
)

type node struct {
	state  *state.State
	public http.Handler
	peer   http.Handler
	debug  http.Handler
}

func newNode(t *testing.T) node {
	t.Helper()

	creator := signature.PublicKey(creatorKey)

	tx := database.Transaction{
		Kind:            database.KindOrdinaryPayment,
		SenderPublicKey: creator,
		RecipientID:     aliceID,
		AmountNQT:       stake * database.OneNxt,
	}
	require.NoError(t, tx.Sign(creator, creatorKey, false))

	st, err := state.New(state.Config{
		Host: "10.0.0.1:7874",
		Genesis: genesis.Genesis{
			Network:          genesis.Mainnet,
			CreatorPublicKey: creator,
			Eras:             genesis.MainnetEras(),
			Allocations: []genesis.Allocation{
				{Recipient: uint64(aliceID), AmountNQT: stake * database.OneNxt, Signature: tx.Signature},
			},
		},
		Storage: memory.New(),
		Now:     func() int32 { return 1000 },
	})
	require.NoError(t, err)
	require.NoError(t, st.AddGenesisBlockIfNeeded())

	accounts := t.TempDir()
	seed := hexutil.Encode(aliceKey.Seed())
	require.NoError(t, os.WriteFile(filepath.Join(accounts, "alice.key"), []byte(seed), 0600))

	ns, err := nameservice.New(accounts)
	require.NoError(t, err)

	log := zap.NewNop().Sugar()
	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      log,
		State:    st,
		Evts:     events.New(),
		NS:       ns,
		Build:    "test",
	}

	return node{
		state:  st,
		public: handlers.PublicMux(cfg),
		peer:   handlers.PeerMux(cfg),
		debug:  handlers.DebugMux("test", log, st),
	}
}

func serve(h http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestPublicRoutes(t *testing.T) {
	n := newNode(t)
	genesisID := n.state.GenesisBlock().ID()

	t.Run("status", func(t *testing.T) {
		w := serve(n.public, http.MethodGet, "/v1/status", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got struct {
			Status      string      `json:"status"`
			Height      int32       `json:"height"`
			LatestBlock database.ID `json:"latest_block"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "synced", got.Status)
		assert.Equal(t, int32(0), got.Height)
		assert.Equal(t, genesisID, got.LatestBlock)
	})

	t.Run("account", func(t *testing.T) {
		w := serve(n.public, http.MethodGet, "/v1/accounts/"+aliceID.String(), "")
		require.Equal(t, http.StatusOK, w.Code)

		var got struct {
			Name string `json:"name"`
			database.AccountInfo
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "alice", got.Name)
		assert.Equal(t, aliceID, got.ID)
		assert.Equal(t, int64(stake*database.OneNxt), got.BalanceNQT)
	})

	t.Run("account names", func(t *testing.T) {
		w := serve(n.public, http.MethodGet, "/v1/accounts/names", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got []struct {
			Account database.ID `json:"account"`
			Name    string      `json:"name"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, aliceID, got[0].Account)
		assert.Equal(t, "alice", got[0].Name)
	})

	t.Run("unknown account", func(t *testing.T) {
		w := serve(n.public, http.MethodGet, "/v1/accounts/42", "")
		require.Equal(t, http.StatusNotFound, w.Code)

		var got errs.Response
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Contains(t, got.Error, "not found")
	})

	t.Run("malformed account", func(t *testing.T) {
		w := serve(n.public, http.MethodGet, "/v1/accounts/alice", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("block by id", func(t *testing.T) {
		w := serve(n.public, http.MethodGet, "/v1/blocks/"+genesisID.String(), "")
		require.Equal(t, http.StatusOK, w.Code)

		var got struct {
			ID           database.ID            `json:"id"`
			Transactions []protocol.Transaction `json:"transactions"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, genesisID, got.ID)
		assert.Len(t, got.Transactions, 1)
	})

	t.Run("latest blocks", func(t *testing.T) {
		w := serve(n.public, http.MethodGet, "/v1/blocks/list/latest/latest", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got []struct {
			Height int32 `json:"height"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, int32(0), got[0].Height)
	})

	t.Run("inverted block range", func(t *testing.T) {
		w := serve(n.public, http.MethodGet, "/v1/blocks/list/5/1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown alias", func(t *testing.T) {
		w := serve(n.public, http.MethodGet, "/v1/aliases/nothing", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("empty unconfirmed pool", func(t *testing.T) {
		w := serve(n.public, http.MethodGet, "/v1/tx/unconfirmed", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("submit without signature", func(t *testing.T) {
		body := `{"type":0,"subtype":0,"timestamp":900,"deadline":60,"senderPublicKey":"00","recipient":"1","amountNQT":1,"feeNQT":100000000,"signature":""}`
		w := serve(n.public, http.MethodPost, "/v1/tx/submit", body)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var got errs.Response
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Contains(t, got.Fields, "senderPublicKey")
		assert.Contains(t, got.Fields, "signature")
	})
}

func TestPeerEndpoint(t *testing.T) {
	n := newNode(t)

	t.Run("cumulative difficulty", func(t *testing.T) {
		w := serve(n.peer, http.MethodPost, "/nxt", `{"protocol":1,"requestType":"getCumulativeDifficulty"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got protocol.GetCumulativeDifficultyResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "0", got.CumulativeDifficulty)
		assert.Equal(t, int32(0), got.BlockchainHeight)
	})

	t.Run("unsupported request", func(t *testing.T) {
		w := serve(n.peer, http.MethodPost, "/nxt", `{"protocol":1,"requestType":"forgeForMe"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got protocol.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Contains(t, got.Error, "unsupported request type")
	})

	t.Run("missing request type", func(t *testing.T) {
		w := serve(n.peer, http.MethodPost, "/nxt", `{"protocol":1}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got protocol.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.NotEmpty(t, got.Error)
	})

	t.Run("get info registers the caller", func(t *testing.T) {
		body := `{"protocol":1,"requestType":"getInfo","application":"NRS","version":"1.5.10","shareAddress":true,"announcedAddress":"10.0.0.2:7874"}`
		w := serve(n.peer, http.MethodPost, "/nxt", body)
		require.Equal(t, http.StatusOK, w.Code)

		var got protocol.GetInfoResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "NRS", got.Application)
		assert.Equal(t, "10.0.0.1:7874", got.AnnouncedAddress)

		known := n.state.RetrieveConnectedPeers()
		require.Len(t, known, 1)
		assert.Equal(t, "10.0.0.2:7874", known[0].Host)

		w = serve(n.peer, http.MethodPost, "/nxt", `{"protocol":1,"requestType":"getPeers"}`)
		var peers protocol.GetPeersResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&peers))
		assert.Equal(t, []string{"10.0.0.2:7874"}, peers.Peers)
	})

	t.Run("next block ids from genesis", func(t *testing.T) {
		body := `{"protocol":1,"requestType":"getNextBlockIds","blockId":"` + n.state.GenesisBlock().ID().String() + `"}`
		w := serve(n.peer, http.MethodPost, "/nxt", body)
		require.Equal(t, http.StatusOK, w.Code)

		var got protocol.GetNextBlockIDsResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Empty(t, got.NextBlockIDs)
	})
}

func TestDebugChecks(t *testing.T) {
	n := newNode(t)

	w := serve(n.debug, http.MethodGet, "/debug/readiness", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(n.debug, http.MethodGet, "/debug/liveness", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(n.debug, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
