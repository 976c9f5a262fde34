package state_test

import (
	"crypto/ed25519"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libertyswede/nxtnode/foundation/blockchain/consensus"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database/storage/memory"
	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
)

const stake = 400_000_000

var (
	creatorKey = signature.KeyFromSeed("creator")
	aliceKey   = signature.KeyFromSeed("alice")
	bobKey     = signature.KeyFromSeed("bob")
	carolKey   = signature.KeyFromSeed("carol")
)

func accountID(key ed25519.PrivateKey) database.ID {
	return database.PublicKeyToAccountID(signature.PublicKey(key))
}

// fixture is a chain seeded with the stake of alice and bob.
type fixture struct {
	t       *testing.T
	gen     genesis.Genesis
	storage *memory.Memory
	now     int32
	state   *state.State
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	creator := signature.PublicKey(creatorKey)

	var allocs []genesis.Allocation
	for _, key := range []ed25519.PrivateKey{aliceKey, bobKey} {
		tx := database.Transaction{
			Kind:            database.KindOrdinaryPayment,
			SenderPublicKey: creator,
			RecipientID:     accountID(key),
			AmountNQT:       stake * database.OneNxt,
		}
		require.NoError(t, tx.Sign(creator, creatorKey, false))

		allocs = append(allocs, genesis.Allocation{
			Recipient: uint64(accountID(key)),
			AmountNQT: stake * database.OneNxt,
			Signature: tx.Signature,
		})
	}

	f := fixture{
		t: t,
		gen: genesis.Genesis{
			Network:          genesis.Mainnet,
			CreatorPublicKey: creator,
			Eras:             genesis.MainnetEras(),
			Allocations:      allocs,
		},
		storage: memory.New(),
	}
	f.state = f.open()

	require.NoError(t, f.state.AddGenesisBlockIfNeeded())

	return &f
}

// open constructs a state over the fixture storage.
func (f *fixture) open() *state.State {
	f.t.Helper()

	st, err := state.New(state.Config{
		Host:    "localhost:7874",
		Genesis: f.gen,
		Storage: f.storage,
		Now:     func() int32 { return f.now },
	})
	require.NoError(f.t, err)

	return st
}

// forge builds a signed block on top of previous. The block waits at least
// minElapsed seconds and long enough for the generator's hit to be valid.
func (f *fixture) forge(previous *database.Block, key ed25519.PrivateKey, minElapsed int32, trans ...*database.Transaction) *database.Block {
	f.t.Helper()

	account, err := f.state.QueryAccount(accountID(key))
	require.NoError(f.t, err)

	genSig := consensus.GenerationSignature(1, previous, key)
	hit := consensus.Hit(signature.Hash(genSig))
	perSecond := big.NewInt(previous.BaseTarget * account.EffectiveBalance)
	elapsed := max(int32(new(big.Int).Quo(hit, perSecond).Int64())+1, minElapsed)

	block, err := database.NewBlock(database.BlockArgs{
		Version:             1,
		Timestamp:           previous.Timestamp + elapsed,
		Previous:            previous,
		Transactions:        trans,
		GeneratorPublicKey:  signature.PublicKey(key),
		GenerationSignature: genSig,
	})
	require.NoError(f.t, err)
	block.Sign(key)

	consensus.BaseTarget(previous, block)
	f.now = max(f.now, block.Timestamp)

	return block
}

// payment builds a signed payment in whole coins with a one coin fee.
func (f *fixture) payment(key ed25519.PrivateKey, recipient database.ID, coins int64) *database.Transaction {
	f.t.Helper()

	tx := database.Transaction{
		Kind:            database.KindOrdinaryPayment,
		Timestamp:       1,
		Deadline:        1440,
		SenderPublicKey: signature.PublicKey(key),
		RecipientID:     recipient,
		AmountNQT:       coins * database.OneNxt,
		FeeNQT:          database.OneNxt,
	}
	require.NoError(f.t, tx.Sign(f.gen.CreatorPublicKey, key, false))

	return &tx
}

// alias builds a signed alias assignment.
func (f *fixture) alias(key ed25519.PrivateKey, name string) *database.Transaction {
	f.t.Helper()

	tx := database.Transaction{
		Kind:            database.KindAliasAssignment,
		Timestamp:       1,
		Deadline:        1440,
		SenderPublicKey: signature.PublicKey(key),
		RecipientID:     database.PublicKeyToAccountID(f.gen.CreatorPublicKey),
		FeeNQT:          database.OneNxt,
		Attachment:      database.AliasAttachment{Name: name, URI: "http://" + name + ".example"},
	}
	require.NoError(f.t, tx.Sign(f.gen.CreatorPublicKey, key, false))

	return &tx
}

// aliasUpdate builds a signed reassignment of an alias the sender owns.
func (f *fixture) aliasUpdate(key ed25519.PrivateKey, name string) *database.Transaction {
	f.t.Helper()

	tx := f.alias(key, name)
	tx.Timestamp = 2
	tx.Attachment = database.AliasAttachment{Name: name, URI: "http://" + name + ".example/moved"}
	require.NoError(f.t, tx.Sign(f.gen.CreatorPublicKey, key, false))

	return tx
}

func (f *fixture) account(key ed25519.PrivateKey) database.AccountInfo {
	f.t.Helper()

	info, err := f.state.QueryAccount(accountID(key))
	require.NoError(f.t, err)

	return info
}

// =============================================================================

func TestGenesis(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, state.Synced, f.state.Status())

	genesisBlock := f.state.GenesisBlock()
	require.NotNil(t, genesisBlock)
	assert.Equal(t, genesisBlock.ID(), f.state.LatestBlock().ID())
	assert.Zero(t, genesisBlock.Height)
	assert.Len(t, genesisBlock.Transactions, 2)

	for _, key := range []ed25519.PrivateKey{aliceKey, bobKey} {
		info := f.account(key)
		assert.Equal(t, stake*database.OneNxt, info.BalanceNQT)
		assert.Equal(t, stake*database.OneNxt, info.UnconfirmedNQT)
		assert.Equal(t, int64(stake), info.EffectiveBalance)
	}

	require.NoError(t, f.state.AddGenesisBlockIfNeeded())
	assert.Equal(t, genesisBlock.ID(), f.state.LatestBlock().ID())
}

func TestPushBlock(t *testing.T) {
	f := newFixture(t)
	genesisBlock := f.state.LatestBlock()

	tx := f.payment(aliceKey, accountID(carolKey), 10)
	block := f.forge(genesisBlock, bobKey, 0, tx)

	require.NoError(t, f.state.PushBlock(block))

	latest := f.state.LatestBlock()
	assert.Equal(t, block.ID(), latest.ID())
	assert.Equal(t, int32(1), latest.Height)
	assert.Equal(t, 1, latest.CumulativeDifficulty.Cmp(genesisBlock.CumulativeDifficulty))

	alice := f.account(aliceKey)
	assert.Equal(t, (stake-11)*database.OneNxt, alice.BalanceNQT)
	assert.Equal(t, alice.BalanceNQT, alice.UnconfirmedNQT)
	assert.Equal(t, signature.PublicKey(aliceKey), []byte(alice.PublicKey))

	bob := f.account(bobKey)
	assert.Equal(t, (stake+1)*database.OneNxt, bob.BalanceNQT)
	assert.Equal(t, database.OneNxt, bob.ForgedNQT)
	assert.Equal(t, int32(1), bob.KeyHeight)

	carol := f.account(carolKey)
	assert.Equal(t, 10*database.OneNxt, carol.BalanceNQT)

	stored, err := f.state.QueryTransaction(tx.ID())
	require.NoError(t, err)
	assert.Equal(t, block.ID(), stored.BlockID)

	t.Run("already in chain", func(t *testing.T) {
		err := f.state.PushBlock(block)
		assert.True(t, errors.Is(err, database.ErrBlockNotAccepted))
	})

	t.Run("replayed from storage", func(t *testing.T) {
		replayed := f.open()

		assert.Equal(t, block.ID(), replayed.LatestBlock().ID())
		assert.Equal(t, 0, block.CumulativeDifficulty.Cmp(replayed.LatestBlock().CumulativeDifficulty))

		info, err := replayed.QueryAccount(accountID(aliceKey))
		require.NoError(t, err)
		assert.Equal(t, alice.BalanceNQT, info.BalanceNQT)
		assert.Equal(t, alice.UnconfirmedNQT, info.UnconfirmedNQT)
	})
}

func TestPushBlockRejected(t *testing.T) {
	tests := []struct {
		name   string
		block  func(f *fixture, previous *database.Block) *database.Block
		target error
	}{
		{
			name: "double spending",
			block: func(f *fixture, previous *database.Block) *database.Block {
				return f.forge(previous, bobKey, 0,
					f.payment(aliceKey, accountID(carolKey), stake/4*3),
					f.payment(aliceKey, accountID(bobKey), stake/4*3),
				)
			},
			target: database.ErrDoubleSpending,
		},
		{
			name: "duplicate alias",
			block: func(f *fixture, previous *database.Block) *database.Block {
				return f.forge(previous, bobKey, 0,
					f.alias(aliceKey, "nxt"),
					f.alias(bobKey, "NXT"),
				)
			},
			target: database.ErrBlockNotAccepted,
		},
		{
			name: "expired transaction",
			block: func(f *fixture, previous *database.Block) *database.Block {
				return f.forge(previous, bobKey, 24*60*60+10, f.payment(aliceKey, accountID(carolKey), 1))
			},
			target: database.ErrBlockNotAccepted,
		},
		{
			name: "tampered totals",
			block: func(f *fixture, previous *database.Block) *database.Block {
				block := f.forge(previous, bobKey, 0, f.payment(aliceKey, accountID(carolKey), 1))
				block.TotalFeeNQT += database.OneNxt
				block.Sign(bobKey)
				return block
			},
			target: database.ErrBlockNotAccepted,
		},
		{
			name: "bad transaction signature",
			block: func(f *fixture, previous *database.Block) *database.Block {
				tx := f.payment(aliceKey, accountID(carolKey), 1)
				tx.Signature = signature.Sign([]byte("other"), aliceKey)
				require.NoError(f.t, tx.Seal(f.gen.CreatorPublicKey, false))
				return f.forge(previous, bobKey, 0, tx)
			},
			target: database.ErrBlockNotAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			genesisBlock := f.state.LatestBlock()

			err := f.state.PushBlock(tt.block(f, genesisBlock))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), err.Error())

			assert.Equal(t, genesisBlock.ID(), f.state.LatestBlock().ID())
			for _, key := range []ed25519.PrivateKey{aliceKey, bobKey} {
				info := f.account(key)
				assert.Equal(t, stake*database.OneNxt, info.BalanceNQT)
				assert.Equal(t, stake*database.OneNxt, info.UnconfirmedNQT)
			}
		})
	}
}

func TestAlias(t *testing.T) {
	f := newFixture(t)

	tx := f.alias(aliceKey, "Nxt")
	block := f.forge(f.state.LatestBlock(), bobKey, 0, tx)
	require.NoError(t, f.state.PushBlock(block))

	alias, err := f.state.QueryAlias("nxt")
	require.NoError(t, err)
	assert.Equal(t, accountID(aliceKey), alias.AccountID)
	assert.Equal(t, tx.ID(), alias.ID)

	t.Run("owned by another account", func(t *testing.T) {
		next := f.forge(f.state.LatestBlock(), bobKey, 0, f.alias(bobKey, "nxt"))
		err := f.state.PushBlock(next)
		assert.True(t, errors.Is(err, database.ErrBlockNotAccepted))
	})

	t.Run("removed when the block is popped", func(t *testing.T) {
		popped, err := f.state.PopOffTo(f.state.GenesisBlock())
		require.NoError(t, err)
		require.Len(t, popped, 1)

		_, err = f.state.QueryAlias("nxt")
		assert.True(t, errors.Is(err, database.ErrNotFound))
		assert.Equal(t, 1, f.state.QueryMempoolLength())
	})
}

func TestPopOff(t *testing.T) {
	f := newFixture(t)
	genesisBlock := f.state.LatestBlock()

	tx := f.payment(aliceKey, accountID(carolKey), 10)
	block := f.forge(genesisBlock, bobKey, 0, tx)
	require.NoError(t, f.state.PushBlock(block))
	require.Zero(t, f.state.QueryMempoolLength())

	popped, err := f.state.PopOffTo(genesisBlock)
	require.NoError(t, err)
	require.Len(t, popped, 1)
	assert.Equal(t, block.ID(), popped[0].ID())

	assert.Equal(t, genesisBlock.ID(), f.state.LatestBlock().ID())
	assert.False(t, f.state.HasBlock(block.ID()))

	for _, key := range []ed25519.PrivateKey{aliceKey, bobKey} {
		info := f.account(key)
		assert.Equal(t, stake*database.OneNxt, info.BalanceNQT)
		assert.Equal(t, stake*database.OneNxt, info.UnconfirmedNQT)
		assert.Zero(t, info.ForgedNQT)
	}
	assert.Equal(t, int32(-1), f.account(bobKey).KeyHeight)
	assert.Zero(t, f.account(carolKey).BalanceNQT)

	_, err = f.state.QueryTransaction(tx.ID())
	assert.True(t, errors.Is(err, database.ErrNotFound))

	pending := f.state.UnconfirmedTransactions()
	require.Len(t, pending, 1)
	assert.Equal(t, tx.ID(), pending[0].ID())

	t.Run("popping to the head is a no-op", func(t *testing.T) {
		popped, err := f.state.PopOffTo(genesisBlock)
		require.NoError(t, err)
		assert.Empty(t, popped)
	})
}

func TestProcessFork(t *testing.T) {
	setup := func(t *testing.T) (*fixture, *database.Block, *database.Block) {
		f := newFixture(t)
		genesisBlock := f.state.LatestBlock()

		// Waiting two minutes doubles the base target, which keeps the
		// difficulty of the block below any two block fork.
		tx := f.payment(aliceKey, accountID(carolKey), 10)
		block := f.forge(genesisBlock, aliceKey, 120, tx)
		require.NoError(t, f.state.PushBlock(block))

		return f, genesisBlock, block
	}

	t.Run("stronger fork wins", func(t *testing.T) {
		f, genesisBlock, block := setup(t)

		b1 := f.forge(genesisBlock, bobKey, 0)
		b2 := f.forge(b1, bobKey, 0)

		require.NoError(t, f.state.ProcessFork([]*database.Block{b1, b2}, genesisBlock))

		assert.Equal(t, b2.ID(), f.state.LatestBlock().ID())
		assert.False(t, f.state.HasBlock(block.ID()))
		assert.Equal(t, stake*database.OneNxt, f.account(aliceKey).BalanceNQT)
		assert.Equal(t, 1, f.state.QueryMempoolLength())

		cd, height := f.state.CumulativeDifficulty()
		assert.Equal(t, int32(2), height)
		assert.Equal(t, 1, cd.Cmp(block.CumulativeDifficulty))
	})

	t.Run("invalid fork restores the chain", func(t *testing.T) {
		f, genesisBlock, block := setup(t)
		alice := f.account(aliceKey)

		b1 := f.forge(genesisBlock, bobKey, 0)
		b1.BlockSignature = signature.Sign([]byte("other"), bobKey)
		b1.Seal()
		b2 := f.forge(b1, bobKey, 0)

		err := f.state.ProcessFork([]*database.Block{b1, b2}, genesisBlock)
		require.Error(t, err)
		assert.True(t, errors.Is(err, database.ErrBlockNotAccepted))

		assert.Equal(t, block.ID(), f.state.LatestBlock().ID())
		assert.False(t, f.state.HasBlock(b1.ID()))
		restored := f.account(aliceKey)
		assert.Equal(t, alice.BalanceNQT, restored.BalanceNQT)
		assert.Equal(t, alice.UnconfirmedNQT, restored.UnconfirmedNQT)
		assert.Equal(t, alice.ForgedNQT, restored.ForgedNQT)
		assert.Zero(t, f.state.QueryMempoolLength())
	})

	t.Run("tied fork is discarded", func(t *testing.T) {
		f, genesisBlock, block := setup(t)

		// Any wait of two minutes or more caps the base target, so both
		// single blocks reach the same cumulative difficulty.
		tied := f.forge(genesisBlock, bobKey, 120)
		require.Equal(t, 0, tied.CumulativeDifficulty.Cmp(block.CumulativeDifficulty))

		require.NoError(t, f.state.ProcessFork([]*database.Block{tied}, genesisBlock))

		assert.Equal(t, block.ID(), f.state.LatestBlock().ID())
		assert.False(t, f.state.HasBlock(tied.ID()))
		assert.Zero(t, f.state.QueryMempoolLength())
	})

	t.Run("fork without a linked block is discarded", func(t *testing.T) {
		f, genesisBlock, block := setup(t)

		b1 := f.forge(genesisBlock, bobKey, 0)
		b2 := f.forge(b1, bobKey, 0)

		require.NoError(t, f.state.ProcessFork([]*database.Block{b2}, genesisBlock))
		assert.Equal(t, block.ID(), f.state.LatestBlock().ID())
	})
}

func TestProcessForkIrreversible(t *testing.T) {
	setup := func(t *testing.T) (*fixture, *database.Block, *database.Block) {
		f := newFixture(t)

		b1 := f.forge(f.state.LatestBlock(), bobKey, 0, f.alias(bobKey, "abc"))
		require.NoError(t, f.state.PushBlock(b1))

		b2 := f.forge(b1, aliceKey, 120)
		require.NoError(t, f.state.PushBlock(b2))

		return f, b1, b2
	}

	t.Run("losing fork with an alias update is discarded", func(t *testing.T) {
		f, b1, b2 := setup(t)

		losing := f.forge(b1, bobKey, 240, f.aliasUpdate(bobKey, "abc"))

		require.NoError(t, f.state.ProcessFork([]*database.Block{losing}, b1))

		assert.Equal(t, b2.ID(), f.state.LatestBlock().ID())
		assert.True(t, f.state.HasBlock(b2.ID()))
		assert.False(t, f.state.HasBlock(losing.ID()))
	})

	t.Run("failed rollback of a fork is escalated", func(t *testing.T) {
		f, b1, _ := setup(t)

		// The first fork block only ties the head. The second one is
		// invalid, so the fork has to be rolled back, which the alias
		// update makes impossible.
		f1 := f.forge(b1, bobKey, 120, f.aliasUpdate(bobKey, "abc"))
		f2 := f.forge(f1, bobKey, 0)
		f2.BlockSignature = signature.Sign([]byte("other"), bobKey)
		f2.Seal()

		err := f.state.ProcessFork([]*database.Block{f1, f2}, b1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, state.ErrRestoreFailed), err.Error())
		assert.False(t, errors.Is(err, database.ErrUndoNotSupported))
		assert.False(t, errors.Is(err, database.ErrBlockNotAccepted))
	})
}

func TestMilestoneBlockIDs(t *testing.T) {
	f := newFixture(t)
	genesisBlock := f.state.LatestBlock()

	b1 := f.forge(genesisBlock, bobKey, 0)
	require.NoError(t, f.state.PushBlock(b1))
	b2 := f.forge(b1, bobKey, 0)
	require.NoError(t, f.state.PushBlock(b2))

	tests := []struct {
		name          string
		lastBlockID   database.ID
		lastMilestone database.ID
		ids           []database.ID
		last          bool
		err           error
	}{
		{name: "head", lastBlockID: b2.ID(), ids: []database.ID{b2.ID()}, last: true},
		{name: "known block", lastBlockID: b1.ID(), ids: []database.ID{b1.ID()}},
		{name: "unknown block", lastBlockID: 12345, ids: []database.ID{b2.ID()}},
		{name: "milestone", lastMilestone: b2.ID(), ids: []database.ID{b1.ID()}},
		{name: "nothing named", err: database.ErrBlockNotAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, last, err := f.state.MilestoneBlockIDs(tt.lastBlockID, tt.lastMilestone)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, tt.last, last)
		})
	}

	t.Run("next blocks", func(t *testing.T) {
		assert.Equal(t, []database.ID{b1.ID(), b2.ID()}, f.state.NextBlockIDs(genesisBlock.ID()))
		assert.Empty(t, f.state.NextBlockIDs(b2.ID()))
		assert.Len(t, f.state.NextBlocks(b1.ID()), 1)
		assert.Len(t, f.state.QueryBlocksByHeight(0, state.QueryLatest), 3)
		assert.Len(t, f.state.QueryBlocksByAccount(accountID(bobKey)), 3)
	})
}

func TestSubmitTransaction(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.state.SubmitTransaction(f.payment(aliceKey, accountID(carolKey), 10)))
	assert.Equal(t, 1, f.state.QueryMempoolLength())

	t.Run("unknown sender", func(t *testing.T) {
		err := f.state.SubmitTransaction(f.payment(carolKey, accountID(aliceKey), 1))
		assert.True(t, errors.Is(err, state.ErrTransactionRejected))
	})

	t.Run("overdraft", func(t *testing.T) {
		err := f.state.SubmitTransaction(f.payment(aliceKey, accountID(carolKey), stake))
		assert.True(t, errors.Is(err, state.ErrTransactionRejected))
	})

	t.Run("expired", func(t *testing.T) {
		f.now = 24*60*60 + 10
		defer func() { f.now = 0 }()

		err := f.state.SubmitTransaction(f.payment(bobKey, accountID(carolKey), 1))
		assert.True(t, errors.Is(err, state.ErrTransactionRejected))
	})

	assert.Equal(t, 1, f.state.QueryMempoolLength())
}
