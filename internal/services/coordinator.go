// Package services orchestrates the transfer flow: catalog fetches, the
// draft wizard, the calculator and the ledger.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"remitconnect/internal/core"
	"remitconnect/internal/draft"
	"remitconnect/internal/log"
)

// User-facing messages for the empty-result cases. An empty catalog and a
// failed fetch land in the same Error state, told apart only by text.
const (
	msgNoWallets      = "No mobile wallets available"
	msgNoRecipients   = "No recipients found"
	msgNoTransactions = "No transactions yet"
)

// DefaultAllowance is the fixed nominal spending allowance the remaining
// balance is computed against.
const DefaultAllowance = 5000.0

// Coordinator sequences the draft store, calculator, ledger and catalog
// client behind three independently observable process states. It assumes
// one user driving one wizard at a time; draft writes go through the store's
// whole-value replace.
type Coordinator struct {
	catalog     CatalogClient
	ledger      TransactionLedger
	events      EventPublisher // optional, nil disables publishing
	drafts      *draft.Store
	allowance   float64
	recentLimit int

	mu              sync.Mutex
	walletsState    core.ProcessState
	recipientsState core.ProcessState
	recentState     core.ProcessState
	wallets         []core.MobileWallet
	recipients      []core.Recipient
	recent          []core.Transaction
}

func NewCoordinator(catalog CatalogClient, ledger TransactionLedger, events EventPublisher, drafts *draft.Store, allowance float64) *Coordinator {
	if allowance <= 0 {
		allowance = DefaultAllowance
	}
	return &Coordinator{
		catalog:         catalog,
		ledger:          ledger,
		events:          events,
		drafts:          drafts,
		allowance:       allowance,
		recentLimit:     5,
		walletsState:    core.Loading(),
		recipientsState: core.Loading(),
		recentState:     core.Loading(),
	}
}

// Drafts exposes the transaction draft store.
func (c *Coordinator) Drafts() *draft.Store {
	return c.drafts
}

// FetchMobileWallets refreshes the wallet catalog. The state moves to
// Loading for the duration of the fetch and settles on Done (non-empty) or
// Error (failed or empty).
func (c *Coordinator) FetchMobileWallets(ctx context.Context) ([]core.MobileWallet, core.ProcessState) {
	c.setWalletsState(core.Loading())

	wallets, err := c.catalog.MobileWallets(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Mobile wallets fetch failed", "error", err)
		state := core.ProcessError(err.Error())
		c.setWalletsState(state)
		return nil, state
	}
	if len(wallets) == 0 {
		state := core.ProcessError(msgNoWallets)
		c.setWalletsState(state)
		return nil, state
	}

	mapped := core.MapWalletLogos(wallets)

	c.mu.Lock()
	c.wallets = mapped
	c.walletsState = core.Done()
	c.mu.Unlock()

	slog.InfoContext(ctx, "Mobile wallets fetched",
		log.FieldWalletCount, len(mapped),
		log.FieldComponent, log.ComponentCoordinator)
	return mapped, core.Done()
}

// FetchRecipients refreshes the previous-recipients catalog.
func (c *Coordinator) FetchRecipients(ctx context.Context) ([]core.Recipient, core.ProcessState) {
	c.setRecipientsState(core.Loading())

	recipients, err := c.catalog.PreviousRecipients(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Recipients fetch failed", "error", err)
		state := core.ProcessError(err.Error())
		c.setRecipientsState(state)
		return nil, state
	}
	if len(recipients) == 0 {
		state := core.ProcessError(msgNoRecipients)
		c.setRecipientsState(state)
		return nil, state
	}

	c.mu.Lock()
	c.recipients = recipients
	c.recipientsState = core.Done()
	c.mu.Unlock()

	return recipients, core.Done()
}

// FetchRecentTransactions loads the last few ledger entries, newest first.
func (c *Coordinator) FetchRecentTransactions(ctx context.Context) ([]core.Transaction, core.ProcessState) {
	c.setRecentState(core.Loading())

	txs, err := c.ledger.RecentTransactions(ctx, c.recentLimit)
	if err != nil {
		slog.ErrorContext(ctx, "Recent transactions fetch failed", "error", err)
		state := core.ProcessError(err.Error())
		c.setRecentState(state)
		return nil, state
	}
	if len(txs) == 0 {
		state := core.ProcessError(msgNoTransactions)
		c.setRecentState(state)
		return nil, state
	}

	c.mu.Lock()
	c.recent = txs
	c.recentState = core.Done()
	c.mu.Unlock()

	return txs, core.Done()
}

// RefreshAll fans out the three catalog fetches. Each keeps its own process
// state; a failure in one does not abort the others.
func (c *Coordinator) RefreshAll(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { c.FetchMobileWallets(ctx); return nil })
	g.Go(func() error { c.FetchRecipients(ctx); return nil })
	g.Go(func() error { c.FetchRecentTransactions(ctx); return nil })
	_ = g.Wait()
}

// RemainingBalance computes allowance minus everything spent so far. An
// empty ledger counts as zero spent; a storage failure falls back to the
// full allowance. The fallback is a deliberate fail-open policy for a
// cosmetic balance display, not an oversight.
func (c *Coordinator) RemainingBalance(ctx context.Context) float64 {
	sum, ok, err := c.ledger.SumTotalSpent(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Total spent sum failed, using full allowance", "error", err)
		return c.allowance
	}
	if !ok {
		return c.allowance
	}
	return c.allowance - sum
}

// QuoteAmount runs the calculator over the current draft and stores the
// result. A draft is started if none is in progress yet.
func (c *Coordinator) QuoteAmount(amountToSend float64) (core.Transaction, error) {
	cur, ok := c.drafts.Get()
	if !ok {
		cur = core.NewTransaction()
	}

	quoted, err := core.Calculate(amountToSend, cur)
	if err != nil {
		return core.Transaction{}, err
	}

	c.drafts.Replace(&quoted)
	return quoted, nil
}

// ConfirmTransfer persists the current draft into the ledger, publishes a
// transfer-recorded event and clears the draft. The draft must have gone
// through recipient, wallet and amount steps; otherwise a validation error
// is returned and nothing is written.
func (c *Coordinator) ConfirmTransfer(ctx context.Context) (core.Transaction, error) {
	tx, ok := c.drafts.Get()
	if !ok {
		return core.Transaction{}, core.ErrNoTransactionDraft
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := c.ledger.InsertTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record transfer: %w", err)
	}
	tx.ID = id

	// Fire-and-forget: the ledger write is the source of truth, a failed
	// event publish never fails the confirmation.
	if c.events != nil {
		if err := c.events.PublishTransferRecorded(ctx, id, tx.TotalSpent, tx.CurrencyCode); err != nil {
			slog.ErrorContext(ctx, "Failed to publish transfer recorded event",
				"transaction_id", id, "error", err)
		}
	}

	c.drafts.Clear()

	slog.InfoContext(ctx, "Transfer confirmed",
		log.FieldTransactionID, id,
		log.FieldTotalSpent, tx.TotalSpent,
		log.FieldCurrencyCode, tx.CurrencyCode,
		log.FieldComponent, log.ComponentCoordinator)

	return tx, nil
}

// WalletsState returns the last observed wallet catalog state.
func (c *Coordinator) WalletsState() core.ProcessState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.walletsState
}

// RecipientsState returns the last observed recipients catalog state.
func (c *Coordinator) RecipientsState() core.ProcessState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recipientsState
}

// RecentState returns the last observed recent-transactions state.
func (c *Coordinator) RecentState() core.ProcessState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recentState
}

func (c *Coordinator) setWalletsState(s core.ProcessState) {
	c.mu.Lock()
	c.walletsState = s
	c.mu.Unlock()
}

func (c *Coordinator) setRecipientsState(s core.ProcessState) {
	c.mu.Lock()
	c.recipientsState = s
	c.mu.Unlock()
}

func (c *Coordinator) setRecentState(s core.ProcessState) {
	c.mu.Lock()
	c.recentState = s
	c.mu.Unlock()
}
