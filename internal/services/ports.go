package services

import (
	"context"

	"remitconnect/internal/core"
)

// Ports for the coordinator's collaborators.
type (
	// CatalogClient reads the remote wallet and recipient catalogs.
	CatalogClient interface {
		MobileWallets(ctx context.Context) ([]core.MobileWallet, error)
		PreviousRecipients(ctx context.Context) ([]core.Recipient, error)
	}

	// TransactionLedger is the durable store of confirmed transfers.
	TransactionLedger interface {
		InsertTransaction(ctx context.Context, tx core.Transaction) (int64, error)
		RecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
		// SumTotalSpent reports ok=false when the ledger holds no entries.
		SumTotalSpent(ctx context.Context) (sum float64, ok bool, err error)
	}

	// EventPublisher announces recorded transfers to interested consumers.
	EventPublisher interface {
		PublishTransferRecorded(ctx context.Context, id int64, totalSpent float64, currencyCode string) error
	}
)
