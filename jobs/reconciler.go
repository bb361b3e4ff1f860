package jobs

import (
	"context"
	"time"

	"luckyspin/ledger"
	"luckyspin/logger"
	"luckyspin/services"

	"go.uber.org/zap"
)

const (
	reconcileInterval = 2 * time.Minute

	// Leave fresh payments alone; the webhook usually lands within a minute.
	reconcileMinAge = 5 * time.Minute
)

// StartReconciler polls pending gateway payments and settles the ones whose
// gateway reports a terminal status. Covers lost webhooks and process
// restarts; every confirmation path stays idempotent, so overlap with a late
// webhook is harmless.
func StartReconciler(store *ledger.Store, wallet *services.WalletService) {
	ticker := time.NewTicker(reconcileInterval)
	go func() {
		for range ticker.C {
			runReconcilePass(store, wallet)
		}
	}()
}

func runReconcilePass(store *ledger.Store, wallet *services.WalletService) {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileInterval)
	defer cancel()

	pending, err := store.PendingTransactions(ctx, reconcileMinAge)
	if err != nil {
		logger.Log.Error("reconciler: listing pending payments failed", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	settled := 0
	for _, txn := range pending {
		if err := wallet.Reconcile(ctx, txn); err != nil {
			logger.Log.Warn("reconciler: payment check failed",
				zap.String("txn_id", txn.TxnID),
				zap.String("gateway", txn.Gateway),
				zap.Error(err),
			)
			continue
		}
		settled++
	}
	logger.Log.Info("reconciler pass finished",
		zap.Int("pending", len(pending)),
		zap.Int("checked", settled),
	)
}
