package controllers

import (
	"luckyspin/config"
	"luckyspin/ledger"
	"luckyspin/services"
)

// Package-level handles wired once at startup, same lifecycle as database.DB.
var (
	spinSvc     *services.SpinService
	walletSvc   *services.WalletService
	bonusSvc    *services.BonusService
	referralSvc *services.ReferralService
	store       *ledger.Store
	runtime     *config.Runtime
)

func Init(
	spin *services.SpinService,
	wallet *services.WalletService,
	bonus *services.BonusService,
	referral *services.ReferralService,
	s *ledger.Store,
	rt *config.Runtime,
) {
	spinSvc = spin
	walletSvc = wallet
	bonusSvc = bonus
	referralSvc = referral
	store = s
	runtime = rt
}
