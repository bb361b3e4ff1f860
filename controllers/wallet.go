package controllers

import (
	"luckyspin/helpers"
	"luckyspin/models"
	"luckyspin/payments"

	"github.com/gofiber/fiber/v2"
)

// Banks lists the supported Nigerian banks for the withdrawal form.
func Banks(c *fiber.Ctx) error {
	return helpers.JSONSuccess(c, "Banks retrieved", payments.NigerianBanks)
}

type ResolveAccountRequest struct {
	Gateway       string `json:"gateway"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
}

// ResolveAccount looks up the account holder's name before a withdrawal.
func ResolveAccount(c *fiber.Ctx) error {
	var req ResolveAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Gateway == "" {
		req.Gateway = "paystack"
	}
	name, err := walletSvc.ResolveAccount(c.Context(), req.Gateway, req.AccountNumber, req.BankCode)
	if err != nil {
		return helpers.JSONFromError(c, err)
	}
	return helpers.JSONSuccess(c, "Account resolved", fiber.Map{"account_name": name})
}

type DepositRequest struct {
	Amount  int64  `json:"amount"`
	Gateway string `json:"gateway"`
	Method  string `json:"method"`
}

// Deposit initiates a wallet top-up. The balance only moves once the gateway
// confirms the payment.
func Deposit(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Gateway == "" {
		req.Gateway = "paystack"
	}
	if req.Method == "" {
		req.Method = "card"
	}

	resp, record, err := walletSvc.Deposit(c.Context(), user.UserID, user.Email, req.Amount, req.Gateway, req.Method)
	if err != nil {
		return helpers.JSONFromError(c, err)
	}
	return helpers.JSONSuccess(c, "Deposit initiated", fiber.Map{
		"transaction_id": record.TxnID,
		"payment":        resp,
	})
}

type WithdrawRequest struct {
	Amount        int64  `json:"amount"`
	Gateway       string `json:"gateway"`
	BankCode      string `json:"bank_code"`
	AccountNumber string `json:"account_number"`
}

// Withdraw initiates a bank payout. The balance is debited only when the
// transfer completes.
func Withdraw(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Gateway == "" {
		req.Gateway = "paystack"
	}

	resp, record, err := walletSvc.Withdraw(c.Context(), user.UserID, req.Amount, req.Gateway, req.BankCode, req.AccountNumber)
	if err != nil {
		return helpers.JSONFromError(c, err)
	}
	return helpers.JSONSuccess(c, "Withdrawal initiated", fiber.Map{
		"transaction_id": record.TxnID,
		"payout":         resp,
	})
}

// Transactions lists the caller's ledger history, newest first.
func Transactions(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)
	records, err := walletSvc.Transactions(c.Context(), user.UserID, c.QueryInt("limit", 50))
	if err != nil {
		return helpers.JSONFromError(c, err)
	}
	return helpers.JSONSuccess(c, "Transactions retrieved", records)
}
