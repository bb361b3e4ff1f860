package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Status is the advisory state a gateway reports for a payment. Pending
// responses are reconciled later via confirmation events keyed by reference.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

type DepositRequest struct {
	UserID string
	Email  string
	Amount int64  // whole Naira
	Method string // card | bank_transfer | ussd
}

type BankTransferDetails struct {
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	Amount        int64  `json:"amount"`
	Reference     string `json:"reference"`
}

type DepositResponse struct {
	Reference        string               `json:"reference"`
	Status           Status               `json:"status"`
	AuthorizationURL string               `json:"authorization_url,omitempty"`
	USSDCode         string               `json:"ussd_code,omitempty"`
	BankTransfer     *BankTransferDetails `json:"bank_transfer_details,omitempty"`
	Message          string               `json:"message"`
}

type WithdrawalRequest struct {
	UserID        string
	Amount        int64
	BankCode      string
	AccountNumber string
	AccountName   string
	Narration     string
}

type WithdrawalResponse struct {
	Reference    string `json:"reference"`
	Status       Status `json:"status"`
	TransferCode string `json:"transfer_code,omitempty"`
	Message      string `json:"message"`
}

// Gateway abstracts one Nigerian payment processor. Responses are advisory;
// the ledger applies money only on confirmation events.
type Gateway interface {
	Name() string
	InitiateDeposit(ctx context.Context, req DepositRequest) (*DepositResponse, error)
	InitiateWithdrawal(ctx context.Context, req WithdrawalRequest) (*WithdrawalResponse, error)
	ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (string, error)
	VerifyDeposit(ctx context.Context, reference string) (Status, error)
	VerifyWithdrawal(ctx context.Context, reference string) (Status, error)
}

var gateways = map[string]Gateway{}

func Register(name string, gw Gateway) {
	gateways[strings.ToLower(name)] = gw
}

func Get(name string) (Gateway, error) {
	gw, ok := gateways[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported payment gateway %q", name)
	}
	return gw, nil
}

func Names() []string {
	out := make([]string, 0, len(gateways))
	for name := range gateways {
		out = append(out, name)
	}
	return out
}

// NewDepositReference and NewWithdrawalReference build the unique references
// every gateway payment is keyed by.
func NewDepositReference() string {
	return "CP_" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:18]
}

func NewWithdrawalReference() string {
	return "CW_" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:18]
}

// ValidAccountNumber checks the NUBAN shape: exactly ten digits.
func ValidAccountNumber(accountNumber string) bool {
	if len(accountNumber) != 10 {
		return false
	}
	for _, c := range accountNumber {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
