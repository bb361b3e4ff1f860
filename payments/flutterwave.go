package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

type Flutterwave struct {
	BaseURL string
}

func (f *Flutterwave) Name() string { return "flutterwave" }

func (f *Flutterwave) call(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, f.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+os.Getenv("FLUTTERWAVE_SECRET_KEY"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("flutterwave %s: status %s", path, resp.Status)
	}
	return json.Unmarshal(raw, out)
}

func (f *Flutterwave) InitiateDeposit(ctx context.Context, req DepositRequest) (*DepositResponse, error) {
	reference := NewDepositReference()

	payload := map[string]any{
		"tx_ref":   reference,
		"amount":   req.Amount,
		"currency": "NGN",
		"customer": map[string]any{"email": req.Email},
		"payment_options": map[string]string{
			"card":          "card",
			"bank_transfer": "banktransfer",
			"ussd":          "ussd",
		}[req.Method],
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	if err := f.call(ctx, http.MethodPost, "/payments", payload, &result); err != nil {
		return nil, err
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("flutterwave payment init failed: %s", result.Message)
	}

	resp := &DepositResponse{
		Reference:        reference,
		Status:           StatusPending,
		AuthorizationURL: result.Data.Link,
		Message:          "Redirecting to payment page",
	}
	if req.Method == "ussd" {
		resp.USSDCode = fmt.Sprintf("*894*%d*%s#", req.Amount, reference[len(reference)-6:])
		resp.Message = "Dial the USSD code to complete payment"
	}
	return resp, nil
}

func (f *Flutterwave) InitiateWithdrawal(ctx context.Context, req WithdrawalRequest) (*WithdrawalResponse, error) {
	reference := NewWithdrawalReference()

	payload := map[string]any{
		"account_bank":   req.BankCode,
		"account_number": req.AccountNumber,
		"amount":         req.Amount,
		"currency":       "NGN",
		"reference":      reference,
		"narration":      req.Narration,
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := f.call(ctx, http.MethodPost, "/transfers", payload, &result); err != nil {
		return nil, err
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("flutterwave transfer failed: %s", result.Message)
	}

	return &WithdrawalResponse{
		Reference: reference,
		Status:    StatusPending,
		Message:   "Withdrawal initiated",
	}, nil
}

func (f *Flutterwave) ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (string, error) {
	payload := map[string]any{
		"account_number": accountNumber,
		"account_bank":   bankCode,
	}
	var result struct {
		Status string `json:"status"`
		Data   struct {
			AccountName string `json:"account_name"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := f.call(ctx, http.MethodPost, "/accounts/resolve", payload, &result); err != nil {
		return "", err
	}
	if result.Status != "success" {
		return "", fmt.Errorf("account resolution failed: %s", result.Message)
	}
	return result.Data.AccountName, nil
}

func (f *Flutterwave) VerifyDeposit(ctx context.Context, reference string) (Status, error) {
	query := url.Values{"tx_ref": {reference}}
	var result struct {
		Status string `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := f.call(ctx, http.MethodGet, "/transactions/verify_by_reference?"+query.Encode(), nil, &result); err != nil {
		return StatusPending, err
	}
	return mapFlutterwaveStatus(result.Data.Status), nil
}

func (f *Flutterwave) VerifyWithdrawal(ctx context.Context, reference string) (Status, error) {
	query := url.Values{"reference": {reference}}
	var result struct {
		Status string `json:"status"`
		Data   []struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := f.call(ctx, http.MethodGet, "/transfers?"+query.Encode(), nil, &result); err != nil {
		return StatusPending, err
	}
	if len(result.Data) == 0 {
		return StatusPending, nil
	}
	return mapFlutterwaveStatus(result.Data[0].Status), nil
}

func mapFlutterwaveStatus(s string) Status {
	switch s {
	case "successful", "SUCCESSFUL":
		return StatusSuccess
	case "failed", "FAILED":
		return StatusFailed
	default:
		return StatusPending
	}
}

func init() {
	Register("flutterwave", &Flutterwave{BaseURL: "https://api.flutterwave.com/v3"})
}
