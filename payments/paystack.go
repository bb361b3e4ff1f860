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

type Paystack struct {
	BaseURL string
}

func (p *Paystack) Name() string { return "paystack" }

func (p *Paystack) secret() string { return os.Getenv("PAYSTACK_SECRET_KEY") }

func (p *Paystack) call(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.secret())
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
		return fmt.Errorf("paystack %s: status %s", path, resp.Status)
	}
	return json.Unmarshal(raw, out)
}

func (p *Paystack) InitiateDeposit(ctx context.Context, req DepositRequest) (*DepositResponse, error) {
	reference := NewDepositReference()

	channels := map[string][]string{
		"card":          {"card"},
		"bank_transfer": {"bank_transfer"},
		"ussd":          {"ussd"},
	}[req.Method]
	if channels == nil {
		return nil, fmt.Errorf("paystack does not support method %q", req.Method)
	}

	payload := map[string]any{
		"email":     req.Email,
		"amount":    req.Amount * 100, // kobo
		"reference": reference,
		"channels":  channels,
	}

	var result struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
		} `json:"data"`
	}
	if err := p.call(ctx, http.MethodPost, "/transaction/initialize", payload, &result); err != nil {
		return nil, err
	}
	if !result.Status {
		return nil, fmt.Errorf("paystack initialize failed: %s", result.Message)
	}

	resp := &DepositResponse{
		Reference:        reference,
		Status:           StatusPending,
		AuthorizationURL: result.Data.AuthorizationURL,
		Message:          "Redirecting to payment page",
	}
	if req.Method == "ussd" {
		resp.USSDCode = fmt.Sprintf("*737*000*%d*%s#", req.Amount, reference[len(reference)-6:])
		resp.Message = "Dial the USSD code to complete payment"
	}
	return resp, nil
}

func (p *Paystack) InitiateWithdrawal(ctx context.Context, req WithdrawalRequest) (*WithdrawalResponse, error) {
	reference := NewWithdrawalReference()

	var recipient struct {
		Status bool `json:"status"`
		Data   struct {
			RecipientCode string `json:"recipient_code"`
		} `json:"data"`
		Message string `json:"message"`
	}
	err := p.call(ctx, http.MethodPost, "/transferrecipient", map[string]any{
		"type":           "nuban",
		"name":           req.AccountName,
		"account_number": req.AccountNumber,
		"bank_code":      req.BankCode,
		"currency":       "NGN",
	}, &recipient)
	if err != nil {
		return nil, err
	}
	if !recipient.Status {
		return nil, fmt.Errorf("paystack recipient failed: %s", recipient.Message)
	}

	var transfer struct {
		Status bool `json:"status"`
		Data   struct {
			TransferCode string `json:"transfer_code"`
			Status       string `json:"status"`
		} `json:"data"`
		Message string `json:"message"`
	}
	err = p.call(ctx, http.MethodPost, "/transfer", map[string]any{
		"source":    "balance",
		"amount":    req.Amount * 100,
		"recipient": recipient.Data.RecipientCode,
		"reference": reference,
		"reason":    req.Narration,
	}, &transfer)
	if err != nil {
		return nil, err
	}
	if !transfer.Status {
		return nil, fmt.Errorf("paystack transfer failed: %s", transfer.Message)
	}

	return &WithdrawalResponse{
		Reference:    reference,
		Status:       StatusPending,
		TransferCode: transfer.Data.TransferCode,
		Message:      "Withdrawal initiated",
	}, nil
}

func (p *Paystack) ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (string, error) {
	query := url.Values{
		"account_number": {accountNumber},
		"bank_code":      {bankCode},
	}
	var result struct {
		Status bool `json:"status"`
		Data   struct {
			AccountName string `json:"account_name"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := p.call(ctx, http.MethodGet, "/bank/resolve?"+query.Encode(), nil, &result); err != nil {
		return "", err
	}
	if !result.Status {
		return "", fmt.Errorf("account resolution failed: %s", result.Message)
	}
	return result.Data.AccountName, nil
}

func (p *Paystack) VerifyDeposit(ctx context.Context, reference string) (Status, error) {
	var result struct {
		Status bool `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := p.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &result); err != nil {
		return StatusPending, err
	}
	return mapPaystackStatus(result.Data.Status), nil
}

func (p *Paystack) VerifyWithdrawal(ctx context.Context, reference string) (Status, error) {
	var result struct {
		Status bool `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := p.call(ctx, http.MethodGet, "/transfer/verify/"+reference, nil, &result); err != nil {
		return StatusPending, err
	}
	return mapPaystackStatus(result.Data.Status), nil
}

func mapPaystackStatus(s string) Status {
	switch s {
	case "success":
		return StatusSuccess
	case "failed", "abandoned", "reversed":
		return StatusFailed
	default:
		return StatusPending
	}
}

func init() {
	Register("paystack", &Paystack{BaseURL: "https://api.paystack.co"})
}
