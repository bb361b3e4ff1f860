package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// Monnify supports card and bank-transfer deposits plus disbursements. Its
// API wants a short-lived bearer token obtained from basic-auth credentials,
// cached here until close to expiry.
type Monnify struct {
	BaseURL string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func (m *Monnify) Name() string { return "monnify" }

func (m *Monnify) bearer(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token != "" && time.Now().Before(m.tokenExpiry) {
		return m.token, nil
	}

	creds := os.Getenv("MONNIFY_API_KEY") + ":" + os.Getenv("MONNIFY_SECRET_KEY")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL+"/api/v1/auth/login", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(creds)))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		RequestSuccessful bool `json:"requestSuccessful"`
		ResponseBody      struct {
			AccessToken string `json:"accessToken"`
			ExpiresIn   int64  `json:"expiresIn"`
		} `json:"responseBody"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}
	if !result.RequestSuccessful {
		return "", fmt.Errorf("monnify auth failed")
	}
	m.token = result.ResponseBody.AccessToken
	m.tokenExpiry = time.Now().Add(time.Duration(result.ResponseBody.ExpiresIn-60) * time.Second)
	return m.token, nil
}

func (m *Monnify) call(ctx context.Context, method, path string, payload any, out any) error {
	token, err := m.bearer(ctx)
	if err != nil {
		return err
	}
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, m.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
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
		return fmt.Errorf("monnify %s: status %s", path, resp.Status)
	}
	return json.Unmarshal(raw, out)
}

func (m *Monnify) InitiateDeposit(ctx context.Context, req DepositRequest) (*DepositResponse, error) {
	if req.Method == "ussd" {
		return nil, fmt.Errorf("monnify does not support method %q", req.Method)
	}
	reference := NewDepositReference()

	payload := map[string]any{
		"amount":             req.Amount,
		"customerEmail":      req.Email,
		"paymentReference":   reference,
		"currencyCode":       "NGN",
		"contractCode":       os.Getenv("MONNIFY_CONTRACT_CODE"),
		"paymentDescription": "Wallet funding",
	}

	var result struct {
		RequestSuccessful bool `json:"requestSuccessful"`
		ResponseBody      struct {
			CheckoutURL string `json:"checkoutUrl"`
		} `json:"responseBody"`
		ResponseMessage string `json:"responseMessage"`
	}
	if err := m.call(ctx, http.MethodPost, "/api/v1/merchant/transactions/init-transaction", payload, &result); err != nil {
		return nil, err
	}
	if !result.RequestSuccessful {
		return nil, fmt.Errorf("monnify init failed: %s", result.ResponseMessage)
	}

	return &DepositResponse{
		Reference:        reference,
		Status:           StatusPending,
		AuthorizationURL: result.ResponseBody.CheckoutURL,
		Message:          "Redirecting to payment page",
	}, nil
}

func (m *Monnify) InitiateWithdrawal(ctx context.Context, req WithdrawalRequest) (*WithdrawalResponse, error) {
	reference := NewWithdrawalReference()

	payload := map[string]any{
		"amount":                   req.Amount,
		"reference":                reference,
		"narration":                req.Narration,
		"destinationBankCode":      req.BankCode,
		"destinationAccountNumber": req.AccountNumber,
		"currency":                 "NGN",
		"sourceAccountNumber":      os.Getenv("MONNIFY_WALLET_ACCOUNT"),
	}

	var result struct {
		RequestSuccessful bool   `json:"requestSuccessful"`
		ResponseMessage   string `json:"responseMessage"`
	}
	if err := m.call(ctx, http.MethodPost, "/api/v2/disbursements/single", payload, &result); err != nil {
		return nil, err
	}
	if !result.RequestSuccessful {
		return nil, fmt.Errorf("monnify disbursement failed: %s", result.ResponseMessage)
	}

	return &WithdrawalResponse{
		Reference: reference,
		Status:    StatusPending,
		Message:   "Withdrawal initiated",
	}, nil
}

func (m *Monnify) ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (string, error) {
	path := fmt.Sprintf("/api/v1/disbursements/account/validate?accountNumber=%s&bankCode=%s", accountNumber, bankCode)
	var result struct {
		RequestSuccessful bool `json:"requestSuccessful"`
		ResponseBody      struct {
			AccountName string `json:"accountName"`
		} `json:"responseBody"`
		ResponseMessage string `json:"responseMessage"`
	}
	if err := m.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return "", err
	}
	if !result.RequestSuccessful {
		return "", fmt.Errorf("account resolution failed: %s", result.ResponseMessage)
	}
	return result.ResponseBody.AccountName, nil
}

func (m *Monnify) VerifyDeposit(ctx context.Context, reference string) (Status, error) {
	path := "/api/v2/transactions/" + reference
	var result struct {
		RequestSuccessful bool `json:"requestSuccessful"`
		ResponseBody      struct {
			PaymentStatus string `json:"paymentStatus"`
		} `json:"responseBody"`
	}
	if err := m.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return StatusPending, err
	}
	switch result.ResponseBody.PaymentStatus {
	case "PAID":
		return StatusSuccess, nil
	case "FAILED", "EXPIRED", "CANCELLED":
		return StatusFailed, nil
	default:
		return StatusPending, nil
	}
}

func (m *Monnify) VerifyWithdrawal(ctx context.Context, reference string) (Status, error) {
	path := "/api/v2/disbursements/single/summary?reference=" + reference
	var result struct {
		RequestSuccessful bool `json:"requestSuccessful"`
		ResponseBody      struct {
			Status string `json:"status"`
		} `json:"responseBody"`
	}
	if err := m.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return StatusPending, err
	}
	switch result.ResponseBody.Status {
	case "SUCCESS":
		return StatusSuccess, nil
	case "FAILED", "REVERSED":
		return StatusFailed, nil
	default:
		return StatusPending, nil
	}
}

func init() {
	Register("monnify", &Monnify{BaseURL: "https://api.monnify.com"})
}
