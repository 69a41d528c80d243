package bank

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/plaid/plaid-go/v20/plaid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
)

// PlaidClient implements Aggregator against the Plaid API.
type PlaidClient struct {
	client *plaid.APIClient
}

// NewPlaidClient builds a client for the named environment
// (sandbox, development, production).
func NewPlaidClient(clientID, secret, environment string) *PlaidClient {
	cfg := plaid.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	switch environment {
	case "production":
		cfg.UseEnvironment(plaid.Production)
	case "development":
		cfg.UseEnvironment(plaid.Development)
	default:
		cfg.UseEnvironment(plaid.Sandbox)
	}
	return &PlaidClient{client: plaid.NewAPIClient(cfg)}
}

func (c *PlaidClient) CreateLinkToken(ctx context.Context, clientUserID string) (string, error) {
	user := plaid.LinkTokenCreateRequestUser{ClientUserId: clientUserID}
	req := plaid.NewLinkTokenCreateRequest(
		"FinTrack",
		"en",
		[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		user,
	)
	req.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	resp, _, err := c.client.PlaidApi.LinkTokenCreate(ctx).
		LinkTokenCreateRequest(*req).Execute()
	if err != nil {
		return "", fmt.Errorf("failed to create link token: %w", err)
	}
	return resp.GetLinkToken(), nil
}

func (c *PlaidClient) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	req := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := c.client.PlaidApi.ItemPublicTokenExchange(ctx).
		ItemPublicTokenExchangeRequest(*req).Execute()
	if err != nil {
		return "", "", fmt.Errorf("failed to exchange public token: %w", err)
	}
	return resp.GetAccessToken(), resp.GetItemId(), nil
}

func (c *PlaidClient) Accounts(ctx context.Context, accessToken string) ([]model.BankAccount, error) {
	req := plaid.NewAccountsGetRequest(accessToken)
	resp, _, err := c.client.PlaidApi.AccountsGet(ctx).
		AccountsGetRequest(*req).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	now := time.Now().UTC()
	accounts := resp.GetAccounts()
	out := make([]model.BankAccount, 0, len(accounts))
	for _, a := range accounts {
		balances := a.GetBalances()
		out = append(out, model.BankAccount{
			AccountID:        a.GetAccountId(),
			Name:             a.GetName(),
			OfficialName:     a.GetOfficialName(),
			Type:             string(a.GetType()),
			Subtype:          string(a.GetSubtype()),
			Mask:             a.GetMask(),
			CurrentBalance:   decimal.NewFromFloat(balances.GetCurrent()).Round(2),
			AvailableBalance: decimal.NewFromFloat(balances.GetAvailable()).Round(2),
			CurrencyCode:     balances.GetIsoCurrencyCode(),
			LastSyncedAt:     now,
		})
	}
	return out, nil
}

func (c *PlaidClient) Transactions(ctx context.Context, accessToken, accountID string, since time.Time) ([]model.BankTransaction, error) {
	end := time.Now().UTC()
	req := plaid.NewTransactionsGetRequest(
		accessToken,
		since.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)
	opts := plaid.NewTransactionsGetRequestOptions()
	opts.SetAccountIds([]string{accountID})
	req.SetOptions(*opts)

	resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).
		TransactionsGetRequest(*req).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	txs := resp.GetTransactions()
	out := make([]model.BankTransaction, 0, len(txs))
	for _, t := range txs {
		date, err := time.Parse("2006-01-02", t.GetDate())
		if err != nil {
			date = end
		}
		out = append(out, model.BankTransaction{
			TransactionID: t.GetTransactionId(),
			AccountID:     t.GetAccountId(),
			Amount:        decimal.NewFromFloat(t.GetAmount()).Round(2),
			Date:          date,
			Name:          t.GetName(),
			Category:      strings.Join(t.GetCategory(), " > "),
			Pending:       t.GetPending(),
		})
	}
	return out, nil
}
