package integration

import (
	"fmt"
	"net/http"
	"testing"
)

// createTransaction posts a transaction and fails the test on any non-201 response.
func (app *testApp) createTransaction(t *testing.T, token, txType, description string, amount int64) {
	t.Helper()
	body := fmt.Sprintf(`{"type":%q,"description":%q,"amount":%d}`, txType, description, amount)
	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreateTransaction(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signupAndVerify(t, "alice", "alice@example.com", "password123")

	t.Run("valid", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/transactions", `{"type":"income","description":"Salary","amount":500000}`, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		tx, ok := result["transaction"].(map[string]interface{})
		if !ok {
			t.Fatal("expected a transaction object in the response")
		}
		if tx["amount"].(float64) != 500000 {
			t.Errorf("expected amount 500000, got %v", tx["amount"])
		}
		if tx["type"] != "income" {
			t.Errorf("expected type income, got %v", tx["type"])
		}
	})

	t.Run("invalid_type", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/transactions", `{"type":"transfer","description":"x","amount":100}`, token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("negative_amount", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/transactions", `{"type":"expense","description":"x","amount":-100}`, token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("requires_auth", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/transactions", `{"type":"income","description":"x","amount":100}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}

func TestListTransactions(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signupAndVerify(t, "bob", "bob@example.com", "password123")
	otherToken, _ := app.signupAndVerify(t, "mallory", "mallory@example.com", "password123")

	app.createTransaction(t, token, "income", "Salary", 500000)
	app.createTransaction(t, token, "expense", "Rent", 150000)
	app.createTransaction(t, token, "expense", "Groceries", 12050)
	app.createTransaction(t, otherToken, "income", "Other user's cash", 999999)

	t.Run("returns_own_transactions_only", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		txs := result["transactions"].([]interface{})
		if len(txs) != 3 {
			t.Errorf("expected 3 transactions, got %d", len(txs))
		}
		for _, raw := range txs {
			tx := raw.(map[string]interface{})
			if tx["description"] == "Other user's cash" {
				t.Error("listing leaked another user's transaction")
			}
		}
	})

	t.Run("filter_by_type", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions?type=expense", "", token)
		result := parseJSON(t, rec)
		txs := result["transactions"].([]interface{})
		if len(txs) != 2 {
			t.Fatalf("expected 2 expenses, got %d", len(txs))
		}
		for _, raw := range txs {
			if raw.(map[string]interface{})["type"] != "expense" {
				t.Errorf("expected only expenses, got %v", raw)
			}
		}
	})

	t.Run("filter_by_amount_range", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions?minAmount=12050&maxAmount=150000", "", token)
		result := parseJSON(t, rec)
		txs := result["transactions"].([]interface{})
		if len(txs) != 2 {
			t.Errorf("expected 2 transactions in range (bounds inclusive), got %d", len(txs))
		}
	})

	t.Run("sort_by_amount_asc", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions?sortBy=amount&sortOrder=asc", "", token)
		result := parseJSON(t, rec)
		txs := result["transactions"].([]interface{})
		var prev float64 = -1
		for _, raw := range txs {
			amount := raw.(map[string]interface{})["amount"].(float64)
			if amount < prev {
				t.Fatalf("transactions not sorted ascending by amount")
			}
			prev = amount
		}
	})

	t.Run("sort_order_applies_without_sort_by", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions?sortOrder=asc", "", token)
		result := parseJSON(t, rec)
		txs := result["transactions"].([]interface{})
		if len(txs) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(txs))
		}
		first := txs[0].(map[string]interface{})
		if first["description"] != "Salary" {
			t.Errorf("expected oldest transaction first, got %v", first["description"])
		}
	})

	t.Run("invalid_sort_field", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions?sortBy=password", "", token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("invalid_date", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions?startDate=yesterday", "", token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestListTransactionsPagination(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signupAndVerify(t, "carol", "carol@example.com", "password123")

	for i := 0; i < 15; i++ {
		app.createTransaction(t, token, "expense", fmt.Sprintf("Item %d", i), int64(100+i))
	}

	t.Run("first_page_defaults", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions", "", token)
		result := parseJSON(t, rec)
		txs := result["transactions"].([]interface{})
		if len(txs) != 10 {
			t.Errorf("expected default page of 10, got %d", len(txs))
		}
		meta := result["pagination"].(map[string]interface{})
		if meta["total"].(float64) != 15 {
			t.Errorf("expected total 15, got %v", meta["total"])
		}
		if meta["pages"].(float64) != 2 {
			t.Errorf("expected 2 pages, got %v", meta["pages"])
		}
	})

	t.Run("second_page_remainder", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions?page=2&limit=10", "", token)
		result := parseJSON(t, rec)
		txs := result["transactions"].([]interface{})
		if len(txs) != 5 {
			t.Errorf("expected 5 transactions on page 2, got %d", len(txs))
		}
		meta := result["pagination"].(map[string]interface{})
		if meta["current"].(float64) != 2 {
			t.Errorf("expected current page 2, got %v", meta["current"])
		}
	})

	t.Run("page_past_end_is_empty_list", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions?page=5&limit=10", "", token)
		result := parseJSON(t, rec)
		txs, ok := result["transactions"].([]interface{})
		if !ok {
			t.Fatalf("expected an array, got %v", result["transactions"])
		}
		if len(txs) != 0 {
			t.Errorf("expected empty page, got %d rows", len(txs))
		}
	})
}

func TestTransactionSummary(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signupAndVerify(t, "dave", "dave@example.com", "password123")
	otherToken, _ := app.signupAndVerify(t, "eve", "eve@example.com", "password123")

	app.createTransaction(t, token, "income", "Salary", 500000)
	app.createTransaction(t, token, "income", "Bonus", 100000)
	app.createTransaction(t, token, "expense", "Rent", 150000)
	app.createTransaction(t, otherToken, "income", "Not dave's", 777777)

	rec := app.request("GET", "/api/v1/transactions/summary", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)

	income := result["income"].(map[string]interface{})
	if income["total"].(float64) != 600000 {
		t.Errorf("expected income total 600000, got %v", income["total"])
	}
	if income["count"].(float64) != 2 {
		t.Errorf("expected income count 2, got %v", income["count"])
	}

	expense := result["expense"].(map[string]interface{})
	if expense["total"].(float64) != 150000 {
		t.Errorf("expected expense total 150000, got %v", expense["total"])
	}

	if result["balance"].(float64) != 450000 {
		t.Errorf("expected balance 450000, got %v", result["balance"])
	}

	t.Run("no_transactions", func(t *testing.T) {
		emptyToken, _ := app.signupAndVerify(t, "zoe", "zoe@example.com", "password123")
		rec := app.request("GET", "/api/v1/transactions/summary", "", emptyToken)
		result := parseJSON(t, rec)
		if result["balance"].(float64) != 0 {
			t.Errorf("expected zero balance, got %v", result["balance"])
		}
		income := result["income"].(map[string]interface{})
		if income["count"].(float64) != 0 {
			t.Errorf("expected zero income count, got %v", income["count"])
		}
	})
}
