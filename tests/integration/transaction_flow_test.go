package integration

import (
	"fmt"
	"net/http"
	"testing"
)

// TestTransactionLifecycle walks a user through registration, creating a
// transaction, filtering, an ownership violation by a second user, and
// deletion.
func TestTransactionLifecycle(t *testing.T) {
	app := setupApp(t)

	// Register and then login to obtain a fresh token
	app.registerUser(t, "a@x.com", "pw1")
	token := app.loginUser(t, "a@x.com", "pw1")

	// Create an expense
	id := app.createTransaction(t, token,
		`{"type":"expense","amount":50,"category":"food","description":"lunch"}`)

	// The expense filter includes the new record
	rec := app.request("GET", "/transactions?type=expense", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from list, got %d: %s", rec.Code, rec.Body.String())
	}
	list := parseJSONArray(t, rec)
	found := false
	for _, item := range list {
		if item["id"] == id {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected transaction %v in expense list, got %v", id, list)
	}

	// A second user cannot modify it
	otherToken := app.registerUser(t, "b@x.com", "pw2")
	rec = app.request("PUT", fmt.Sprintf("/transactions/%.0f", id),
		`{"amount":75}`, otherToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for other user's update, got %d: %s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, parseJSON(t, rec), "FORBIDDEN")

	// The owner deletes it
	rec = app.request("DELETE", fmt.Sprintf("/transactions/%.0f", id), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from delete, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := parseJSON(t, rec)["message"]; msg != "Transaction removed" {
		t.Errorf("expected removal message, got %v", msg)
	}

	// The record is gone from the list
	rec = app.request("GET", "/transactions", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from list, got %d", rec.Code)
	}
	for _, item := range parseJSONArray(t, rec) {
		if item["id"] == id {
			t.Fatalf("expected transaction %v to be deleted", id)
		}
	}
}

func TestTransactionOwnershipIsolation(t *testing.T) {
	app := setupApp(t)

	aliceToken := app.registerUser(t, "alice@x.com", "secret123")
	bobToken := app.registerUser(t, "bob@x.com", "secret123")

	aliceID := app.createTransaction(t, aliceToken,
		`{"type":"income","amount":100000,"category":"salary"}`)
	app.createTransaction(t, bobToken,
		`{"type":"expense","amount":2500,"category":"food"}`)

	t.Run("list_only_returns_own_records", func(t *testing.T) {
		rec := app.request("GET", "/transactions", "", bobToken)
		list := parseJSONArray(t, rec)
		if len(list) != 1 {
			t.Fatalf("expected 1 transaction for bob, got %d", len(list))
		}
		if list[0]["category"] != "food" {
			t.Errorf("expected bob's food expense, got %v", list[0])
		}
	})

	t.Run("reading_another_users_record_is_not_found", func(t *testing.T) {
		rec := app.request("GET", fmt.Sprintf("/transactions/%.0f", aliceID), "", bobToken)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("deleting_another_users_record_is_forbidden", func(t *testing.T) {
		rec := app.request("DELETE", fmt.Sprintf("/transactions/%.0f", aliceID), "", bobToken)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
		}

		// Alice's record is untouched
		rec = app.request("GET", fmt.Sprintf("/transactions/%.0f", aliceID), "", aliceToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected alice's record to survive, got %d", rec.Code)
		}
	})
}

func TestTransactionFiltering(t *testing.T) {
	app := setupApp(t)

	token := app.registerUser(t, "filter@x.com", "secret123")

	app.createTransaction(t, token,
		`{"type":"expense","amount":1200,"category":"food","date":"2026-01-10"}`)
	app.createTransaction(t, token,
		`{"type":"expense","amount":4500,"category":"transport","date":"2026-02-05"}`)
	app.createTransaction(t, token,
		`{"type":"income","amount":300000,"category":"salary","date":"2026-02-01"}`)

	t.Run("by_type", func(t *testing.T) {
		rec := app.request("GET", "/transactions?type=income", "", token)
		list := parseJSONArray(t, rec)
		if len(list) != 1 || list[0]["category"] != "salary" {
			t.Fatalf("expected only the salary income, got %v", list)
		}
	})

	t.Run("by_category", func(t *testing.T) {
		rec := app.request("GET", "/transactions?category=food", "", token)
		list := parseJSONArray(t, rec)
		if len(list) != 1 {
			t.Fatalf("expected 1 food transaction, got %d", len(list))
		}
	})

	t.Run("by_date_range", func(t *testing.T) {
		rec := app.request("GET", "/transactions?from=2026-02-01&to=2026-02-28", "", token)
		list := parseJSONArray(t, rec)
		if len(list) != 2 {
			t.Fatalf("expected 2 transactions in February, got %d: %v", len(list), list)
		}
	})

	t.Run("combined_filters", func(t *testing.T) {
		rec := app.request("GET", "/transactions?type=expense&from=2026-02-01", "", token)
		list := parseJSONArray(t, rec)
		if len(list) != 1 || list[0]["category"] != "transport" {
			t.Fatalf("expected only the transport expense, got %v", list)
		}
	})

	t.Run("invalid_type_is_rejected", func(t *testing.T) {
		rec := app.request("GET", "/transactions?type=transfer", "", token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionSummary(t *testing.T) {
	app := setupApp(t)

	token := app.registerUser(t, "summary@x.com", "secret123")

	app.createTransaction(t, token, `{"type":"income","amount":500000,"category":"salary"}`)
	app.createTransaction(t, token, `{"type":"expense","amount":12000,"category":"food"}`)
	app.createTransaction(t, token, `{"type":"expense","amount":8000,"category":"food"}`)

	rec := app.request("GET", "/transactions/summary", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from summary, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["total_income"].(float64) != 500000 {
		t.Errorf("expected total_income 500000, got %v", result["total_income"])
	}
	if result["total_expense"].(float64) != 20000 {
		t.Errorf("expected total_expense 20000, got %v", result["total_expense"])
	}
	if result["balance"].(float64) != 480000 {
		t.Errorf("expected balance 480000, got %v", result["balance"])
	}
	byCategory := result["expense_by_category"].(map[string]interface{})
	if byCategory["food"].(float64) != 20000 {
		t.Errorf("expected food category total 20000, got %v", byCategory["food"])
	}
}
