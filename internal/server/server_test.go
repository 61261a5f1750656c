package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlefebvre/enveloppe/internal/models"
	"github.com/mlefebvre/enveloppe/internal/service"
	"github.com/mlefebvre/enveloppe/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "enveloppe-server-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(New(service.NewBudgetService(store)).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func TestOverviewEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/overview")
	if err != nil {
		t.Fatalf("GET /api/overview failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var overview struct {
		Accounts []struct {
			Name     string `json:"name"`
			Editable bool   `json:"editable"`
		} `json:"accounts"`
		FixedChargesTotal string `json:"fixedChargesTotal"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&overview); err != nil {
		t.Fatalf("failed to decode overview: %v", err)
	}
	if len(overview.Accounts) != 2 {
		t.Errorf("got %d accounts, want 2", len(overview.Accounts))
	}
	if overview.FixedChargesTotal != "236" {
		t.Errorf("fixedChargesTotal = %q, want 236", overview.FixedChargesTotal)
	}
	for _, a := range overview.Accounts {
		if a.Name == models.AggregateAccount && a.Editable {
			t.Error("aggregate account reported editable")
		}
	}
}

func TestDebtEndpoints(t *testing.T) {
	srv := setupTestServer(t)

	resp := postJSON(t, srv.URL+"/api/debts", service.AddDebtRequest{
		BorrowFrom: "BNP",
		ToFund:     "Life",
		Amount:     "25.50",
		Note:       "courses",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var debt models.Debt
	if err := json.NewDecoder(resp.Body).Decode(&debt); err != nil {
		t.Fatalf("failed to decode debt: %v", err)
	}
	if debt.ID == "" {
		t.Fatal("expected an assigned debt ID")
	}

	// Invalid amount is rejected, not coerced.
	resp = postJSON(t, srv.URL+"/api/debts", service.AddDebtRequest{
		BorrowFrom: "BNP", ToFund: "Life", Amount: "n/a",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid amount status = %d, want 400", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/debts/"+debt.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", delResp.StatusCode)
	}

	listResp, err := http.Get(srv.URL + "/api/debts")
	if err != nil {
		t.Fatalf("GET /api/debts failed: %v", err)
	}
	defer listResp.Body.Close()
	var debts []models.Debt
	if err := json.NewDecoder(listResp.Body).Decode(&debts); err != nil {
		t.Fatalf("failed to decode debts: %v", err)
	}
	if len(debts) != 0 {
		t.Errorf("got %d debts after deletion, want 0", len(debts))
	}
}

func TestPaycheckEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	resp := postJSON(t, srv.URL+"/api/paycheck", map[string]string{"income": "1500"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var res struct {
		NewPrimaryBalance string            `json:"newPrimaryBalance"`
		Excess            string            `json:"excess"`
		Increments        map[string]string `json:"increments"`
		Status            string            `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// Fresh seed: primary 0, charges 236, so 1264 flows out and the status
	// flags the uncovered charges.
	if res.Excess != "1264" {
		t.Errorf("excess = %q, want 1264", res.Excess)
	}
	if res.NewPrimaryBalance != "236" {
		t.Errorf("newPrimaryBalance = %q, want 236", res.NewPrimaryBalance)
	}
	if res.Status != "shortfall" {
		t.Errorf("status = %q, want shortfall", res.Status)
	}
	if res.Increments["Plaisirs"] != "442.4" {
		t.Errorf("Plaisirs increment = %q, want 442.4", res.Increments["Plaisirs"])
	}
}

func TestUpdateBalanceEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	put := func(name, balance string) *http.Response {
		body, _ := json.Marshal(map[string]string{"balance": balance})
		req, _ := http.NewRequest(http.MethodPut,
			srv.URL+"/api/containers/"+name+"/balance", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("PUT failed: %v", err)
		}
		return resp
	}

	resp := put("BNP", "123.45")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}

	// The aggregate account's balance is derived; direct writes are refused.
	resp = put(models.AggregateAccount, "500")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("aggregate edit status = %d, want 422", resp.StatusCode)
	}

	resp = put("Inconnu", "1")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown container status = %d, want 404", resp.StatusCode)
	}
}

func TestAllocationsEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/allocations")
	if err != nil {
		t.Fatalf("GET /api/allocations failed: %v", err)
	}
	defer resp.Body.Close()

	var table models.AllocationTable
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		t.Fatalf("failed to decode table: %v", err)
	}
	if table.Sum() != 100 {
		t.Errorf("seed table sums to %d, want 100", table.Sum())
	}

	// A table that does not sum to 100 is refused.
	bad := models.AllocationTable{}
	for k := range table {
		bad[k] = 10
	}
	body, _ := json.Marshal(bad)
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/allocations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	putResp.Body.Close()
	if putResp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("bad table status = %d, want 422", putResp.StatusCode)
	}
}
