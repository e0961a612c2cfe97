package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"namehaus/internal/gate"
	"namehaus/internal/jwttoken"
	"namehaus/internal/platform/middleware"
	"namehaus/internal/registry/service"
	"namehaus/internal/registry/store/ownership"
	"namehaus/internal/registry/store/record"
	"namehaus/internal/roles"
	"namehaus/internal/treasury"
	"namehaus/pkg/domain"
	"namehaus/pkg/events"
)

const signingKey = "test-signing-key"

type env struct {
	router http.Handler
	jwt    *jwttoken.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	log := events.NewMemoryLog()
	ledger := treasury.NewLedger("0xtreasury")
	roleSvc := roles.NewService(roles.NewMemoryStore(), log, "0xdeployer")

	svc := service.New(service.Deps{
		Records:    record.NewMemoryStore(),
		Owners:     ownership.NewMemoryStore(),
		Roles:      roleSvc,
		Gate:       gate.New(),
		Settlement: ledger,
		Owner:      "0xdeployer",
		Log:        log,
	}, service.WithLogger(logger), service.WithBaseURI("ipfs://meta/"))

	jwtSvc := jwttoken.NewService(signingKey, "namehaus", "namehaus")
	h := New(svc, roleSvc, log, logger, middleware.RequireAuth(jwtSvc, logger))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/v1", h.Register)
	return &env{router: r, jwt: jwtSvc}
}

func (e *env) token(t *testing.T, identity domain.Identity) string {
	t.Helper()
	tok, err := e.jwt.Generate(identity, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func (e *env) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestMutatingRoutesRequireToken(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/v1/records", "", ListRequest{Name: "jack.eth", Price: 10})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = e.do(t, http.MethodGet, "/v1/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected reads to stay public, got %d", rec.Code)
	}
}

func TestListMintResolveFlow(t *testing.T) {
	e := newEnv(t)
	admin := e.token(t, "0xdeployer")
	buyer := e.token(t, "0xbuyer")

	rec := e.do(t, http.MethodPost, "/v1/records", admin, ListRequest{Name: "Jack.ETH", Price: 10})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 listing, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[ListResponse](t, rec)
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}

	// Public read shows the normalized name.
	rec = e.do(t, http.MethodGet, "/v1/records/1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching record, got %d", rec.Code)
	}
	got := decode[RecordResponse](t, rec)
	if got.Name != "jack.eth" || got.Purchased {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Underpayment is a 402 and leaves the record unsold.
	rec = e.do(t, http.MethodPost, "/v1/records/1/mint", buyer, MintRequest{Payment: 9})
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402 underpaying, got %d", rec.Code)
	}

	rec = e.do(t, http.MethodPost, "/v1/records/1/mint", buyer, MintRequest{Payment: 10})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 minting, got %d: %s", rec.Code, rec.Body.String())
	}
	minted := decode[RecordResponse](t, rec)
	if !minted.Purchased {
		t.Fatalf("expected purchased record, got %+v", minted)
	}

	rec = e.do(t, http.MethodGet, "/v1/records/1/owner", "", nil)
	owner := decode[OwnerResponse](t, rec)
	if owner.Owner != "0xbuyer" {
		t.Fatalf("expected owner 0xbuyer, got %q", owner.Owner)
	}

	rec = e.do(t, http.MethodGet, "/v1/records/1/uri", "", nil)
	uri := decode[URIResponse](t, rec)
	if uri.URI != "ipfs://meta/1" {
		t.Fatalf("expected resolved uri, got %q", uri.URI)
	}

	rec = e.do(t, http.MethodGet, "/v1/stats", "", nil)
	stats := decode[StatsResponse](t, rec)
	if stats.MaxID != 1 || stats.TotalPurchased != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestDuplicateNameConflicts(t *testing.T) {
	e := newEnv(t)
	admin := e.token(t, "0xdeployer")

	if rec := e.do(t, http.MethodPost, "/v1/records", admin, ListRequest{Name: "jack.eth", Price: 10}); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	rec := e.do(t, http.MethodPost, "/v1/records", admin, ListRequest{Name: "JACK.eth", Price: 5})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate name, got %d", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["error"] != "conflict" || body["error_description"] != "name already exists" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestRoleGrantEnablesListing(t *testing.T) {
	e := newEnv(t)
	admin := e.token(t, "0xdeployer")
	alice := e.token(t, "0xalice")

	rec := e.do(t, http.MethodPost, "/v1/records", alice, ListRequest{Name: "alice.eth", Price: 1})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 before grant, got %d", rec.Code)
	}

	// Non-admins cannot grant.
	rec = e.do(t, http.MethodPost, "/v1/roles/grant", alice, RoleRequest{Identity: "0xalice", Role: "lister"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 granting as non-admin, got %d", rec.Code)
	}

	rec = e.do(t, http.MethodPost, "/v1/roles/grant", admin, RoleRequest{Identity: "0xAlice", Role: "lister"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 granting, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/v1/records", alice, ListRequest{Name: "alice.eth", Price: 1})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 after grant, got %d", rec.Code)
	}

	rec = e.do(t, http.MethodGet, "/v1/roles/0xalice", "", nil)
	held := decode[RolesResponse](t, rec)
	if len(held.Roles) != 1 || held.Roles[0] != "lister" {
		t.Fatalf("unexpected roles: %+v", held)
	}
}

func TestPauseGateOverHTTP(t *testing.T) {
	e := newEnv(t)
	admin := e.token(t, "0xdeployer")

	rec := e.do(t, http.MethodPut, "/v1/paused", admin, PausedRequest{Paused: true})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 pausing, got %d", rec.Code)
	}

	rec = e.do(t, http.MethodPost, "/v1/records", admin, ListRequest{Name: "jack.eth", Price: 10})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while paused, got %d", rec.Code)
	}

	rec = e.do(t, http.MethodPut, "/v1/paused", admin, PausedRequest{Paused: false})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 unpausing, got %d", rec.Code)
	}
	rec = e.do(t, http.MethodPost, "/v1/records", admin, ListRequest{Name: "jack.eth", Price: 10})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 after unpause, got %d", rec.Code)
	}
}

func TestWithdrawEndpoint(t *testing.T) {
	e := newEnv(t)
	admin := e.token(t, "0xdeployer")
	buyer := e.token(t, "0xbuyer")

	rec := e.do(t, http.MethodPost, "/v1/withdraw", buyer, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", rec.Code)
	}

	rec = e.do(t, http.MethodPost, "/v1/withdraw", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 withdrawing, got %d", rec.Code)
	}
	resp := decode[WithdrawResponse](t, rec)
	if resp.Amount != 0 {
		t.Fatalf("expected zero sweep, got %d", resp.Amount)
	}
}

func TestEventsEndpoint(t *testing.T) {
	e := newEnv(t)
	admin := e.token(t, "0xdeployer")

	e.do(t, http.MethodPost, "/v1/records", admin, ListRequest{Name: "jack.eth", Price: 10})
	e.do(t, http.MethodPost, "/v1/records", admin, ListRequest{Name: "john.eth", Price: 5})

	rec := e.do(t, http.MethodGet, "/v1/events", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing events, got %d", rec.Code)
	}
	all := decode[[]events.Event](t, rec)
	if len(all) != 2 {
		t.Fatalf("expected 2 events, got %d", len(all))
	}

	rec = e.do(t, http.MethodGet, "/v1/events?record_id=2", "", nil)
	filtered := decode[[]events.Event](t, rec)
	if len(filtered) != 1 || filtered[0].Label != "john.eth" {
		t.Fatalf("unexpected filtered events: %+v", filtered)
	}
}

func TestInvalidRecordID(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/v1/records/abc", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
	}
}
