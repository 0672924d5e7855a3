package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"pet-adoption-store/internal/adapters/auth/jwtauth"
	"pet-adoption-store/internal/ports/auth"
	"pet-adoption-store/internal/router"
)

func TestHTTP_EndToEnd_AdoptionFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	adminH := debugHeaders(1, "ADMIN")
	aliceH := debugHeaders(2, "USER")
	bobH := debugHeaders(3, "USER")

	// 1) Admin crea un tag y una mascota
	tagID := createJSON(t, ts.URL, "/tags", adminH, map[string]any{"name": "friendly"})
	petID := createJSON(t, ts.URL, "/pets", adminH, map[string]any{
		"name":    "Milo",
		"species": "dog",
		"price":   "150.00",
		"age":     3,
		"tag_ids": []int64{tagID},
	})

	// 2) El catálogo es público
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+itoa(petID), nil, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get pet, got %d body=%s", st, string(body))
		}
		if !strings.Contains(string(body), "AVAILABLE") {
			t.Fatalf("expected pet AVAILABLE, body=%s", string(body))
		}
	}

	// 3) Adoptar sin identidad => 401
	{
		st, _ := doReq(t, ts.URL, "POST", "/adoptions/adopt", nil, map[string]any{"pet_id": petID})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 anonymous adopt, got %d", st)
		}
	}

	// 4) Campos desconocidos en el body => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/adoptions/adopt", aliceH, map[string]any{
			"pet_id":  petID,
			"user_id": 99,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/adoptions/adopt", aliceH, map[string]any{})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing pet_id, got %d", st)
		}
	}

	// 5) Alice adopta: 201 y la mascota del recibo queda SOLD
	var adoptionID int64
	{
		st, body := doReq(t, ts.URL, "POST", "/adoptions/adopt", aliceH, map[string]any{"pet_id": petID})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 adopt, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID  int64 `json:"id"`
			Pet struct {
				Status string `json:"status"`
			} `json:"pet"`
			User struct {
				ID int64 `json:"id"`
			} `json:"user"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ID == 0 || resp.Pet.Status != "SOLD" || resp.User.ID != 2 {
			t.Fatalf("unexpected adopt response: %s", string(body))
		}
		adoptionID = resp.ID
	}

	// 6) El catálogo refleja el SOLD
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+itoa(petID), nil, nil)
		if st != http.StatusOK || !strings.Contains(string(body), "SOLD") {
			t.Fatalf("expected pet SOLD in catalog, got %d body=%s", st, string(body))
		}
	}

	// 7) Bob intenta adoptar la misma mascota: 400 con el status actual
	{
		st, body := doReq(t, ts.URL, "POST", "/adoptions/adopt", bobH, map[string]any{"pet_id": petID})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 adopting sold pet, got %d body=%s", st, string(body))
		}
		if !strings.Contains(string(body), "SOLD") {
			t.Fatalf("expected current status in message, body=%s", string(body))
		}
	}

	// 8) Mascota inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "POST", "/adoptions/adopt", bobH, map[string]any{"pet_id": 999})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown pet, got %d", st)
		}
	}

	// 9) Visibilidad del listado: Alice ve 1, Bob 0, admin 1
	if n := listCount(t, ts.URL, aliceH); n != 1 {
		t.Fatalf("expected alice to see 1 adoption, got %d", n)
	}
	if n := listCount(t, ts.URL, bobH); n != 0 {
		t.Fatalf("expected bob to see 0 adoptions, got %d", n)
	}
	if n := listCount(t, ts.URL, adminH); n != 1 {
		t.Fatalf("expected admin to see 1 adoption, got %d", n)
	}

	// 10) Lectura puntual: dueño y admin sí, tercero 403
	{
		st, _ := doReq(t, ts.URL, "GET", "/adoptions/"+itoa(adoptionID), aliceH, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 owner read, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/adoptions/"+itoa(adoptionID), bobH, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 non-owner read, got %d", st)
		}
	}

	// 11) PATCH: dueño no-admin 403, admin 200
	newDate := "2026-01-01T00:00:00Z"
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/adoptions/"+itoa(adoptionID), aliceH, map[string]any{"adoption_date": newDate})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 patch by owner, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "PATCH", "/adoptions/"+itoa(adoptionID), adminH, map[string]any{"adoption_date": newDate})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch by admin, got %d body=%s", st, string(body))
		}
		if !strings.Contains(string(body), "2026-01-01") {
			t.Fatalf("expected updated date in response, body=%s", string(body))
		}
	}

	// 12) DELETE: no-admin 403, admin 204; la mascota sigue SOLD
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/adoptions/"+itoa(adoptionID), aliceH, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 delete by owner, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/adoptions/"+itoa(adoptionID), adminH, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete by admin, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/adoptions/"+itoa(adoptionID), adminH, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+itoa(petID), nil, nil)
		if st != http.StatusOK || !strings.Contains(string(body), "SOLD") {
			t.Fatalf("expected pet to stay SOLD after delete, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_PetCRUD_AdminOnly(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	userH := debugHeaders(2, "USER")

	st, _ := doReq(t, ts.URL, "POST", "/pets", userH, map[string]any{
		"name":    "Milo",
		"species": "dog",
	})
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 create pet by USER, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "POST", "/pets", nil, map[string]any{
		"name":    "Milo",
		"species": "dog",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 create pet anonymous, got %d", st)
	}
}

func TestHTTP_RegisterLoginAdoptWithJWT(t *testing.T) {
	tokens, err := jwtauth.New("e2e-secret", time.Hour)
	if err != nil {
		t.Fatalf("jwtauth: %v", err)
	}

	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: tokens,
		TokenIssuer:  tokens,
	}))
	defer ts.Close()

	// Con verifier activo los headers de debug se ignoran: para el alta
	// del catálogo se firma un token admin directamente.
	adminToken, _, err := tokens.Issue(context.Background(), auth.Claims{UserID: 999, Email: "root@store.local", Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("issue admin token: %v", err)
	}

	petID := createJSON(t, ts.URL, "/pets", bearer(adminToken), map[string]any{
		"name":    "Luna",
		"species": "cat",
		"price":   "80.00",
	})

	// 1) Registro: crea cuenta con rol USER
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/register", nil, map[string]any{
			"email":     "alice@example.com",
			"password":  "secret1",
			"full_name": "Alice",
			"gender":    "FEMALE",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
		}
		if !strings.Contains(string(body), `"role":"USER"`) {
			t.Fatalf("expected USER role, body=%s", string(body))
		}
	}

	// 2) Email duplicado => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/register", nil, map[string]any{
			"email":     "alice@example.com",
			"password":  "secret1",
			"full_name": "Alice",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate register, got %d", st)
		}
	}

	// 3) Login malo => 401, login bueno => token
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/login", nil, map[string]any{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad login, got %d", st)
		}
	}
	var userToken string
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/login", nil, map[string]any{
			"email":    "alice@example.com",
			"password": "secret1",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
		}
		var resp struct {
			AccessToken string `json:"access_token"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.AccessToken == "" {
			t.Fatalf("expected access_token, body=%s", string(body))
		}
		userToken = resp.AccessToken
	}

	// 4) Token inválido => 401 en endpoints protegidos
	{
		st, _ := doReq(t, ts.URL, "GET", "/adoptions", bearer("garbage"), nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 with bad token, got %d", st)
		}
	}

	// 5) Adopción autenticada con el JWT del login
	{
		st, body := doReq(t, ts.URL, "POST", "/adoptions/adopt", bearer(userToken), map[string]any{"pet_id": petID})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 adopt with jwt, got %d body=%s", st, string(body))
		}
		if !strings.Contains(string(body), "alice@example.com") {
			t.Fatalf("expected adopter email in receipt, body=%s", string(body))
		}
	}

	// 6) El listado del usuario muestra su adopción
	if n := listCount(t, ts.URL, bearer(userToken)); n != 1 {
		t.Fatalf("expected 1 adoption for alice, got %d", n)
	}
}

// -------------------------
// Helpers
// -------------------------

func debugHeaders(userID int64, role string) map[string]string {
	return map[string]string{
		"X-Debug-User-ID": strconv.FormatInt(userID, 10),
		"X-Debug-Role":    role,
	}
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func createJSON(t *testing.T, baseURL, path string, headers map[string]string, payload map[string]any) int64 {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, headers, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 creating %s, got %d body=%s", path, st, string(body))
	}

	var resp struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == 0 {
		t.Fatalf("create %s: missing id body=%s", path, string(body))
	}
	return resp.ID
}

func listCount(t *testing.T, baseURL string, headers map[string]string) int {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/adoptions", headers, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 listing adoptions, got %d body=%s", st, string(body))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		t.Fatalf("list adoptions: invalid json body=%s", string(body))
	}
	return len(items)
}

func doReq(t *testing.T, baseURL, method, path string, headers map[string]string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}
