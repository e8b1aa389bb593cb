package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/directory"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/links"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/media"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/testutil"
)

// testEnv sets up a temp SQLite DB, service, and router. An empty authToken
// means auth is disabled.
func testEnv(t *testing.T, authToken string) (*directory.Service, http.Handler) {
	t.Helper()
	svc, _ := testutil.TestService(t)
	mediaStore, err := media.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	router := NewRouter(svc, authToken != "", authToken, mediaStore)
	return svc, router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndDetailWithBacklinks(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/company", map[string]string{"name": "Acme", "body": "We build things."}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create company status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/event", map[string]string{"name": "Demo Day", "body": "Hosted by [[Acme]]."}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create event status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/company/acme", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("detail status = %d", w.Code)
	}
	var detail struct {
		BodyHTML  string `json:"body_html"`
		Backlinks []struct {
			Type  string `json:"type"`
			Label string `json:"label"`
		} `json:"backlinks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatal(err)
	}
	if len(detail.Backlinks) != 1 || detail.Backlinks[0].Type != "event" || detail.Backlinks[0].Label != "Events" {
		t.Errorf("unexpected backlinks: %+v", detail.Backlinks)
	}

	// The event's detail page links the resolved reference.
	w = doJSON(t, router, http.MethodGet, "/event/demo-day", nil, "")
	var eventDetail struct {
		BodyHTML string `json:"body_html"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &eventDetail); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(eventDetail.BodyHTML, `<a href="/companies/acme">`) {
		t.Errorf("rendered body missing link: %s", eventDetail.BodyHTML)
	}
}

func TestReferencesEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	doJSON(t, router, http.MethodPost, "/company", map[string]string{"name": "Acme"}, "")
	doJSON(t, router, http.MethodPost, "/person", map[string]string{"name": "Jo Fisher", "body": "[[{CEO} at {Acme}]]"}, "")

	w := doJSON(t, router, http.MethodGet, "/company/acme/references", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("references status = %d", w.Code)
	}
	var resp struct {
		References []links.IncomingRef `json:"references"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.References) != 1 {
		t.Fatalf("references = %d, want 1", len(resp.References))
	}
	r := resp.References[0]
	if r.Name != "Jo Fisher" || r.URL != "/people/jo-fisher" || r.Relation != "CEO" {
		t.Errorf("unexpected reference: %+v", r)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	_, router := testEnv(t, "")

	doJSON(t, router, http.MethodPost, "/company", map[string]string{"name": "Acme"}, "")
	doJSON(t, router, http.MethodPost, "/event", map[string]string{"name": "Demo Day", "body": "Hosted by [[Acme]]."}, "")

	// Dropping the reference on update clears the backlink.
	w := doJSON(t, router, http.MethodPut, "/event/demo-day", map[string]string{"name": "Demo Day", "body": "No links now."}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodGet, "/company/acme/references", nil, "")
	if !strings.Contains(w.Body.String(), `"references":[]`) && !strings.Contains(w.Body.String(), `"references":null`) {
		t.Errorf("stale reference after update: %s", w.Body.String())
	}

	w = doJSON(t, router, http.MethodDelete, "/event/demo-day", nil, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/event/demo-day", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted entity still served: %d", w.Code)
	}
}

func TestListPaginationAndFilter(t *testing.T) {
	_, router := testEnv(t, "")

	for _, name := range []string{"Acme", "Beta Corp", "Acme Labs"} {
		doJSON(t, router, http.MethodPost, "/company", map[string]string{"name": name}, "")
	}

	w := doJSON(t, router, http.MethodGet, "/company?limit=2", nil, "")
	var resp struct {
		Items []json.RawMessage `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 3 || len(resp.Items) != 2 {
		t.Errorf("total = %d items = %d, want 3/2", resp.Total, len(resp.Items))
	}

	w = doJSON(t, router, http.MethodGet, "/company?q=Acme", nil, "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Errorf("filtered total = %d, want 2", resp.Total)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	doJSON(t, router, http.MethodPost, "/company", map[string]string{"name": "Harbour Robotics"}, "")
	doJSON(t, router, http.MethodPost, "/person", map[string]string{"name": "Jo Fisher", "body": "Robotics enthusiast."}, "")

	w := doJSON(t, router, http.MethodGet, "/search?q=robot", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	var resp struct {
		Hits []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Hits) != 2 {
		t.Errorf("hits = %d, want 2: %+v", len(resp.Hits), resp.Hits)
	}

	w = doJSON(t, router, http.MethodGet, "/search", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("search without q status = %d, want 400", w.Code)
	}
}

func TestUnknownTypeIs404(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodGet, "/widget", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown type status = %d, want 404", w.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodPost, "/company", map[string]string{"body": "no name"}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", w.Code)
	}
}

func uploadImage(t *testing.T, router http.Handler, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("image bytes")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestImageUpload(t *testing.T) {
	_, router := testEnv(t, "")

	w := uploadImage(t, router, "logo.png")
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"/media/logo.png"`) {
		t.Errorf("upload response missing url: %s", w.Body.String())
	}

	// Same name again conflicts.
	w = uploadImage(t, router, "logo.png")
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate upload status = %d, want 409", w.Code)
	}

	// Non-image extensions are rejected.
	w = uploadImage(t, router, "script.sh")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad extension status = %d, want 400", w.Code)
	}
}

func TestAuthProtectsMutationsOnly(t *testing.T) {
	_, router := testEnv(t, "sekret")

	// Mutation without token is rejected.
	w := doJSON(t, router, http.MethodPost, "/company", map[string]string{"name": "Acme"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create status = %d, want 401", w.Code)
	}

	// With the token it passes.
	w = doJSON(t, router, http.MethodPost, "/company", map[string]string{"name": "Acme"}, "sekret")
	if w.Code != http.StatusCreated {
		t.Fatalf("authenticated create status = %d, body = %s", w.Code, w.Body.String())
	}

	// Reads stay public.
	w = doJSON(t, router, http.MethodGet, "/company/acme", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("public read status = %d, want 200", w.Code)
	}
}
