package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"zanatli/internal/config"
	"zanatli/internal/db"
	"zanatli/internal/domain"
	"zanatli/internal/engine"
	"zanatli/internal/migrate"
)

type testServer struct {
	URL    string
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

func newTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()
	workspace := t.TempDir()
	if _, err := db.EnsureWorkspace(workspace); err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}
	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := engine.New(conn, cfg)
	handler, err := New(Config{
		Engine:   e,
		BasePath: "/v0",
		Auth:     AuthConfig{JWTSecret: cfg.Auth.JWTSecret, TokenTTLMins: cfg.Auth.TokenTTLMins},
	})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			conn.Close()
		},
	}
	return testSrv, func() { testSrv.Close() }
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// register creates an account via the API and returns the token and user.
func register(t *testing.T, srv *testServer, email string, isClient, isContractor bool) (string, domain.User) {
	t.Helper()
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/auth/register", map[string]any{
		"email":        email,
		"password":     "hunter2hunter2",
		"isClient":     isClient,
		"isContractor": isContractor,
	}, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, res.StatusCode, string(data))
	}
	var auth AuthResponse
	if err := json.Unmarshal(data, &auth); err != nil {
		t.Fatalf("unmarshal auth: %v", err)
	}
	return auth.Token, auth.User
}

func createJob(t *testing.T, srv *testServer, clientToken, contractorID string) domain.Job {
	t.Helper()
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs", map[string]any{
		"contractorId":  contractorID,
		"description":   "Tile the bathroom",
		"preferredDate": "2026-09-15",
	}, bearer(clientToken))
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create job: %d %s", res.StatusCode, string(data))
	}
	var j domain.Job
	if err := json.Unmarshal(data, &j); err != nil {
		t.Fatalf("unmarshal job: %v", err)
	}
	return j
}

func TestAuthRequired(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, _ := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs", nil, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
	res, _ = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/health", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health must be public, got %d", res.StatusCode)
	}
}

func TestLoginFlow(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	_, u := register(t, srv, "ana@example.com", true, false)

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/auth/login", map[string]any{
		"email": "ana@example.com", "password": "hunter2hunter2",
	}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login: %d %s", res.StatusCode, string(data))
	}
	var auth AuthResponse
	if err := json.Unmarshal(data, &auth); err != nil {
		t.Fatal(err)
	}
	if auth.User.ID != u.ID || auth.Token == "" {
		t.Fatalf("login response = %+v", auth)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/users/me", nil, bearer(auth.Token))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("me: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/auth/login", map[string]any{
		"email": "ana@example.com", "password": "wrong",
	}, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: %d %s", res.StatusCode, string(data))
	}
}

func TestJobDeclineScenario(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	clientToken, _ := register(t, srv, "client@example.com", true, false)
	contractorToken, contractor := register(t, srv, "pro@example.com", false, true)

	j := createJob(t, srv, clientToken, contractor.ID)
	if j.Status != domain.JobPending {
		t.Fatalf("new job status %s", j.Status)
	}

	// decline without a reason is rejected and leaves the job Pending
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/decline", map[string]any{
		"reason": "",
	}, bearer(contractorToken))
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty reason: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/decline", map[string]any{
		"reason": "Booked out this month",
	}, bearer(contractorToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("decline: %d %s", res.StatusCode, string(data))
	}
	var declined domain.Job
	if err := json.Unmarshal(data, &declined); err != nil {
		t.Fatal(err)
	}
	if declined.Status != domain.JobDeclined || declined.ResponseMessage == nil || *declined.ResponseMessage != "Booked out this month" {
		t.Fatalf("declined job = %+v", declined)
	}

	// Declined is terminal
	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/accept", nil, bearer(contractorToken))
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("accept after decline: %d %s", res.StatusCode, string(data))
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Error.Code != "invalid_transition" {
		t.Fatalf("error envelope = %s (%v)", string(data), err)
	}
}

func TestJobCompleteAndReviewScenario(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	clientToken, _ := register(t, srv, "client@example.com", true, false)
	contractorToken, contractor := register(t, srv, "pro@example.com", false, true)

	j := createJob(t, srv, clientToken, contractor.ID)

	// the client cannot accept their own job
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/accept", nil, bearer(clientToken))
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("client accept: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/accept", nil, bearer(contractorToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("accept: %d %s", res.StatusCode, string(data))
	}

	// no review before completion
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs/"+j.ID+"/review", nil, bearer(clientToken))
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("review probe: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/complete", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("complete: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/review", map[string]any{
		"rating": 5, "comment": "Great work",
	}, bearer(clientToken))
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create review: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs/"+j.ID+"/review", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get review: %d %s", res.StatusCode, string(data))
	}
	var rv domain.Review
	if err := json.Unmarshal(data, &rv); err != nil {
		t.Fatal(err)
	}
	if rv.Rating != 5 || rv.Comment != "Great work" {
		t.Fatalf("review = %+v", rv)
	}

	// second review conflicts
	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/review", map[string]any{
		"rating": 1,
	}, bearer(clientToken))
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate review: %d %s", res.StatusCode, string(data))
	}

	// contractor's reviews include it
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/contractors/"+contractor.ID+"/reviews", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list reviews: %d %s", res.StatusCode, string(data))
	}
	var reviews []domain.Review
	if err := json.Unmarshal(data, &reviews); err != nil || len(reviews) != 1 {
		t.Fatalf("reviews = %s (%v)", string(data), err)
	}
}

func TestRoleSwitching(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	token, _ := register(t, srv, "dual@example.com", true, false)

	// cannot switch before the grant
	res, data := doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v0/users/me/active-role", map[string]any{
		"activeRole": "Contractor",
	}, bearer(token))
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("switch before grant: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/users/me/contractor-role", nil, bearer(token))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("grant: %d %s", res.StatusCode, string(data))
	}
	var auth AuthResponse
	if err := json.Unmarshal(data, &auth); err != nil {
		t.Fatal(err)
	}
	if !auth.User.IsContractor || auth.User.ActiveRole != domain.RoleClient {
		t.Fatalf("after grant = %+v", auth.User)
	}

	res, data = doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v0/users/me/active-role", map[string]any{
		"activeRole": "Contractor",
	}, bearer(auth.Token))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("switch: %d %s", res.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, &auth); err != nil {
		t.Fatal(err)
	}
	if auth.User.ActiveRole != domain.RoleContractor {
		t.Fatalf("active role = %q", auth.User.ActiveRole)
	}

	// the re-issued token carries the new active role: client-only actions 403
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/users/client-dashboard", nil, bearer(auth.Token))
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("client dashboard as contractor: %d %s", res.StatusCode, string(data))
	}
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/users/contractor-dashboard", nil, bearer(auth.Token))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("contractor dashboard: %d %s", res.StatusCode, string(data))
	}
}

func TestContractorSearch(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	clientToken, _ := register(t, srv, "client@example.com", true, false)
	proToken, pro := register(t, srv, "pro@example.com", false, true)

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/contractors", map[string]any{
		"fullName":   "Rada Roofing",
		"services":   "roof repair, gutters",
		"location":   "Sarajevo",
		"priceLevel": 2,
	}, bearer(proToken))
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create profile: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/contractors?search=roof&priceLevels=1,2", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("search: %d %s", res.StatusCode, string(data))
	}
	var page paginatedContractors
	if err := json.Unmarshal(data, &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].UserID != pro.ID {
		t.Fatalf("page = %+v", page)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/contractors?search=plumbing", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("empty search: %d %s", res.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, &page); err != nil || page.Total != 0 || len(page.Items) != 0 {
		t.Fatalf("empty page = %s (%v)", string(data), err)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/contractors/"+pro.ID, nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get contractor: %d %s", res.StatusCode, string(data))
	}
}

func TestMessagesEndpoint(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	clientToken, _ := register(t, srv, "client@example.com", true, false)
	contractorToken, contractor := register(t, srv, "pro@example.com", false, true)
	strangerToken, _ := register(t, srv, "other@example.com", true, false)

	j := createJob(t, srv, clientToken, contractor.ID)

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/messages", map[string]any{
		"text": "When can you start?",
	}, bearer(clientToken))
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("send: %d %s", res.StatusCode, string(data))
	}
	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/messages", map[string]any{
		"text": "Monday.",
	}, bearer(contractorToken))
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("reply: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs/"+j.ID+"/messages", nil, bearer(strangerToken))
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("stranger list: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs/"+j.ID+"/messages", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list: %d %s", res.StatusCode, string(data))
	}
	var msgs []domain.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0].Text != "When can you start?" || msgs[1].SenderEmail != "pro@example.com" {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestPhotoUpload(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	clientToken, _ := register(t, srv, "client@example.com", true, false)
	_, contractor := register(t, srv, "pro@example.com", false, true)
	j := createJob(t, srv, clientToken, contractor.ID)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="before.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	part.Write(payload)
	w.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/photos", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+clientToken)
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("upload: %d %s", res.StatusCode, string(data))
	}
	var photo domain.Photo
	if err := json.Unmarshal(data, &photo); err != nil {
		t.Fatal(err)
	}
	if photo.FileName != "before.png" || photo.Size != int64(len(payload)) {
		t.Fatalf("photo = %+v", photo)
	}

	// raw bytes round-trip
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs/"+j.ID+"/photos/"+photo.ID, nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get bytes: %d", res.StatusCode)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("payload mismatch: %d bytes", len(data))
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/png") {
		t.Fatalf("content type = %q", ct)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs/"+j.ID+"/photos", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list photos: %d %s", res.StatusCode, string(data))
	}
	var photos []domain.Photo
	if err := json.Unmarshal(data, &photos); err != nil || len(photos) != 1 {
		t.Fatalf("photos = %s (%v)", string(data), err)
	}
}

func TestClientDashboardEndpoint(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	clientToken, _ := register(t, srv, "client@example.com", true, false)
	contractorToken, contractor := register(t, srv, "pro@example.com", false, true)

	j := createJob(t, srv, clientToken, contractor.ID)
	doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/accept", nil, bearer(contractorToken))
	doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+j.ID+"/complete", nil, bearer(contractorToken))

	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/users/client-dashboard", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: %d %s", res.StatusCode, string(data))
	}
	var d engine.ClientDashboard
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatal(err)
	}
	if d.JobStats.TotalJobs != 1 || d.JobStats.CompletedJobs != 1 {
		t.Fatalf("stats = %+v", d.JobStats)
	}
	if len(d.ReviewableJobs) != 1 || d.ReviewableJobs[0].ID != j.ID {
		t.Fatalf("reviewable = %+v", d.ReviewableJobs)
	}
}

// TestWebClientPaths walks the exact paths the web client calls.
func TestWebClientPaths(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	clientToken, _ := register(t, srv, "client@example.com", true, false)
	contractorToken, contractor := register(t, srv, "pro@example.com", false, true)

	// the role grant lives under /auth and requires a token
	res, data := doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v0/auth/assign-role", nil, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous assign-role: %d %s", res.StatusCode, string(data))
	}
	res, data = doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v0/auth/assign-role", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("assign-role: %d %s", res.StatusCode, string(data))
	}
	var auth AuthResponse
	if err := json.Unmarshal(data, &auth); err != nil || !auth.User.IsContractor {
		t.Fatalf("assign-role response = %s (%v)", string(data), err)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/auth/me", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("auth/me: %d %s", res.StatusCode, string(data))
	}

	// profile creation on the collection, reads and updates on /contractors/me
	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/contractors", map[string]any{
		"fullName": "Pero Plumbing", "services": "pipes", "location": "Mostar", "priceLevel": 1,
	}, bearer(contractorToken))
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create profile: %d %s", res.StatusCode, string(data))
	}
	res, data = doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v0/contractors/me", map[string]any{
		"fullName": "Pero Plumbing", "services": "pipes, drains", "location": "Mostar", "priceLevel": 2,
	}, bearer(contractorToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update profile: %d %s", res.StatusCode, string(data))
	}
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/contractors/me", nil, bearer(contractorToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("own profile: %d %s", res.StatusCode, string(data))
	}
	var p domain.ContractorProfile
	if err := json.Unmarshal(data, &p); err != nil || p.PriceLevel != 2 {
		t.Fatalf("profile = %s (%v)", string(data), err)
	}

	// side-specific job listings
	j := createJob(t, srv, clientToken, contractor.ID)
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs/client", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("jobs/client: %d %s", res.StatusCode, string(data))
	}
	var jobs []domain.Job
	if err := json.Unmarshal(data, &jobs); err != nil || len(jobs) != 1 || jobs[0].ID != j.ID {
		t.Fatalf("client jobs = %s (%v)", string(data), err)
	}
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs/contractor", nil, bearer(contractorToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("jobs/contractor: %d %s", res.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, &jobs); err != nil || len(jobs) != 1 {
		t.Fatalf("contractor jobs = %s (%v)", string(data), err)
	}

	// dashboards under /users
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/users/client-dashboard", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("client dashboard: %d %s", res.StatusCode, string(data))
	}
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/users/contractor-dashboard", nil, bearer(contractorToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("contractor dashboard: %d %s", res.StatusCode, string(data))
	}
}

func TestJobListStatusFilter(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	clientToken, _ := register(t, srv, "client@example.com", true, false)
	contractorToken, contractor := register(t, srv, "pro@example.com", false, true)

	pending := createJob(t, srv, clientToken, contractor.ID)
	accepted := createJob(t, srv, clientToken, contractor.ID)
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/jobs/"+accepted.ID+"/accept", nil, bearer(contractorToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("accept: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs/client?status=Accepted", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("filter Accepted: %d %s", res.StatusCode, string(data))
	}
	var jobs []domain.Job
	if err := json.Unmarshal(data, &jobs); err != nil || len(jobs) != 1 || jobs[0].ID != accepted.ID {
		t.Fatalf("accepted jobs = %s (%v)", string(data), err)
	}

	// legacy numeric codes still work on input
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs/contractor?status=1", nil, bearer(contractorToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("filter code 1: %d %s", res.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, &jobs); err != nil || len(jobs) != 1 || jobs[0].ID != accepted.ID {
		t.Fatalf("code-1 jobs = %s (%v)", string(data), err)
	}
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs?status=0", nil, bearer(clientToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("filter code 0: %d %s", res.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, &jobs); err != nil || len(jobs) != 1 || jobs[0].ID != pending.ID {
		t.Fatalf("pending jobs = %s (%v)", string(data), err)
	}

	// the retired Cancelled status is not a valid filter
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/jobs/client?status=Cancelled", nil, bearer(clientToken))
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("filter Cancelled: %d %s", res.StatusCode, string(data))
	}
}
