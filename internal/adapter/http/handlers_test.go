package adapthttp_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	adapthttp "rockbuster/internal/adapter/http"
	"rockbuster/internal/adapter/memory"
	"rockbuster/internal/app"
	"rockbuster/internal/domain"
	"rockbuster/internal/searchlog"
)

// ---------------------------------------------------------------------------
// Mock catalog repositories (function-fields pattern)
// ---------------------------------------------------------------------------

type mockMovieRepo struct {
	sampleFn func(ctx context.Context, limit int) ([]domain.Movie, error)
	getFn    func(ctx context.Context, id string) (*domain.Movie, error)
	searchFn func(ctx context.Context, query string, limit int) ([]domain.Movie, error)
}

func (m *mockMovieRepo) Sample(ctx context.Context, limit int) ([]domain.Movie, error) {
	if m.sampleFn != nil {
		return m.sampleFn(ctx, limit)
	}
	return []domain.Movie{{ID: bson.NewObjectID(), Title: "The Great Train Robbery", Year: 1903}}, nil
}

func (m *mockMovieRepo) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return &domain.Movie{ID: oid, Title: "The Great Train Robbery", Year: 1903}, nil
}

func (m *mockMovieRepo) SearchByTitle(ctx context.Context, query string, limit int) ([]domain.Movie, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []domain.Movie{{ID: bson.NewObjectID(), Title: "Train to Busan", Year: 2016}}, nil
}

type mockFilmRepo struct {
	randomFn func(ctx context.Context, limit int) ([]domain.Film, error)
	getFn    func(ctx context.Context, fid int) (*domain.Film, error)
	searchFn func(ctx context.Context, query string, limit int) ([]domain.Film, error)
}

func (m *mockFilmRepo) Random(ctx context.Context, limit int) ([]domain.Film, error) {
	if m.randomFn != nil {
		return m.randomFn(ctx, limit)
	}
	return []domain.Film{{FID: 1, Title: "Academy Dinosaur", ReleaseYear: 2006}}, nil
}

func (m *mockFilmRepo) GetByID(ctx context.Context, fid int) (*domain.Film, error) {
	if m.getFn != nil {
		return m.getFn(ctx, fid)
	}
	return &domain.Film{FID: fid, Title: "Academy Dinosaur", ReleaseYear: 2006}, nil
}

func (m *mockFilmRepo) SearchByTitle(ctx context.Context, query string, limit int) ([]domain.Film, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []domain.Film{{FID: 1, Title: "Academy Dinosaur"}}, nil
}

// ---------------------------------------------------------------------------
// Test fixture
// ---------------------------------------------------------------------------

type fixture struct {
	handler http.Handler
	users   *memory.DB
	logDir  string
}

func newFixture(t *testing.T, movies domain.MovieRepository, films domain.FilmRepository) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := memory.New()
	store := memory.NewSessionStore()
	hasher := app.NewHasher(4)
	sessions := app.NewSessionManager(users, store, app.DefaultSessionTTL, log)
	auth := app.NewAuthService(users, hasher, sessions, log)
	catalog := app.NewCatalogService(movies, films)

	logDir := t.TempDir()
	searches, err := searchlog.New(logDir, log)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(searches.Close)

	render, err := adapthttp.NewRenderer(filepath.Join("..", "..", "..", "web", "templates"), log)
	if err != nil {
		t.Fatal(err)
	}

	srv := adapthttp.New(auth, sessions, catalog, searches, render, filepath.Join("..", "..", "..", "web"), log)
	return &fixture{handler: srv.Handler(), users: users, logDir: logDir}
}

func (f *fixture) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *fixture) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("expected a session cookie")
	return nil
}

func registerForm(name, email, password string) url.Values {
	return url.Values{"name": {name}, "email": {email}, "password": {password}}
}

func loginForm(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRegisterLoginBrowseDeregisterFlow(t *testing.T) {
	f := newFixture(t, &mockMovieRepo{}, &mockFilmRepo{})
	ctx := context.Background()

	// Register.
	w := f.postForm(t, "/auth/register", registerForm("A", "a@x.com", "p1"))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("register: got %d -> %q", w.Code, w.Header().Get("Location"))
	}
	if n, _ := f.users.Count(ctx); n != 1 {
		t.Fatalf("expected 1 user record, got %d", n)
	}

	// Registering success did not mint a session.
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			t.Fatal("registration must not log the user in")
		}
	}

	// Duplicate registration.
	w = f.postForm(t, "/auth/register", registerForm("A", "a@x.com", "p2"))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/register" {
		t.Fatalf("duplicate register: got %d -> %q", w.Code, w.Header().Get("Location"))
	}
	if n, _ := f.users.Count(ctx); n != 1 {
		t.Fatalf("duplicate registration must not add a record, got %d", n)
	}

	// Wrong password collapses to the same redirect as unknown email.
	w = f.postForm(t, "/auth/login", loginForm("a@x.com", "wrong"))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("bad login: got %d -> %q", w.Code, w.Header().Get("Location"))
	}
	w = f.postForm(t, "/auth/login", loginForm("nobody@x.com", "p1"))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("unknown login: got %d -> %q", w.Code, w.Header().Get("Location"))
	}

	// Correct login mints a session and lands on home.
	w = f.postForm(t, "/auth/login", loginForm("a@x.com", "p1"))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("login: got %d -> %q", w.Code, w.Header().Get("Location"))
	}
	cookie := sessionCookieFrom(t, w)

	// Home renders both catalogs.
	w = f.get(t, "/", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("home: got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "The Great Train Robbery") || !strings.Contains(body, "Academy Dinosaur") {
		t.Error("home should list both catalogs")
	}

	// The login page is closed to authenticated users.
	w = f.get(t, "/auth/login", cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("login page while authenticated: got %d -> %q", w.Code, w.Header().Get("Location"))
	}

	// Delete the account; the old token resolves anonymous afterwards.
	w = f.postForm(t, "/auth/account", nil, cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("deregister: got %d -> %q", w.Code, w.Header().Get("Location"))
	}
	if n, _ := f.users.Count(ctx); n != 0 {
		t.Fatalf("expected 0 user records after deregister, got %d", n)
	}

	w = f.get(t, "/", cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("home with dead token: got %d -> %q", w.Code, w.Header().Get("Location"))
	}
}

func TestLogoutEndsSession(t *testing.T) {
	f := newFixture(t, &mockMovieRepo{}, &mockFilmRepo{})

	f.postForm(t, "/auth/register", registerForm("A", "a@x.com", "p1"))
	w := f.postForm(t, "/auth/login", loginForm("a@x.com", "p1"))
	cookie := sessionCookieFrom(t, w)

	w = f.get(t, "/auth/logout", cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("logout: got %d -> %q", w.Code, w.Header().Get("Location"))
	}

	w = f.get(t, "/", cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("home after logout: got %d -> %q", w.Code, w.Header().Get("Location"))
	}
}

func TestHomeRequiresAuthentication(t *testing.T) {
	f := newFixture(t, &mockMovieRepo{}, &mockFilmRepo{})

	w := f.get(t, "/")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("got %d -> %q", w.Code, w.Header().Get("Location"))
	}
}

func TestHomeEmptyCatalogRendersBadGateway(t *testing.T) {
	movies := &mockMovieRepo{
		sampleFn: func(ctx context.Context, limit int) ([]domain.Movie, error) {
			return nil, nil
		},
	}
	f := newFixture(t, movies, &mockFilmRepo{})

	f.postForm(t, "/auth/register", registerForm("A", "a@x.com", "p1"))
	w := f.postForm(t, "/auth/login", loginForm("a@x.com", "p1"))
	cookie := sessionCookieFrom(t, w)

	w = f.get(t, "/", cookie)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestHomeCatalogFaultRendersUnavailable(t *testing.T) {
	films := &mockFilmRepo{
		randomFn: func(ctx context.Context, limit int) ([]domain.Film, error) {
			return nil, context.DeadlineExceeded
		},
	}
	f := newFixture(t, &mockMovieRepo{}, films)

	f.postForm(t, "/auth/register", registerForm("A", "a@x.com", "p1"))
	w := f.postForm(t, "/auth/login", loginForm("a@x.com", "p1"))
	cookie := sessionCookieFrom(t, w)

	w = f.get(t, "/", cookie)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestSearchEmptyQueryRedirectsHome(t *testing.T) {
	f := newFixture(t, &mockMovieRepo{}, &mockFilmRepo{})

	f.postForm(t, "/auth/register", registerForm("A", "a@x.com", "p1"))
	w := f.postForm(t, "/auth/login", loginForm("a@x.com", "p1"))
	cookie := sessionCookieFrom(t, w)

	for _, path := range []string{"/search/mongo", "/search/postgres"} {
		w = f.get(t, path, cookie)
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
			t.Errorf("%s: got %d -> %q", path, w.Code, w.Header().Get("Location"))
		}
	}
}

func TestSearchRendersResultsAndWritesAuditLog(t *testing.T) {
	f := newFixture(t, &mockMovieRepo{}, &mockFilmRepo{})

	f.postForm(t, "/auth/register", registerForm("A", "a@x.com", "p1"))
	w := f.postForm(t, "/auth/login", loginForm("a@x.com", "p1"))
	cookie := sessionCookieFrom(t, w)

	w = f.get(t, "/search/mongo?search=Train", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("search: got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Train to Busan") {
		t.Error("search results missing from page")
	}

	// The audit line lands after the writer drains; wait via the log
	// file rather than sleeping.
	var data []byte
	for i := 0; i < 50; i++ {
		data, _ = os.ReadFile(filepath.Join(f.logDir, "searchLog.log"))
		if len(data) > 0 {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !strings.Contains(string(data), "Searched: Train") {
		t.Errorf("audit log missing search entry, got %q", string(data))
	}
}

func TestMovieDetailsUnknownIDRendersBadGateway(t *testing.T) {
	f := newFixture(t, &mockMovieRepo{}, &mockFilmRepo{})

	f.postForm(t, "/auth/register", registerForm("A", "a@x.com", "p1"))
	w := f.postForm(t, "/auth/login", loginForm("a@x.com", "p1"))
	cookie := sessionCookieFrom(t, w)

	w = f.get(t, "/movies/mongo/not-a-hex-id", cookie)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for malformed id, got %d", w.Code)
	}

	w = f.get(t, "/movies/postgres/not-a-number", cookie)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for malformed fid, got %d", w.Code)
	}
}

func TestCatalogDumpsArePublic(t *testing.T) {
	f := newFixture(t, &mockMovieRepo{}, &mockFilmRepo{})

	for _, path := range []string{"/movies/mongo.json", "/movies/postgres.json"} {
		w := f.get(t, path)
		if w.Code != http.StatusOK {
			t.Errorf("%s: got %d", path, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("%s: got content type %q", path, ct)
		}
	}
}
