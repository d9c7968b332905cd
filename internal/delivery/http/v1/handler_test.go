package v1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avgarcia/go-tasklist/internal/models"
	"github.com/avgarcia/go-tasklist/internal/services"
	"github.com/avgarcia/go-tasklist/internal/storage"
)

// Light hashing parameters keep the tests fast.
var testHashParams = &argon2id.Params{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newTestRouter(store storage.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zerolog.Nop()

	authService := services.NewAuthService(logger, store, testHashParams, true)
	taskService := services.NewTaskService(logger, store)
	handler := New(
		logger,
		store,
		authService,
		taskService,
		"go-tasklist-test",
		[]byte("test-signing-key"),
		time.Hour,
	)

	router := gin.New()
	RegisterRoutes(router, handler)
	return router
}

// testClient replays a browser: it carries cookies between requests.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T, router *gin.Engine) *testClient {
	return &testClient{
		t:       t,
		router:  router,
		cookies: make(map[string]*http.Cookie),
	}
}

func (c *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
		} else {
			c.cookies[cookie.Name] = cookie
		}
	}
	return w
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *testClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, form)
}

func (c *testClient) login(name, password string) *httptest.ResponseRecorder {
	return c.postForm("/", url.Values{"user": {name}, "password": {password}})
}

func assertRedirectHome(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("redirect location = %q, want /", loc)
	}
}

func TestFullUserScenario(t *testing.T) {
	store := storage.NewMemoryStore()
	router := newTestRouter(store)
	client := newTestClient(t, router)

	// Anonymous index shows the login form.
	w := client.get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `name="user"`) {
		t.Fatal("anonymous index should render the login form")
	}

	// First login auto-registers and redirects.
	assertRedirectHome(t, client.login("alice", "password1"))
	if _, ok := client.cookies[sessionCookie]; !ok {
		t.Fatal("login should set the session cookie")
	}

	w = client.get("/")
	if !strings.Contains(w.Body.String(), "alice") {
		t.Fatal("authenticated index should show the user name")
	}

	// Add a task, it shows up in the list.
	assertRedirectHome(t, client.postForm("/add_task", url.Values{"description_task": {"buy milk"}}))
	w = client.get("/")
	if !strings.Contains(w.Body.String(), "buy milk") {
		t.Fatal("task list should contain the new task")
	}

	// Logout returns to the anonymous empty view.
	assertRedirectHome(t, client.postForm("/logout", nil))
	w = client.get("/")
	if strings.Contains(w.Body.String(), "buy milk") {
		t.Fatal("anonymous view must not leak tasks")
	}

	// Logging back in shows the persisted task.
	assertRedirectHome(t, client.login("alice", "password1"))
	w = client.get("/")
	if !strings.Contains(w.Body.String(), "buy milk") {
		t.Fatal("tasks should survive logout and re-login")
	}

	// A wrong password from a fresh browser renders the inline error over
	// the anonymous empty list, not alice's.
	stranger := newTestClient(t, router)
	w = stranger.login("alice", "wrongpass")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with inline error", w.Code)
	}
	if !strings.Contains(w.Body.String(), msgWrongPassword) {
		t.Fatalf("body should contain %q", msgWrongPassword)
	}
	if strings.Contains(w.Body.String(), "buy milk") {
		t.Fatal("rejected login must not render another user's tasks")
	}
}

func TestLoginValidationErrors(t *testing.T) {
	store := storage.NewMemoryStore()
	client := newTestClient(t, newTestRouter(store))

	w := client.login("", "password1")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), msgTryAgain) {
		t.Errorf("empty name: status %d, body should contain %q", w.Code, msgTryAgain)
	}

	w = client.login("bob", "short")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), msgPasswordTooShort) {
		t.Errorf("short password: status %d, body should contain %q", w.Code, msgPasswordTooShort)
	}

	// Neither submission may create a user.
	if _, err := store.FindUserByName(context.Background(), "bob"); !errors.Is(err, storage.ErrUserNotFound) {
		t.Error("rejected submissions must not create users")
	}
}

func TestTaskRoutesRedirectAnonymous(t *testing.T) {
	store := storage.NewMemoryStore()
	client := newTestClient(t, newTestRouter(store))

	assertRedirectHome(t, client.postForm("/add_task", url.Values{"description_task": {"sneaky"}}))
	assertRedirectHome(t, client.postForm("/delete_task", url.Values{"task_id": {"1"}}))
}

func TestDeleteTaskOwnership(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	router := newTestRouter(store)

	alice := newTestClient(t, router)
	assertRedirectHome(t, alice.login("alice", "password1"))
	assertRedirectHome(t, alice.postForm("/add_task", url.Values{"description_task": {"buy milk"}}))

	aliceUser, err := store.FindUserByName(ctx, "alice")
	if err != nil {
		t.Fatalf("find alice: %v", err)
	}
	tasks, _ := store.ListTasksForUser(ctx, aliceUser.ID)
	if len(tasks) != 1 {
		t.Fatalf("alice has %d tasks, want 1", len(tasks))
	}
	taskID := strconv.FormatInt(tasks[0].ID, 10)

	// Bob's delete of alice's task is a silent no-op that still redirects.
	bob := newTestClient(t, router)
	assertRedirectHome(t, bob.login("bob", "password2"))
	assertRedirectHome(t, bob.postForm("/delete_task", url.Values{"task_id": {taskID}}))
	if tasks, _ = store.ListTasksForUser(ctx, aliceUser.ID); len(tasks) != 1 {
		t.Fatal("bob deleted alice's task")
	}

	// So are deletes of nonexistent or malformed ids.
	assertRedirectHome(t, alice.postForm("/delete_task", url.Values{"task_id": {"9999"}}))
	assertRedirectHome(t, alice.postForm("/delete_task", url.Values{"task_id": {"not-a-number"}}))
	if tasks, _ = store.ListTasksForUser(ctx, aliceUser.ID); len(tasks) != 1 {
		t.Fatal("no-op deletes changed the store")
	}

	// The owner can delete it.
	assertRedirectHome(t, alice.postForm("/delete_task", url.Values{"task_id": {taskID}}))
	if tasks, _ = store.ListTasksForUser(ctx, aliceUser.ID); len(tasks) != 0 {
		t.Fatal("owner delete failed")
	}
}

func TestTamperedSessionCookieIsAnonymous(t *testing.T) {
	store := storage.NewMemoryStore()
	client := newTestClient(t, newTestRouter(store))

	client.cookies[sessionCookie] = &http.Cookie{Name: sessionCookie, Value: "not-a-signed-token"}

	w := client.get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `name="user"`) {
		t.Fatal("a forged cookie should fall back to the anonymous view")
	}
}

// conflictStore simulates losing the first-time registration race.
type conflictStore struct {
	storage.Store
}

func (s *conflictStore) FindUserByName(context.Context, string) (*models.User, error) {
	return nil, storage.ErrUserNotFound
}

func (s *conflictStore) CreateUser(context.Context, string, string) (*models.User, error) {
	return nil, storage.ErrUserExists
}

func TestRegistrationConflictRendersError(t *testing.T) {
	store := &conflictStore{Store: storage.NewMemoryStore()}
	client := newTestClient(t, newTestRouter(store))

	w := client.login("alice", "password1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with inline error", w.Code)
	}
	if !strings.Contains(w.Body.String(), msgUserExists) {
		t.Fatalf("body should contain %q", msgUserExists)
	}
}
