package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"menuthenu/internal/auth"
	"menuthenu/internal/extract"
	"menuthenu/internal/models"
	"menuthenu/internal/storage"
	"menuthenu/internal/store/storetest"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context, *readpref.ReadPref) error { return p.err }

type stubRecognizer struct{}

func (stubRecognizer) Recognize(context.Context, []byte) (string, error) {
	return "", extract.ErrOCRUnavailable
}

type stubFood struct{}

func (stubFood) Lookup(_ context.Context, name string) extract.FoodData {
	return extract.FoodData{
		Image:       "https://img.example/" + name + ".jpg",
		Ingredients: []string{"bread", "beef"},
		Nutrition:   models.Nutrition{Calories: 550},
	}
}

type testServer struct {
	engine *gin.Engine
	users  *storetest.Users
	menus  *storetest.Menus
	items  *storetest.Items
}

func newTestServer(t *testing.T, db stubPinger) *testServer {
	t.Helper()

	logger := zerolog.Nop()
	uploads := t.TempDir()
	ts := &testServer{
		users: storetest.NewUsers(),
		menus: storetest.NewMenus(),
		items: storetest.NewItems(),
	}
	ts.engine = New(Deps{
		Users:          ts.users,
		Menus:          ts.menus,
		Items:          ts.items,
		Files:          storage.NewLocalStorage(uploads, logger),
		Extractor:      extract.NewExtractor(stubRecognizer{}, nil, logger),
		Food:           stubFood{},
		DB:             db,
		JWTSecret:      testSecret,
		AccessTokenTTL: time.Hour,
		BaseDomain:     "localhost",
		UploadDir:      uploads,
		Logger:         logger,
	})
	return ts
}

func (ts *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func (ts *testServer) register(t *testing.T, username string) string {
	t.Helper()

	w := ts.do(http.MethodPost, "/api/auth/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter22",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (ts *testServer) createMenu(t *testing.T, token, name string) models.Menu {
	t.Helper()

	w := ts.do(http.MethodPost, "/api/menus", gin.H{"name": name, "template": "Classic"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Menu](t, w)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func itemNames(items []models.MenuItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func TestRegisterLoginAndMe(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")

	w := ts.do(http.MethodPost, "/api/auth/register", gin.H{
		"username": "joe", "email": "other@example.com", "password": "hunter22",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(http.MethodPost, "/api/auth/login", gin.H{"email": "JOE@example.com", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/api/auth/login", gin.H{"email": "nobody@example.com", "password": "hunter22"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/api/auth/login", gin.H{"email": "JOE@example.com", "password": "hunter22"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
	assert.NotContains(t, w.Body.String(), "passwordHash")

	menu := ts.createMenu(t, token, "Joe's Diner")

	w = ts.do(http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[struct {
		User struct {
			Username string   `json:"username"`
			Menus    []string `json:"menus"`
		} `json:"user"`
		Menus []models.Menu `json:"menus"`
	}](t, w)
	assert.Equal(t, "joe", me.User.Username)
	assert.Equal(t, []string{menu.ID.Hex()}, me.User.Menus)
	require.Len(t, me.Menus, 1)
	assert.Equal(t, "Joe's Diner", me.Menus[0].Name)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t, stubPinger{})

	w := ts.do(http.MethodPost, "/api/auth/register", gin.H{"email": "a@example.com"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username is required")
	assert.Contains(t, w.Body.String(), "password is required")
}

func TestProtectedRoutesRejectMissingAndExpiredTokens(t *testing.T) {
	ts := newTestServer(t, stubPinger{})

	w := ts.do(http.MethodPost, "/api/menus", gin.H{"name": "Cafe"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := auth.IssueToken(primitive.NewObjectID(), "x@example.com", testSecret, -time.Minute)
	require.NoError(t, err)
	w = ts.do(http.MethodPost, "/api/menus", gin.H{"name": "Cafe"}, expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodGet, "/api/users/me", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestItemsRoundTripInInsertionOrder(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")
	menu := ts.createMenu(t, token, "Joe's Diner")

	w := ts.do(http.MethodPost, "/api/menus/"+menu.ID.Hex()+"/items", gin.H{"items": []gin.H{
		{"name": "Burger", "price": 8.5, "category": "Mains"},
		{"name": "Cola", "price": "$2.00", "category": "Drinks"},
	}}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(http.MethodPost, "/api/menus/"+menu.ID.Hex()+"/items", gin.H{"name": "Fries", "price": 3.25}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(http.MethodGet, "/api/menus/"+menu.ID.Hex()+"/items", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]models.MenuItem](t, w)
	assert.Equal(t, []string{"Burger", "Cola", "Fries"}, itemNames(items))
	assert.Equal(t, 2.0, items[1].Price)
	assert.Equal(t, models.UncategorizedCategory, items[2].Category)
	for _, item := range items {
		assert.Equal(t, menu.ID, item.MenuID)
	}

	w = ts.do(http.MethodGet, "/api/menus/"+menu.ID.Hex(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	full := decode[struct {
		Menu  models.Menu       `json:"menu"`
		Items []models.MenuItem `json:"items"`
	}](t, w)
	assert.Equal(t, menu.ID, full.Menu.ID)
	assert.Len(t, full.Items, 3)
}

func TestCreateMenuWithInitialItemsAndDefaults(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")

	w := ts.do(http.MethodPost, "/api/menus", gin.H{
		"name":  "Cafe",
		"items": []gin.H{{"name": "Latte", "price": 3.5, "ingredients": "milk, espresso"}},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	menu := decode[models.Menu](t, w)

	assert.True(t, strings.HasPrefix(menu.CollectionName, "menu_items_"))
	assert.Equal(t, models.DefaultFont, menu.Customization.Font)
	assert.Equal(t, models.DefaultAccentColor, menu.Customization.Color.Accent)
	assert.Equal(t, models.BackgroundNone, menu.Customization.BackgroundImage.Display)
	assert.False(t, menu.IsPublished)

	items, err := ts.items.List(context.Background(), menu.CollectionName)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.StringList{"milk", "espresso"}, items[0].Ingredients)
}

func TestAddItemsRequiresName(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")
	menu := ts.createMenu(t, token, "Cafe")

	w := ts.do(http.MethodPost, "/api/menus/"+menu.ID.Hex()+"/items", gin.H{"items": []gin.H{{"name": "  ", "price": 1}}}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/menus/"+menu.ID.Hex()+"/items", gin.H{"items": []gin.H{}}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownMenuIs404(t *testing.T) {
	ts := newTestServer(t, stubPinger{})

	w := ts.do(http.MethodGet, "/api/menus/"+primitive.NewObjectID().Hex(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/menus/not-an-id/items", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOtherUsersMenuLooksMissing(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	owner := ts.register(t, "joe")
	intruder := ts.register(t, "eve")
	menu := ts.createMenu(t, owner, "Cafe")

	w := ts.do(http.MethodPut, "/api/menus/"+menu.ID.Hex(), gin.H{"name": "Mine now"}, intruder)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodPost, "/api/menus/"+menu.ID.Hex()+"/items", gin.H{"name": "Soup"}, intruder)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/menus", nil, intruder)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Menu](t, w))
}

func TestUpdateMenuAndItem(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")
	menu := ts.createMenu(t, token, "Cafe")

	w := ts.do(http.MethodPut, "/api/menus/"+menu.ID.Hex(), gin.H{
		"name":          "Corner Cafe",
		"customization": gin.H{"font": "Georgia", "color": gin.H{"accent": "#ff0000"}},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Menu](t, w)
	assert.Equal(t, "Corner Cafe", updated.Name)
	assert.Equal(t, "Georgia", updated.Customization.Font)
	assert.Equal(t, "#ff0000", updated.Customization.Color.Accent)
	assert.Equal(t, models.DefaultTextColor, updated.Customization.Color.Text)

	w = ts.do(http.MethodPost, "/api/menus/"+menu.ID.Hex()+"/items", gin.H{"name": "Tea", "price": 2}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	item := decode[[]models.MenuItem](t, w)[0]

	w = ts.do(http.MethodPut, "/api/menus/"+menu.ID.Hex()+"/items/"+item.ID.Hex(), gin.H{"price": "2.75", "isVegetarian": true}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	changed := decode[models.MenuItem](t, w)
	assert.Equal(t, "Tea", changed.Name)
	assert.Equal(t, 2.75, changed.Price)
	assert.True(t, changed.IsVegetarian)

	w = ts.do(http.MethodPut, "/api/menus/"+menu.ID.Hex()+"/items/"+primitive.NewObjectID().Hex(), gin.H{"price": 1}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublishAllocatesSubdomainsFromName(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")
	first := ts.createMenu(t, token, "Joe's Diner")
	second := ts.createMenu(t, token, "Joe's Diner")

	w := ts.do(http.MethodPost, "/api/menus/"+first.ID.Hex()+"/publish", gin.H{"isPublished": true}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	published := decode[models.Menu](t, w)
	assert.True(t, published.IsPublished)
	assert.Equal(t, "joe-s-diner", published.SubdomainValue())

	w = ts.do(http.MethodPost, "/api/menus/"+second.ID.Hex()+"/publish", gin.H{"isPublished": true}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "joe-s-diner-1", decode[models.Menu](t, w).SubdomainValue())

	w = ts.do(http.MethodPost, "/api/menus/"+first.ID.Hex()+"/publish", gin.H{"isPublished": false}, token)
	require.Equal(t, http.StatusOK, w.Code)
	unpublished := decode[models.Menu](t, w)
	assert.False(t, unpublished.IsPublished)
	assert.Equal(t, "joe-s-diner", unpublished.SubdomainValue())
}

func TestPublishAcceptsEmptyAndChunkedBodies(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")
	menu := ts.createMenu(t, token, "Cafe")
	path := "/api/menus/" + menu.ID.Hex() + "/publish"

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, io.NopCloser(strings.NewReader(body)))
		req.ContentLength = -1
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		ts.engine.ServeHTTP(w, req)
		return w
	}

	w := send("")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	published := decode[models.Menu](t, w)
	assert.True(t, published.IsPublished)
	assert.Equal(t, "cafe", published.SubdomainValue())

	w = send(`{"isPublished":false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[models.Menu](t, w).IsPublished)

	w = ts.do(http.MethodPost, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[models.Menu](t, w).IsPublished)

	w = send(`{"isPublished":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetSubdomain(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")
	first := ts.createMenu(t, token, "Cafe")
	second := ts.createMenu(t, token, "Bistro")

	w := ts.do(http.MethodPost, "/api/menus/"+first.ID.Hex()+"/subdomain", gin.H{"subdomain": "My Cafe!"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "my-cafe", decode[models.Menu](t, w).SubdomainValue())

	w = ts.do(http.MethodPost, "/api/menus/"+second.ID.Hex()+"/subdomain", gin.H{"subdomain": "my-cafe"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(http.MethodPost, "/api/menus/"+second.ID.Hex()+"/subdomain", gin.H{"subdomain": "!!!"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/menus/"+second.ID.Hex()+"/subdomain", gin.H{"subdomain": "www"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/menus/"+first.ID.Hex()+"/subdomain", gin.H{"subdomain": "my-cafe"}, token)
	assert.Equal(t, http.StatusOK, w.Code, "re-assigning a menu its own subdomain is allowed")
}

func TestDeleteMenuDropsItsCollection(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")
	menu := ts.createMenu(t, token, "Cafe")

	w := ts.do(http.MethodPost, "/api/menus/"+menu.ID.Hex()+"/items", gin.H{"name": "Tea"}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(http.MethodDelete, "/api/menus/"+menu.ID.Hex(), nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{menu.CollectionName}, ts.items.Dropped())

	w = ts.do(http.MethodGet, "/api/menus/"+menu.ID.Hex(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"menus":[]`)
}

func TestSubdomainHostServesPublishedMenu(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")
	menu := ts.createMenu(t, token, "Joe's Diner")
	ts.do(http.MethodPost, "/api/menus/"+menu.ID.Hex()+"/items", gin.H{"name": "Burger", "price": 8.5, "category": "Mains"}, token)

	get := func(host, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Host = host
		w := httptest.NewRecorder()
		ts.engine.ServeHTTP(w, req)
		return w
	}

	w := get("joe-s-diner.localhost:3001", "/")
	assert.Equal(t, http.StatusNotFound, w.Code, "not published yet")

	w = ts.do(http.MethodPost, "/api/menus/"+menu.ID.Hex()+"/publish", gin.H{"isPublished": true}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = get("joe-s-diner.localhost:3001", "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Burger")
	assert.Contains(t, w.Body.String(), "8.50")

	w = get("unknown.localhost", "/")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Menu not found")

	w = get("joe-s-diner.localhost", "/api/menus/"+menu.ID.Hex())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	w = get("localhost:3001", "/")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestRenderEndpoint(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")
	menu := ts.createMenu(t, token, "Cafe")
	ts.do(http.MethodPost, "/api/menus/"+menu.ID.Hex()+"/items", gin.H{"name": "<b>Tea</b>"}, token)

	w := ts.do(http.MethodGet, "/api/menus/"+menu.ID.Hex()+"/render", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "&lt;b&gt;Tea&lt;/b&gt;")
}

func multipartBody(t *testing.T, field, filename string, content []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for key, value := range extra {
		require.NoError(t, mw.WriteField(key, value))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (ts *testServer) upload(path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func TestUploadImages(t *testing.T) {
	ts := newTestServer(t, stubPinger{})

	body, ct := multipartBody(t, "backgroundImage", "wall.PNG", []byte("\x89PNG fake"), nil)
	w := ts.upload("/api/upload-background", "", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	url := decode[map[string]string](t, w)["url"]
	assert.True(t, strings.HasPrefix(url, "/uploads/backgrounds/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	w = ts.do(http.MethodGet, url, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	body, ct = multipartBody(t, "itemImage", "virus.exe", []byte("MZ"), nil)
	w = ts.upload("/api/upload-item-image", "", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = multipartBody(t, "wrongField", "a.png", []byte("x"), nil)
	w = ts.upload("/api/upload-item-image", "", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadAvatarRecordsURL(t *testing.T) {
	ts := newTestServer(t, stubPinger{})
	token := ts.register(t, "joe")

	body, ct := multipartBody(t, "avatar", "me.jpg", []byte("jpeg"), nil)
	w := ts.upload("/api/upload-avatar", "", body, ct)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body, ct = multipartBody(t, "avatar", "me.jpg", []byte("jpeg"), nil)
	w = ts.upload("/api/upload-avatar", token, body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	url := decode[map[string]string](t, w)["url"]

	w = ts.do(http.MethodGet, "/api/users/me", nil, token)
	assert.Contains(t, w.Body.String(), url)
}

func TestExtractMenu(t *testing.T) {
	ts := newTestServer(t, stubPinger{})

	csv := "Item,Price,Category\nBurger,$8.50,Mains\n,3,Drinks\nCola,2,Drinks\n"
	body, ct := multipartBody(t, "file", "menu.csv", []byte(csv), nil)
	w := ts.upload("/api/extract-menu", "", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[struct {
		Items []models.MenuItem `json:"items"`
		Count int               `json:"count"`
	}](t, w)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"Burger", "Cola"}, itemNames(resp.Items))
	assert.Equal(t, 8.5, resp.Items[0].Price)

	body, ct = multipartBody(t, "file", "menu.pdf", []byte("%PDF"), nil)
	w = ts.upload("/api/extract-menu", "", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = multipartBody(t, "file", "photo.jpg", []byte("jpeg"), nil)
	w = ts.upload("/api/extract-menu", "", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body, ct = multipartBody(t, "file", "menu.csv", []byte(csv), map[string]string{"enrich": "maybe"})
	w = ts.upload("/api/extract-menu", "", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFoodData(t *testing.T) {
	ts := newTestServer(t, stubPinger{})

	w := ts.do(http.MethodGet, "/api/food-data/burger", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode[extract.FoodData](t, w)
	assert.Equal(t, "https://img.example/burger.jpg", data.Image)
	assert.Equal(t, []string{"bread", "beef"}, data.Ingredients)
	assert.Equal(t, 550.0, data.Nutrition.Calories)
}

func TestHealth(t *testing.T) {
	w := newTestServer(t, stubPinger{}).do(http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = newTestServer(t, stubPinger{err: errors.New("down")}).do(http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	w := newTestServer(t, stubPinger{}).do(http.MethodOptions, "/api/menus", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
