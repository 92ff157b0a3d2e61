package persist_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/identitykit/pkg/persist"
)

func newRequest(cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestCookieStoreGet(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := newRequest(&http.Cookie{Name: "__uas", Value: "encoded-access"})
	store := persist.NewCookieStore(w, r)

	got, err := store.Get("__uas")
	require.NoError(t, err)
	assert.Equal(t, "encoded-access", got)

	_, err = store.Get("__urs")
	assert.ErrorIs(t, err, persist.ErrSlotNotFound)
}

func TestCookieStoreSet(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	store := persist.NewCookieStore(w, newRequest())

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, store.Set(persist.Entry{
		Name:     "__ucs",
		Value:    "encoded-service",
		Expires:  expires,
		HttpOnly: true,
	}))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "__ucs", cookies[0].Name)
	assert.Equal(t, "encoded-service", cookies[0].Value)
	assert.Equal(t, "/", cookies[0].Path, "path defaults to the provider contract")
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure)
	assert.WithinDuration(t, expires, cookies[0].Expires, time.Second)
}

func TestCookieStoreSetVisibleWithinInvocation(t *testing.T) {
	t.Parallel()

	store := persist.NewCookieStore(httptest.NewRecorder(), newRequest())

	require.NoError(t, store.Set(persist.Entry{Name: "__uas", Value: "fresh"}))

	got, err := store.Get("__uas")
	require.NoError(t, err)
	assert.Equal(t, "fresh", got, "a write must be observable by a later read in the same invocation")
}

func TestCookieStoreDelete(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := newRequest(&http.Cookie{Name: "__urs", Value: "encoded-refresh"})
	store := persist.NewCookieStore(w, r)

	require.NoError(t, store.Delete("__urs"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "__urs", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge, "deletion is an already-expired cookie")
	assert.False(t, cookies[0].Expires.After(time.Unix(1, 0)))

	_, err := store.Get("__urs")
	assert.ErrorIs(t, err, persist.ErrSlotNotFound, "deleted slot must be gone for the rest of the invocation")
}

func TestCookieStoreNamesOrder(t *testing.T) {
	t.Parallel()

	r := newRequest(
		&http.Cookie{Name: "datr_es", Value: "x"},
		&http.Cookie{Name: "__uas", Value: "y"},
		&http.Cookie{Name: "datr", Value: "z"},
	)
	store := persist.NewCookieStore(httptest.NewRecorder(), r)

	assert.Equal(t, []string{"datr_es", "__uas", "datr"}, store.Names(), "enumeration follows request cookie order")

	require.NoError(t, store.Delete("datr"))
	assert.Equal(t, []string{"datr_es", "__uas"}, store.Names())
}

func TestCookieStoreOptions(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	store := persist.NewCookieStore(w, newRequest(),
		persist.WithDomain("example.com"),
		persist.WithSecure(true),
		persist.WithSameSite(http.SameSiteLaxMode),
	)

	require.NoError(t, store.Set(persist.Entry{Name: "__ucs", Value: "v"}))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "example.com", cookies[0].Domain)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestCookieStoreEmptyName(t *testing.T) {
	t.Parallel()

	store := persist.NewCookieStore(httptest.NewRecorder(), newRequest())

	assert.ErrorIs(t, store.Set(persist.Entry{}), persist.ErrEmptyName)
	assert.ErrorIs(t, store.Delete(""), persist.ErrEmptyName)
}
