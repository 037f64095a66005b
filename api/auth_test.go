package api

import (
	"net/http"
	"net/url"
	"testing"

	"fintrack/client"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(env *testEnv) *gin.Engine {
	h := NewAuthHandler(env.deps)
	r := newEngine(nil)
	r.GET("/signin", h.SignInPage)
	r.POST("/signin", h.SignIn)
	r.GET("/signup", h.SignUpPage)
	r.POST("/signup", h.SignUp)
	return r
}

func TestAuthHandler_SignIn(t *testing.T) {
	env := newTestEnv(t, &stubUpstream{}, false)
	r := newAuthRouter(env)

	env.mock.ExpectBegin()
	env.mock.ExpectExec("INSERT INTO `sessions`").WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	w := postForm(r, "/signin", url.Values{"email": {"asha@example.com"}, "password": {"secret1"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	cookie := responseCookie(w, "fintrack_session")
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	id, err := env.deps.Cookie.Parse(cookie.Value)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestAuthHandler_SignIn_Invalid(t *testing.T) {
	env := newTestEnv(t, &stubUpstream{}, false)
	r := newAuthRouter(env)

	// 校验失败不请求远端也不写库
	w := postForm(r, "/signin", url.Values{"email": {"ab"}, "password": {"123"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email must be at least 3 characters")
	assert.Contains(t, w.Body.String(), "Password must be at least 6 characters")
	assert.Contains(t, w.Body.String(), `value="ab"`)
	assert.Nil(t, responseCookie(w, "fintrack_session"))
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestAuthHandler_SignIn_Rejected(t *testing.T) {
	up := &stubUpstream{loginErr: &client.APIError{Endpoint: "auth.login", StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}}
	env := newTestEnv(t, up, false)
	r := newAuthRouter(env)

	w := postForm(r, "/signin", url.Values{"email": {"asha@example.com"}, "password": {"wrongpass"}})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
	assert.NotContains(t, w.Body.String(), "wrongpass")
}

func TestAuthHandler_SignIn_UpstreamDown(t *testing.T) {
	up := &stubUpstream{loginErr: &client.APIError{Endpoint: "auth.login", StatusCode: http.StatusInternalServerError, Message: "stack trace"}}
	env := newTestEnv(t, up, false)
	r := newAuthRouter(env)

	w := postForm(r, "/signin", url.Values{"email": {"asha@example.com"}, "password": {"secret1"}})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Nil(t, responseCookie(w, "fintrack_session"))
}

func TestAuthHandler_SignUp(t *testing.T) {
	env := newTestEnv(t, &stubUpstream{}, false)
	r := newAuthRouter(env)

	w := postForm(r, "/signup", url.Values{
		"name":             {"Asha"},
		"email":            {"asha@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/signin", w.Header().Get("Location"))
	flash := responseCookie(w, flashCookie)
	require.NotNil(t, flash)
	msg, err := url.QueryUnescape(flash.Value)
	require.NoError(t, err)
	assert.Equal(t, "Account created, please sign in", msg)
}

func TestAuthHandler_SignUp_Errors(t *testing.T) {
	env := newTestEnv(t, &stubUpstream{}, false)
	r := newAuthRouter(env)

	// 两次密码不一致
	w := postForm(r, "/signup", url.Values{
		"name":             {"Asha"},
		"email":            {"asha@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret2"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), `value="secret1"`)

	// 远端提示用户已存在
	env.upstream.registerErr = &client.APIError{Endpoint: "auth.register", StatusCode: http.StatusConflict, Message: "User already exists"}
	w = postForm(r, "/signup", url.Values{
		"name":             {"Asha"},
		"email":            {"asha@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")
}

func TestAuthHandler_Logout(t *testing.T) {
	env := newTestEnv(t, &stubUpstream{}, false)
	h := NewAuthHandler(env.deps)
	r := newEngine(testSession())
	r.POST("/logout", h.Logout)

	env.mock.ExpectBegin()
	env.mock.ExpectExec("DELETE FROM `sessions`").
		WithArgs(testSessionID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	w := doRequest(r, http.MethodPost, "/logout", "", "")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/signin", w.Header().Get("Location"))
	cookie := responseCookie(w, "fintrack_session")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
	require.NoError(t, env.mock.ExpectationsWereMet())
}
