package store

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// one year, the preference outlives the browser session
const cookieMaxAge = 365 * 24 * 60 * 60

// CookieStore keeps each preference in a browser cookie named after its key
type CookieStore struct {
	ctx     *gin.Context
	secure  bool
	written map[string]string
}

func NewCookieStore(ctx *gin.Context, secure bool) *CookieStore {
	return &CookieStore{ctx: ctx, secure: secure, written: make(map[string]string)}
}

func (s *CookieStore) Get(key string) (string, bool, error) {
	// a value set during this request wins over the incoming cookie
	if value, ok := s.written[key]; ok {
		return value, true, nil
	}

	value, err := s.ctx.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (s *CookieStore) Set(key, value string) error {
	s.ctx.SetSameSite(http.SameSiteLaxMode)
	s.ctx.SetCookie(key, value, cookieMaxAge, "/", "", s.secure, true)
	s.written[key] = value

	return nil
}
