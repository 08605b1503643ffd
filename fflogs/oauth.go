package fflogs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// tokenSource fetches client credential tokens and keeps one until it
// expires or Reset is called.
type tokenSource struct {
	httpClient *http.Client
	tokenURL   string

	clientID     string
	clientSecret string

	headerLock    sync.Mutex
	headerValue   string
	headerExpires time.Time
}

func (c *tokenSource) Reset() {
	c.headerLock.Lock()
	c.headerValue = ""
	c.headerLock.Unlock()
}

func (c *tokenSource) header(ctx context.Context) (string, error) {
	c.headerLock.Lock()
	defer c.headerLock.Unlock()

	now := time.Now()
	if c.headerValue != "" && now.Before(c.headerExpires) {
		return c.headerValue, nil
	}

	form := url.Values{
		"grant_type":    []string{"client_credentials"},
		"client_id":     []string{c.clientID},
		"client_secret": []string{c.clientSecret},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		c.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", errors.WithStack(err)
	}
	req.Header = http.Header{
		"Content-Type": []string{"application/x-www-form-urlencoded"},
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer resp.Body.Close()

	var token struct {
		Error       string `json:"error"`
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	err = jsoniter.NewDecoder(resp.Body).Decode(&token)
	if err != nil && err != io.EOF {
		return "", errors.WithStack(err)
	}
	if token.Error != "" {
		return "", errors.Wrap(ErrUnauthorized, token.Error)
	}
	if token.AccessToken == "" {
		return "", errors.Wrapf(ErrUnauthorized, "token endpoint returned %d", resp.StatusCode)
	}

	c.headerValue = fmt.Sprintf("Bearer %s", token.AccessToken)
	c.headerExpires = now.Add(time.Duration(token.ExpiresIn) * time.Second)

	return c.headerValue, nil
}
