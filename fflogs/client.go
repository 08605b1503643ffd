package fflogs

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"text/template"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"combatlog_check/cache"
	"combatlog_check/share"
	"combatlog_check/share/semaphore"
)

var (
	ErrUnauthorized = errors.New("log service rejected credentials")
	ErrNotFound     = errors.New("not found")
)

// RequestObserver is told the outcome of every request to the log service.
type RequestObserver interface {
	Request(status string)
}

type Options struct {
	ClientID     string
	ClientSecret string
	// scheme and host, e.g. https://www.warcraftlogs.com
	APIBase      string

	MaxRequests int
	MaxRetries  int
	RetryDelay  time.Duration

	// nil disables the disk cache
	Cache    *cache.Storage
	Observer RequestObserver

	HTTPClient *http.Client
}

type Client struct {
	httpClient *http.Client
	token      *tokenSource
	apiURL     string

	sema       *semaphore.Semaphore
	maxRetries int
	retryDelay time.Duration

	cache    *cache.Storage
	observer RequestObserver
}

func New(opt Options) *Client {
	httpClient := opt.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	base := strings.TrimSuffix(opt.APIBase, "/")

	c := &Client{
		httpClient: httpClient,
		token: &tokenSource{
			httpClient:   httpClient,
			tokenURL:     base + "/oauth/token",
			clientID:     opt.ClientID,
			clientSecret: opt.ClientSecret,
		},
		apiURL:     base + "/api/v2/client",
		sema:       semaphore.New(opt.MaxRequests),
		maxRetries: opt.MaxRetries,
		retryDelay: opt.RetryDelay,
		cache:      opt.Cache,
		observer:   opt.Observer,
	}
	if c.maxRetries < 1 {
		c.maxRetries = 3
	}
	if c.retryDelay == 0 {
		c.retryDelay = 3 * time.Second
	}

	return c
}

// CacheSalt returns what the disk cache should be salted with.
func CacheSalt() []string {
	return querySalt()
}

func (c *Client) observe(status string) {
	if c.observer != nil {
		c.observer.Request(status)
	}
}

func (c *Client) callGraphQL(ctx context.Context, tmpl *template.Template, tmplData interface{}, respData interface{}) error {
	var err error
	for i := 0; i < c.maxRetries; i++ {
		err = c.callGraphQLInner(ctx, tmpl, tmplData, respData)

		if err == nil {
			break
		}
		if share.IsContextClosedError(err) {
			return err
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("log service request failed")

		if i+1 < c.maxRetries {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return errors.WithStack(ctx.Err())
			}
		}
	}
	return err
}

func (c *Client) callGraphQLInner(ctx context.Context, tmpl *template.Template, tmplData interface{}, respData interface{}) error {
	var sb strings.Builder
	err := tmpl.Execute(&sb, tmplData)
	if err != nil {
		return errors.WithStack(err)
	}

	queryData := struct {
		Query string `json:"query"`
	}{
		Query: sb.String(),
	}

	var buf bytes.Buffer
	err = jsoniter.NewEncoder(&buf).Encode(&queryData)
	if err != nil {
		return errors.WithStack(err)
	}

	err = c.sema.Acquire(ctx)
	if err != nil {
		return err
	}
	defer c.sema.Release()

	authorization, err := c.token.header(ctx)
	if err != nil {
		c.observe("token_error")
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, &buf)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header = http.Header{
		"Authorization": []string{authorization},
		"Content-Type":  []string{"application/json; encoding=utf-8"},
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe("error")
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	c.observe(strconv.Itoa(resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		c.token.Reset()
		return errors.WithStack(ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("log service returned %s", resp.Status)
	}

	err = jsoniter.NewDecoder(resp.Body).Decode(respData)
	if err != io.EOF && err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func checkGraphQLErrors(list []graphQLError) error {
	if len(list) == 0 {
		return nil
	}

	msg := make([]string, len(list))
	for i, e := range list {
		msg[i] = e.Message
	}
	return errors.Errorf("graphql: %s", strings.Join(msg, "; "))
}
