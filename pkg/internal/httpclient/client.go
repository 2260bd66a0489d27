package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/internal/httpserver"
	"github.com/labstack/echo/v4"
)

type EchoError struct {
	Message string `json:"message"`
}

// Context carries the identity headers one service forwards to another.
type Context struct {
	RecruiterID string
	UserID      string
}

func (ctx *Context) ToHeaders() map[string]string {
	return map[string]string{
		httpserver.XHireflowRecruiterIdHeader: ctx.RecruiterID,
		httpserver.XHireflowUserIdHeader:      ctx.UserID,
	}
}

func FromEchoContext(c echo.Context) *Context {
	return &Context{
		RecruiterID: c.Request().Header.Get(httpserver.XHireflowRecruiterIdHeader),
		UserID:      c.Request().Header.Get(httpserver.XHireflowUserIdHeader),
	}
}

func DoRequest(method, url string, headers map[string]string, payload []byte, v interface{}) error {
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	for k, val := range headers {
		req.Header.Add(k, val)
	}
	t := http.DefaultTransport.(*http.Transport)
	t.MaxIdleConns = 100
	t.MaxConnsPerHost = 100
	t.MaxIdleConnsPerHost = 100
	client := http.Client{
		Timeout:   15 * time.Second,
		Transport: t,
	}
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		d, err := io.ReadAll(res.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		var echoerr EchoError
		if jserr := json.Unmarshal(d, &echoerr); jserr == nil && echoerr.Message != "" {
			return errors.New(echoerr.Message)
		}

		return fmt.Errorf("http status: %d: %s", res.StatusCode, d)
	}
	if v == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(v)
}
