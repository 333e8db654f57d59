// Package client is a typed Go client for the hangman HTTP API.
//
// Authentication rides on the accessToken/refreshToken cookies the server
// sets. When a call comes back 401 the client refreshes once and retries
// the original request once; a second 401 is returned to the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/wfunc/hangman-game/internal/errors"
	"github.com/wfunc/hangman-game/internal/game"
	"github.com/wfunc/hangman-game/internal/middleware"
	"github.com/wfunc/hangman-game/internal/models"
	"github.com/wfunc/hangman-game/internal/service"
	"go.uber.org/zap"
)

const (
	apiPrefix   = "/api/v1"
	refreshPath = apiPrefix + "/auth/refresh"
)

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status int
	middleware.ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hangman api: %d %s (code %d)", e.Status, e.Message, e.Code)
}

// Has reports whether the server answered with code.
func (e *APIError) Has(code errors.ErrorCode) bool {
	return e.Code == code
}

// Client API客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. A cookie jar is
// installed if it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger 设置日志
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New 创建客户端
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

// SignUp 注册
func (c *Client) SignUp(ctx context.Context, req *service.SignUpRequest) (*service.AuthResponse, error) {
	var out service.AuthResponse
	return &out, c.call(ctx, http.MethodPost, "/auth/sign-up", req, &out)
}

// Login 登录
func (c *Client) Login(ctx context.Context, req *service.LoginRequest) (*service.AuthResponse, error) {
	var out service.AuthResponse
	return &out, c.call(ctx, http.MethodPost, "/auth/login", req, &out)
}

// Refresh rotates the token pair using the refresh cookie.
func (c *Client) Refresh(ctx context.Context) (*service.AuthResponse, error) {
	var out service.AuthResponse
	return &out, c.send(ctx, http.MethodPost, refreshPath, nil, &out)
}

// Logout 退出登录
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Me 当前用户
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	return &out, c.call(ctx, http.MethodGet, "/auth/me", nil, &out)
}

// StartGame 开始新游戏
func (c *Client) StartGame(ctx context.Context) (*game.View, error) {
	var out game.View
	return &out, c.call(ctx, http.MethodPost, "/games", nil, &out)
}

// ActiveGame 当前游戏
func (c *Client) ActiveGame(ctx context.Context) (*game.View, error) {
	var out game.View
	return &out, c.call(ctx, http.MethodGet, "/games/active", nil, &out)
}

// Game 查询游戏
func (c *Client) Game(ctx context.Context, id string) (*game.View, error) {
	var out game.View
	return &out, c.call(ctx, http.MethodGet, "/games/"+id, nil, &out)
}

// Guess 猜字母
func (c *Client) Guess(ctx context.Context, id, letter string) (*service.GuessResponse, error) {
	var out service.GuessResponse
	return &out, c.call(ctx, http.MethodPost, "/games/"+id+"/guess", &service.GuessRequest{Letter: letter}, &out)
}

// Hint 使用提示
func (c *Client) Hint(ctx context.Context, id string) (*service.HintResponse, error) {
	var out service.HintResponse
	return &out, c.call(ctx, http.MethodPost, "/games/"+id+"/hint", nil, &out)
}

// Surrender 认输
func (c *Client) Surrender(ctx context.Context, id string) (*game.View, error) {
	var out game.View
	return &out, c.call(ctx, http.MethodPost, "/games/"+id+"/surrender", nil, &out)
}

// History 游戏历史
func (c *Client) History(ctx context.Context, page, pageSize int) (*service.HistoryResponse, error) {
	var out service.HistoryResponse
	path := "/games?page=" + strconv.Itoa(page) + "&pageSize=" + strconv.Itoa(pageSize)
	return &out, c.call(ctx, http.MethodGet, path, nil, &out)
}

// Stats 个人统计
func (c *Client) Stats(ctx context.Context) (*game.UserStats, error) {
	var out game.UserStats
	return &out, c.call(ctx, http.MethodGet, "/stats", nil, &out)
}

// Leaderboard 排行榜
func (c *Client) Leaderboard(ctx context.Context) ([]game.LeaderboardEntry, error) {
	var out struct {
		Entries []game.LeaderboardEntry `json:"entries"`
	}
	err := c.call(ctx, http.MethodGet, "/leaderboard", nil, &out)
	return out.Entries, err
}

// AddWord 添加单词
func (c *Client) AddWord(ctx context.Context, req *service.AddWordRequest) (*models.Word, error) {
	var out models.Word
	return &out, c.call(ctx, http.MethodPost, "/words", req, &out)
}

// WordCount 词库数量
func (c *Client) WordCount(ctx context.Context) (int64, error) {
	var out struct {
		Count int64 `json:"count"`
	}
	err := c.call(ctx, http.MethodGet, "/words/count", nil, &out)
	return out.Count, err
}

// noRetry lists the endpoints where a 401 means bad credentials rather
// than an expired access token.
var noRetry = map[string]bool{
	"/auth/sign-up": true,
	"/auth/login":   true,
}

// call sends an API request, refreshing and retrying once on 401.
func (c *Client) call(ctx context.Context, method, path string, in, out interface{}) error {
	retry := !noRetry[path]
	path = apiPrefix + path
	err := c.send(ctx, method, path, in, out)
	if !retry || !isUnauthorized(err) {
		return err
	}

	c.log.Debug("Access token rejected, refreshing", zap.String("path", path))
	if _, rerr := c.Refresh(ctx); rerr != nil {
		c.log.Debug("Refresh failed", zap.Error(rerr))
		return err
	}
	return c.send(ctx, method, path, in, out)
}

func (c *Client) send(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &apiErr.ErrorResponse)
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusUnauthorized
}
