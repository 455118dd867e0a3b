package instagram

// Login and session cache handling. A successful password login dumps the
// session to disk so the next process start reconnects without credentials
// hitting the login endpoint again.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"insta-pilot/internal/infra/log"

	"go.uber.org/zap"
)

// SessionFile is the on-disk session cache format.
type SessionFile struct {
	Username  string    `json:"username"`
	AccountID string    `json:"account_id"`
	Token     string    `json:"token"`
	SavedAt   time.Time `json:"saved_at"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates the client. It first tries the cached session and
// falls back to a password login, persisting the fresh session on success.
// Returns *AuthError when neither path works.
func (c *Client) Login(ctx context.Context) error {
	if c.username == "" || c.password == "" {
		return &AuthError{Reason: "credentials not configured"}
	}

	if err := c.restoreSession(ctx); err == nil {
		log.LogSuccess("Connected via cached session", zap.String("username", c.username))
		return nil
	} else if !os.IsNotExist(err) {
		log.LogInfo("Cached session unusable, falling back to password login", zap.Error(err))
	}

	body := loginRequest{Username: c.username, Password: c.password}
	data, err := c.MakeRequest(ctx, http.MethodPost, "/accounts/login/", body)
	if err != nil {
		if IsAuthError(err) {
			return err
		}
		return &AuthError{Reason: "login request failed", Err: err}
	}

	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return &AuthError{Reason: "malformed login response", Err: err}
	}
	if resp.Status != "ok" || resp.Token == "" {
		return &AuthError{Reason: fmt.Sprintf("login rejected (status %q)", resp.Status)}
	}

	c.sessionToken = resp.Token
	c.accountID = resp.LoggedInUser.ID

	if err := c.dumpSession(); err != nil {
		// Session cache is an optimization; a write failure must not fail login.
		log.LogWarn("Failed to persist session cache", zap.Error(err))
	}

	log.LogSuccess("Connected via password login", zap.String("username", c.username))
	return nil
}

// restoreSession loads the cached session and validates it against the API.
func (c *Client) restoreSession(ctx context.Context) error {
	if c.sessionFile == "" {
		return os.ErrNotExist
	}

	data, err := os.ReadFile(c.sessionFile)
	if err != nil {
		return err
	}

	var sess SessionFile
	if err := json.Unmarshal(data, &sess); err != nil {
		return fmt.Errorf("failed to unmarshal session file: %w", err)
	}
	if sess.Token == "" || sess.Username != c.username {
		return fmt.Errorf("session file does not match account %q", c.username)
	}

	c.sessionToken = sess.Token
	c.accountID = sess.AccountID

	// Cheap call to prove the session is still live.
	if _, err := c.currentUser(ctx); err != nil {
		c.sessionToken = ""
		c.accountID = ""
		return fmt.Errorf("cached session invalid: %w", err)
	}

	return nil
}

// dumpSession writes the current session to the cache file.
func (c *Client) dumpSession() error {
	if c.sessionFile == "" {
		return nil
	}

	sess := SessionFile{
		Username:  c.username,
		AccountID: c.accountID,
		Token:     c.sessionToken,
		SavedAt:   time.Now(),
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(c.sessionFile, data, 0600); err != nil {
		return fmt.Errorf("failed to save session file: %w", err)
	}
	return nil
}

func (c *Client) currentUser(ctx context.Context) (*Account, error) {
	data, err := c.MakeRequest(ctx, http.MethodGet, "/accounts/current_user/", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		User   Account `json:"user"`
		Status string  `json:"status"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal current user: %w", err)
	}

	if c.accountID == "" {
		c.accountID = resp.User.ID
	}
	return &resp.User, nil
}
