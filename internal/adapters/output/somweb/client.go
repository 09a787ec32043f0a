package somweb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"somweb-bridge/internal/domain/model"
	"somweb-bridge/internal/ports"
)

const (
	requestTimeout = 15 * time.Second
	statusPollStep = time.Second

	statusClosedBody = "OK"
	statusOpenBody   = "FALSE"
)

var (
	// webtoken hidden input on the authenticated portal page.
	tokenPattern = regexp.MustCompile(`<input[^>]+id="webtoken"[^>]+value="([^"]+)"`)
	// door tab buttons, e.g. <input ... id="tab_1" ... value="Garage">.
	doorPattern = regexp.MustCompile(`id="tab_(\d+)"[^>]*value="([^"]*)"`)
)

// Client talks to the web portal of a single SOMweb unit.
type Client struct {
	baseURL       string
	username      string
	password      string
	travelTimeout time.Duration
	httpClient    *http.Client
	log           *zap.Logger
}

var _ ports.DeviceClient = (*Client)(nil)

func NewClient(cfg model.SomwebConfig, log *zap.Logger) *Client {
	base := cfg.URL
	if base == "" {
		base = fmt.Sprintf("https://%s.somweb.world", cfg.UDI)
	}
	return &Client{
		baseURL:       strings.TrimSuffix(base, "/"),
		username:      cfg.Username,
		password:      cfg.Password,
		travelTimeout: time.Duration(cfg.DoorTravelSeconds) * time.Second,
		httpClient:    &http.Client{Timeout: requestTimeout},
		log:           log.Named("somweb"),
	}
}

// Authenticate posts the login form and extracts the webtoken from the
// resulting page. A login failure lands back on the login page, which
// carries no webtoken.
func (c *Client) Authenticate(ctx context.Context) (ports.AuthResult, error) {
	form := url.Values{
		"login": {c.username},
		"pass":  {c.password},
		"send":  {"submit"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/index.php", strings.NewReader(form.Encode()))
	if err != nil {
		return ports.AuthResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.AuthResult{}, fmt.Errorf("%w: %v", ErrDeviceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.AuthResult{}, fmt.Errorf("%w: portal returned %d", ErrAuthenticationFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.AuthResult{}, fmt.Errorf("%w: %v", ErrDeviceUnreachable, err)
	}

	page := string(body)
	m := tokenPattern.FindStringSubmatch(page)
	if m == nil {
		return ports.AuthResult{}, fmt.Errorf("%w: no webtoken in response", ErrAuthenticationFailed)
	}

	return ports.AuthResult{Token: m[1], Page: page}, nil
}

// IsAlive probes the portal without touching the session.
func (c *Client) IsAlive(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/blank.html", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Doors parses the door tabs out of an authenticated portal page.
func (c *Client) Doors(page string) ([]model.Door, error) {
	matches := doorPattern.FindAllStringSubmatch(page, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no doors found on portal page")
	}

	doors := make([]model.Door, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		name := m[2]
		if name == "" {
			name = fmt.Sprintf("Door %d", id)
		}
		doors = append(doors, model.Door{ID: id, Name: name})
	}
	return doors, nil
}

func (c *Client) DoorStatus(ctx context.Context, doorID int) (model.DoorStatus, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/isg/statusDoor.php?numdoor=%d", c.baseURL, doorID))
	if err != nil {
		return model.StatusUnknown, fmt.Errorf("%w: %v", ErrStatusQuery, err)
	}

	switch strings.TrimSpace(body) {
	case statusClosedBody:
		return model.StatusClosed, nil
	case statusOpenBody:
		return model.StatusOpen, nil
	default:
		return model.StatusUnknown, fmt.Errorf("%w: unexpected body %q", ErrStatusQuery, strings.TrimSpace(body))
	}
}

func (c *Client) OpenDoor(ctx context.Context, token string, doorID int) error {
	return c.toggleDoor(ctx, token, doorID, 1)
}

func (c *Client) CloseDoor(ctx context.Context, token string, doorID int) error {
	return c.toggleDoor(ctx, token, doorID, 0)
}

// toggleDoor fires the door relay. status selects the target position
// (1 open, 0 close); the controller answers "OK" when the command is accepted.
func (c *Client) toggleDoor(ctx context.Context, token string, doorID, status int) error {
	u := fmt.Sprintf("%s/isg/opendoor.php?numdoor=%d&status=%d&webtoken=%s",
		c.baseURL, doorID, status, url.QueryEscape(token))

	body, err := c.get(ctx, u)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnreachable, err)
	}
	if strings.TrimSpace(body) != "OK" {
		return fmt.Errorf("%w: body %q", ErrCommandRejected, strings.TrimSpace(body))
	}
	return nil
}

// WaitForStatus polls the door until it reports target, bounded by the
// travel timeout and the caller's context.
func (c *Client) WaitForStatus(ctx context.Context, doorID int, target model.DoorStatus) bool {
	deadline := time.Now().Add(c.travelTimeout)
	ticker := time.NewTicker(statusPollStep)
	defer ticker.Stop()

	for {
		status, err := c.DoorStatus(ctx, doorID)
		if err == nil && status == target {
			return true
		}
		if time.Now().After(deadline) {
			c.log.Warn("timed out waiting for door state",
				zap.Int("door", doorID),
				zap.String("target", target.String()))
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("portal returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
