// internal/clients/client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"bunkhaus/internal/inventory"
	"bunkhaus/internal/membership"
)

// Client is a typed HTTP client for the bunkhaus API, used by
// integration tests and scripting against a running server.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: http.DefaultClient}
}

// SetToken attaches a session token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: unexpected status code: %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) CreateProperty(ctx context.Context, req inventory.CreatePropertyRequest) (*inventory.Property, error) {
	var p inventory.Property
	if err := c.do(ctx, http.MethodPost, "/properties", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetProperty(ctx context.Context, id string) (*inventory.Property, error) {
	var p inventory.Property
	if err := c.do(ctx, http.MethodGet, "/properties/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListProperties(ctx context.Context) ([]inventory.Property, error) {
	var out []inventory.Property
	if err := c.do(ctx, http.MethodGet, "/properties", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetBedOccupancy(ctx context.Context, path inventory.BedPath, occupied bool) error {
	payload := struct {
		inventory.BedPath
		Occupied bool `json:"occupied"`
	}{BedPath: path, Occupied: occupied}
	return c.do(ctx, http.MethodPost, "/occupancy", payload, nil)
}

func (c *Client) AddMember(ctx context.Context, m membership.Member) (*membership.Member, error) {
	var out membership.Member
	if err := c.do(ctx, http.MethodPost, "/members", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveMember(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/members/"+id, nil, nil)
}

func (c *Client) RecordPayment(ctx context.Context, id string, record membership.PaymentRecord) (*membership.Member, error) {
	var out membership.Member
	if err := c.do(ctx, http.MethodPost, "/members/"+id+"/payments", record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMemberStatuses(ctx context.Context, query string) ([]membership.MemberStatus, error) {
	path := "/members"
	if query != "" {
		path += "?" + query
	}
	var out []membership.MemberStatus
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReconcileMembers(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/members/reconcile", nil, nil)
}
