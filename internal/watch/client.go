package watch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Adeoluwa12/chidibot/internal/domain"
	"github.com/Adeoluwa12/chidibot/internal/session"
)

// ErrSessionExpired means the portal rejected the session (401/403). The
// watcher reacts by running the interactive login again.
var ErrSessionExpired = errors.New("session expired")

// Payload is the fixed business payload sent with every referral fetch.
type Payload struct {
	Brand     string `json:"brand"`
	NPI       string `json:"npi"`
	PAPI      string `json:"papi"`
	State     string `json:"state"`
	TabStatus string `json:"tabStatus"`
	TaxID     string `json:"taxId"`
}

// Client fetches the referral list from the Availity proxy API.
type Client struct {
	http    *http.Client
	url     string
	payload Payload
}

func NewClient(url string, payload Payload) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		url:     url,
		payload: payload,
	}
}

type apiReferral struct {
	MemberName string `json:"memberName"`
	MemberID   string `json:"memberID"`
}

type apiResponse struct {
	Referrals []apiReferral `json:"referrals"`
}

// FetchReferrals runs one fetch with the given session. The session may be
// nil or stale; the portal answers that with 401/403, which comes back as
// ErrSessionExpired. Records are returned in the order the API reported them.
func (c *Client) FetchReferrals(ctx context.Context, sess *session.Session) ([]domain.Referral, error) {
	body, err := json.Marshal(c.payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	cookieHeader, token := "", ""
	if sess != nil {
		cookieHeader = sess.CookieHeader()
		token = sess.XSRFToken
	}
	req.Header.Set("Cookie", cookieHeader)
	req.Header.Set("X-XSRF-TOKEN", token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call referral API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: HTTP %d", ErrSessionExpired, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("referral API HTTP %d", resp.StatusCode)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode referral response: %w", err)
	}

	refs := make([]domain.Referral, 0, len(out.Referrals))
	for _, r := range out.Referrals {
		refs = append(refs, domain.Referral{
			MemberName: r.MemberName,
			MemberID:   r.MemberID,
		})
	}
	return refs, nil
}
