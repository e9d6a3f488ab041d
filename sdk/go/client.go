package zanatlisdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a minimal Zanatli HTTP API client.
type Client struct {
	BaseURL     string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// User represents an account (partial).
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	IsClient     bool   `json:"isClient"`
	IsContractor bool   `json:"isContractor"`
	ActiveRole   string `json:"activeRole"`
}

// Auth is the token-bearing response of register, login, and role changes.
type Auth struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Job represents a job (partial).
type Job struct {
	ID              string  `json:"id"`
	ClientID        string  `json:"clientId"`
	ContractorID    string  `json:"contractorId"`
	Description     string  `json:"description"`
	PreferredDate   string  `json:"preferredDate"`
	Status          string  `json:"status"`
	ResponseMessage *string `json:"responseMessage,omitempty"`
}

// ContractorProfile represents a searchable profile.
type ContractorProfile struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	FullName    string  `json:"fullName"`
	Services    string  `json:"services"`
	Location    string  `json:"location"`
	PriceLevel  int     `json:"priceLevel"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

// Message is one entry in a job conversation.
type Message struct {
	ID          string `json:"id"`
	JobID       string `json:"jobId"`
	SenderID    string `json:"senderId"`
	SenderEmail string `json:"senderEmail,omitempty"`
	Text        string `json:"text"`
	CreatedAt   string `json:"created_at"`
}

// Review is the single review a completed job may carry.
type Review struct {
	ID      string `json:"id"`
	JobID   string `json:"jobId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Photo is uploaded image metadata.
type Photo struct {
	ID          string `json:"id"`
	Type        int    `json:"type"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// ContractorPage is a page of search results.
type ContractorPage struct {
	Items    []ContractorProfile `json:"items"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, email, password string, isClient, isContractor bool) (Auth, error) {
	body := map[string]any{
		"email":        email,
		"password":     password,
		"isClient":     isClient,
		"isContractor": isContractor,
	}
	var resp Auth
	err := c.do(ctx, http.MethodPost, "v0/auth/register", body, &resp)
	if err == nil {
		c.BearerToken = resp.Token
	}
	return resp, err
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (Auth, error) {
	var resp Auth
	err := c.do(ctx, http.MethodPost, "v0/auth/login", map[string]any{"email": email, "password": password}, &resp)
	if err == nil {
		c.BearerToken = resp.Token
	}
	return resp, err
}

// BecomeContractor grants the contractor role and refreshes the token.
func (c *Client) BecomeContractor(ctx context.Context) (Auth, error) {
	var resp Auth
	err := c.do(ctx, http.MethodPost, "v0/users/me/contractor-role", nil, &resp)
	if err == nil {
		c.BearerToken = resp.Token
	}
	return resp, err
}

// SetActiveRole switches the active role and refreshes the token.
func (c *Client) SetActiveRole(ctx context.Context, role string) (Auth, error) {
	var resp Auth
	err := c.do(ctx, http.MethodPatch, "v0/users/me/active-role", map[string]any{"activeRole": role}, &resp)
	if err == nil {
		c.BearerToken = resp.Token
	}
	return resp, err
}

// SearchContractors queries profiles. Zero values are omitted.
func (c *Client) SearchContractors(ctx context.Context, search, location string, priceLevels []int, page, pageSize int) (ContractorPage, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if location != "" {
		q.Set("location", location)
	}
	if len(priceLevels) > 0 {
		parts := make([]string, len(priceLevels))
		for i, v := range priceLevels {
			parts[i] = strconv.Itoa(v)
		}
		q.Set("priceLevels", strings.Join(parts, ","))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	endpoint := "v0/contractors"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp ContractorPage
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// CreateJob requests a job from a contractor.
func (c *Client) CreateJob(ctx context.Context, contractorID, description, preferredDate string) (Job, error) {
	body := map[string]any{
		"contractorId":  contractorID,
		"description":   description,
		"preferredDate": preferredDate,
	}
	var resp Job
	err := c.do(ctx, http.MethodPost, "v0/jobs", body, &resp)
	return resp, err
}

// Jobs lists the jobs the active role sees.
func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	var resp []Job
	err := c.do(ctx, http.MethodGet, "v0/jobs", nil, &resp)
	return resp, err
}

// AcceptJob moves a pending job to Accepted.
func (c *Client) AcceptJob(ctx context.Context, jobID string) (Job, error) {
	var resp Job
	err := c.do(ctx, http.MethodPost, c.jobPath(jobID, "accept"), nil, &resp)
	return resp, err
}

// DeclineJob declines a pending job; the reason is mandatory.
func (c *Client) DeclineJob(ctx context.Context, jobID, reason string) (Job, error) {
	var resp Job
	err := c.do(ctx, http.MethodPost, c.jobPath(jobID, "decline"), map[string]any{"reason": reason}, &resp)
	return resp, err
}

// CompleteJob marks an accepted job completed.
func (c *Client) CompleteJob(ctx context.Context, jobID string) (Job, error) {
	var resp Job
	err := c.do(ctx, http.MethodPost, c.jobPath(jobID, "complete"), nil, &resp)
	return resp, err
}

// CreateReview reviews a completed job.
func (c *Client) CreateReview(ctx context.Context, jobID string, rating int, comment string) (Review, error) {
	var resp Review
	err := c.do(ctx, http.MethodPost, c.jobPath(jobID, "review"), map[string]any{"rating": rating, "comment": comment}, &resp)
	return resp, err
}

// SendMessage appends to a job conversation.
func (c *Client) SendMessage(ctx context.Context, jobID, text string) (Message, error) {
	var resp Message
	err := c.do(ctx, http.MethodPost, c.jobPath(jobID, "messages"), map[string]any{"text": text}, &resp)
	return resp, err
}

// Messages returns a job's conversation oldest first.
func (c *Client) Messages(ctx context.Context, jobID string) ([]Message, error) {
	var resp []Message
	err := c.do(ctx, http.MethodGet, c.jobPath(jobID, "messages"), nil, &resp)
	return resp, err
}

// DefaultPollInterval matches the web client's chat refresh cadence.
const DefaultPollInterval = 5 * time.Second

// PollMessages polls a job's conversation until ctx is cancelled, invoking fn
// whenever new messages appear. The first call delivers the current backlog.
func (c *Client) PollMessages(ctx context.Context, jobID string, interval time.Duration, fn func([]Message)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	seen := 0
	deliver := func() error {
		msgs, err := c.Messages(ctx, jobID)
		if err != nil {
			return err
		}
		if len(msgs) > seen {
			fn(msgs[seen:])
			seen = len(msgs)
		}
		return nil
	}
	if err := deliver(); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := deliver(); err != nil {
				return err
			}
		}
	}
}

// UploadJobPhoto attaches an image to a job.
func (c *Client) UploadJobPhoto(ctx context.Context, jobID, fileName, contentType string, data []byte) (Photo, error) {
	var resp Photo
	err := c.doMultipart(ctx, c.jobPath(jobID, "photos"), fileName, contentType, data, &resp)
	return resp, err
}

// UploadContractorPhoto uploads a profile (0) or portfolio (1) photo.
func (c *Client) UploadContractorPhoto(ctx context.Context, photoType int, fileName, contentType string, data []byte) (Photo, error) {
	var resp Photo
	endpoint := fmt.Sprintf("v0/contractors/me/photos?type=%d", photoType)
	err := c.doMultipart(ctx, endpoint, fileName, contentType, data, &resp)
	return resp, err
}

func (c *Client) doMultipart(ctx context.Context, endpoint, fileName, contentType string, data []byte, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base()+"/"+strings.TrimLeft(endpoint, "/"), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	return c.send(req, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base()+"/"+strings.TrimLeft(endpoint, "/"), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) jobPath(jobID, p string) string {
	return fmt.Sprintf("v0/jobs/%s/%s", url.PathEscape(jobID), strings.TrimLeft(p, "/"))
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
