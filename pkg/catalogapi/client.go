package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// errSuperseded is the cancellation cause recorded when a newer request takes the slot.
var errSuperseded = errors.New("superseded")

// Options configures a Client.
type Options struct {
	BaseURL  string
	PageSize int
	Timeout  time.Duration
	Debug    bool
}

// Client talks to the REST endpoints of one entity kind. All list, save and
// delete calls share a single cancellation slot: starting one aborts whichever
// of them is still open.
type Client[T catalog.Entity] struct {
	http     *resty.Client
	desc     catalog.Descriptor[T]
	pageSize int

	mu     sync.Mutex
	cancel context.CancelCauseFunc
	seq    uint64
}

func New[T catalog.Entity](desc catalog.Descriptor[T], opts Options) (*Client[T], error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("base URL for %s is required", desc.Plural)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = catalog.DefaultPageSize
	}
	return &Client[T]{
		http:     buildHTTPClient(opts),
		desc:     desc,
		pageSize: opts.PageSize,
	}, nil
}

// buildHTTPClient creates the resty client. Retries stay disabled: the user
// re-triggers failed actions.
func buildHTTPClient(opts Options) *resty.Client {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader(RequestIDHeader, uuid.NewString())
		return nil
	})
	if opts.Debug {
		client.SetDebug(true)
	}
	return client
}

func (c *Client[T]) Descriptor() catalog.Descriptor[T] {
	return c.desc
}

// begin aborts the open request, if any, and takes the slot for a new one.
// The returned release func frees the slot only if nothing newer took it.
func (c *Client[T]) begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel(errSuperseded)
	}
	c.cancel = cancel
	c.seq++
	seq := c.seq
	c.mu.Unlock()
	return ctx, func() {
		c.mu.Lock()
		if c.seq == seq {
			c.cancel = nil
		}
		c.mu.Unlock()
		cancel(context.Canceled)
	}
}

func superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), errSuperseded)
}

// List fetches one page. A call aborted by a newer request resolves to the
// 499 sentinel page with a nil error.
func (c *Client[T]) List(ctx context.Context, page int, sort catalog.Sort) (*catalog.Page[T], error) {
	log := logger.FromContext(ctx)
	reqCtx, release := c.begin(ctx)
	defer release()

	resp, err := c.http.R().
		SetContext(reqCtx).
		SetQueryParams(map[string]string{
			"page":      strconv.Itoa(page),
			"limit":     strconv.Itoa(c.pageSize),
			"sortorder": string(sort.Column),
			"sortAsc":   strconv.FormatBool(sort.Ascending),
		}).
		Get(c.desc.Path())
	if superseded(reqCtx) {
		log.Debug("List request superseded", "entity", c.desc.Name, "page", page)
		return catalog.CancelledPage[T](), nil
	}
	if err != nil {
		return nil, &NetworkError{Op: "list " + c.desc.Plural, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &RequestFailedError{
			Entity:     c.desc.Title,
			StatusCode: resp.StatusCode(),
			StatusText: statusText(resp),
		}
	}

	result := catalog.EmptyPage[T]()
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		log.Warn("List response was not a page document", "entity", c.desc.Name, "error", err)
		result = catalog.EmptyPage[T]()
	}
	if result.Items == nil {
		result.Items = []T{}
	}
	result.Status = resp.StatusCode()
	log.Debug("List request completed", "entity", c.desc.Name, "page", page, "items", len(result.Items))
	return result, nil
}

// Save creates the entity when it has no id and updates it otherwise.
func (c *Client[T]) Save(ctx context.Context, entity T) error {
	log := logger.FromContext(ctx)
	reqCtx, release := c.begin(ctx)
	defer release()

	req := c.http.R().SetContext(reqCtx).SetBody(entity)
	var (
		resp *resty.Response
		err  error
	)
	if catalog.IsNew(entity) {
		resp, err = req.Post(c.desc.Path())
	} else {
		resp, err = req.Put(c.desc.ItemPath(entity.GetID()))
	}
	if superseded(reqCtx) {
		return fmt.Errorf("save %s %q: %w", c.desc.Name, entity.DisplayName(), ErrCancelled)
	}
	if err != nil {
		return &NetworkError{Op: "save " + c.desc.Name, Err: err}
	}
	if !resp.IsSuccess() {
		return &SaveFailedError{
			Entity:     c.desc.Name,
			ID:         entity.GetID(),
			Name:       entity.DisplayName(),
			StatusCode: resp.StatusCode(),
		}
	}
	log.Debug("Save request completed", "entity", c.desc.Name, "id", entity.GetID(), "status", resp.StatusCode())
	return nil
}

func (c *Client[T]) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	reqCtx, release := c.begin(ctx)
	defer release()

	resp, err := c.http.R().SetContext(reqCtx).Delete(c.desc.ItemPath(id))
	if superseded(reqCtx) {
		return fmt.Errorf("delete %s %s: %w", c.desc.Name, id, ErrCancelled)
	}
	if err != nil {
		return &NetworkError{Op: "delete " + c.desc.Name, Err: err}
	}
	if !resp.IsSuccess() {
		return &DeleteFailedError{Entity: c.desc.Name, ID: id, StatusCode: resp.StatusCode()}
	}
	log.Debug("Delete request completed", "entity", c.desc.Name, "id", id)
	return nil
}

// Version reads the backend's version endpoint. It does not take the
// cancellation slot.
func (c *Client[T]) Version(ctx context.Context) (string, error) {
	resp, err := c.http.R().SetContext(ctx).SetHeader("Accept", "application/json, text/plain").Get(c.desc.VersionPath())
	if err != nil {
		return "", &NetworkError{Op: "version " + c.desc.Name, Err: err}
	}
	if !resp.IsSuccess() {
		return "", &RequestFailedError{
			Entity:     c.desc.Title + " version",
			StatusCode: resp.StatusCode(),
			StatusText: statusText(resp),
		}
	}
	return parseVersion(resp.Body()), nil
}

func parseVersion(body []byte) string {
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		if v := parsed.Get("version"); v.Exists() {
			return v.String()
		}
		if parsed.Type == gjson.String {
			return parsed.String()
		}
	}
	return strings.TrimSpace(string(body))
}

func statusText(resp *resty.Response) string {
	code := resp.StatusCode()
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status(), strconv.Itoa(code)))
	if text == "" {
		text = http.StatusText(code)
	}
	return text
}
