package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RowRange is a zero-based inclusive [From, To] pair selecting a
// contiguous page of ordered rows.
type RowRange struct {
	From int
	To   int
}

// SelectOptions shape a table read.
type SelectOptions struct {
	// Filter adds equality conditions, column -> value.
	Filter map[string]string
	// OrderBy names the ordering column; Descending flips the direction.
	OrderBy    string
	Descending bool
	// Range limits the read to a row range. Nil reads everything.
	Range *RowRange
	// ExactCount asks the gateway for the total row count regardless of
	// the range.
	ExactCount bool
	// Single asserts the query matches exactly one row and decodes it as
	// a bare object. Zero or multiple matches fail with ErrNoRows.
	Single bool
}

// Select reads rows from table into dest. With ExactCount set, the
// returned total is the full row count the gateway reported; otherwise
// it is -1.
func (c *Client) Select(ctx context.Context, token, table string, opts SelectOptions, dest any) (int, error) {
	q := url.Values{"select": {"*"}}
	for col, val := range opts.Filter {
		q.Set(col, "eq."+val)
	}
	if opts.OrderBy != "" {
		dir := "asc"
		if opts.Descending {
			dir = "desc"
		}
		q.Set("order", opts.OrderBy+"."+dir)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/"+table, q, token, nil)
	if err != nil {
		return -1, err
	}
	if opts.Range != nil {
		req.Header.Set("Range-Unit", "items")
		req.Header.Set("Range", fmt.Sprintf("%d-%d", opts.Range.From, opts.Range.To))
	}
	if opts.ExactCount {
		req.Header.Set("Prefer", "count=exact")
	}
	if opts.Single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}

	resp, err := c.do(req, dest)
	if err != nil {
		// The table API answers a failed single-object assertion with
		// 406, for zero matches and for many alike.
		if opts.Single && resp != nil && resp.StatusCode == http.StatusNotAcceptable {
			return -1, ErrNoRows
		}
		return -1, err
	}

	total := -1
	if opts.ExactCount {
		total = parseTotal(resp.Header.Get("Content-Range"))
	}
	return total, nil
}

// Insert adds one row to table.
func (c *Client) Insert(ctx context.Context, token, table string, row any) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/"+table, nil, token, row)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")
	_, err = c.do(req, nil)
	return err
}

// Update patches the row of table whose id column equals id.
func (c *Client) Update(ctx context.Context, token, table, id string, patch any) error {
	q := url.Values{"id": {"eq." + id}}
	req, err := c.newRequest(ctx, http.MethodPatch, "/rest/v1/"+table, q, token, patch)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")
	_, err = c.do(req, nil)
	return err
}

// Delete removes the row of table whose id column equals id.
func (c *Client) Delete(ctx context.Context, token, table, id string) error {
	q := url.Values{"id": {"eq." + id}}
	req, err := c.newRequest(ctx, http.MethodDelete, "/rest/v1/"+table, q, token, nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, nil)
	return err
}

// parseTotal extracts the total from a Content-Range header such as
// "0-9/57". An unknown total ("*") comes back as -1.
func parseTotal(contentRange string) int {
	_, totalPart, found := strings.Cut(contentRange, "/")
	if !found || totalPart == "*" {
		return -1
	}
	total, err := strconv.Atoi(totalPart)
	if err != nil {
		return -1
	}
	return total
}
