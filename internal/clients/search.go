package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rahul4902/blood-sub001/internal/model"
	"github.com/rahul4902/blood-sub001/internal/search"
)

type SearchClient struct{ c *Client }

func NewSearchClient(c *Client) *SearchClient { return &SearchClient{c: c} }

func (sc *SearchClient) Search(ctx context.Context, q search.Query) (search.Suggestions, error) {
	query := url.Values{}
	query.Set("q", q.Text)
	if q.LimitTests > 0 {
		query.Set("limitTests", strconv.Itoa(q.LimitTests))
	}
	if q.LimitPackages > 0 {
		query.Set("limitPackages", strconv.Itoa(q.LimitPackages))
	}

	var out search.Suggestions
	if err := sc.c.DoJSON(ctx, http.MethodGet, "/search", query, nil, nil, &out); err != nil {
		return search.Suggestions{}, err
	}
	setType(out.Tests, model.ItemTypeTest)
	setType(out.Packages, model.ItemTypePackage)
	return out, nil
}

// MostSearched accepts either a bare list or {"data": [...]}.
func (sc *SearchClient) MostSearched(ctx context.Context) ([]search.Suggestion, error) {
	var raw json.RawMessage
	if err := sc.c.DoJSON(ctx, http.MethodGet, "/search/most-searched", nil, nil, nil, &raw); err != nil {
		return nil, err
	}

	var list []search.Suggestion
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Data []search.Suggestion `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%s: decode most searched: %w", sc.c.Name, err)
	}
	return wrapped.Data, nil
}

func (sc *SearchClient) IncrementSearch(ctx context.Context, slug string) error {
	seg, err := segment(slug)
	if err != nil {
		return fmt.Errorf("%s: increment search: %w", sc.c.Name, err)
	}
	return sc.c.DoJSON(ctx, http.MethodPost, "/search/increment-search/"+seg, nil, nil, nil, nil)
}

func setType(list []search.Suggestion, typ model.ItemType) {
	for i := range list {
		if list[i].Type == "" {
			list[i].Type = typ
		}
	}
}
