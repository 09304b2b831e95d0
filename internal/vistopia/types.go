package vistopia

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// flexString decodes a JSON value that may arrive as a string, a number, or
// null. The API is not consistent about identifier types across endpoints.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}

// envelope is the wrapper every API response shares.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// ContentItem is one catalog entry. Raw preserves the full remote document;
// the typed fields are the only ones the pipeline itself reads.
type ContentItem struct {
	ContentID         string
	ArticleUpdateTime string
	Raw               json.RawMessage
}

func (c *ContentItem) UnmarshalJSON(b []byte) error {
	var probe struct {
		ContentID         flexString `json:"content_id"`
		ArticleUpdateTime flexString `json:"article_update_time"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	c.ContentID = string(probe.ContentID)
	c.ArticleUpdateTime = string(probe.ArticleUpdateTime)
	c.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// ContentPage is one page of the catalog listing.
type ContentPage struct {
	Items    []ContentItem
	LastPage int
}

func (p *ContentPage) UnmarshalJSON(b []byte) error {
	var probe struct {
		Data     []ContentItem `json:"data"`
		LastPage flexString    `json:"last_page"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	p.Items = probe.Data
	if probe.LastPage != "" {
		n, err := strconv.Atoi(string(probe.LastPage))
		if err == nil {
			p.LastPage = n
		}
	}
	return nil
}

// ArticleSummary is one entry of a content item's article list.
type ArticleSummary struct {
	ArticleID string
}

func (a *ArticleSummary) UnmarshalJSON(b []byte) error {
	var probe struct {
		ArticleID flexString `json:"article_id"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	a.ArticleID = string(probe.ArticleID)
	return nil
}

// Part is one "part" document of an article's section detail.
type Part struct {
	PartID string
	Raw    json.RawMessage
}

func (p *Part) UnmarshalJSON(b []byte) error {
	var probe struct {
		PartID flexString `json:"part_id"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	p.PartID = string(probe.PartID)
	p.Raw = append(json.RawMessage(nil), b...)
	return nil
}
