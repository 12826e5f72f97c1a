package server

import (
	"net/url"
	"strconv"
)

const (
	actionLogPerPage    = 25
	actionLogMaxPerPage = 100
)

// actionLogQuery selects one page of a table's audit log.
type actionLogQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PerPage  int    `form:"per_page" binding:"omitempty,min=1"`
	UserID   string `form:"user_id" binding:"omitempty,max=64"`
	Action   string `form:"action" binding:"omitempty,oneof=fold check call bet raise"`
	Rejected bool   `form:"rejected"`
}

func (q actionLogQuery) normalized() actionLogQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = actionLogPerPage
	}
	if q.PerPage > actionLogMaxPerPage {
		q.PerPage = actionLogMaxPerPage
	}
	return q
}

func (q actionLogQuery) offset() int {
	return (q.Page - 1) * q.PerPage
}

// link keeps the filters and moves to page.
func (q actionLogQuery) link(tableID string, page int) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("per_page", strconv.Itoa(q.PerPage))
	if q.UserID != "" {
		values.Set("user_id", q.UserID)
	}
	if q.Action != "" {
		values.Set("action", q.Action)
	}
	if q.Rejected {
		values.Set("rejected", "true")
	}
	return "/tables/" + url.PathEscape(tableID) + "/actions?" + values.Encode()
}

type actionLogPage struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"total_pages"`
	PrevURL    string `json:"prev_url,omitempty"`
	NextURL    string `json:"next_url,omitempty"`
}

func buildActionLogPage(tableID string, q actionLogQuery, total int64) actionLogPage {
	q = q.normalized()
	totalPages := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	if totalPages == 0 {
		totalPages = 1
	}
	if q.Page > totalPages {
		q.Page = totalPages
	}
	page := actionLogPage{
		Page:       q.Page,
		PerPage:    q.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}
	if q.Page > 1 {
		page.PrevURL = q.link(tableID, q.Page-1)
	}
	if q.Page < totalPages {
		page.NextURL = q.link(tableID, q.Page+1)
	}
	return page
}
