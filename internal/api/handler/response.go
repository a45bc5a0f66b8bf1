package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// envelope is the canonical response shape for all API endpoints:
// {code, success, message?, data?}.
type envelope struct {
	Code    int    `json:"code"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// pageInfo carries pagination totals for list endpoints.
type pageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// searchInfo echoes back the filters a list was produced with.
type searchInfo struct {
	Keyword string `json:"keyword,omitempty"`
	Status  string `json:"status,omitempty"`
	Date    string `json:"date,omitempty"`
}

// pagedData is the data payload of paginated responses:
// {pageInfo, searchInfo, pageData[]}.
type pagedData struct {
	PageInfo   pageInfo   `json:"pageInfo"`
	SearchInfo searchInfo `json:"searchInfo"`
	PageData   any        `json:"pageData"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Code: http.StatusOK, Success: true, Data: data})
}

func okMessage(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, envelope{Code: http.StatusOK, Success: true, Message: message, Data: data})
}

func created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, envelope{Code: http.StatusCreated, Success: true, Data: data})
}

func paged(c echo.Context, info pageInfo, search searchInfo, items any) error {
	return c.JSON(http.StatusOK, envelope{
		Code:    http.StatusOK,
		Success: true,
		Data:    pagedData{PageInfo: info, SearchInfo: search, PageData: items},
	})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Code: status, Success: false, Message: message})
}
