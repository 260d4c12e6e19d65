package handler

import (
	"net/http"

	"github.com/deppfellow/names-api/internal/model"
	"github.com/deppfellow/names-api/internal/server"
	"github.com/deppfellow/names-api/internal/service"
	"github.com/deppfellow/names-api/internal/validation"
	"github.com/labstack/echo/v4"
)

// Client-facing messages of the name operations.
const (
	ConnectionOKMessage     = "Supabase connection successful"
	ConnectionFailedMessage = "Failed to connect to Supabase"
	NameSavedMessage        = "Name saved successfully!"
	SaveFailedMessage       = "Failed to save name"
	FetchFailedMessage      = "Failed to fetch names"
)

type TestConnectionResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type SaveNameResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

type GetNamesResponse struct {
	Names []model.NameRecord `json:"names"`
}

// NameHandler serves the /api name operations.
type NameHandler struct {
	Handler
	names *service.NameService
}

func NewNameHandler(s *server.Server, names *service.NameService) *NameHandler {
	return &NameHandler{
		Handler: NewHandler(s),
		names:   names,
	}
}

func newEmptyRequest() *validation.EmptyRequest { return &validation.EmptyRequest{} }

func newSaveNameRequest() *validation.SaveNameRequest { return &validation.SaveNameRequest{} }

// TestConnection serves GET /api/test: an exact count of the names table.
func (h *NameHandler) TestConnection() echo.HandlerFunc {
	return Handle(h.Handler, Operation[*validation.EmptyRequest, *TestConnectionResponse]{
		Name:           "test_connection",
		Status:         http.StatusOK,
		FailureMessage: ConnectionFailedMessage,
		NewRequest:     newEmptyRequest,
		Run: func(c echo.Context, _ *validation.EmptyRequest) (*TestConnectionResponse, error) {
			count, err := h.names.Count(c.Request().Context())
			if err != nil {
				return nil, err
			}
			return &TestConnectionResponse{Message: ConnectionOKMessage, Count: count}, nil
		},
	})
}

// SaveName serves POST /api/save-name.
func (h *NameHandler) SaveName() echo.HandlerFunc {
	return Handle(h.Handler, Operation[*validation.SaveNameRequest, *SaveNameResponse]{
		Name:           "save_name",
		Status:         http.StatusOK,
		FailureMessage: SaveFailedMessage,
		NewRequest:     newSaveNameRequest,
		Run: func(c echo.Context, req *validation.SaveNameRequest) (*SaveNameResponse, error) {
			saved, err := h.names.Save(c.Request().Context(), req.Normalized())
			if err != nil {
				return nil, err
			}
			return &SaveNameResponse{Message: NameSavedMessage, Name: saved.Name}, nil
		},
	})
}

// GetNames serves GET /api/get-names, newest first.
func (h *NameHandler) GetNames() echo.HandlerFunc {
	return Handle(h.Handler, Operation[*validation.EmptyRequest, *GetNamesResponse]{
		Name:           "get_names",
		Status:         http.StatusOK,
		FailureMessage: FetchFailedMessage,
		NewRequest:     newEmptyRequest,
		Run: func(c echo.Context, _ *validation.EmptyRequest) (*GetNamesResponse, error) {
			names, err := h.names.List(c.Request().Context())
			if err != nil {
				return nil, err
			}
			if names == nil {
				names = []model.NameRecord{}
			}
			return &GetNamesResponse{Names: names}, nil
		},
	})
}
